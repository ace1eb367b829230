// Package database opens the Postgres pool and applies the schema.
package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pressly/goose/v3"

	// Register the pgx database/sql driver used by goose.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/JonMunkholm/brandadmin/internal/config"
	"github.com/JonMunkholm/brandadmin/internal/logging"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// prefixEnv is substituted into the migrations' table names.
const prefixEnv = "DB_TABLE_PREFIX"

var gooseMu sync.Mutex

// Connect opens a pool sized from cfg and checks it with a ping.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log := logging.FromContext(ctx)
	if name := Name(cfg.URL); name != "" {
		log.Info("connected to database", "name", name)
	} else {
		log.Info("connected to database")
	}
	return pool, nil
}

// Name returns the database name of a connection URL.
func Name(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Path, "/")
}

// Migrate applies the embedded migrations with tables named <prefix><table>.
// A Postgres advisory lock keeps concurrent instances from racing.
func Migrate(ctx context.Context, dsn, prefix string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open db for migrations: %w", err)
	}
	defer db.Close()

	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire migration connection: %w", err)
	}
	defer conn.Close()

	const lockSQL = "SELECT pg_advisory_lock(hashtext('brandadmin'), hashtext('migrations'))"
	const unlockSQL = "SELECT pg_advisory_unlock(hashtext('brandadmin'), hashtext('migrations'))"
	if _, err := conn.ExecContext(ctx, lockSQL); err != nil {
		return fmt.Errorf("acquire migration lock: %w", err)
	}
	defer func() {
		if _, err := conn.ExecContext(context.WithoutCancel(ctx), unlockSQL); err != nil {
			logging.FromContext(ctx).Warn("failed to release migration lock", "error", err)
		}
	}()

	return runMigrations(ctx, db, prefix)
}

func runMigrations(ctx context.Context, db *sql.DB, prefix string) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := os.Setenv(prefixEnv, prefix); err != nil {
		return fmt.Errorf("set table prefix: %w", err)
	}
	goose.SetBaseFS(migrationsFS)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}
