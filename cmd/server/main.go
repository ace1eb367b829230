package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"

	"github.com/JonMunkholm/brandadmin/internal/catalog"
	"github.com/JonMunkholm/brandadmin/internal/config"
	"github.com/JonMunkholm/brandadmin/internal/core"
	"github.com/JonMunkholm/brandadmin/internal/database"
	"github.com/JonMunkholm/brandadmin/internal/i18n"
	"github.com/JonMunkholm/brandadmin/internal/logging"
	"github.com/JonMunkholm/brandadmin/internal/logs"
	"github.com/JonMunkholm/brandadmin/internal/session"
	"github.com/JonMunkholm/brandadmin/internal/web"
	mw "github.com/JonMunkholm/brandadmin/internal/web/middleware"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"db_max_conns", cfg.Database.MaxConns,
		"table_prefix", cfg.Database.TablePrefix,
		"bulk_policy", cfg.Catalog.BulkPolicy,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	ctx := context.Background()

	if cfg.Database.MigrateOnStart {
		if err := database.Migrate(ctx, cfg.Database.URL, cfg.Database.TablePrefix); err != nil {
			slog.Error("failed to apply migrations", "error", err)
			os.Exit(1)
		}
	}

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		slog.Error("failed to parse redis URL", "error", err)
		os.Exit(1)
	}
	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()

	sessions := session.NewStore(rdb, cfg.Redis.SessionTTL)
	if err := sessions.Ping(ctx); err != nil {
		slog.Error("failed to reach session store", "error", err)
		os.Exit(1)
	}

	rates, err := mw.NewRateStore(rdb)
	if err != nil {
		slog.Error("failed to create rate limit store", "error", err)
		os.Exit(1)
	}

	translations, err := i18n.NewCatalog(cfg.Catalog.DefaultLanguage)
	if err != nil {
		slog.Error("failed to load translations", "error", err)
		os.Exit(1)
	}
	i18n.LoadDefaults(translations)

	policy, err := catalog.ParseBulkPolicy(cfg.Catalog.BulkPolicy)
	if err != nil {
		slog.Error("invalid bulk policy", "error", err)
		os.Exit(1)
	}

	logos := catalog.NewLogoStore(afero.NewOsFs(), catalog.LogoConfig{
		Dir:         cfg.Catalog.ImageDir,
		MaxSize:     cfg.Catalog.UploadMaxSize,
		MemoryLimit: cfg.Catalog.ImageMemoryLimit,
	})
	logRepo := logs.NewRepository(pool, cfg.Database.TablePrefix)
	store := catalog.NewStore(pool, logos, logs.NewRecorder(pool, cfg.Database.TablePrefix), catalog.Options{
		TablePrefix:         cfg.Database.TablePrefix,
		BulkPolicy:          policy,
		MaxConcurrentImages: cfg.Catalog.ImageMaxConcurrent,
		MaxImageWait:        cfg.Catalog.ImageMaxWait,
	})

	bus := core.NewBus()
	store.Register(bus)
	slog.Debug("bus ready", "handlers", bus.Names())

	server, err := web.NewServer(cfg, web.Deps{
		Bus:       bus,
		Brands:    store.ManufacturerGrid(cfg.Catalog.PageSize),
		Addresses: store.AddressGrid(cfg.Catalog.PageSize),
		Logs:      logRepo,
		Sessions:  sessions,
		I18n:      translations,
		Settings: core.StaticSettings{
			core.SettingDisplayManufacturers: cfg.Catalog.DisplayManufacturers,
			core.SettingStockManagement:      cfg.Catalog.StockManagement,
		},
		Logos:     logos.Handler(),
		RateStore: rates,
	})
	if err != nil {
		slog.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	jobCtx, cancelJobs := context.WithCancel(context.Background())
	go logs.StartRetention(jobCtx, logRepo, logs.RetentionConfig{
		RetentionDays: cfg.Logs.RetentionDays,
		CheckInterval: cfg.Logs.CheckInterval,
	})

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := store.WaitForImages(shutdownCtx); err != nil {
			slog.Warn("logo uploads did not complete in time", "error", err)
		}
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}
