// Package config provides centralized configuration management for the brand
// admin service. Settings come from environment variables with defaults and
// are validated on startup so misconfiguration fails fast.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
	Catalog  CatalogConfig
	Logs     LogsConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`

	// HelpURL is the documentation link shown on the brand listing.
	HelpURL string `env:"SERVER_HELP_URL" default:"https://docs.prestashop-project.org/1.7-documentation/user-guide/selling/managing-catalog/managing-brands"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string (required)
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL" required:"true"`

	MaxConns        int           `env:"DB_MAX_CONNS" default:"20"`
	MinConns        int           `env:"DB_MIN_CONNS" default:"4"`
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`

	// TablePrefix is prepended to every table name (default: ps_)
	TablePrefix string `env:"DB_TABLE_PREFIX" default:"ps_"`

	// MigrateOnStart applies pending migrations before serving (default: true)
	MigrateOnStart bool `env:"DB_MIGRATE_ON_START" default:"true"`
}

// RedisConfig holds the session store connection.
type RedisConfig struct {
	URL string `env:"REDIS_URL" default:"redis://localhost:6379/0"`

	// SessionTTL is how long an idle admin session survives (default: 2h)
	SessionTTL time.Duration `env:"SESSION_TTL" default:"2h"`
}

// RateLimitConfig holds rate limiting settings.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// ExportLimit is requests per minute for CSV export endpoints (default: 10)
	ExportLimit int `env:"RATE_LIMIT_EXPORT" default:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// RequireAPIKey guards every route with X-API-Key (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted keys
	APIKeys []string `env:"API_KEYS"`

	// Permissions granted to the acting employee: read, create, update, delete
	Permissions []string `env:"EMPLOYEE_PERMISSIONS" default:"read,create,update,delete"`

	// EmployeeID identifies the acting employee in the activity log (default: 1)
	EmployeeID int `env:"EMPLOYEE_ID" default:"1"`

	// DemoMode disables destructive actions (default: false)
	DemoMode bool `env:"DEMO_MODE" default:"false"`

	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// SecureCookies marks the session cookie Secure; enable behind HTTPS (default: false)
	SecureCookies bool `env:"SECURITY_SECURE_COOKIES" default:"false"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// CatalogConfig holds brand catalog settings.
type CatalogConfig struct {
	// DisplayManufacturers mirrors the shop preference that shows brands on the storefront.
	DisplayManufacturers bool `env:"CATALOG_DISPLAY_MANUFACTURERS" default:"true"`

	// StockManagement enables quantity columns on the brand view.
	StockManagement bool `env:"CATALOG_STOCK_MANAGEMENT" default:"true"`

	// ImageDir is where brand logos are stored (default: img/m)
	ImageDir string `env:"CATALOG_IMAGE_DIR" default:"img/m"`

	// UploadMaxSize is the largest accepted logo in bytes (default: 8MB)
	UploadMaxSize int64 `env:"CATALOG_UPLOAD_MAX_SIZE" default:"8388608"`

	// ImageMemoryLimit bounds the decoded size of a logo in bytes (default: 128MB)
	ImageMemoryLimit int64 `env:"CATALOG_IMAGE_MEMORY_LIMIT" default:"134217728"`

	// ImageMaxConcurrent is how many logos are resized at once (default: 4)
	ImageMaxConcurrent int `env:"CATALOG_IMAGE_MAX_CONCURRENT" default:"4"`

	// ImageMaxWait is how long an upload waits for a free slot (default: 15s)
	ImageMaxWait time.Duration `env:"CATALOG_IMAGE_MAX_WAIT" default:"15s"`

	// BulkPolicy is atomic or best_effort (default: atomic)
	BulkPolicy string `env:"CATALOG_BULK_POLICY" default:"atomic"`

	// DefaultLanguage is the BCP 47 tag used when the request has none (default: en)
	DefaultLanguage string `env:"CATALOG_DEFAULT_LANGUAGE" default:"en"`

	// PageSize is the default number of grid rows (default: 50)
	PageSize int `env:"CATALOG_PAGE_SIZE" default:"50"`
}

// LogsConfig holds activity log settings.
type LogsConfig struct {
	// RetentionDays deletes entries older than this; 0 keeps everything (default: 0)
	RetentionDays int `env:"LOG_RETENTION_DAYS" default:"0"`

	// CheckInterval is how often the retention job runs (default: 24h)
	CheckInterval time.Duration `env:"LOG_CHECK_INTERVAL" default:"24h"`

	PageSize int `env:"LOG_PAGE_SIZE" default:"50"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// HasPermission reports whether the acting employee was granted perm.
func (c *SecurityConfig) HasPermission(perm string) bool {
	for _, p := range c.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}
