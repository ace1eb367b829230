package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Load reads the environment into a Config, applies the default tags and
// validates the result.
func Load() (*Config, error) {
	return load(os.LookupEnv)
}

// MustLoad is Load for main, panicking on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

type lookupFunc func(key string) (string, bool)

func load(lookup lookupFunc) (*Config, error) {
	cfg := &Config{}
	if err := decodeEnv(lookup, cfg); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// envVar is one tagged leaf field of Config.
type envVar struct {
	path     []string
	name     string
	alt      string
	def      string
	required bool
}

// envVars lists the tagged fields of t, depth first.
func envVars(t reflect.Type, prefix []string) []envVar {
	var out []envVar
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		path := append(append([]string{}, prefix...), f.Name)
		if f.Type.Kind() == reflect.Struct && f.Type != reflect.TypeOf(time.Time{}) {
			out = append(out, envVars(f.Type, path)...)
			continue
		}
		name := f.Tag.Get("env")
		if name == "" {
			continue
		}
		out = append(out, envVar{
			path:     path,
			name:     name,
			alt:      f.Tag.Get("envAlt"),
			def:      f.Tag.Get("default"),
			required: f.Tag.Get("required") == "true",
		})
	}
	return out
}

// decodeEnv collects every variable into a nested map shaped like Config and
// lets mapstructure convert the strings. Each variable is decoded on its own
// so a bad value is reported under its variable name.
func decodeEnv(lookup lookupFunc, cfg *Config) error {
	for _, v := range envVars(reflect.TypeOf(*cfg), nil) {
		value, _ := lookup(v.name)
		if value == "" && v.alt != "" {
			value, _ = lookup(v.alt)
		}
		if value == "" {
			if v.required {
				return fmt.Errorf("required environment variable %s is not set", v.name)
			}
			value = v.def
		}
		if value == "" {
			continue
		}
		if err := decodeValue(cfg, nest(v.path, value)); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", v.name, value, err)
		}
	}
	return nil
}

// nest turns ["Server", "Port"] and "8080" into {"Server": {"Port": "8080"}}.
func nest(path []string, value string) map[string]any {
	var node any = value
	for i := len(path) - 1; i >= 0; i-- {
		node = map[string]any{path[i]: node}
	}
	return node.(map[string]any)
}

func decodeValue(cfg *Config, in map[string]any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           cfg,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			commaList,
		),
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}

// commaList splits "a, b,,c" into [a b c] for []string fields.
func commaList(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.Slice || to.Elem().Kind() != reflect.String {
		return data, nil
	}
	parts := strings.Split(data.(string), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out, nil
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Database validation
	if c.Database.URL == "" {
		errs = append(errs, "DATABASE_URL is required")
	}
	if c.Database.MaxConns < c.Database.MinConns {
		errs = append(errs, fmt.Sprintf("DB_MAX_CONNS (%d) must be >= DB_MIN_CONNS (%d)",
			c.Database.MaxConns, c.Database.MinConns))
	}
	if c.Database.MaxConns <= 0 {
		errs = append(errs, "DB_MAX_CONNS must be positive")
	}
	if c.Database.MinConns < 0 {
		errs = append(errs, "DB_MIN_CONNS must be non-negative")
	}
	if strings.ContainsAny(c.Database.TablePrefix, " ;\"'") {
		errs = append(errs, fmt.Sprintf("DB_TABLE_PREFIX (%q) must be a plain identifier prefix", c.Database.TablePrefix))
	}

	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.ReadTimeout < 0 {
		errs = append(errs, "SERVER_READ_TIMEOUT must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}

	if c.Redis.URL == "" {
		errs = append(errs, "REDIS_URL is required")
	}
	if c.Redis.SessionTTL <= 0 {
		errs = append(errs, "SESSION_TTL must be positive")
	}

	// Rate limit validation
	if c.Rate.Enabled && c.Rate.RequestsPerMinute <= 0 {
		errs = append(errs, "RATE_LIMIT_REQUESTS_PER_MINUTE must be positive when rate limiting is enabled")
	}
	if c.Rate.Enabled && c.Rate.ExportLimit <= 0 {
		errs = append(errs, "RATE_LIMIT_EXPORT must be positive when rate limiting is enabled")
	}

	// Security validation
	if c.Security.RequireAPIKey && len(c.Security.APIKeys) == 0 {
		errs = append(errs, "REQUIRE_API_KEY is true but API_KEYS is empty; configure at least one API key or disable auth")
	}
	validPerms := map[string]bool{"read": true, "create": true, "update": true, "delete": true}
	for _, p := range c.Security.Permissions {
		if !validPerms[p] {
			errs = append(errs, fmt.Sprintf("EMPLOYEE_PERMISSIONS contains unknown permission %q", p))
		}
	}

	// Catalog validation
	if c.Catalog.UploadMaxSize <= 0 {
		errs = append(errs, "CATALOG_UPLOAD_MAX_SIZE must be positive")
	}
	if c.Catalog.ImageMemoryLimit <= 0 {
		errs = append(errs, "CATALOG_IMAGE_MEMORY_LIMIT must be positive")
	}
	if c.Catalog.BulkPolicy != "atomic" && c.Catalog.BulkPolicy != "best_effort" {
		errs = append(errs, fmt.Sprintf("CATALOG_BULK_POLICY (%q) must be one of: atomic, best_effort", c.Catalog.BulkPolicy))
	}
	if c.Catalog.ImageDir == "" {
		errs = append(errs, "CATALOG_IMAGE_DIR is required")
	}
	if c.Catalog.PageSize <= 0 {
		errs = append(errs, "CATALOG_PAGE_SIZE must be positive")
	}

	// Activity log validation
	if c.Logs.RetentionDays < 0 {
		errs = append(errs, "LOG_RETENTION_DAYS must be non-negative")
	}
	if c.Logs.CheckInterval <= 0 {
		errs = append(errs, "LOG_CHECK_INTERVAL must be positive")
	}
	if c.Logs.PageSize <= 0 {
		errs = append(errs, "LOG_PAGE_SIZE must be positive")
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a safe string representation of the config for logging.
// Database and Redis URLs are masked.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Server: {Host: %q, Port: %d}, ", c.Server.Host, c.Server.Port))
	b.WriteString(fmt.Sprintf("Database: {URL: [MASKED], MaxConns: %d, MinConns: %d, TablePrefix: %q}, ",
		c.Database.MaxConns, c.Database.MinConns, c.Database.TablePrefix))
	b.WriteString("Redis: {URL: [MASKED]}, ")
	b.WriteString(fmt.Sprintf("Catalog: {BulkPolicy: %q, DisplayManufacturers: %v, DemoMode: %v}, ",
		c.Catalog.BulkPolicy, c.Catalog.DisplayManufacturers, c.Security.DemoMode))
	b.WriteString(fmt.Sprintf("Rate: {Enabled: %v, RequestsPerMinute: %d}, ",
		c.Rate.Enabled, c.Rate.RequestsPerMinute))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}
