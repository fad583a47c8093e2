package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// User scope
	JWTSecret     string
	JWTExpiry     time.Duration
	DemoUserID    string
	AllowDemoUser bool

	// Calendar and store round trips
	Timezone     string
	StoreTimeout time.Duration

	// HTTP
	CORSAllowedOrigins []string
	WriteRateLimit     int
	WriteRateWindow    time.Duration

	// Observability (optional)
	SentryDSN string

	// Export storage (S3-compatible, optional)
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3Endpoint      string        // Optional: MinIO, R2, DO Spaces
	S3PresignExpiry time.Duration // Lifetime of export download links
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	appEnv := envRequired("APP_ENV") // Required: 'development' or 'production'

	cfg := &Config{
		AppName: envString("APP_NAME", "Organizer"),
		AppEnv:  appEnv,
		Port:    envString("PORT", "8090"),

		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/organizer.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		JWTSecret:     envString("JWT_SECRET", ""),
		JWTExpiry:     envDuration("JWT_EXPIRY", 30*24*time.Hour),
		DemoUserID:    envString("DEMO_USER_ID", "demo-user"),
		AllowDemoUser: envBool("ALLOW_DEMO_USER", appEnv == "development"),

		Timezone:     envString("TIMEZONE", "UTC"),
		StoreTimeout: envDuration("STORE_TIMEOUT", 5*time.Second),

		CORSAllowedOrigins: envList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		WriteRateLimit:     envInt("WRITE_RATE_LIMIT", 120),
		WriteRateWindow:    envDuration("WRITE_RATE_WINDOW", time.Minute),

		SentryDSN: envString("SENTRY_DSN", ""),

		S3Region:        envString("S3_REGION", ""),
		S3Bucket:        envString("S3_BUCKET", ""),
		S3AccessKey:     envString("S3_ACCESS_KEY", ""),
		S3SecretKey:     envString("S3_SECRET_KEY", ""),
		S3Endpoint:      envString("S3_ENDPOINT", ""),
		S3PresignExpiry: envDuration("S3_PRESIGN_EXPIRY", time.Hour),
	}

	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction refuses to start a production deployment where every
// request would silently fall back to the shared demo user.
func validateProduction(cfg *Config) {
	if cfg.AllowDemoUser && cfg.JWTSecret == "" {
		slog.Error("production deployment requires JWT_SECRET when ALLOW_DEMO_USER is enabled",
			"hint", "set ALLOW_DEMO_USER=false or configure JWT_SECRET")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// HasExportStorage reports whether S3 settings are complete enough to upload exports.
func (c *Config) HasExportStorage() bool {
	return c.S3Bucket != "" && c.S3Region != ""
}

// Location resolves Timezone, falling back to UTC for unknown zone names.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		slog.Warn("config invalid timezone, using UTC", "timezone", c.Timezone, "error", err)
		return time.UTC
	}
	return loc
}
