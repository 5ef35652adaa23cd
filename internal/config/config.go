// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP server listens on (e.g. :8080).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// JWTSecret is the HS256 signing secret. Must be at least 32 bytes.
	JWTSecret string `mapstructure:"JWT_SECRET"`
	// JWTIssuer is the iss claim (e.g. "authcore").
	JWTIssuer string `mapstructure:"JWT_ISSUER"`
	// JWTAccessTTL is the access token lifetime (e.g. "15m").
	JWTAccessTTL string `mapstructure:"JWT_ACCESS_TTL"`
	// JWTRefreshTTL is the refresh token lifetime (e.g. "168h" for 7d).
	JWTRefreshTTL string `mapstructure:"JWT_REFRESH_TTL"`
	// SessionTTLRaw is the web session lifetime (e.g. "24h").
	SessionTTLRaw string `mapstructure:"SESSION_TTL"`
	// SessionSliding enables sliding session expiry: every successful
	// validation pushes the expiry forward. Default is fixed TTL.
	SessionSliding bool `mapstructure:"SESSION_SLIDING"`
	// BcryptCost is the bcrypt cost factor (4 to 31); default 12.
	BcryptCost int `mapstructure:"BCRYPT_COST"`
	// SessionCleanupInterval is how often the expired-session sweep runs.
	SessionCleanupInterval string `mapstructure:"SESSION_CLEANUP_INTERVAL"`
	// TokenCleanupInterval is how often the expired-token sweep runs.
	TokenCleanupInterval string `mapstructure:"TOKEN_CLEANUP_INTERVAL"`
	// OTLPEndpoint is the OTLP gRPC endpoint for traces/metrics/logs
	// (e.g. localhost:4317). Empty disables telemetry export.
	OTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
	// SecureCookies controls the Secure attribute on session cookies.
	// Disable only for local development over plain HTTP.
	SecureCookies bool `mapstructure:"SECURE_COOKIES"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ISSUER", "authcore")
	v.SetDefault("JWT_ACCESS_TTL", "15m")
	v.SetDefault("JWT_REFRESH_TTL", "168h") // 7d
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("SESSION_SLIDING", false)
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("SESSION_CLEANUP_INTERVAL", "1h")
	v.SetDefault("TOKEN_CLEANUP_INTERVAL", "6h")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("APP_ENV", "")
	v.SetDefault("SECURE_COOKIES", true)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}
	if len(cfg.JWTSecret) > 0 && len(cfg.JWTSecret) < 32 {
		return nil, errors.New("config: JWT_SECRET must be at least 32 bytes")
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 12
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, errors.New("config: BCRYPT_COST must be between 4 and 31")
	}
	if cfg.AccessTTL() >= cfg.RefreshTTL() {
		return nil, errors.New("config: JWT_ACCESS_TTL must be shorter than JWT_REFRESH_TTL")
	}

	return &cfg, nil
}

// AccessTTL parses JWTAccessTTL as a time.Duration. Returns 15m if unset or invalid.
func (c *Config) AccessTTL() time.Duration {
	return durationOr(c.JWTAccessTTL, 15*time.Minute)
}

// RefreshTTL parses JWTRefreshTTL as a time.Duration. Returns 168h if unset or invalid.
func (c *Config) RefreshTTL() time.Duration {
	return durationOr(c.JWTRefreshTTL, 168*time.Hour)
}

// SessionTTL parses SessionTTLRaw as a time.Duration. Returns 24h if unset or invalid.
func (c *Config) SessionTTL() time.Duration {
	return durationOr(c.SessionTTLRaw, 24*time.Hour)
}

// SessionCleanup parses SessionCleanupInterval. Returns 1h if unset or invalid.
func (c *Config) SessionCleanup() time.Duration {
	return durationOr(c.SessionCleanupInterval, time.Hour)
}

// TokenCleanup parses TokenCleanupInterval. Returns 6h if unset or invalid.
func (c *Config) TokenCleanup() time.Duration {
	return durationOr(c.TokenCleanupInterval, 6*time.Hour)
}

func durationOr(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
