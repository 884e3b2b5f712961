package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for nexus-be.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values. Secrets (passwords, signing
// keys) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Authentication configuration
	Auth AuthConfig `yaml:"auth"`

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// Redis configuration (optional; lookup caching and the index ranking backend)
	Redis RedisConfig `yaml:"redis"`

	// Search configuration
	Search SearchConfig `yaml:"search"`
}

// AuthConfig holds authentication-related configuration.
type AuthConfig struct {
	// TokenSecret signs locally issued HS256 tokens. Secret - env only.
	TokenSecret string `yaml:"-" env:"AUTH_TOKEN_SECRET"`

	// TokenTTLMinutes is the lifetime of issued tokens.
	TokenTTLMinutes int `yaml:"token_ttl_minutes" env:"AUTH_TOKEN_TTL_MINUTES" env-default:"1440"`

	// JWKSEndpointsStr is a comma-separated list of issuer=jwks_url pairs for
	// verifying externally issued tokens. Format: "issuer1=url1,issuer2=url2".
	JWKSEndpointsStr string `yaml:"jwks_endpoints" env:"JWKS_ENDPOINTS" env-default:""`

	// JWKSEndpoints is the parsed map from JWKSEndpointsStr (not from config file).
	JWKSEndpoints map[string]string `yaml:"-"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"nexus"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"nexus_be"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	MigrationsPath string `yaml:"migrations_path" env:"PGMIGRATIONS_PATH" env-default:"migrations"`

	// Pool recycling; zero values fall back to the pkg/database defaults.
	ConnLifetimeMinutes int `yaml:"conn_lifetime_minutes" env:"PGCONN_LIFETIME_MINUTES" env-default:"60"`
	ConnIdleMinutes     int `yaml:"conn_idle_minutes" env:"PGCONN_IDLE_MINUTES" env-default:"30"`
}

// URL returns the database connection string.
func (c *DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

// RedisConfig holds Redis connection configuration.
// Redis is optional; an empty host disables both the lookup cache and the
// index-backed ranking backend.
type RedisConfig struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:""`
	Port     int    `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"-" env:"REDIS_PASSWORD"` // Secret - not in YAML
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// Ranking backend names accepted by SearchConfig.Backend.
const (
	SearchBackendPostgres = "postgres"
	SearchBackendIndex    = "index"
)

// SearchConfig selects the ranking backend.
type SearchConfig struct {
	// Backend is "postgres" (score computed in-query) or "index" (score computed
	// against the external Redis index). Exactly one backend serves a deployment.
	Backend string `yaml:"backend" env:"SEARCH_BACKEND" env-default:"postgres"`
}

// Load reads configuration from config.yaml with environment variable overrides.
// The version parameter is injected at build time and set on the returned Config.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	cfg.Auth.JWKSEndpoints = parseJWKSEndpoints(cfg.Auth.JWKSEndpointsStr)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Search.Backend {
	case SearchBackendPostgres, SearchBackendIndex:
	default:
		return fmt.Errorf("invalid search backend %q (want postgres or index)", c.Search.Backend)
	}
	if c.Search.Backend == SearchBackendIndex && c.Redis.Host == "" {
		return fmt.Errorf("search backend %q requires redis host", c.Search.Backend)
	}
	if c.Auth.TokenSecret == "" && len(c.Auth.JWKSEndpoints) == 0 {
		return fmt.Errorf("AUTH_TOKEN_SECRET or JWKS_ENDPOINTS must be set")
	}
	return nil
}

// parseJWKSEndpoints parses "issuer1=url1,issuer2=url2" into a map.
// Malformed pairs are skipped.
func parseJWKSEndpoints(s string) map[string]string {
	endpoints := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		idx := strings.Index(pair, "=")
		if idx <= 0 || idx == len(pair)-1 {
			continue
		}
		endpoints[pair[:idx]] = pair[idx+1:]
	}
	return endpoints
}
