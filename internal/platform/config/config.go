// Package config loads service configuration from an optional YAML file
// overlaid with TALENTFLOW_* environment variables, so main stays lean.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the root configuration tree.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Postgres  PostgresConfig  `koanf:"postgres"`
	Redis     RedisConfig     `koanf:"redis"`
	Kafka     KafkaConfig     `koanf:"kafka"`
	Auth      AuthConfig      `koanf:"auth"`
	Audit     AuditConfig     `koanf:"audit"`
	Directory DirectoryConfig `koanf:"directory"`
	Expiry    ExpiryConfig    `koanf:"expiry"`
}

// ServerConfig captures HTTP server level configuration.
type ServerConfig struct {
	Addr            string        `koanf:"addr"`
	RequestTimeout  time.Duration `koanf:"request_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// PostgresConfig holds the serving database settings. An empty URL selects
// the in-memory stores.
type PostgresConfig struct {
	URL string `koanf:"url"`
}

// RedisConfig holds the direct-reports cache settings. An empty URL
// disables the cache.
type RedisConfig struct {
	URL          string        `koanf:"url"`
	PoolSize     int           `koanf:"pool_size"`
	MinIdleConns int           `koanf:"min_idle_conns"`
	DialTimeout  time.Duration `koanf:"dial_timeout"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

// KafkaConfig holds the audit sink settings. Empty brokers disable the
// Kafka sink; the store sink always runs.
type KafkaConfig struct {
	Brokers []string `koanf:"brokers"`
	Topic   string   `koanf:"topic"`
}

// AuthConfig holds bearer token validation settings.
type AuthConfig struct {
	JWTSigningKey string `koanf:"jwt_signing_key"`
	Issuer        string `koanf:"issuer"`
	Audience      string `koanf:"audience"`
}

// AuditConfig sizes the audit pipeline.
type AuditConfig struct {
	BufferSize int `koanf:"buffer_size"`
}

// DirectoryConfig tunes the org-chart cache.
type DirectoryConfig struct {
	ReportsCacheTTL time.Duration `koanf:"reports_cache_ttl"`
}

// ExpiryConfig tunes the assignment expiry worker.
type ExpiryConfig struct {
	Interval time.Duration `koanf:"interval"`
}

// Default returns the development defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			RequestTimeout:  30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Redis: RedisConfig{
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			Topic: "talentflow.audit",
		},
		Auth: AuthConfig{
			// Development default; override in production.
			JWTSigningKey: "dev-secret-key-change-in-production",
			Issuer:        "talentflow",
			Audience:      "talentflow-api",
		},
		Audit: AuditConfig{
			BufferSize: 256,
		},
		Directory: DirectoryConfig{
			ReportsCacheTTL: 5 * time.Minute,
		},
		Expiry: ExpiryConfig{
			Interval: time.Minute,
		},
	}
}

// Load reads configuration from the given YAML file (if it exists), then
// overlays TALENTFLOW_* environment variables. Nested keys use underscores:
// TALENTFLOW_SERVER_ADDR maps to server.addr.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("TALENTFLOW_", ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, "TALENTFLOW_"))
		return strings.Replace(key, "_", ".", 1)
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}
