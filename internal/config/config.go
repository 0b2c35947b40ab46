package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Storage backends accepted by STORAGE_BACKEND.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

type Config struct {
	Port           string   `mapstructure:"PORT"`
	Env            string   `mapstructure:"ENV"`
	StorageBackend string   `mapstructure:"STORAGE_BACKEND"`
	DataFile       string   `mapstructure:"DATA_FILE"`
	DatabaseURL    string   `mapstructure:"DATABASE_URL"`
	DBMaxConns     int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns     int32    `mapstructure:"DB_MIN_CONNS"`
	RedisURL       string   `mapstructure:"REDIS_URL"`
	RedisKey       string   `mapstructure:"REDIS_KEY"`
	AMQPURL        string   `mapstructure:"AMQP_URL"`
	AMQPExchange   string   `mapstructure:"AMQP_EXCHANGE"`
	AuthJWTSecret  string   `mapstructure:"AUTH_JWT_SECRET"`
	AuthIssuer     string   `mapstructure:"AUTH_ISSUER"`
	AuthAudience   string   `mapstructure:"AUTH_AUDIENCE"`
	CORSOrigins    []string `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS   float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int      `mapstructure:"RATE_LIMIT_BURST"`
	BodyLimit      string   `mapstructure:"BODY_LIMIT"`
}

var keys = []string{
	"PORT", "ENV", "STORAGE_BACKEND", "DATA_FILE",
	"DATABASE_URL", "DB_MAX_CONNS", "DB_MIN_CONNS",
	"REDIS_URL", "REDIS_KEY", "AMQP_URL", "AMQP_EXCHANGE",
	"AUTH_JWT_SECRET", "AUTH_ISSUER", "AUTH_AUDIENCE",
	"CORS_ORIGINS", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "BODY_LIMIT",
}

// Load reads the environment and an optional .env file in the working
// directory. Environment variables win over the file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("STORAGE_BACKEND", BackendFile)
	v.SetDefault("DATA_FILE", "patients.json")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("REDIS_KEY", "patients")
	v.SetDefault("AMQP_EXCHANGE", "patients")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("RATE_LIMIT_RPS", 50)
	v.SetDefault("RATE_LIMIT_BURST", 100)
	v.SetDefault("BODY_LIMIT", "1M")

	// Bind explicitly so Unmarshal sees variables that have no default.
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("bind %s: %w", k, err)
		}
	}

	// The .env file is optional.
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.StorageBackend = strings.ToLower(strings.TrimSpace(cfg.StorageBackend))
	cfg.CORSOrigins = splitList(v.GetString("CORS_ORIGINS"))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// AuthEnabled reports whether bearer tokens are checked.
func (c *Config) AuthEnabled() bool {
	return c.AuthJWTSecret != ""
}

// Validate checks that the selected backend has what it needs.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case BackendFile:
		if c.DataFile == "" {
			return fmt.Errorf("DATA_FILE is required when STORAGE_BACKEND is %q", BackendFile)
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORAGE_BACKEND is %q", BackendPostgres)
		}
	case BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when STORAGE_BACKEND is %q", BackendRedis)
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be %q, %q or %q, got %q",
			BackendFile, BackendPostgres, BackendRedis, c.StorageBackend)
	}

	if c.IsProduction() && !c.AuthEnabled() {
		return fmt.Errorf("AUTH_JWT_SECRET is required in production")
	}
	if c.AuthEnabled() && len(c.AuthJWTSecret) < 32 {
		return fmt.Errorf("AUTH_JWT_SECRET must be at least 32 bytes, got %d", len(c.AuthJWTSecret))
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
