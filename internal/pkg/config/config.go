package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=3000"`
	Env       string `env:"ENV,       default=development"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	ClientURL string `env:"CLIENT_URL, default=http://localhost:8080"`

	Auth      AuthConfig
	Upload    UploadConfig
	Storage   StorageConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Tracing   TracingConfig
}

type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET, required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,  default=720h"`
}

type UploadConfig struct {
	MaxFileSize int64         `env:"MAX_FILE_SIZE,  default=5242880"`
	Timeout     time.Duration `env:"UPLOAD_TIMEOUT, default=30s"`
}

// StorageConfig holds the remote asset storage credentials.
type StorageConfig struct {
	CloudName string `env:"CLOUDINARY_CLOUD_NAME, required"`
	APIKey    string `env:"CLOUDINARY_API_KEY,    required"`
	APISecret string `env:"CLOUDINARY_API_SECRET, required"`

	// SweepInterval is how often orphaned objects are retried. Zero disables the sweeper.
	SweepInterval time.Duration `env:"ORPHAN_SWEEP_INTERVAL, default=1h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=fit_experts"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type RateLimitConfig struct {
	RPS float64 `env:"RATE_LIMIT_RPS, default=10"`
}

type TracingConfig struct {
	Endpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// Load reads configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration through the given lookuper and validates it.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values envconfig accepts but the server cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return fmt.Errorf("config: JWT_SECRET must not be blank")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("config: TOKEN_TTL must be positive, got %s", c.Auth.TokenTTL)
	}
	if c.Upload.MaxFileSize <= 0 {
		return fmt.Errorf("config: MAX_FILE_SIZE must be positive, got %d", c.Upload.MaxFileSize)
	}
	if c.Upload.Timeout <= 0 {
		return fmt.Errorf("config: UPLOAD_TIMEOUT must be positive, got %s", c.Upload.Timeout)
	}
	if c.Storage.SweepInterval < 0 {
		return fmt.Errorf("config: ORPHAN_SWEEP_INTERVAL must not be negative")
	}
	if c.RateLimit.RPS < 0 {
		return fmt.Errorf("config: RATE_LIMIT_RPS must not be negative")
	}
	return nil
}

// IsProduction reports whether ENV is "production".
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}
