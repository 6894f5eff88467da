package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "DASHBOARD"

type Config struct {
	Server   ServerConfig   `envconfig:"SERVER"`
	Data     DataConfig     `envconfig:"DATA"`
	Logger   LoggerConfig   `envconfig:"LOG"`
	Tracing  TracingConfig  `envconfig:"TRACING"`
	Security SecurityConfig `envconfig:"SECURITY"`
}

type ServerConfig struct {
	Host            string        `envconfig:"HOST" default:"localhost"`
	Port            int           `envconfig:"PORT" default:"8084" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"10s" validate:"gt=0"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"30s" validate:"gt=0"`
	IdleTimeout     time.Duration `envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s" validate:"gt=0"`
}

// DataConfig points at the directory holding the six source tables.
type DataConfig struct {
	Dir          string        `envconfig:"DIR" default:"ecommerce_data" validate:"required"`
	StatusFilter string        `envconfig:"STATUS_FILTER" default:"delivered"`
	LoadTimeout  time.Duration `envconfig:"LOAD_TIMEOUT" default:"60s" validate:"gt=0"`
}

type LoggerConfig struct {
	Level  string `envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format string `envconfig:"FORMAT" default:"json" validate:"oneof=json text"`
}

type TracingConfig struct {
	Enabled     bool   `envconfig:"ENABLED" default:"false"`
	PrettyPrint bool   `envconfig:"PRETTY" default:"false"`
	ServiceName string `envconfig:"SERVICE_NAME" default:"ecommerce-dashboard"`
}

// SecurityConfig covers per-client rate limiting, CORS and proxy trust.
// Clients idle for longer than RateLimitIdle lose their token bucket.
type SecurityConfig struct {
	EnableRateLimit bool          `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	RateLimitRPS    int           `envconfig:"RATE_LIMIT_RPS" default:"100" validate:"gt=0"`
	RateLimitBurst  int           `envconfig:"RATE_LIMIT_BURST" default:"20" validate:"gt=0"`
	RateLimitIdle   time.Duration `envconfig:"RATE_LIMIT_IDLE" default:"3m" validate:"gt=0"`
	AllowedOrigins  []string      `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8084"`
	TrustedProxies  []string      `envconfig:"TRUSTED_PROXIES" default:"127.0.0.1"`
}

// Load reads an optional .env file, then the DASHBOARD_* environment.
// Variables already present in the environment win over the .env file.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	return validator.New(validator.WithRequiredStructEnabled()).Struct(c)
}

func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
