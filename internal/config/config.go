package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/campus-events/server/internal/validation"
)

type Config struct {
	Server      ServerConfig
	Logging     LoggingConfig
	Tracing     TracingConfig
	RateLimit   RateLimitConfig
	CORS        CORSConfig
	Seed        SeedConfig
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
}

type ServerConfig struct {
	Host            string        `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port            int           `env:"SERVER_PORT" envDefault:"8080"`
	BaseURL         string        `env:"SERVER_BASE_URL" envDefault:"http://localhost:8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type TracingConfig struct {
	Enabled      bool    `env:"TRACING_ENABLED" envDefault:"false"`
	Exporter     string  `env:"TRACING_EXPORTER" envDefault:"stdout"`
	ServiceName  string  `env:"TRACING_SERVICE_NAME" envDefault:"campus-events"`
	OTLPEndpoint string  `env:"TRACING_OTLP_ENDPOINT" envDefault:"localhost:4317"`
	SampleRate   float64 `env:"TRACING_SAMPLE_RATE" envDefault:"1.0"`
}

// RateLimitConfig caps mutating requests per client. Zero disables the limiter.
// Forwarded-for headers are honored only from TrustedProxyCIDRs.
type RateLimitConfig struct {
	MutationsPerMinute int      `env:"RATE_LIMIT_MUTATIONS" envDefault:"120"`
	TrustedProxyCIDRs  []string `env:"RATE_LIMIT_TRUSTED_PROXIES" envSeparator:","`
}

// CORSConfig controls which browser origins may call the API.
type CORSConfig struct {
	AllowAllOrigins bool     `env:"CORS_ALLOW_ALL" envDefault:"false"`
	AllowedOrigins  []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

// SeedConfig points at the YAML dataset loaded at startup. An empty path
// selects the embedded default dataset.
type SeedConfig struct {
	Path string `env:"SEED_PATH"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first configuration problem found.
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return fmt.Errorf("TRACING_SAMPLE_RATE must be between 0.0 and 1.0, got %v", c.Tracing.SampleRate)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SERVER_SHUTDOWN_TIMEOUT must be positive, got %s", c.Server.ShutdownTimeout)
	}
	if c.RateLimit.MutationsPerMinute < 0 {
		return fmt.Errorf("RATE_LIMIT_MUTATIONS must not be negative, got %d", c.RateLimit.MutationsPerMinute)
	}
	if err := validation.ValidateOrigin(c.Server.BaseURL, "SERVER_BASE_URL"); err != nil {
		return err
	}
	for _, origin := range c.CORS.AllowedOrigins {
		if err := validation.ValidateOrigin(strings.TrimSpace(origin), "CORS_ALLOWED_ORIGINS"); err != nil {
			return err
		}
	}
	return nil
}

func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
