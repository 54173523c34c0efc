package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config holds runtime configuration sourced from env vars. It is built
// once at startup and passed to constructors explicitly.
type Config struct {
	Env         string        `env:"ENV" env-default:"local"`
	Port        string        `env:"PORT" env-default:"8080"`
	Backend     string        `env:"BACKEND" env-default:"postgres"`
	DatabaseURL string        `env:"DATABASE_URL"`
	JWTSecret   string        `env:"JWT_SECRET"`
	JWTIssuer   string        `env:"JWT_ISSUER" env-default:"spendlog-backend"`
	JWTTTL      time.Duration `env:"JWT_TTL" env-default:"60m"`
	CORSOrigins []string      `env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"*"`
	AMQPURL     string        `env:"AMQP_URL"`
	AMQPQueue   string        `env:"AMQP_QUEUE" env-default:"expense_events"`
}

// Load reads configuration from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration and aggregates every problem found.
func (c Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port %q: must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.Backend {
	case BackendPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			problems = append(problems, "DATABASE_URL is required for the postgres backend")
		}
	case BackendMemory:
	default:
		problems = append(problems, fmt.Sprintf("invalid backend %q: must be postgres or memory", c.Backend))
	}

	if strings.TrimSpace(c.JWTSecret) == "" {
		problems = append(problems, "JWT_SECRET is required")
	}
	if c.JWTTTL <= 0 {
		problems = append(problems, fmt.Sprintf("invalid JWT_TTL %v: must be positive", c.JWTTTL))
	}
	if c.AMQPURL != "" && c.AMQPQueue == "" {
		problems = append(problems, "AMQP_QUEUE cannot be empty when AMQP_URL is set")
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}
