package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/caarlos0/env/v8"
	"github.com/joho/godotenv"
)

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	Port string `env:"PORT" envDefault:"9446"`

	// In all cases the default Postgres settings target the docker compose setup.
	DatabaseURL      string `env:"DATABASE_URL"`
	PostgresAddress  string `env:"POSTGRES_ADDRESS" envDefault:"localhost"`
	PostgresPort     string `env:"POSTGRES_PORT" envDefault:"5433"`
	PostgresDB       string `env:"POSTGRES_DB" envDefault:"postgres"`
	PostgresUsername string `env:"POSTGRES_USERNAME" envDefault:"postgres"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" envDefault:"testpassword"`
	StorageBackend   string `env:"STORAGE_BACKEND" envDefault:"postgres"`
	RunMigrations    bool   `env:"RUN_MIGRATIONS" envDefault:"false"`

	AuthJWTSecret  string `env:"AUTH_JWT_SECRET"`
	ServiceRoleKey string `env:"SERVICE_ROLE_KEY"`
	RedisAddr      string `env:"REDIS_ADDR"`

	AMQPURL      string `env:"AMQP_URL"`
	AMQPExchange string `env:"AMQP_EXCHANGE" envDefault:"church-finance"`
	AMQPQueue    string `env:"AMQP_QUEUE" envDefault:"church-finance.notifications"`

	OperatorWorkers int    `env:"OPERATOR_WORKERS" envDefault:"4"`
	LogLevel        string `env:"LOG_LEVEL" envDefault:"info"`
}

// ProcessEnvironmentVariables loads .env when present, then parses the
// environment and validates the result.
func ProcessEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var problems []string
	if c.Port == "" {
		problems = append(problems, "PORT must not be empty")
	}
	switch c.StorageBackend {
	case BackendPostgres, BackendMemory:
	default:
		problems = append(problems, fmt.Sprintf("STORAGE_BACKEND must be %q or %q, got %q", BackendPostgres, BackendMemory, c.StorageBackend))
	}
	if c.AuthJWTSecret == "" {
		problems = append(problems, "AUTH_JWT_SECRET is required")
	}
	if c.OperatorWorkers < 1 {
		problems = append(problems, "OPERATOR_WORKERS must be at least 1")
	}
	if c.AMQPURL != "" && (c.AMQPExchange == "" || c.AMQPQueue == "") {
		problems = append(problems, "AMQP_EXCHANGE and AMQP_QUEUE are required with AMQP_URL")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// PostgresConnectionString prefers DATABASE_URL over the individual settings.
func (c *Config) PostgresConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.PostgresUsername, c.PostgresPassword),
		Host:     c.PostgresAddress + ":" + c.PostgresPort,
		Path:     "/" + c.PostgresDB,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}
