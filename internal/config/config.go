package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// DriverPostgres selects gorm.io/driver/postgres.
	DriverPostgres = "postgres"
	// DriverSQLite selects gorm.io/driver/sqlite.
	DriverSQLite = "sqlite"

	// DefaultEnvFile is loaded before reading the environment when present.
	DefaultEnvFile = ".env"
)

// ErrMissingConfig is returned when a required configuration value is empty.
var ErrMissingConfig = errors.New("missing config value")

// Config holds all application configuration.
type Config struct {
	AppPort  string
	Database DatabaseConfig
	CORS     CORSConfig
	Logger   LoggerConfig
	RabbitMQ RabbitMQConfig
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Driver string
	URL    string
}

// CORSConfig holds the single origin allowed to call the API from a browser.
type CORSConfig struct {
	AllowedOrigin string
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// RabbitMQConfig holds the broker settings for product change events.
// An empty URL disables publishing.
type RabbitMQConfig struct {
	URL      string
	Exchange string
}

// Load reads configuration from an optional .env file and the environment.
func Load() (*Config, error) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	// Values already present in the environment win over the file.
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
	}

	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("APP_PORT", ":4000")
	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("FRONTEND_URL", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_EXCHANGE", "catalog")
	v.AutomaticEnv()
	return v
}

// FromViper builds and validates a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppPort: v.GetString("APP_PORT"),
		Database: DatabaseConfig{
			Driver: strings.ToLower(v.GetString("DB_DRIVER")),
			URL:    v.GetString("DATABASE_URL"),
		},
		CORS: CORSConfig{
			AllowedOrigin: v.GetString("FRONTEND_URL"),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:      v.GetString("RABBITMQ_URL"),
			Exchange: v.GetString("RABBITMQ_EXCHANGE"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.AppPort == "" {
		return fmt.Errorf("%w: APP_PORT", ErrMissingConfig)
	}
	if c.Database.URL == "" {
		return fmt.Errorf("%w: DATABASE_URL", ErrMissingConfig)
	}
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if c.RabbitMQ.URL != "" && c.RabbitMQ.Exchange == "" {
		return fmt.Errorf("%w: RABBITMQ_EXCHANGE", ErrMissingConfig)
	}
	return nil
}
