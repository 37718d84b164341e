package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultJWTSecret = "change-me-in-production"

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port            string `yaml:"port"`
		Mode            string `yaml:"mode"`
		PublicURL       string `yaml:"public_url" split_words:"true"`
		StoragePath     string `yaml:"storage_path" split_words:"true"`
		ReadTimeout     string `yaml:"read_timeout" split_words:"true"`
		WriteTimeout    string `yaml:"write_timeout" split_words:"true"`
		ShutdownTimeout string `yaml:"shutdown_timeout" split_words:"true"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host"`
		Port            string `yaml:"port"`
		User            string `yaml:"user"`
		Password        string `yaml:"password"`
		Name            string `yaml:"dbname"`
		SSLMode         string `yaml:"sslmode" split_words:"true"`
		MaxIdleConns    int    `yaml:"max_idle_conns" split_words:"true"`
		MaxOpenConns    int    `yaml:"max_open_conns" split_words:"true"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" split_words:"true"`
		AutoMigrate     bool   `yaml:"auto_migrate" split_words:"true"`
	} `yaml:"database" envconfig:"DB"`

	JWT struct {
		Secret     string `yaml:"secret"`
		Expiration string `yaml:"expiration"`
		Issuer     string `yaml:"issuer"`
	} `yaml:"jwt"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging" envconfig:"LOG"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		StatsTTL string `yaml:"stats_ttl" split_words:"true"`
	} `yaml:"redis"`

	AMQP struct {
		URL      string `yaml:"url"`
		Exchange string `yaml:"exchange"`
	} `yaml:"amqp"`

	Email struct {
		APIKey     string `yaml:"api_key" split_words:"true"`
		FromName   string `yaml:"from_name" split_words:"true"`
		FromEmail  string `yaml:"from_email" split_words:"true"`
		Admissions string `yaml:"admissions"`
	} `yaml:"email"`

	Tracing struct {
		Endpoint    string `yaml:"endpoint"`
		ServiceName string `yaml:"service_name" split_words:"true"`
	} `yaml:"tracing" envconfig:"OTEL"`

	DefaultAdmin DefaultAdminConfig `yaml:"default_admin" split_words:"true"`
}

// DefaultAdminConfig is created at startup when no admin exists and a password is set.
type DefaultAdminConfig struct {
	Email     string `yaml:"email"`
	Password  string `yaml:"password"`
	FirstName string `yaml:"first_name" split_words:"true"`
	LastName  string `yaml:"last_name" split_words:"true"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "debug"
	config.Server.PublicURL = "http://localhost:8080"
	config.Server.StoragePath = "uploads"
	config.Server.ReadTimeout = "10s"
	config.Server.WriteTimeout = "10s"
	config.Server.ShutdownTimeout = "10s"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.Name = "greenfield"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"
	config.Database.AutoMigrate = true

	config.JWT.Secret = defaultJWTSecret
	config.JWT.Expiration = "24h"
	config.JWT.Issuer = "greenfield.edu"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Redis.StatsTTL = "15s"

	config.AMQP.Exchange = "greenfield.events"

	config.Email.FromName = "Greenfield University"
	config.Email.FromEmail = "no-reply@greenfield.edu"
	config.Email.Admissions = "admissions@greenfield.edu"

	config.Tracing.ServiceName = "greenfield-portal"

	config.DefaultAdmin.Email = "admin@greenfield.edu"
	config.DefaultAdmin.FirstName = "System"
	config.DefaultAdmin.LastName = "Administrator"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	switch config.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server mode must be one of debug, release, test; got %q", config.Server.Mode)
	}

	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if config.IsProduction() && config.JWT.Secret == defaultJWTSecret {
		return fmt.Errorf("JWT secret must be changed in release mode")
	}

	durations := map[string]string{
		"jwt expiration":             config.JWT.Expiration,
		"server read timeout":        config.Server.ReadTimeout,
		"server write timeout":       config.Server.WriteTimeout,
		"server shutdown timeout":    config.Server.ShutdownTimeout,
		"database conn max lifetime": config.Database.ConnMaxLifetime,
		"redis stats ttl":            config.Redis.StatsTTL,
	}
	for name, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s format: %w", name, err)
		}
	}

	if config.DefaultAdmin.Password != "" && len(config.DefaultAdmin.Password) < 8 {
		return fmt.Errorf("default admin password must be at least 8 characters")
	}

	return nil
}

// IsProduction reports whether the server runs in gin release mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Mode, "release")
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		sslMode,
	)
}
