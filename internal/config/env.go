package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// loadFromEnv overrides configuration with a local .env file and the process
// environment. Keys are derived from the struct layout: SERVER_PORT, DB_HOST,
// JWT_SECRET, REDIS_ADDR, AMQP_URL, EMAIL_API_KEY, OTEL_ENDPOINT and so on.
// Variables already present in the environment win over the .env file.
func loadFromEnv(config *Config) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to read .env file: %w", err)
	}

	if err := envconfig.Process("", config); err != nil {
		return err
	}

	return nil
}
