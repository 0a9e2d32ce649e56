// Package config loads runtime settings from the environment, optionally
// seeded from a .env file in the working directory.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr string
	LogLevel string

	// DatabaseDSN selects the PostgreSQL snapshot store; empty means DataFile is used.
	DatabaseDSN string
	DataFile    string

	KafkaBrokers []string // empty disables event publishing
	KafkaTopic   string

	JWTSecret string
	TokenTTL  time.Duration

	AdminEmail    string
	AdminPassword string

	BcryptCost            int
	AccountNumberAttempts int
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":8080"
	c.LogLevel = "info"
	c.DataFile = "data.json"
	c.KafkaTopic = "transaction_completed"
	c.JWTSecret = "dev-secret-change-me"
	c.TokenTTL = 60 * time.Minute
	c.AdminEmail = "admin@zenith.bank"
	c.AdminPassword = "admin123"
	c.BcryptCost = 10
	c.AccountNumberAttempts = 5
}

// LoadConfig applies defaults, then the optional .env file, then environment variables.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded, using process environment: %v", err)
	}

	cfg := &Config{}
	cfg.LoadDefaults()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.HTTPAddr = getEnv("HTTP_ADDR", c.HTTPAddr)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.DatabaseDSN = getEnv("DATABASE_DSN", c.DatabaseDSN)
	c.DataFile = getEnv("DATA_FILE", c.DataFile)
	c.KafkaBrokers = getEnvList("KAFKA_BROKERS", c.KafkaBrokers)
	c.KafkaTopic = getEnv("KAFKA_TOPIC", c.KafkaTopic)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.AdminEmail = getEnv("ADMIN_EMAIL", c.AdminEmail)
	c.AdminPassword = getEnv("ADMIN_PASSWORD", c.AdminPassword)

	ttl, err := getEnvInt("TOKEN_TTL_MINUTES", int(c.TokenTTL.Minutes()))
	if err != nil {
		return err
	}
	c.TokenTTL = time.Duration(ttl) * time.Minute

	if c.BcryptCost, err = getEnvInt("BCRYPT_COST", c.BcryptCost); err != nil {
		return err
	}
	if c.AccountNumberAttempts, err = getEnvInt("ACCOUNT_NUMBER_ATTEMPTS", c.AccountNumberAttempts); err != nil {
		return err
	}

	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.AccountNumberAttempts < 1 {
		return fmt.Errorf("ACCOUNT_NUMBER_ATTEMPTS must be at least 1, got %d", c.AccountNumberAttempts)
	}
	return nil
}

// String returns a printable form of the config with secrets masked.
func (c *Config) String() string {
	store := "file:" + c.DataFile
	if c.DatabaseDSN != "" {
		store = "postgres"
	}
	return fmt.Sprintf("Config{HTTP: %s, Store: %s, Kafka: %v, Admin: %s, Secrets: *** (masked) ***}",
		c.HTTPAddr, store, c.KafkaBrokers, c.AdminEmail)
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	if value, exists := os.LookupEnv(key); exists {
		intVal, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return 0, fmt.Errorf("invalid integer for %s: %w", key, err)
		}
		return intVal, nil
	}
	return defaultVal, nil
}

// getEnvList splits a comma-separated variable, dropping empty items.
func getEnvList(key string, defaultVal []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
