// Package config reads the settings of the server from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type Config struct {
	Database DatabaseConfig
	Web      WebConfig
	Log      LogConfig
	// Optional YAML file of leagues created at startup.
	SeedFile string
}

type DatabaseConfig struct {
	ConnString  string
	LockTimeout time.Duration
	TxTimeout   time.Duration
}

type WebConfig struct {
	Port          int
	AdminUser     string
	AdminPassword string
}

type LogConfig struct {
	Level  string
	Format string
}

func LoadFromEnv() (*Config, error) {
	port, err := getEnvInt("PORT", 3000)
	if err != nil {
		return nil, err
	}
	lockTimeout, err := getEnvDuration("TX_LOCK_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}
	txTimeout, err := getEnvDuration("TX_TIMEOUT", 20*time.Second)
	if err != nil {
		return nil, err
	}

	c := &Config{
		Database: DatabaseConfig{
			ConnString:  os.Getenv("POSTGRES_CONN_STR"),
			LockTimeout: lockTimeout,
			TxTimeout:   txTimeout,
		},
		Web: WebConfig{
			Port:          port,
			AdminUser:     getEnv("ADMIN_USER", "admin"),
			AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "json")),
		},
		SeedFile: os.Getenv("SEED_FILE"),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c.Database.ConnString == "" {
		return errors.New("POSTGRES_CONN_STR is required")
	}
	if c.Web.AdminPassword == "" {
		return errors.New("ADMIN_PASSWORD is required")
	}
	if c.Database.LockTimeout <= 0 || c.Database.TxTimeout <= 0 {
		return errors.New("transaction timeouts must be positive")
	}
	if c.Database.LockTimeout >= c.Database.TxTimeout {
		return fmt.Errorf("TX_LOCK_TIMEOUT (%v) must be shorter than TX_TIMEOUT (%v)", c.Database.LockTimeout, c.Database.TxTimeout)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("LOG_FORMAT must be json or text, got '%s'", c.Log.Format)
	}
	return nil
}

// Admins are the users allowed into the admin routes.
func (c *Config) Admins() map[string]string {
	return map[string]string{c.Web.AdminUser: c.Web.AdminPassword}
}

// NewLogger builds the logger described by the config. The config must be valid.
func (c LogConfig) NewLogger() *logrus.Logger {
	logger := logrus.New()
	if level, err := logrus.ParseLevel(c.Level); err == nil {
		logger.SetLevel(level)
	}
	if c.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("error parsing %s: %w", key, err)
	}
	return i, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("error parsing %s: %w", key, err)
	}
	return d, nil
}
