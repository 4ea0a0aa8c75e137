// Package config loads process configuration from .env, an optional YAML
// file and the environment, in increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/blogposts/backend/internal/repository"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds everything needed to start the server.
type Config struct {
	Port          string `yaml:"port"`
	DatabaseURL   string `yaml:"database_url"`
	StoreDriver   string `yaml:"store_driver"`
	MongoDatabase string `yaml:"mongo_database"`
	BoltPath      string `yaml:"bolt_path"`
	MigrateOnOpen bool   `yaml:"migrate_on_open"`
	FrontendURL   string `yaml:"frontend_url"`
	LogLevel      string `yaml:"log_level"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Port:          "8080",
		DatabaseURL:   "mongodb://localhost:27017",
		StoreDriver:   repository.DriverMongo,
		MongoDatabase: "blog",
		BoltPath:      "blog.db",
		FrontendURL:   "*",
		LogLevel:      "INFO",
	}
}

// Load reads .env (if present), then the YAML file named by CONFIG_FILE (if
// set), then environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	setString(&c.Port, "PORT")
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.StoreDriver, "STORE_DRIVER")
	setString(&c.MongoDatabase, "MONGO_DATABASE")
	setString(&c.BoltPath, "BOLT_PATH")
	setString(&c.FrontendURL, "FRONTEND_URL")
	setString(&c.LogLevel, "LOG_LEVEL")
	if v := os.Getenv("MIGRATE_ON_OPEN"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.MigrateOnOpen = b
		}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	if _, err := strconv.ParseUint(c.Port, 10, 16); err != nil {
		return fmt.Errorf("invalid port %q: %w", c.Port, err)
	}
	switch c.StoreDriver {
	case repository.DriverMongo, repository.DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("database_url is required for driver %q", c.StoreDriver)
		}
	case repository.DriverBolt:
		if c.BoltPath == "" {
			return fmt.Errorf("bolt_path is required for driver %q", c.StoreDriver)
		}
	default:
		return fmt.Errorf("unsupported store driver: %q", c.StoreDriver)
	}
	return nil
}

// Addr is the listen address derived from Port.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// StoreOptions converts the config into repository.Open options.
func (c *Config) StoreOptions() repository.Options {
	return repository.Options{
		Driver:        c.StoreDriver,
		URL:           c.DatabaseURL,
		MongoDatabase: c.MongoDatabase,
		BoltPath:      c.BoltPath,
		MigrateOnOpen: c.MigrateOnOpen,
	}
}
