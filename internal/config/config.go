// Package config handles loading and parsing application configuration.
// It supports two sources (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//
// A .env file in the working directory, when present, is loaded into the
// environment first so either source can come from it.
package config

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Storage drivers.
const (
	DriverMongo    = "mongo"
	DriverBolt     = "bolt"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file AND can be overridden
// by the corresponding environment variable (env:"...").
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-default:"dev"`

	Storage    Storage    `yaml:"storage"`
	HTTPServer HTTPServer `yaml:"http_server"`
}

// Storage selects and locates the document backend.
type Storage struct {
	// Driver is one of mongo, bolt, sqlite, postgres.
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"bolt"`

	// Path is the database file for the embedded drivers (bolt, sqlite).
	Path string `yaml:"path" env:"STORAGE_PATH" env-default:"storage/records.db"`

	// URI is the MongoDB connection string or the Postgres DSN.
	URI string `yaml:"uri" env:"STORAGE_URI"`

	// Database is the MongoDB database name.
	Database string `yaml:"database" env:"STORAGE_DATABASE" env-default:"hw3itDB"`
}

// HTTPServer holds settings specific to the HTTP server.
type HTTPServer struct {
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-default:"localhost:3001"`

	// StrictDelete makes DELETE of an unknown id answer 404 instead of the
	// historical success message.
	StrictDelete bool `yaml:"strict_delete" env:"HTTP_SERVER_STRICT_DELETE" env-default:"false"`

	// CORSOrigins lists browser origins allowed to call the API.
	CORSOrigins []string `yaml:"cors_origins" env:"HTTP_SERVER_CORS_ORIGINS" env-separator:"," env-default:"*"`
}

// Validate reports configuration that cleanenv cannot check by itself.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverBolt, DriverSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for driver %q", c.Storage.Driver)
		}
	case DriverMongo, DriverPostgres:
		if c.Storage.URI == "" {
			return fmt.Errorf("storage.uri is required for driver %q", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	return nil
}

// Load reads the YAML file at path (plus environment overrides) and
// validates the result.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MustLoad reads, validates, and returns the application config. It exits
// the process when no valid configuration can be found.
func MustLoad() *Config {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	if configPath == "" {
		log.Fatal("config path is not set: use --config flag or CONFIG_PATH env var")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("%s", err.Error())
	}

	return cfg
}
