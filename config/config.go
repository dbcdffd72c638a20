// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"repairshop/internal/database"
)

const prefix = "REPAIRSHOP_"

// Config holds the REPAIRSHOP_* settings
type Config struct {
	Addr            string          `env:"ADDR" envDefault:":8080"`
	Debug           bool            `env:"DEBUG"`
	Seed            bool            `env:"SEED" envDefault:"true"`
	JWTSecret       string          `env:"JWT_SECRET"`
	TechniciansFile string          `env:"TECHNICIANS_FILE" envDefault:"technicians.yaml"`
	OTelEndpoint    string          `env:"OTEL_ENDPOINT"`
	ServiceName     string          `env:"SERVICE_NAME" envDefault:"repairshop"`
	Database        database.Config `envPrefix:"DB_"`
}

// LoadEnvFile loads path into the process environment without overriding
// variables that are already set. It reports whether the file existed.
func LoadEnvFile(path string) (bool, error) {
	if path == "" {
		return false, nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("load %s: %w", path, err)
	}
	return true, nil
}

// Load parses REPAIRSHOP_* variables.
func Load() (Config, error) {
	return parse(env.Options{Prefix: prefix})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New(prefix + "JWT_SECRET is required")
	}
	cfg.Database.Debug = cfg.Debug
	return cfg, nil
}
