package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/caarlos0/env/v11"
)

func TestParse(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := parse(env.Options{
			Prefix:      prefix,
			Environment: map[string]string{"REPAIRSHOP_JWT_SECRET": "s3cret"},
		})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if cfg.Addr != ":8080" {
			t.Errorf("Expected :8080, got %s", cfg.Addr)
		}
		if cfg.Database.Driver != "sqlite" {
			t.Errorf("Expected sqlite, got %s", cfg.Database.Driver)
		}
		if !cfg.Seed {
			t.Error("Expected seeding on by default")
		}
		if cfg.ServiceName != "repairshop" {
			t.Errorf("Expected repairshop, got %s", cfg.ServiceName)
		}
	})

	t.Run("overrides and nested database prefix", func(t *testing.T) {
		cfg, err := parse(env.Options{
			Prefix: prefix,
			Environment: map[string]string{
				"REPAIRSHOP_JWT_SECRET": "s3cret",
				"REPAIRSHOP_DEBUG":      "true",
				"REPAIRSHOP_DB_DRIVER":  "mysql",
				"REPAIRSHOP_DB_HOST":    "db.internal",
				"REPAIRSHOP_DB_USER":    "shop",
				"REPAIRSHOP_DB_NAME":    "repairs",
			},
		})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if cfg.Database.Driver != "mysql" || cfg.Database.Host != "db.internal" || cfg.Database.Port != "3306" {
			t.Errorf("Unexpected database config %+v", cfg.Database)
		}
		if !cfg.Database.Debug {
			t.Error("Expected debug to reach the database config")
		}
	})

	t.Run("secret is required", func(t *testing.T) {
		_, err := parse(env.Options{Prefix: prefix, Environment: map[string]string{}})
		if err == nil {
			t.Error("Expected error, got nil")
		}
	})

	t.Run("bad bool", func(t *testing.T) {
		_, err := parse(env.Options{
			Prefix:      prefix,
			Environment: map[string]string{"REPAIRSHOP_JWT_SECRET": "x", "REPAIRSHOP_SEED": "sometimes"},
		})
		if err == nil {
			t.Error("Expected error, got nil")
		}
	})
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("missing file is not an error", func(t *testing.T) {
		found, err := LoadEnvFile(filepath.Join(t.TempDir(), ".env"))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if found {
			t.Error("Expected found=false")
		}
	})

	t.Run("existing file populates the environment", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(path, []byte("REPAIRSHOP_TEST_ONLY=from-file\n"), 0o600); err != nil {
			t.Fatalf("Failed to write file: %v", err)
		}
		t.Cleanup(func() { os.Unsetenv("REPAIRSHOP_TEST_ONLY") })

		found, err := LoadEnvFile(path)
		if err != nil || !found {
			t.Fatalf("Expected file to load, got found=%v err=%v", found, err)
		}
		if got := os.Getenv("REPAIRSHOP_TEST_ONLY"); got != "from-file" {
			t.Errorf("Expected from-file, got %q", got)
		}
	})
}
