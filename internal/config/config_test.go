package config

import (
	"errors"
	"os"
	"testing"
	"time"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("TELEGRAM_API_TOKEN", "token")
	t.Setenv("DATABASE_URL", "postgres://localhost/teachme")
}

// TestLoadDefaults ensures defaults apply when only the required variables are set.
func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Env != "local" {
		t.Fatalf("env = %q, want local", cfg.Env)
	}
	if cfg.Storage.Driver != DriverPostgres {
		t.Fatalf("driver = %q, want %q", cfg.Storage.Driver, DriverPostgres)
	}
	if cfg.Storage.SlotKey != "teachme-topics" {
		t.Fatalf("slot key = %q", cfg.Storage.SlotKey)
	}
	if cfg.DB.MaxConnLifetime != 30*time.Second {
		t.Fatalf("max conn lifetime = %v", cfg.DB.MaxConnLifetime)
	}
	if cfg.Images.MaxBytes != 5<<20 {
		t.Fatalf("max bytes = %d", cfg.Images.MaxBytes)
	}
	dsn, err := cfg.DB.DSN()
	if err != nil || dsn != "postgres://localhost/teachme" {
		t.Fatalf("dsn = %q, %v", dsn, err)
	}
}

// TestLoadEnvOverrides ensures nested keys are read from environment variables.
func TestLoadEnvOverrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("STORAGE_DRIVER", DriverBolt)
	t.Setenv("STORAGE_BOLT_PATH", "/tmp/cards.db")
	t.Setenv("TELEGRAM_OWNER_ID", "42")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Driver != DriverBolt || cfg.Storage.BoltPath != "/tmp/cards.db" {
		t.Fatalf("storage = %+v", cfg.Storage)
	}
	if cfg.OwnerID != 42 {
		t.Fatalf("owner id = %d, want 42", cfg.OwnerID)
	}
	if cfg.Env != "production" {
		t.Fatalf("env = %q, want production", cfg.Env)
	}
}

// TestLoadMissingToken ensures the Telegram token is mandatory.
func TestLoadMissingToken(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("TELEGRAM_API_TOKEN", "")

	if _, err := Load(); !errors.Is(err, ErrMissingEnvironmentVariables) {
		t.Fatalf("err = %v, want ErrMissingEnvironmentVariables", err)
	}
}

// TestLoadBoltWithoutDatabaseURL ensures DATABASE_URL is only required for postgres.
func TestLoadBoltWithoutDatabaseURL(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DATABASE_URL", "")
	t.Setenv("STORAGE_DRIVER", DriverBolt)

	if _, err := Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
}

// TestLoadUnknownDriver ensures unsupported drivers are rejected.
func TestLoadUnknownDriver(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("STORAGE_DRIVER", "redis")

	if _, err := Load(); !errors.Is(err, ErrUnknownStorageDriver) {
		t.Fatalf("err = %v, want ErrUnknownStorageDriver", err)
	}
}
