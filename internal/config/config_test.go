package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.Port != "8080" {
		t.Fatalf("default port = %q, want 8080", cfg.App.Port)
	}
	if cfg.App.Addr() != "0.0.0.0:8080" {
		t.Fatalf("Addr() = %q", cfg.App.Addr())
	}
	if cfg.Auth.AccessTokenTTLMinutes != 60 {
		t.Fatalf("default token TTL = %d, want 60", cfg.Auth.AccessTokenTTLMinutes)
	}
	if !cfg.Postgres.RunMigrations {
		t.Fatal("migrations must default to enabled")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "5")
	t.Setenv("POSTGRES_RUN_MIGRATIONS", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.Port != "9090" {
		t.Fatalf("port override ignored: %q", cfg.App.Port)
	}
	if cfg.Logger.Level != "debug" {
		t.Fatalf("log level override ignored: %q", cfg.Logger.Level)
	}
	if cfg.App.RequestTimeout() != 5*time.Second {
		t.Fatalf("RequestTimeout() = %v", cfg.App.RequestTimeout())
	}
	if cfg.Postgres.RunMigrations {
		t.Fatal("migrations override ignored")
	}
}

func TestLoadBadRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	if _, err := Load(); err == nil {
		t.Fatal("invalid REDIS_DB must fail")
	}
}
