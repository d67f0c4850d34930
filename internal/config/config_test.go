package config

import (
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://api.test/api/")
	t.Setenv("SESSION_BACKEND", "Redis")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("SESSION_TTL_MINUTES", "30")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.API.BaseURL != "http://api.test/api" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.API.BaseURL)
	}
	if cfg.Session.Backend != SessionBackendRedis {
		t.Fatalf("unexpected session backend: %q", cfg.Session.Backend)
	}
	if cfg.RedisAddr() != "localhost:6380" {
		t.Fatalf("unexpected redis addr: %q", cfg.RedisAddr())
	}
	if cfg.Session.TTL != 30*time.Minute {
		t.Fatalf("unexpected session ttl: %v", cfg.Session.TTL)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("SESSION_BACKEND", "carrier-pigeon")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Session.Backend != SessionBackendMemory {
		t.Fatalf("unknown backend should fall back to memory, got %q", cfg.Session.Backend)
	}
	if cfg.Upload.MaxBytes != 10*1024*1024 {
		t.Fatalf("unexpected upload limit: %d", cfg.Upload.MaxBytes)
	}
	if cfg.Session.CookieName == "" {
		t.Fatalf("expected a default cookie name")
	}
}
