package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.SlotsTableName != "Appointments" {
		t.Errorf("expected default table Appointments, got %s", cfg.SlotsTableName)
	}
	if cfg.HTTPTimeout != 20*time.Second {
		t.Errorf("expected default HTTP timeout 20s, got %s", cfg.HTTPTimeout)
	}
	if cfg.PrefsBackend != "file" {
		t.Errorf("expected default prefs backend file, got %s", cfg.PrefsBackend)
	}
	if cfg.PrefsWriteQuiet != 300*time.Millisecond {
		t.Errorf("expected default write quiet 300ms, got %s", cfg.PrefsWriteQuiet)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Errorf("expected default CORS origins [*], got %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.example.com/prod/")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("PREFS_BACKEND", "REDIS")
	t.Setenv("USE_MEMORY_REPO", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg := Load()

	if cfg.APIBaseURL != "https://api.example.com/prod" {
		t.Errorf("expected trailing slash trimmed, got %q", cfg.APIBaseURL)
	}
	if cfg.HTTPTimeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %s", cfg.HTTPTimeout)
	}
	if cfg.PrefsBackend != "redis" {
		t.Errorf("expected backend lowercased to redis, got %s", cfg.PrefsBackend)
	}
	if !cfg.UseMemoryRepo {
		t.Error("expected UseMemoryRepo true")
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example.com" {
		t.Errorf("unexpected CORS origins: %v", cfg.CORSAllowedOrigins)
	}
}

func TestGetEnvAsListIgnoresEmptyEntries(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", " , ,https://a.example.com,")

	got := getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"})
	if len(got) != 1 || got[0] != "https://a.example.com" {
		t.Fatalf("unexpected list: %v", got)
	}
}
