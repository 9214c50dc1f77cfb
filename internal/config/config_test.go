package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadWithDefaults_Succeeds(t *testing.T) {
	// Ensure envs are clean to use defaults
	for _, env := range bindings {
		os.Unsetenv(env)
	}
	cfg, err := LoadWithDefaults()
	if err != nil {
		t.Fatalf("LoadWithDefaults: %v", err)
	}
	if cfg.Backend.BaseURL == "" || cfg.Session.DBPath == "" {
		t.Fatalf("unexpected empty defaults: %+v", cfg)
	}
	if cfg.Geocode.Debounce != 600*time.Millisecond || cfg.Geocode.MinLength != 5 {
		t.Fatalf("geocode defaults: %+v", cfg.Geocode)
	}
	if cfg.Delivery.ConfirmRadiusMeters != 50 {
		t.Fatalf("confirm radius default: %v", cfg.Delivery.ConfirmRadiusMeters)
	}
	if cfg.Ordering.DefaultLat != 10.76143 || cfg.Ordering.DefaultLng != 106.68191 {
		t.Fatalf("default destination: %+v", cfg.Ordering)
	}
}

func TestLoad_RequiresBaseURL(t *testing.T) {
	os.Unsetenv("API_BASE_URL")
	t.Setenv("SESSION_DB_PATH", "test.db")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when API_BASE_URL is not set")
	}
	// When set, it should succeed
	t.Setenv("API_BASE_URL", "https://food.example.com/")
	t.Setenv("API_TIMEOUT", "3s")
	t.Setenv("CONFIRM_RADIUS_METERS", "25")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load with base url set: %v", err)
	}
	if cfg.Backend.BaseURL != "https://food.example.com" {
		t.Fatalf("trailing slash not trimmed: %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.Timeout != 3*time.Second || cfg.Delivery.ConfirmRadiusMeters != 25 || cfg.Session.DBPath != "test.db" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
}
