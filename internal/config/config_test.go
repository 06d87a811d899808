package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BONDMON_REMOTE_BASE_URL", "https://bonds.example.com/api")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Cache.Capacity != 1000 {
		t.Errorf("Cache.Capacity = %d, want 1000", cfg.Cache.Capacity)
	}
	if cfg.Cache.DefaultTTL != time.Hour {
		t.Errorf("Cache.DefaultTTL = %v, want 1h", cfg.Cache.DefaultTTL)
	}
	if cfg.Ledger.MaxRecords != 1000 {
		t.Errorf("Ledger.MaxRecords = %d, want 1000", cfg.Ledger.MaxRecords)
	}
	if cfg.Gateway.MaxConcurrency != 5 {
		t.Errorf("Gateway.MaxConcurrency = %d, want 5", cfg.Gateway.MaxConcurrency)
	}
	if cfg.Health.CheckTimeout != 10*time.Second {
		t.Errorf("Health.CheckTimeout = %v, want 10s", cfg.Health.CheckTimeout)
	}
	if cfg.Remote.BaseURL != "https://bonds.example.com/api" {
		t.Errorf("Remote.BaseURL = %q, want the configured endpoint", cfg.Remote.BaseURL)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("BONDMON_REMOTE_BASE_URL", "https://bonds.example.com/api")
	t.Setenv("BONDMON_SERVER_PORT", "9090")
	t.Setenv("BONDMON_CACHE_CAPACITY", "50")
	t.Setenv("BONDMON_CACHE_SWEEP_INTERVAL", "30s")
	t.Setenv("BONDMON_LOG_PRETTY", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Cache.Capacity != 50 {
		t.Errorf("Cache.Capacity = %d, want 50", cfg.Cache.Capacity)
	}
	if cfg.Cache.SweepInterval != 30*time.Second {
		t.Errorf("Cache.SweepInterval = %v, want 30s", cfg.Cache.SweepInterval)
	}
	if !cfg.Log.Pretty {
		t.Error("Log.Pretty = false, want true")
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	// t.Setenv registers the restore; the variable must be absent, not
	// just empty, for the required check to fire.
	t.Setenv("BONDMON_REMOTE_BASE_URL", "placeholder")
	os.Unsetenv("BONDMON_REMOTE_BASE_URL")

	if _, err := Load(); err == nil {
		t.Error("Load() without the remote endpoint should fail")
	}
}

func TestLoad_Malformed(t *testing.T) {
	t.Setenv("BONDMON_REMOTE_BASE_URL", "https://bonds.example.com/api")
	t.Setenv("BONDMON_SERVER_PORT", "not-a-port")

	if _, err := Load(); err == nil {
		t.Error("Load() with a malformed port should fail")
	}
}
