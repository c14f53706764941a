package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearServerEnv(t *testing.T) {
	t.Helper()
	for _, env := range envBindings {
		t.Setenv(env, "")
	}
}

func TestLoad_FromFile(t *testing.T) {
	clearServerEnv(t)
	content := []byte(`
server:
  host: "127.0.0.1"
  port: 9000
  cors_enabled: true
  read_timeout: 5s

metrics:
  path: "/internal/metrics"
`)

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(cfgPath, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	if !cfg.Server.CORSEnabled {
		t.Error("expected cors enabled")
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("expected read timeout 5s, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.Metrics.Path != "/internal/metrics" {
		t.Errorf("expected metrics path /internal/metrics, got %s", cfg.Metrics.Path)
	}
	// Unset keys keep their defaults
	if cfg.Server.MaxBodyBytes != 1<<20 {
		t.Errorf("expected default max body bytes, got %d", cfg.Server.MaxBodyBytes)
	}
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	clearServerEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("expected default port 8000, got %d", cfg.Server.Port)
	}
	if !cfg.Metrics.Enabled {
		t.Error("expected metrics enabled by default")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearServerEnv(t)
	t.Setenv("PORT", "9191")
	t.Setenv("CORS_ENABLED", "true")
	t.Setenv("LOG_DEBUG", "1")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Server.Port != 9191 {
		t.Errorf("expected port 9191, got %d", cfg.Server.Port)
	}
	if !cfg.Server.CORSEnabled {
		t.Error("expected cors enabled from env")
	}
	if !cfg.Log.Debug {
		t.Error("expected debug from env")
	}
}

func TestLoad_ExpandsEnvReferences(t *testing.T) {
	clearServerEnv(t)
	t.Setenv("RELAY_BIND_HOST", "10.1.2.3")

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("server:\n  host: \"${RELAY_BIND_HOST}\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Server.Host != "10.1.2.3" {
		t.Errorf("expected expanded host, got %s", cfg.Server.Host)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Server.Port != 8000 {
		t.Errorf("expected default port 8000, got %d", cfg.Server.Port)
	}
	if cfg.Metrics.Path != "/metrics" {
		t.Errorf("expected default metrics path /metrics, got %s", cfg.Metrics.Path)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config { return *Defaults() }

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid config", mutate: func(*Config) {}, wantErr: false},
		{name: "invalid port - zero", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: true},
		{name: "invalid port - too high", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: true},
		{name: "zero body limit", mutate: func(c *Config) { c.Server.MaxBodyBytes = 0 }, wantErr: true},
		{name: "negative timeout", mutate: func(c *Config) { c.Server.IdleTimeout = -time.Second }, wantErr: true},
		{name: "relative metrics path", mutate: func(c *Config) { c.Metrics.Path = "metrics" }, wantErr: true},
		{name: "metrics path collides", mutate: func(c *Config) { c.Metrics.Path = "/chat" }, wantErr: true},
		{
			name: "metrics path ignored when disabled",
			mutate: func(c *Config) {
				c.Metrics.Enabled = false
				c.Metrics.Path = ""
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
