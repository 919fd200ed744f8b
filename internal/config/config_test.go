package config

import (
	"os"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/taskdeck_test")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("JWT_SECRET", "test-signing-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.AppEnv != "development" {
		t.Errorf("AppEnv = %s, want development", cfg.AppEnv)
	}
	if cfg.AppPort != 8080 {
		t.Errorf("AppPort = %d, want 8080", cfg.AppPort)
	}
	if cfg.TokenTTL != time.Hour {
		t.Errorf("TokenTTL = %s, want 1h", cfg.TokenTTL)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %s, want info", cfg.LogLevel)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %s, want json", cfg.LogFormat)
	}
	if cfg.MaxRequestBodySize != 1048576 {
		t.Errorf("MaxRequestBodySize = %d, want 1048576", cfg.MaxRequestBodySize)
	}
	if cfg.AdminLoginEnabled() {
		t.Error("admin login should be disabled without credentials")
	}
}

func TestLoad_RequiredVariables(t *testing.T) {
	tests := []struct {
		name  string
		unset string
	}{
		{"missing DATABASE_URL", "DATABASE_URL"},
		{"missing REDIS_URL", "REDIS_URL"},
		{"missing JWT_SECRET", "JWT_SECRET"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			setRequiredEnv(t)
			// t.Setenv registered the restore; drop the variable entirely
			os.Unsetenv(tc.unset)

			if _, err := Load(); err == nil {
				t.Errorf("expected error when %s is unset", tc.unset)
			}
		})
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("ADMIN_EMAIL", "ops@example.com")
	t.Setenv("ADMIN_PASSWORD", "operator-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !cfg.IsProduction() {
		t.Error("expected production mode")
	}
	if cfg.AppPort != 9090 {
		t.Errorf("AppPort = %d, want 9090", cfg.AppPort)
	}
	if cfg.TokenTTL != 30*time.Minute {
		t.Errorf("TokenTTL = %s, want 30m", cfg.TokenTTL)
	}
	if !cfg.AdminLoginEnabled() {
		t.Error("admin login should be enabled")
	}
}

func TestGetCORSAllowedOrigins(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{"empty", "", 0},
		{"single", "https://example.com", 1},
		{"multiple with spaces", "https://a.example.com, https://b.example.com", 2},
		{"trailing comma", "https://example.com,", 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{CORSAllowedOrigins: tc.value}
			if got := cfg.GetCORSAllowedOrigins(); len(got) != tc.want {
				t.Errorf("got %d origins, want %d: %v", len(got), tc.want, got)
			}
		})
	}
}
