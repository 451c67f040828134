package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		envValue string
		def      string
		want     string
	}{
		{"uses env value", "ETHEREAL_TEST_VAR_1", "hello", "default", "hello"},
		{"uses default when empty", "ETHEREAL_TEST_VAR_2", "", "default", "default"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				t.Setenv(tc.key, tc.envValue)
			}
			if got := getEnv(tc.key, tc.def); got != tc.want {
				t.Errorf("getEnv = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestGetBoolEnv(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		def      bool
		want     bool
	}{
		{"true", "true", false, true},
		{"one", "1", false, true},
		{"false", "false", true, false},
		{"garbage keeps default", "maybe", true, true},
		{"unset keeps default", "", true, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("ETHEREAL_TEST_BOOL", tc.envValue)
			if got := getBoolEnv("ETHEREAL_TEST_BOOL", tc.def); got != tc.want {
				t.Errorf("getBoolEnv = %v, want %v", got, tc.want)
			}
		})
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"ETHEREAL_BACKEND_URL", "NEXT_PUBLIC_BACKEND_URL", "ETHEREAL_HTTP_TIMEOUT",
		"ETHEREAL_VIEW", "ETHEREAL_MEMORY_DB", "ETHEREAL_CUES", "ETHEREAL_LOG_FILE",
		"ETHEREAL_LOG_LEVEL",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load([]string{"--env", filepath.Join(t.TempDir(), "missing.env")})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BackendURL != "http://localhost:8000" {
		t.Errorf("BackendURL = %q", cfg.BackendURL)
	}
	if cfg.StartView != ViewVoice {
		t.Errorf("StartView = %q", cfg.StartView)
	}
	if cfg.HTTPTimeout != 0 {
		t.Errorf("HTTPTimeout = %s, want 0", cfg.HTTPTimeout)
	}
	if cfg.Cues {
		t.Error("cues should default off")
	}
}

func TestLoadEnvFileAndFallbackKey(t *testing.T) {
	clearEnv(t)

	envPath := filepath.Join(t.TempDir(), ".env")
	content := "NEXT_PUBLIC_BACKEND_URL=http://example.test:9000/\nETHEREAL_VIEW=chat\n"
	if err := os.WriteFile(envPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}

	cfg, err := Load([]string{"--env", envPath})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BackendURL != "http://example.test:9000" {
		t.Errorf("BackendURL = %q, want trailing slash stripped", cfg.BackendURL)
	}
	if cfg.StartView != ViewChat {
		t.Errorf("StartView = %q", cfg.StartView)
	}
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("ETHEREAL_BACKEND_URL", "http://env.test")
	t.Setenv("ETHEREAL_CUES", "true")

	cfg, err := Load([]string{
		"--env", filepath.Join(t.TempDir(), "none"),
		"--backend", "https://flag.test/",
		"--cues=false",
		"--timeout", "3s",
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BackendURL != "https://flag.test" {
		t.Errorf("BackendURL = %q", cfg.BackendURL)
	}
	if cfg.Cues {
		t.Error("--cues=false should override env")
	}
	if cfg.HTTPTimeout != 3*time.Second {
		t.Errorf("HTTPTimeout = %s", cfg.HTTPTimeout)
	}
}

func TestLoadRejectsMalformedEnvFile(t *testing.T) {
	clearEnv(t)
	envPath := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envPath, []byte("BAD-KEY=1\n"), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	if _, err := Load([]string{"--env", envPath}); err == nil {
		t.Error("expected error for malformed env file")
	}
}

func TestLoadLogLevelFlag(t *testing.T) {
	clearEnv(t)
	cfg, err := Load([]string{"--env", filepath.Join(t.TempDir(), "none"), "--log-level", "debug"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestLoadRejectsBadView(t *testing.T) {
	clearEnv(t)
	if _, err := Load([]string{"--env", filepath.Join(t.TempDir(), "none"), "--view", "gallery"}); err == nil {
		t.Error("expected error for unknown view")
	}
}

func TestLoadRejectsBadURL(t *testing.T) {
	clearEnv(t)
	if _, err := Load([]string{"--env", filepath.Join(t.TempDir(), "none"), "--backend", "localhost:8000"}); err == nil {
		t.Error("expected error for url without scheme")
	}
}
