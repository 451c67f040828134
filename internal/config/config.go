// Package config loads runtime settings from the environment, an optional
// .env file and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/shealthydtaco-cyber/verysleepy-ai/internal/backend"
	"github.com/shealthydtaco-cyber/verysleepy-ai/internal/logging"
)

// View names the page shown at startup.
type View string

const (
	ViewVoice View = "voice"
	ViewChat  View = "chat"
)

// Config holds application configuration.
type Config struct {
	BackendURL  string
	HTTPTimeout time.Duration
	StartView   View
	MemoryDB    string // backend memory.db for read-only fallback, "" to disable
	Cues        bool
	LogFile     string
	LogLevel    string
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

// FromEnv builds a Config from environment variables alone.
func FromEnv() Config {
	return Config{
		BackendURL:  getEnv("ETHEREAL_BACKEND_URL", getEnv("NEXT_PUBLIC_BACKEND_URL", backend.DefaultBaseURL)),
		HTTPTimeout: getDurationEnv("ETHEREAL_HTTP_TIMEOUT", 0),
		StartView:   View(getEnv("ETHEREAL_VIEW", string(ViewVoice))),
		MemoryDB:    getEnv("ETHEREAL_MEMORY_DB", ""),
		Cues:        getBoolEnv("ETHEREAL_CUES", false),
		LogFile:     getEnv("ETHEREAL_LOG_FILE", logging.DefaultLogPath()),
		LogLevel:    getEnv("ETHEREAL_LOG_LEVEL", "info"),
	}
}

// Load parses args with pflag, reads the .env file named by --env (a missing
// file is ignored, a malformed one is an error) and lets explicit flags override the environment.
func Load(args []string) (Config, error) {
	fs := pflag.NewFlagSet("ethereal", pflag.ContinueOnError)
	envFile := fs.StringP("env", "e", ".env", "Env file path")
	backendURL := fs.StringP("backend", "b", "", "Backend base URL")
	view := fs.String("view", "", "Start view (voice|chat)")
	memoryDB := fs.String("memory-db", "", "Backend memory.db path for offline memory view")
	cues := fs.Bool("cues", false, "Play tones when the microphone opens and closes")
	logFile := fs.String("log-file", "", "Log file path")
	logLevel := fs.StringP("log-level", "l", "", "Log level (debug|info|warn|error)")
	timeout := fs.Duration("timeout", 0, "HTTP timeout per backend request (0 = none)")

	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("parse flags: %w", err)
	}

	// godotenv never overrides variables already set in the environment.
	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file %s: %w", *envFile, err)
	}

	cfg := FromEnv()
	if fs.Changed("backend") {
		cfg.BackendURL = *backendURL
	}
	if fs.Changed("view") {
		cfg.StartView = View(*view)
	}
	if fs.Changed("memory-db") {
		cfg.MemoryDB = *memoryDB
	}
	if fs.Changed("cues") {
		cfg.Cues = *cues
	}
	if fs.Changed("log-file") {
		cfg.LogFile = *logFile
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = *logLevel
	}
	if fs.Changed("timeout") {
		cfg.HTTPTimeout = *timeout
	}

	cfg.BackendURL = backend.NormalizeBaseURL(cfg.BackendURL)
	cfg.StartView = View(strings.ToLower(string(cfg.StartView)))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c Config) Validate() error {
	switch c.StartView {
	case ViewVoice, ViewChat:
	default:
		return fmt.Errorf("invalid view %q (want voice or chat)", c.StartView)
	}
	if !strings.HasPrefix(c.BackendURL, "http://") && !strings.HasPrefix(c.BackendURL, "https://") {
		return fmt.Errorf("invalid backend url %q", c.BackendURL)
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("invalid timeout %s", c.HTTPTimeout)
	}
	return nil
}
