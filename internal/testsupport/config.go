// Package testsupport provides helpers shared by package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"fridgectl/internal/config"
)

// NewConfig returns a validated configuration rooted in a per-test temp
// directory.
func NewConfig(t *testing.T, opts ...func(*config.Config)) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.Cache.Dir = filepath.Join(t.TempDir(), "cache")
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate config: %v", err)
	}
	return &cfg
}

// WithBaseURL points the configuration at a test backend.
func WithBaseURL(baseURL string) func(*config.Config) {
	return func(cfg *config.Config) {
		cfg.Server.BaseURL = baseURL
	}
}
