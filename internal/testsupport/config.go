package testsupport

import (
	"path/filepath"
	"testing"

	"waymark/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Queue.Ceiling = 100

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithCeiling overrides the queue ceiling on the test config.
func WithCeiling(ceiling int) ConfigOption {
	return func(c *config.Config) {
		c.Queue.Ceiling = ceiling
	}
}

// WithUploader points the uploader at an endpoint (usually httptest).
func WithUploader(endpoint string) ConfigOption {
	return func(c *config.Config) {
		c.Uploader.Enabled = true
		c.Uploader.Endpoint = endpoint
		c.Uploader.PollInterval = 1
		c.Uploader.ErrorRetryInterval = 1
	}
}
