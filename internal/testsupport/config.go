package testsupport

import (
	"path/filepath"
	"testing"

	"driveshift/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.ScratchDir = filepath.Join(base, "scratch")

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithRsyncBinary overrides the rsync binary on the test config.
func WithRsyncBinary(path string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Transfer.RsyncBinary = path
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
