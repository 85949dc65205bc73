package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "text", cfg.Format)
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
	assert.Equal(t, 0, cfg.Threshold)
	assert.Equal(t, "", cfg.Cache)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cyclomatic.yaml")
	content := "format: JSON\nworkers: 3\nthreshold: 10\ncache: .cache/results.db\nlog_level: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, &Config{
		Format:    "json",
		Workers:   3,
		Threshold: 10,
		Cache:     ".cache/results.db",
		LogLevel:  "debug",
	}, cfg)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("CYCLOMATIC_THRESHOLD", "4")
	t.Setenv("CYCLOMATIC_FORMAT", "table")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Threshold)
	assert.Equal(t, "table", cfg.Format)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		description string
		mutate      func(cfg *Config)
		expectErr   string
	}{
		{description: "valid", mutate: func(*Config) {}},
		{description: "format", mutate: func(cfg *Config) { cfg.Format = "xml" }, expectErr: "unsupported format"},
		{description: "workers", mutate: func(cfg *Config) { cfg.Workers = 0 }, expectErr: "workers"},
		{description: "threshold", mutate: func(cfg *Config) { cfg.Threshold = -1 }, expectErr: "threshold"},
		{description: "log level", mutate: func(cfg *Config) { cfg.LogLevel = "loud" }, expectErr: "log level"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			cfg := Default()
			testCase.mutate(cfg)
			err := cfg.Validate()
			if testCase.expectErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), testCase.expectErr)
		})
	}
}

func TestValidateAnalysisIgnoresScanOptions(t *testing.T) {
	cfg := Default()
	cfg.Format = "html"
	cfg.Workers = 0
	assert.NoError(t, cfg.ValidateAnalysis())

	cfg.Threshold = -1
	assert.Error(t, cfg.ValidateAnalysis())
}
