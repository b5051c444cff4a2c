package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/imgmse/internal/mse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "imgmse.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, mse.NormalizePixel, opts.Normalization)
	assert.Equal(t, mse.KernelAuto, opts.Kernel)
	assert.Equal(t, ShortestPrecision, cfg.Precision)
	assert.Equal(t, FormatText, cfg.Format)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
normalization: sample
kernel: naive
precision: 4
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sample", cfg.Normalization)
	assert.Equal(t, "naive", cfg.Kernel)
	assert.Equal(t, 4, cfg.Precision)
	// Untouched keys keep their defaults
	assert.Equal(t, FormatText, cfg.Format)
	assert.Equal(t, "warn", cfg.LogLevel)

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, mse.Options{Normalization: mse.NormalizeSample, Kernel: mse.KernelNaive}, opts)
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errPart string
	}{
		{"unknown key", "normalise: pixel\n", "normalise"},
		{"bad normalization", "normalization: channel\n", "normalization"},
		{"bad kernel", "kernel: avx512\n", "kernel"},
		{"bad precision", "precision: -5\n", "precision"},
		{"bad format", "format: xml\n", "format"},
		{"bad log level", "log_level: trace\n", "log level"},
		{"not yaml", "normalization: [\n", "parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
