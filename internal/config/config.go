package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/imgmse/internal/mse"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ShortestPrecision prints the shortest decimal that round-trips the float64.
const ShortestPrecision = -1

// Config holds the settings of one comparison run. It can be read from a
// YAML file and is then overridden by explicitly set command-line flags.
type Config struct {
	// Normalization is "pixel" (divide by height*width) or "sample"
	// (divide by height*width*channels).
	Normalization string `yaml:"normalization"`

	// Kernel forces a squared-difference kernel: auto, naive, unrolled, vector.
	Kernel string `yaml:"kernel"`

	// Precision is the number of decimals printed in text format.
	// ShortestPrecision keeps full float64 precision.
	Precision int `yaml:"precision"`

	// Format is "text" (just the MSE) or "json" (full result).
	Format string `yaml:"format"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the settings used when no file or flag overrides them.
func Default() Config {
	return Config{
		Normalization: string(mse.NormalizePixel),
		Kernel:        mse.KernelAuto.String(),
		Precision:     ShortestPrecision,
		Format:        FormatText,
		LogLevel:      "warn",
	}
}

// Load reads a YAML config file on top of Default. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every field.
func (c Config) Validate() error {
	if _, err := mse.ParseNormalization(c.Normalization); err != nil {
		return err
	}
	if _, err := mse.ParseKernel(c.Kernel); err != nil {
		return err
	}
	if c.Precision < ShortestPrecision {
		return fmt.Errorf("precision must be >= 0 or %d for shortest, got %d", ShortestPrecision, c.Precision)
	}
	switch c.Format {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("unknown format %q (want text or json)", c.Format)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q (want debug, info, warn or error)", c.LogLevel)
	}
	return nil
}

// Options converts the config into comparison options.
func (c Config) Options() (mse.Options, error) {
	norm, err := mse.ParseNormalization(c.Normalization)
	if err != nil {
		return mse.Options{}, err
	}
	kernel, err := mse.ParseKernel(c.Kernel)
	if err != nil {
		return mse.Options{}, err
	}
	return mse.Options{Normalization: norm, Kernel: kernel}, nil
}
