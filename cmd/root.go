package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/cwbudde/imgmse/internal/config"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
	normalize  string
	kernelName string
	precision  int
	format     string

	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "imgmse <image-a> <image-b>",
	Short: "Mean squared error between two images",
	Long: `imgmse decodes two images of identical dimensions (BMP, PNG, JPEG, GIF,
TIFF or WebP), sums the squared difference of every sample and prints the
sum divided by height*width.

Only the MSE is written to standard output. Errors go to standard error and
set a non-zero exit status: 2 for a missing or unreadable file, 3 for a file
that cannot be decoded, 4 for images of different shape.`,
	Args:          cobra.ExactArgs(2),
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = resolveConfig(cmd)
		if err != nil {
			return err
		}

		logger = newLogger(cfg.LogLevel, cmd.ErrOrStderr())
		slog.SetDefault(logger)
		return nil
	},
	RunE: runCompare,
}

func init() {
	defaults := config.Default()

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", defaults.LogLevel, "Log level (debug, info, warn, error)")

	rootCmd.Flags().StringVar(&normalize, "normalize", defaults.Normalization, "Divisor: pixel (height*width) or sample (height*width*channels)")
	rootCmd.Flags().StringVar(&kernelName, "kernel", defaults.Kernel, "Squared-difference kernel: auto, naive, unrolled, vector")
	rootCmd.Flags().IntVar(&precision, "precision", defaults.Precision, "Decimals to print (-1 = shortest exact representation)")
	rootCmd.Flags().StringVar(&format, "format", defaults.Format, "Output format: text or json")
}

// resolveConfig layers explicitly set flags over the config file (if any)
// over the defaults.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	c := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return c, err
		}
		c = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		c.LogLevel = logLevel
	}
	if flags.Changed("normalize") {
		c.Normalization = normalize
	}
	if flags.Changed("kernel") {
		c.Kernel = kernelName
	}
	if flags.Changed("precision") {
		c.Precision = precision
	}
	if flags.Changed("format") {
		c.Format = format
	}

	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("invalid options: %w", err)
	}
	return c, nil
}

// newLogger builds the JSON logger. Logs go to w (stderr) so that standard
// output carries only the result.
func newLogger(levelName string, w io.Writer) *slog.Logger {
	var level slog.Level
	switch levelName {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}

	opts := &slog.HandlerOptions{Level: level}
	return slog.New(slog.NewJSONHandler(w, opts))
}
