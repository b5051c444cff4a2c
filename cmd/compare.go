package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/cwbudde/imgmse/internal/config"
	"github.com/cwbudde/imgmse/internal/imageio"
	"github.com/cwbudde/imgmse/internal/mse"
	"github.com/spf13/cobra"
)

// Exit statuses for the three expected failure classes.
const (
	exitFailure       = 1
	exitImageNotFound = 2
	exitDecode        = 3
	exitShapeMismatch = 4
)

func runCompare(cmd *cobra.Command, args []string) error {
	return compareImages(cmd.Context(), cmd.OutOrStdout(), args[0], args[1], cfg)
}

// compareImages computes the MSE of the two images and writes it to w.
// Nothing is written to w unless the comparison succeeds.
func compareImages(ctx context.Context, w io.Writer, pathA, pathB string, c config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	opts, err := c.Options()
	if err != nil {
		return err
	}

	slog.Info("Comparing images", "a", pathA, "b", pathB, "normalization", opts.Normalization, "kernel", opts.Kernel.String())

	result, err := mse.CompareFiles(ctx, pathA, pathB, opts)
	if err != nil {
		return err
	}

	out, err := formatResult(result, c)
	if err != nil {
		return err
	}

	if _, err := io.WriteString(w, out); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}

	slog.Info("Result written",
		"mse", result.MSE,
		"width", result.Width,
		"height", result.Height,
		"channels", result.Channels,
		"format", c.Format,
	)
	return nil
}

// formatResult renders the result as a single line. Text output is the MSE
// alone: with ShortestPrecision it is the shortest decimal that parses back
// to the same float64, otherwise it is fixed to c.Precision decimals.
func formatResult(result *mse.Result, c config.Config) (string, error) {
	if c.Format == config.FormatJSON {
		data, err := json.Marshal(result)
		if err != nil {
			return "", fmt.Errorf("failed to encode result: %w", err)
		}
		return string(data) + "\n", nil
	}

	return strconv.FormatFloat(result.MSE, 'f', c.Precision, 64) + "\n", nil
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, imageio.ErrImageNotFound):
		return exitImageNotFound
	case errors.Is(err, imageio.ErrDecode):
		return exitDecode
	case errors.Is(err, mse.ErrShapeMismatch):
		return exitShapeMismatch
	default:
		return exitFailure
	}
}
