package mse

import (
	"context"
	"log/slog"
	"time"

	"github.com/cwbudde/imgmse/internal/imageio"
	"golang.org/x/sync/errgroup"
)

// CompareFiles decodes the images at pathA and pathB and returns their MSE.
//
// The two files are decoded concurrently. If both fail, the error for pathA
// is returned. Errors are *imageio.ImageNotFoundError, *imageio.DecodeError or
// *ShapeMismatchError for the three expected failure classes.
func CompareFiles(ctx context.Context, pathA, pathB string, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()

	var (
		a, b       *imageio.SampleArray
		errA, errB error
	)

	var g errgroup.Group
	g.Go(func() error {
		a, errA = imageio.Load(pathA)
		return errA
	})
	g.Go(func() error {
		b, errB = imageio.Load(pathB)
		return errB
	})
	_ = g.Wait() // errA and errB are checked in order below

	if errA != nil {
		return nil, errA
	}
	if errB != nil {
		return nil, errB
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := Compute(a, b, opts)
	if err != nil {
		return nil, err
	}

	slog.Debug("Comparison complete",
		"a", pathA,
		"b", pathB,
		"mse", result.MSE,
		"kernel", result.Kernel.String(),
		"elapsed", time.Since(start),
	)
	return result, nil
}
