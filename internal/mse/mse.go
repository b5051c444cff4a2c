// Package mse computes the mean squared error between two decoded images.
package mse

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/imgmse/internal/imageio"
)

// Normalization chooses the divisor applied to the squared-difference sum.
type Normalization string

const (
	// NormalizePixel divides by height*width only, so every channel of a
	// multi-channel image adds to the per-pixel error.
	NormalizePixel Normalization = "pixel"

	// NormalizeSample divides by height*width*channels.
	NormalizeSample Normalization = "sample"
)

// ParseNormalization validates a normalization name. The empty string
// selects NormalizePixel.
func ParseNormalization(s string) (Normalization, error) {
	switch Normalization(s) {
	case "", NormalizePixel:
		return NormalizePixel, nil
	case NormalizeSample:
		return NormalizeSample, nil
	default:
		return "", fmt.Errorf("unknown normalization %q (want pixel or sample)", s)
	}
}

// Options controls a comparison. The zero value normalizes per pixel and
// uses the auto-selected kernel.
type Options struct {
	Normalization Normalization
	Kernel        Kernel
}

// Result holds the MSE of one image pair together with the figures it was
// derived from.
type Result struct {
	MSE           float64       `json:"mse"`
	SquaredSum    float64       `json:"squaredSum"`
	Width         int           `json:"width"`
	Height        int           `json:"height"`
	Channels      int           `json:"channels"`
	BitDepth      int           `json:"bitDepth"`
	Normalization Normalization `json:"normalization"`
	RMSE          float64       `json:"rmse"`
	PSNR          float64       `json:"-"` // +Inf for identical images
	Kernel        Kernel        `json:"-"`
}

// MarshalJSON encodes an infinite PSNR as null, which JSON cannot represent.
func (r *Result) MarshalJSON() ([]byte, error) {
	type plain Result
	out := struct {
		*plain
		PSNR   *float64 `json:"psnr"`
		Kernel string   `json:"kernel"`
	}{plain: (*plain)(r), Kernel: r.Kernel.String()}
	if !math.IsInf(r.PSNR, 0) {
		psnr := r.PSNR
		out.PSNR = &psnr
	}
	return json.Marshal(out)
}

// Compute returns the MSE between a and b.
//
// Both arrays must have the same height, width and bit depth; otherwise a
// *ShapeMismatchError is returned and nothing is computed. Channel layouts
// that differ only in color or alpha (gray vs RGB, RGB vs RGBA) are first
// brought to the wider layout. Differences are taken in a signed type
// wide enough for 16-bit samples, squared, summed over every pixel and
// channel, and divided according to opts.Normalization.
func Compute(a, b *imageio.SampleArray, opts Options) (*Result, error) {
	if a == nil || b == nil {
		return nil, errors.New("sample arrays cannot be nil")
	}
	if err := checkLayout(a); err != nil {
		return nil, fmt.Errorf("invalid first image: %w", err)
	}
	if err := checkLayout(b); err != nil {
		return nil, fmt.Errorf("invalid second image: %w", err)
	}

	a, b, err := reconcileChannels(a, b)
	if err != nil {
		return nil, err
	}
	if a.Shape() != b.Shape() {
		return nil, &ShapeMismatchError{A: a.Shape(), B: b.Shape()}
	}
	if a.Width == 0 || a.Height == 0 {
		return nil, ErrEmptyImage
	}
	if a.Stride != b.Stride {
		return nil, fmt.Errorf("row strides differ: %d vs %d", a.Stride, b.Stride)
	}

	norm, err := ParseNormalization(string(opts.Normalization))
	if err != nil {
		return nil, err
	}

	kernel, ssd := opts.Kernel.resolve()
	rowLen := a.Width * a.Channels
	sum := ssd(a.Pix, b.Pix, a.Stride, rowLen, a.Height)

	pixels := float64(a.Height) * float64(a.Width)
	samples := pixels * float64(a.Channels)

	divisor := pixels
	if norm == NormalizeSample {
		divisor = samples
	}
	mse := sum / divisor

	return &Result{
		MSE:           mse,
		SquaredSum:    sum,
		Width:         a.Width,
		Height:        a.Height,
		Channels:      a.Channels,
		BitDepth:      a.BitDepth,
		Normalization: norm,
		RMSE:          math.Sqrt(mse),
		PSNR:          psnr(sum/samples, a.MaxSample()),
		Kernel:        kernel,
	}, nil
}

// psnr is computed from the per-sample mean so it does not depend on the
// normalization mode.
func psnr(perSample, peak float64) float64 {
	if perSample == 0 {
		return math.Inf(1)
	}
	return 10 * math.Log10(peak*peak/perSample)
}

// reconcileChannels expands the narrower of two same-sized arrays so that a
// gray or opaque image can be compared with a color or translucent one.
func reconcileChannels(a, b *imageio.SampleArray) (*imageio.SampleArray, *imageio.SampleArray, error) {
	if a.Channels == b.Channels || a.Width != b.Width || a.Height != b.Height || a.BitDepth != b.BitDepth {
		return a, b, nil
	}

	channels := max(a.Channels, b.Channels)
	ea, err := a.Expand(channels)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to expand first image: %w", err)
	}
	eb, err := b.Expand(channels)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to expand second image: %w", err)
	}
	return ea, eb, nil
}

func checkLayout(s *imageio.SampleArray) error {
	if s.Channels <= 0 {
		return fmt.Errorf("channel count must be positive, got %d", s.Channels)
	}
	if s.BitDepth != 8 && s.BitDepth != 16 {
		return fmt.Errorf("unsupported bit depth %d", s.BitDepth)
	}
	rowLen := s.Width * s.Channels
	if s.Stride < rowLen {
		return fmt.Errorf("stride %d shorter than row of %d samples", s.Stride, rowLen)
	}
	if need := (s.Height-1)*s.Stride + rowLen; len(s.Pix) < need {
		return fmt.Errorf("pixel buffer holds %d samples, need %d", len(s.Pix), need)
	}
	return nil
}
