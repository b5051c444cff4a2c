package mse

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/imgmse/internal/imageio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

// writeImage encodes img into dir using enc
func writeImage(t *testing.T, dir, name string, img image.Image, enc func(*os.File, image.Image) error) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, enc(f, img))
	return path
}

func encodeBMP(f *os.File, img image.Image) error { return bmp.Encode(f, img) }
func encodePNG(f *os.File, img image.Image) error { return png.Encode(f, img) }

// writeGrayBMP encodes rows as an 8-bit grayscale bitmap in dir
func writeGrayBMP(t *testing.T, dir, name string, rows [][]uint8) string {
	t.Helper()

	img := image.NewGray(image.Rect(0, 0, len(rows[0]), len(rows)))
	for y, row := range rows {
		for x, v := range row {
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	return writeImage(t, dir, name, img, encodeBMP)
}

func TestCompareFiles_TwoByTwoScenario(t *testing.T) {
	dir := t.TempDir()
	a := writeGrayBMP(t, dir, "a.bmp", [][]uint8{{10, 20}, {30, 40}})
	b := writeGrayBMP(t, dir, "b.bmp", [][]uint8{{10, 20}, {30, 41}})

	result, err := CompareFiles(context.Background(), a, b, Options{})
	require.NoError(t, err)

	assert.Equal(t, 0.25, result.MSE)
	assert.Equal(t, 1, result.Channels)
}

func TestCompareFiles_SameFile(t *testing.T) {
	dir := t.TempDir()
	rows := make([][]uint8, 100)
	for y := range rows {
		rows[y] = make([]uint8, 100)
		for x := range rows[y] {
			rows[y][x] = uint8(x + y)
		}
	}
	a := writeGrayBMP(t, dir, "a.bmp", rows)

	result, err := CompareFiles(context.Background(), a, a, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.MSE)
}

func TestCompareFiles_OpaqueAgainstTranslucentPNG(t *testing.T) {
	dir := t.TempDir()

	opaque := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	translucent := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			c := color.NRGBA{R: 200, G: 100, B: 50, A: 255}
			opaque.SetNRGBA(x, y, c)
			if x == 1 && y == 1 {
				c.A = 254
			}
			translucent.SetNRGBA(x, y, c)
		}
	}

	a := writeImage(t, dir, "opaque.png", opaque, encodePNG)
	b := writeImage(t, dir, "translucent.png", translucent, encodePNG)

	for _, pair := range [][2]string{{a, b}, {b, a}} {
		result, err := CompareFiles(context.Background(), pair[0], pair[1], Options{})
		require.NoError(t, err)

		assert.Equal(t, 4, result.Channels)
		assert.Equal(t, 1.0, result.SquaredSum)
		assert.Equal(t, 0.25, result.MSE)
	}
}

func TestCompareFiles_GrayAgainstColorPaletteBMP(t *testing.T) {
	dir := t.TempDir()
	gray := writeGrayBMP(t, dir, "gray.bmp", [][]uint8{{10, 20}, {30, 40}})

	palette := color.Palette{
		color.RGBA{R: 10, G: 10, B: 10, A: 255},
		color.RGBA{R: 20, G: 20, B: 20, A: 255},
		color.RGBA{R: 30, G: 30, B: 30, A: 255},
		color.RGBA{R: 40, G: 40, B: 41, A: 255},
	}
	img := image.NewPaletted(image.Rect(0, 0, 2, 2), palette)
	img.SetColorIndex(1, 0, 1)
	img.SetColorIndex(0, 1, 2)
	img.SetColorIndex(1, 1, 3)
	colored := writeImage(t, dir, "color.bmp", img, encodeBMP)

	result, err := CompareFiles(context.Background(), gray, colored, Options{})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Channels)
	assert.Equal(t, 0.25, result.MSE)
}

func TestCompareFiles_Errors(t *testing.T) {
	dir := t.TempDir()
	good := writeGrayBMP(t, dir, "good.bmp", [][]uint8{{1, 2}, {3, 4}})
	wide := writeGrayBMP(t, dir, "wide.bmp", [][]uint8{{1, 2, 3}, {4, 5, 6}})
	missing := filepath.Join(dir, "missing.bmp")
	corrupt := filepath.Join(dir, "corrupt.bmp")
	require.NoError(t, os.WriteFile(corrupt, []byte("BM but not really"), 0644))

	tests := []struct {
		name     string
		a, b     string
		target   error
		wantPath string
	}{
		{"missing first", missing, good, imageio.ErrImageNotFound, missing},
		{"missing second", good, missing, imageio.ErrImageNotFound, missing},
		{"both missing reports first", missing, filepath.Join(dir, "other.bmp"), imageio.ErrImageNotFound, missing},
		{"corrupt", good, corrupt, imageio.ErrDecode, corrupt},
		{"missing beats corrupt", missing, corrupt, imageio.ErrImageNotFound, missing},
		{"shape mismatch", good, wide, ErrShapeMismatch, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := CompareFiles(context.Background(), tt.a, tt.b, Options{})
			require.Error(t, err)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, tt.target)

			var nf *imageio.ImageNotFoundError
			var de *imageio.DecodeError
			switch {
			case tt.target == imageio.ErrImageNotFound:
				require.ErrorAs(t, err, &nf)
				assert.Equal(t, tt.wantPath, nf.Path)
			case tt.target == imageio.ErrDecode:
				require.ErrorAs(t, err, &de)
				assert.Equal(t, tt.wantPath, de.Path)
			}
		})
	}
}

func TestCompareFiles_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := CompareFiles(ctx, "a.bmp", "b.bmp", Options{})
	assert.ErrorIs(t, err, context.Canceled)
}
