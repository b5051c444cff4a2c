package imageio

import (
	"bufio"
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var errIsDirectory = errors.New("is a directory")

// Load opens and decodes the image at path.
//
// Any format registered with the image package is accepted: BMP, TIFF and
// WebP through golang.org/x/image, plus PNG, JPEG and GIF from the standard
// library. A path that cannot be opened yields an *ImageNotFoundError; a
// readable file that does not decode yields a *DecodeError.
func Load(path string) (*SampleArray, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ImageNotFoundError{Path: path, Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, &ImageNotFoundError{Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &ImageNotFoundError{Path: path, Err: errIsDirectory}
	}

	img, format, err := image.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	samples := FromImage(img)
	slog.Debug("Loaded image",
		"path", path,
		"format", format,
		"width", samples.Width,
		"height", samples.Height,
		"channels", samples.Channels,
		"bit_depth", samples.BitDepth,
	)
	return samples, nil
}
