package mse

import (
	"errors"
	"fmt"

	"github.com/cwbudde/imgmse/internal/imageio"
)

// ErrShapeMismatch is returned when two sample arrays differ in height, width,
// channel count or bit depth. Use errors.Is(err, ErrShapeMismatch) to check
// for this error.
var ErrShapeMismatch = &ShapeMismatchError{}

// ErrEmptyImage is returned for images with no pixels, whose MSE is undefined.
var ErrEmptyImage = errors.New("image has no pixels")

// ShapeMismatchError reports the two shapes that could not be compared.
type ShapeMismatchError struct {
	A, B imageio.Shape
}

func (e *ShapeMismatchError) Error() string {
	if e.A == (imageio.Shape{}) && e.B == (imageio.Shape{}) {
		return "image shapes do not match"
	}
	return fmt.Sprintf("image shapes do not match: %s vs %s", e.A, e.B)
}

func (e *ShapeMismatchError) Is(target error) bool {
	_, ok := target.(*ShapeMismatchError)
	return ok
}
