package imageio

// ErrImageNotFound is returned when an image path cannot be opened for reading.
// Use errors.Is(err, ErrImageNotFound) to check for this error.
var ErrImageNotFound = &ImageNotFoundError{}

// ErrDecode is returned when a file was read but its content is not a
// decodable image. Use errors.Is(err, ErrDecode) to check for this error.
var ErrDecode = &DecodeError{}

// ImageNotFoundError reports a missing or unreadable image file.
type ImageNotFoundError struct {
	Path string
	Err  error
}

func (e *ImageNotFoundError) Error() string {
	msg := "image not found"
	if e.Path != "" {
		msg += ": " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ImageNotFoundError) Unwrap() error { return e.Err }

func (e *ImageNotFoundError) Is(target error) bool {
	_, ok := target.(*ImageNotFoundError)
	return ok
}

// DecodeError reports a file that exists but could not be decoded.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	msg := "failed to decode image"
	if e.Path != "" {
		msg += ": " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool {
	_, ok := target.(*DecodeError)
	return ok
}
