package textures

import (
	"errors"
	"image"
	"io"

	"github.com/disintegration/imaging"
)

var ErrImageTooSmall = errors.New("image is too small to contain the arm regions of a skin")

// ImageDecodeError is returned when the stored bytes can't be decoded into a bitmap
type ImageDecodeError struct {
	Err error
}

func (e *ImageDecodeError) Error() string {
	return "unable to decode the texture: " + e.Err.Error()
}

func (e *ImageDecodeError) Unwrap() error {
	return e.Err
}

// DecodeImage is used by every storage implementation, so all of them report
// broken textures with the same error type
func DecodeImage(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, &ImageDecodeError{err}
	}

	return img, nil
}
