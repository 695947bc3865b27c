// Package imageproc holds the raster operations used to prepare recipe
// photos for text recognition.
//
// All operations return new images and never modify their input, so one
// decoded photo can be shared between independent preprocessing runs as
// long as each run starts from its own Clone.
package imageproc

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	// additional input formats beyond jpeg, png and gif
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrEmptyImage is returned for zero-byte input or images without pixels.
var ErrEmptyImage = errors.New("empty image")

// Decode reads an encoded photo and applies its EXIF orientation.
func Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	return img, nil
}

// EncodePNG encodes img losslessly for handing it to a recognition engine.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Clone returns a private copy of img.
func Clone(img image.Image) image.Image {
	return imaging.Clone(img)
}
