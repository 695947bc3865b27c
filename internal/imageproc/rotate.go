package imageproc

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// RotateCCW rotates img counter-clockwise by degrees. Right angles are
// exact; other angles grow the canvas and fill the corners with white.
func RotateCCW(img image.Image, degrees int) image.Image {
	switch degrees = ((degrees % 360) + 360) % 360; degrees {
	case 0:
		return img
	case 90:
		return imaging.Rotate90(img)
	case 180:
		return imaging.Rotate180(img)
	case 270:
		return imaging.Rotate270(img)
	default:
		return imaging.Rotate(img, float64(degrees), color.White)
	}
}
