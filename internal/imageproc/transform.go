package imageproc

import "image"

// Transform prepares a raster for recognition. Implementations must not
// modify their input.
type Transform func(image.Image) image.Image

// Preprocessing parameters for the standard transforms.
const (
	CLAHEClipLimit = 2.0
	CLAHETiles     = 8

	BilateralDiameter = 9
	BilateralSigma    = 75.0
)

// GrayscaleTransform keeps only luminance.
func GrayscaleTransform(img image.Image) image.Image {
	return Grayscale(img)
}

// OtsuTransform binarizes the luminance with a global Otsu threshold.
func OtsuTransform(img image.Image) image.Image {
	return Otsu(Grayscale(img))
}

// CLAHEOtsuTransform equalizes local contrast before binarizing, which helps
// with unevenly lit photos.
func CLAHEOtsuTransform(img image.Image) image.Image {
	return Otsu(CLAHE(Grayscale(img), CLAHEClipLimit, CLAHETiles, CLAHETiles))
}

// SharpenOtsuTransform sharpens strokes before binarizing.
func SharpenOtsuTransform(img image.Image) image.Image {
	return Otsu(Sharpen(Grayscale(img)))
}

// BilateralOtsuTransform removes paper texture while keeping glyph edges.
func BilateralOtsuTransform(img image.Image) image.Image {
	return Otsu(Bilateral(Grayscale(img), BilateralDiameter, BilateralSigma, BilateralSigma))
}
