package imageproc

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func twoTone(w, h int, left, right uint8) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := left
			if x >= w/2 {
				v = right
			}
			g.SetGray(x, y, color.Gray{Y: v})
		}
	}
	return g
}

func photo(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 7), G: uint8(y * 5), B: uint8((x + y) * 3), A: 255})
		}
	}
	return img
}

func TestOtsuSeparatesTwoTones(t *testing.T) {
	g := twoTone(20, 10, 40, 200)

	th := OtsuThreshold(g)
	if th < 40 || th >= 200 {
		t.Fatalf("threshold = %d, want in [40, 200)", th)
	}

	bin := Otsu(g)
	if got := bin.GrayAt(0, 0).Y; got != 0 {
		t.Fatalf("dark side = %d, want 0", got)
	}
	if got := bin.GrayAt(19, 9).Y; got != 255 {
		t.Fatalf("bright side = %d, want 255", got)
	}
}

func TestTransformsDoNotModifyInput(t *testing.T) {
	transforms := map[string]Transform{
		"grayscale": GrayscaleTransform,
		"otsu":      OtsuTransform,
		"clahe":     CLAHEOtsuTransform,
		"sharpen":   SharpenOtsuTransform,
		"bilateral": BilateralOtsuTransform,
	}
	for name, tr := range transforms {
		src := photo(24, 16)
		before := append([]uint8(nil), src.Pix...)

		out := tr(src)
		if !bytes.Equal(before, src.Pix) {
			t.Fatalf("%s modified its input", name)
		}
		if out.Bounds().Dx() != 24 || out.Bounds().Dy() != 16 {
			t.Fatalf("%s changed the size to %v", name, out.Bounds())
		}
	}
}

func TestBinarizingTransformsAreBinary(t *testing.T) {
	for _, tr := range []Transform{OtsuTransform, CLAHEOtsuTransform, SharpenOtsuTransform, BilateralOtsuTransform} {
		g, ok := tr(photo(32, 32)).(*image.Gray)
		if !ok {
			t.Fatalf("expected *image.Gray output")
		}
		for _, v := range g.Pix {
			if v != 0 && v != 255 {
				t.Fatalf("pixel value %d is not binary", v)
			}
		}
	}
}

func TestCLAHEUniformImageStaysUniform(t *testing.T) {
	g := twoTone(64, 64, 120, 120)
	out := CLAHE(g, CLAHEClipLimit, CLAHETiles, CLAHETiles)

	first := out.Pix[0]
	for _, v := range out.Pix {
		if v != first {
			t.Fatalf("uniform input produced non-uniform output (%d vs %d)", v, first)
		}
	}
}

func TestCLAHETinyImage(t *testing.T) {
	g := twoTone(3, 2, 10, 250)
	out := CLAHE(g, CLAHEClipLimit, CLAHETiles, CLAHETiles)
	if out.Bounds() != image.Rect(0, 0, 3, 2) {
		t.Fatalf("bounds = %v", out.Bounds())
	}
}

func TestBilateralKeepsFlatRegions(t *testing.T) {
	g := twoTone(12, 12, 77, 77)
	out := Bilateral(g, BilateralDiameter, BilateralSigma, BilateralSigma)
	for _, v := range out.Pix {
		if v != 77 {
			t.Fatalf("flat region changed to %d", v)
		}
	}
}

func TestRotateCCW(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	img.SetNRGBA(3, 0, color.NRGBA{R: 255, A: 255})

	rotated := RotateCCW(img, 90)
	if b := rotated.Bounds(); b.Dx() != 2 || b.Dy() != 4 {
		t.Fatalf("bounds = %v, want 2x4", b)
	}
	if r, _, _, _ := rotated.At(0, 0).RGBA(); r>>8 != 255 {
		t.Fatalf("top-right pixel did not move to top-left")
	}

	if RotateCCW(img, 360) != image.Image(img) {
		t.Fatalf("full turn should return the input unchanged")
	}
	if b := RotateCCW(img, -90).Bounds(); b.Dx() != 2 || b.Dy() != 4 {
		t.Fatalf("bounds = %v, want 2x4", b)
	}
}

func TestDecode(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, photo(10, 6)); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}

	img, err := Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 10 || b.Dy() != 6 {
		t.Fatalf("bounds = %v", b)
	}

	if _, err := Decode(nil); !errors.Is(err, ErrEmptyImage) {
		t.Fatalf("Decode(nil) error = %v, want ErrEmptyImage", err)
	}
	if _, err := Decode([]byte("not an image")); err == nil {
		t.Fatalf("Decode(garbage) should fail")
	}
}

func TestEncodePNGRoundTrip(t *testing.T) {
	data, err := EncodePNG(Otsu(Grayscale(photo(8, 8))))
	if err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	img, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if img.Bounds().Dx() != 8 {
		t.Fatalf("bounds = %v", img.Bounds())
	}
}
