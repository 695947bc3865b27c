package imageproc

import "image"

func histogram(g *image.Gray) (hist [256]int, total int) {
	b := g.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := g.Pix[g.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			hist[row[x]]++
		}
	}
	return hist, b.Dx() * b.Dy()
}

// OtsuThreshold returns the global threshold that maximizes the between-class
// variance of the foreground and background intensity classes.
func OtsuThreshold(g *image.Gray) uint8 {
	hist, total := histogram(g)
	if total == 0 {
		return 0
	}

	var sum float64
	for i, n := range hist {
		sum += float64(i * n)
	}

	var (
		sumB, weightB float64
		best          = -1.0
		threshold     int
	)
	for t := 0; t < 256; t++ {
		weightB += float64(hist[t])
		if weightB == 0 {
			continue
		}
		weightF := float64(total) - weightB
		if weightF == 0 {
			break
		}
		sumB += float64(t * hist[t])
		meanB := sumB / weightB
		meanF := (sum - sumB) / weightF
		between := weightB * weightF * (meanB - meanF) * (meanB - meanF)
		if between > best {
			best = between
			threshold = t
		}
	}
	return uint8(threshold)
}

// Binarize maps pixels above t to white and all others to black.
func Binarize(g *image.Gray, t uint8) *image.Gray {
	b := g.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		row := g.Pix[g.PixOffset(b.Min.X, b.Min.Y+y):]
		out := dst.Pix[y*dst.Stride:]
		for x := 0; x < b.Dx(); x++ {
			if row[x] > t {
				out[x] = 255
			}
		}
	}
	return dst
}

// Otsu binarizes g with its Otsu threshold.
func Otsu(g *image.Gray) *image.Gray {
	return Binarize(g, OtsuThreshold(g))
}
