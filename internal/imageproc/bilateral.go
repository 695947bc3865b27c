package imageproc

import (
	"image"
	"math"
)

// Bilateral smooths g while preserving edges. diameter is the pixel
// neighbourhood, sigmaColor and sigmaSpace control the intensity and
// distance falloff of the weights.
func Bilateral(g *image.Gray, diameter int, sigmaColor, sigmaSpace float64) *image.Gray {
	src := cloneGray(g)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	radius := max(1, diameter/2)

	type tap struct {
		dx, dy int
		weight float64
	}
	var taps []tap
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			d2 := float64(dx*dx + dy*dy)
			if d2 > float64(radius*radius) {
				continue
			}
			taps = append(taps, tap{dx, dy, math.Exp(-d2 / (2 * sigmaSpace * sigmaSpace))})
		}
	}

	var colorWeight [256]float64
	for i := range colorWeight {
		colorWeight[i] = math.Exp(-float64(i*i) / (2 * sigmaColor * sigmaColor))
	}

	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			center := int(src.Pix[y*src.Stride+x])
			var sum, norm float64
			for _, t := range taps {
				sx := clamp(x+t.dx, 0, w-1)
				sy := clamp(y+t.dy, 0, h-1)
				v := int(src.Pix[sy*src.Stride+sx])
				diff := v - center
				if diff < 0 {
					diff = -diff
				}
				wgt := t.weight * colorWeight[diff]
				sum += wgt * float64(v)
				norm += wgt
			}
			dst.Pix[y*dst.Stride+x] = uint8(math.Round(sum / norm))
		}
	}
	return dst
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
