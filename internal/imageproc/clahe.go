package imageproc

import (
	"image"
	"math"
)

// CLAHE performs contrast limited adaptive histogram equalization over a
// tilesX x tilesY grid. clipLimit is relative to a uniform histogram, as in
// the common 2.0 / 8x8 setting; values <= 0 disable clipping.
func CLAHE(g *image.Gray, clipLimit float64, tilesX, tilesY int) *image.Gray {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	src := cloneGray(g)
	if w == 0 || h == 0 {
		return src
	}
	tilesX = max(1, min(tilesX, w))
	tilesY = max(1, min(tilesY, h))

	luts := make([][256]uint8, tilesX*tilesY)
	for ty := 0; ty < tilesY; ty++ {
		y0, y1 := ty*h/tilesY, (ty+1)*h/tilesY
		for tx := 0; tx < tilesX; tx++ {
			x0, x1 := tx*w/tilesX, (tx+1)*w/tilesX
			luts[ty*tilesX+tx] = tileLUT(src, x0, y0, x1, y1, clipLimit)
		}
	}

	tileW := float64(w) / float64(tilesX)
	tileH := float64(h) / float64(tilesY)
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		ty0, ty1, ay := gridPosition(y, tileH, tilesY)
		for x := 0; x < w; x++ {
			tx0, tx1, ax := gridPosition(x, tileW, tilesX)
			v := src.Pix[y*src.Stride+x]

			top := (1-ax)*float64(luts[ty0*tilesX+tx0][v]) + ax*float64(luts[ty0*tilesX+tx1][v])
			bottom := (1-ax)*float64(luts[ty1*tilesX+tx0][v]) + ax*float64(luts[ty1*tilesX+tx1][v])
			dst.Pix[y*dst.Stride+x] = uint8(math.Round((1-ay)*top + ay*bottom))
		}
	}
	return dst
}

// gridPosition locates pixel p between the centres of two neighbouring tiles.
func gridPosition(p int, tileSize float64, tiles int) (lo, hi int, frac float64) {
	pos := (float64(p)+0.5)/tileSize - 0.5
	lo = int(math.Floor(pos))
	frac = pos - float64(lo)
	if lo < 0 {
		return 0, 0, 0
	}
	if lo >= tiles-1 {
		return tiles - 1, tiles - 1, 0
	}
	return lo, lo + 1, frac
}

func tileLUT(g *image.Gray, x0, y0, x1, y1 int, clipLimit float64) [256]uint8 {
	var hist [256]int
	for y := y0; y < y1; y++ {
		row := g.Pix[y*g.Stride:]
		for x := x0; x < x1; x++ {
			hist[row[x]]++
		}
	}
	area := (x1 - x0) * (y1 - y0)

	if clipLimit > 0 {
		limit := max(1, int(clipLimit*float64(area)/256))
		excess := 0
		for i, n := range hist {
			if n > limit {
				excess += n - limit
				hist[i] = limit
			}
		}
		share, rest := excess/256, excess%256
		for i := range hist {
			hist[i] += share
			if i < rest {
				hist[i]++
			}
		}
	}

	var lut [256]uint8
	if area == 0 {
		for i := range lut {
			lut[i] = uint8(i)
		}
		return lut
	}
	scale := 255.0 / float64(area)
	cdf := 0
	for i, n := range hist {
		cdf += n
		lut[i] = uint8(min(255, math.Round(float64(cdf)*scale)))
	}
	return lut
}
