package source

import "image"

// Focus detection tuning. Cells form a coarse grid over the page;
// a window of roughly a third of the grid slides over it looking for
// the densest patch of ink.
const (
	focusGridSize      = 48
	focusInkThreshold  = 40
	focusMinInkPerCell = 0.02
)

// DetectFocusRegions finds up to maxRegions rectangles covering the
// busiest parts of img, most dense first. Ink is any pixel that
// differs noticeably from the background tone, estimated from the
// image border. A page with no region standing out returns nil, which
// callers treat as "keep the camera centered".
func DetectFocusRegions(img image.Image, maxRegions int) []image.Rectangle {
	b := img.Bounds()
	if b.Dx() < 8 || b.Dy() < 8 || maxRegions < 1 {
		return nil
	}

	gw := min(focusGridSize, b.Dx())
	gh := min(focusGridSize, b.Dy())

	ink := rasterInk(img, gw, gh)

	// Cell capacity in pixels, for the significance cutoff.
	cellPixels := float64(b.Dx()) * float64(b.Dy()) / float64(gw*gh)

	winW := max(1, gw/3)
	winH := max(1, gh/3)
	minInk := focusMinInkPerCell * cellPixels * float64(winW*winH)

	var regions []image.Rectangle
	for len(regions) < maxRegions {
		bestX, bestY, bestSum := -1, -1, 0.0
		for gy := 0; gy+winH <= gh; gy++ {
			for gx := 0; gx+winW <= gw; gx++ {
				sum := 0.0
				for y := gy; y < gy+winH; y++ {
					for x := gx; x < gx+winW; x++ {
						sum += ink[y][x]
					}
				}
				if sum > bestSum {
					bestX, bestY, bestSum = gx, gy, sum
				}
			}
		}
		if bestX < 0 || bestSum < minInk {
			break
		}

		regions = append(regions, image.Rect(
			b.Min.X+bestX*b.Dx()/gw,
			b.Min.Y+bestY*b.Dy()/gh,
			b.Min.X+(bestX+winW)*b.Dx()/gw,
			b.Min.Y+(bestY+winH)*b.Dy()/gh,
		))

		// Suppress the found window so the next pass looks elsewhere.
		for y := bestY; y < bestY+winH; y++ {
			for x := bestX; x < bestX+winW; x++ {
				ink[y][x] = 0
			}
		}
	}

	return regions
}

// rasterInk buckets the image into a gw x gh grid and counts the ink
// pixels per cell.
func rasterInk(img image.Image, gw, gh int) [][]float64 {
	b := img.Bounds()

	lum := func(x, y int) int {
		r, g, bl, _ := img.At(x, y).RGBA()
		return int((299*(r>>8) + 587*(g>>8) + 114*(bl>>8)) / 1000)
	}

	// Background tone from the border pixels.
	var bgSum, bgCount int
	for x := b.Min.X; x < b.Max.X; x++ {
		bgSum += lum(x, b.Min.Y) + lum(x, b.Max.Y-1)
		bgCount += 2
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		bgSum += lum(b.Min.X, y) + lum(b.Max.X-1, y)
		bgCount += 2
	}
	bg := bgSum / bgCount

	ink := make([][]float64, gh)
	for i := range ink {
		ink[i] = make([]float64, gw)
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		gy := (y - b.Min.Y) * gh / b.Dy()
		if gy >= gh {
			gy = gh - 1
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			d := lum(x, y) - bg
			if d < 0 {
				d = -d
			}
			if d > focusInkThreshold {
				gx := (x - b.Min.X) * gw / b.Dx()
				if gx >= gw {
					gx = gw - 1
				}
				ink[gy][gx]++
			}
		}
	}

	return ink
}
