package viz

import (
	"fmt"
	"strings"
)

// SVG renders the canvas dots as an SVG document, one circle per lit
// Braille dot. scale is the dot pitch in SVG units.
func (c *Canvas) SVG(scale float64) string {
	width := float64(c.width) * scale * 2
	height := float64(c.height) * scale * 4

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff00">
`, width, height, width, height))

	dotRadius := scale * 0.4

	for row := 0; row < c.height; row++ {
		for col := 0; col < c.width; col++ {
			pattern := int(c.grid[row][col] - 0x2800)
			if pattern <= 0 {
				continue
			}

			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] == 0 {
						continue
					}
					cx := baseX + (float64(dx)+0.5)*scale
					cy := baseY + (float64(dy)+0.5)*scale
					sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n", cx, cy, dotRadius))
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>\n")
	return sb.String()
}

// TrajectorySVG draws the stored x-z trajectory of a run onto a fresh
// canvas and returns it as SVG. Bounds are fitted to the data with a small
// margin.
func TrajectorySVG(xs, zs []float64, scale float64) string {
	xmin, xmax := bounds(xs)
	zmin, zmax := bounds(zs)

	c := NewCanvas(canvasWidth, canvasHeight, xmin, xmax, zmin, zmax)
	for i := 1; i < len(xs); i++ {
		c.Segment(xs[i-1], zs[i-1], xs[i], zs[i])
	}
	return c.SVG(scale)
}

func bounds(vals []float64) (float64, float64) {
	lo, hi := vals[0], vals[0]
	for _, v := range vals {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	margin := (hi - lo) * 0.05
	if margin == 0 {
		margin = 0.5
	}
	return lo - margin, hi + margin
}
