package export

import (
	"fmt"
	"strings"
)

// HeatmapSVG draws layer temperatures over time: one column per time step,
// one row per layer with the top layer at the top. Colours run from blue at
// the coldest to red at the hottest recorded temperature.
func HeatmapSVG(temps [][]float64, cellW, cellH float64) string {
	if len(temps) == 0 || len(temps[0]) == 0 {
		return ""
	}

	lo, hi := bounds(temps)
	span := hi - lo
	if span == 0 {
		span = 1
	}

	cols, rows := len(temps), len(temps[0])
	width := float64(cols) * cellW
	height := float64(rows) * cellH

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g shape-rendering="crispEdges">
`, width, height, width, height))

	for c, row := range temps {
		for r, v := range row {
			sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>
`, float64(c)*cellW, float64(r)*cellH, cellW, cellH, heatColor((v-lo)/span)))
		}
	}

	sb.WriteString(fmt.Sprintf(`</g>
<text x="4" y="12" fill="#ffffff" font-size="10">%.1f–%.1f °C</text>
</svg>`, lo, hi))
	return sb.String()
}

// SeriesSVG creates an SVG line chart of values against times.
func SeriesSVG(times, values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 || len(times) != len(values) {
		return ""
	}

	minX, maxX := times[0], times[len(times)-1]
	minY, maxY := values[0], values[0]
	for _, v := range values {
		if v < minY {
			minY = v
		}
		if v > maxY {
			maxY = v
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i := range values {
		x := (times[i] - minX) / rangeX * float64(width)
		y := float64(height) - (values[i]-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

func bounds(temps [][]float64) (float64, float64) {
	lo, hi := temps[0][0], temps[0][0]
	for _, row := range temps {
		for _, v := range row {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	return lo, hi
}

// heatColor maps 0..1 to blue..red.
func heatColor(f float64) string {
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	r := int(32 + f*(255-32))
	g := int(96 * (1 - f))
	b := int(255 * (1 - f))
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}
