package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
)

var seriesColors = []asciigraph.AnsiColor{
	asciigraph.Red,
	asciigraph.Yellow,
	asciigraph.Green,
	asciigraph.Cyan,
	asciigraph.Blue,
	asciigraph.Magenta,
}

// PlotLayers charts the temperature of the selected layers over time.
// temps holds one row per time step, °C, top layer first.
func PlotLayers(temps [][]float64, layers []int, height, width int, caption string) string {
	if len(temps) == 0 || len(layers) == 0 {
		return ""
	}

	series := make([][]float64, 0, len(layers))
	colors := make([]asciigraph.AnsiColor, 0, len(layers))
	for i, layer := range layers {
		data := make([]float64, len(temps))
		for t, row := range temps {
			if layer < len(row) {
				data[t] = row[layer]
			}
		}
		series = append(series, data)
		colors = append(colors, seriesColors[i%len(seriesColors)])
	}

	return asciigraph.PlotMany(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.SeriesColors(colors...),
		asciigraph.Caption(caption),
	)
}

// PlotSeries charts a single series.
func PlotSeries(data []float64, height, width int, caption string) string {
	if len(data) == 0 {
		return ""
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// DefaultLayers picks the top, middle and bottom layer of an n-layer tank.
func DefaultLayers(n int) []int {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []int{0}
	case n == 2:
		return []int{0, 1}
	}
	return []int{0, n / 2, n - 1}
}

// LayerCaption names the plotted layers.
func LayerCaption(layers []int) string {
	s := "layer temperatures °C:"
	for i, l := range layers {
		s += fmt.Sprintf(" T_%d(%s)", l, colorName(i))
	}
	return s
}

func colorName(i int) string {
	names := []string{"red", "yellow", "green", "cyan", "blue", "magenta"}
	return names[i%len(names)]
}
