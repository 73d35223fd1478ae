package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TankView describes one frame of a tank column. Temperatures are in °C,
// top layer first.
type TankView struct {
	Temps []float64

	// Min and Max bound the colour scale.
	Min, Max float64

	// HeaterLayers is the number of bottom layers holding the element.
	HeaterLayers int
	HeaterOn     bool

	// Well is the thermal-well layer, -1 for none.
	Well  int
	Width int
}

// RenderTank draws the layers as coloured bands with their temperatures.
func RenderTank(v TankView) string {
	if v.Width <= 0 {
		v.Width = 16
	}
	span := v.Max - v.Min
	if span <= 0 {
		span = 1
	}

	border := Subtle.Render("+" + strings.Repeat("-", v.Width) + "+")
	var b strings.Builder
	b.WriteString(border + "\n")

	n := len(v.Temps)
	for i, temp := range v.Temps {
		color := blend(CurrentTheme.Cold, CurrentTheme.Hot, (temp-v.Min)/span)
		band := lipgloss.NewStyle().Background(color).Render(strings.Repeat(" ", v.Width))

		label := fmt.Sprintf(" %5.1f°C", temp)
		if i == v.Well {
			label += " ◄ well"
		}
		if i >= n-v.HeaterLayers {
			marker := "  "
			if v.HeaterOn {
				marker = lipgloss.NewStyle().Foreground(CurrentTheme.Heater).Render(" ≈")
			}
			label = marker + label
		} else {
			label = "  " + label
		}

		b.WriteString(Subtle.Render("|") + band + Subtle.Render("|") + label + "\n")
	}
	b.WriteString(border)
	return b.String()
}

// Range returns the min and max over all given temperature rows, padded to
// at least one kelvin.
func Range(rows ...[]float64) (float64, float64) {
	first := true
	var lo, hi float64
	for _, row := range rows {
		for _, v := range row {
			if first {
				lo, hi = v, v
				first = false
				continue
			}
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	if hi-lo < 1 {
		mid := (hi + lo) / 2
		lo, hi = mid-0.5, mid+0.5
	}
	return lo, hi
}
