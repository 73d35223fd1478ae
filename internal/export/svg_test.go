package export

import (
	"strings"
	"testing"
)

func TestHeatmapSVG(t *testing.T) {
	temps := [][]float64{
		{60, 40},
		{55, 45},
		{50, 50},
	}
	svg := HeatmapSVG(temps, 4, 10)

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("not an svg document")
	}
	if n := strings.Count(svg, "<rect x="); n != 6 {
		t.Errorf("expected 6 cells, got %d", n)
	}
	if !strings.Contains(svg, heatColor(1)) || !strings.Contains(svg, heatColor(0)) {
		t.Error("expected hottest and coldest colours")
	}
	if !strings.Contains(svg, `width="12"`) {
		t.Error("expected width of 3 columns")
	}

	if HeatmapSVG(nil, 1, 1) != "" {
		t.Error("expected empty output for no data")
	}
}

func TestSeriesSVG(t *testing.T) {
	svg := SeriesSVG([]float64{0, 60, 120}, []float64{40, 41, 42}, 100, 50, "#ff0000")
	if !strings.Contains(svg, `stroke="#ff0000"`) {
		t.Error("missing stroke colour")
	}
	if strings.Count(svg, " L") != 2 {
		t.Error("expected two line segments")
	}

	if SeriesSVG([]float64{0}, []float64{1}, 10, 10, "#fff") != "" {
		t.Error("expected empty output for a single point")
	}
}

func TestHeatColor(t *testing.T) {
	if heatColor(0) != "#2060ff" {
		t.Errorf("cold colour %s", heatColor(0))
	}
	if heatColor(1) != "#ff0000" {
		t.Errorf("hot colour %s", heatColor(1))
	}
	if heatColor(-1) != heatColor(0) || heatColor(2) != heatColor(1) {
		t.Error("expected clamping")
	}
}
