package render

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"geoplot-server/chart"
)

func sampleSeries() []chart.Series {
	return []chart.Series{
		{Label: "NDVI", Color: "#1f77b4", X: []string{"jan", "feb", "mar"}, Y: []float64{0.31, 0.42, 0.55}},
		{Label: "EVI", Color: "#ff7f0e", X: []string{"jan", "feb", "mar"}, Y: []float64{0.18, 0.25, 0.33}},
	}
}

func TestNewChart_AllKinds(t *testing.T) {
	kinds := []chart.Kind{
		chart.KindBar,
		chart.KindBarH,
		chart.KindStacked,
		chart.KindPlot,
		chart.KindFillBetween,
		chart.KindScatter,
		chart.KindPie,
		chart.KindDonut,
		chart.KindHist,
	}

	for _, kind := range kinds {
		t.Run(string(kind), func(t *testing.T) {
			// Act
			c, err := NewChart(kind, sampleSeries(), Options{Title: "Ecoregion means"})

			// Assert
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}

			var buf bytes.Buffer
			if err := c.Render(&buf); err != nil {
				t.Fatalf("Expected no render error, got %v", err)
			}

			html := buf.String()
			assert.Contains(t, html, "echarts")
			assert.Contains(t, html, "NDVI")
			assert.Contains(t, html, "#1f77b4")
		})
	}
}

func TestNewChart_UnknownKind(t *testing.T) {
	// Act
	c, err := NewChart(chart.Kind("sankey"), sampleSeries(), Options{})

	// Assert
	if err == nil {
		t.Fatalf("Expected an error, got nil")
	}
	assert.Nil(t, c)
	assert.Contains(t, err.Error(), "unknown chart kind")
}

func TestRender_GapsBecomeNull(t *testing.T) {
	// Arrange
	series := []chart.Series{
		{Label: "NDVI", Color: "#1f77b4", X: []string{"jan", "feb", "mar"}, Y: []float64{0.31, math.NaN(), 0.55}},
	}

	// Act
	var buf bytes.Buffer
	err := Render(&buf, chart.KindPlot, series, Options{Title: "Gappy"})

	// Assert
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	assert.Contains(t, buf.String(), "null")
}

func TestNewChart_UnionAxisAcrossSeries(t *testing.T) {
	// Series with different x sets, like one series per year over day-of-year
	series := []chart.Series{
		{Label: "2020", Color: "#1f77b4", X: []string{"5", "36"}, Y: []float64{0.2, 0.3}},
		{Label: "2021", Color: "#ff7f0e", X: []string{"5", "100"}, Y: []float64{0.4, 0.9}},
	}

	// Act
	c, err := NewChart(chart.KindPlot, series, Options{})

	// Assert
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var buf bytes.Buffer
	if err := c.Render(&buf); err != nil {
		t.Fatalf("Expected no render error, got %v", err)
	}

	html := buf.String()
	assert.Contains(t, html, "36")
	assert.Contains(t, html, "100")
	assert.Contains(t, html, "2020")
	assert.Contains(t, html, "2021")
}

func TestNewPage_CombinesCharts(t *testing.T) {
	// Arrange
	bar, err := NewChart(chart.KindBar, sampleSeries(), Options{Title: "Bands"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	line, err := NewChart(chart.KindPlot, sampleSeries(), Options{Title: "Trend"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Act
	page := NewPage("Ecoregion dashboard", bar, line)

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		t.Fatalf("Expected no render error, got %v", err)
	}

	// Assert
	html := buf.String()
	assert.Contains(t, html, "Ecoregion dashboard")
	assert.Contains(t, html, "Bands")
	assert.Contains(t, html, "Trend")
}
