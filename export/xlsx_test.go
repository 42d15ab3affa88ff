package export_test

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"

	"geoplot-server/chart"
	"geoplot-server/export"
)

func sampleSeries() []chart.Series {
	return []chart.Series{
		{
			Label: "NDVI",
			Color: "#1f77b4",
			X:     []string{"Jan", "Feb", "Mar"},
			Y:     []float64{0.25, 0.5, 0.75},
		},
		{
			Label: "EVI",
			Color: "#ff7f0e",
			X:     []string{"Jan", "Feb", "Mar"},
			Y:     []float64{0.125, 0.25, 0.375},
		},
	}
}

func reopen(t *testing.T, workbook *export.Workbook) *excelize.File {
	var buf bytes.Buffer
	if err := workbook.Write(&buf); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	file, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	return file
}

func TestNewWorkbook_WritesDataSheet(t *testing.T) {
	// Arrange
	series := sampleSeries()

	// Act
	workbook, err := export.NewWorkbook(chart.KindBar, series, "Bands by region")

	// Assert
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	file := reopen(t, workbook)
	defer file.Close()

	header, err := file.GetCellValue(export.DATA_SHEET, "A1")
	assert.NoError(t, err)
	assert.Equal(t, "x", header)

	firstX, err := file.GetCellValue(export.DATA_SHEET, "A2")
	assert.NoError(t, err)
	assert.Equal(t, "Jan", firstX)

	firstLabel, err := file.GetCellValue(export.DATA_SHEET, "B1")
	assert.NoError(t, err)
	assert.Equal(t, "NDVI", firstLabel)

	secondLabel, err := file.GetCellValue(export.DATA_SHEET, "C1")
	assert.NoError(t, err)
	assert.Equal(t, "EVI", secondLabel)

	value, err := file.GetCellValue(export.DATA_SHEET, "B3")
	assert.NoError(t, err)
	assert.Equal(t, "0.5", value)
}

func TestNewWorkbook_AddsChartSheet(t *testing.T) {
	// Arrange
	series := sampleSeries()

	// Act
	workbook, err := export.NewWorkbook(chart.KindPlot, series, "NDVI trend")

	// Assert
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	file := reopen(t, workbook)
	defer file.Close()

	assert.Contains(t, file.GetSheetList(), export.DATA_SHEET)
	assert.Contains(t, file.GetSheetList(), export.CHART_SHEET)
}

func TestNewWorkbook_GapLeavesCellEmpty(t *testing.T) {
	// Arrange
	series := []chart.Series{
		{
			Label: "NDVI",
			Color: "#1f77b4",
			X:     []string{"Jan", "Feb", "Mar"},
			Y:     []float64{0.25, math.NaN(), 0.75},
		},
	}

	// Act
	workbook, err := export.NewWorkbook(chart.KindPlot, series, "NDVI trend")

	// Assert
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	file := reopen(t, workbook)
	defer file.Close()

	gap, err := file.GetCellValue(export.DATA_SHEET, "B3")
	assert.NoError(t, err)
	assert.Equal(t, "", gap)

	kept, err := file.GetCellValue(export.DATA_SHEET, "B4")
	assert.NoError(t, err)
	assert.Equal(t, "0.75", kept)
}

func TestNewWorkbook_UnionAxisAcrossSeries(t *testing.T) {
	// Arrange

	// Series with disjoint x values share one category axis.
	series := []chart.Series{
		{Label: "2020", Color: "#1f77b4", X: []string{"Jan", "Feb"}, Y: []float64{1, 2}},
		{Label: "2021", Color: "#ff7f0e", X: []string{"Feb", "Mar"}, Y: []float64{3, 4}},
	}

	// Act
	workbook, err := export.NewWorkbook(chart.KindPlot, series, "Yearly")

	// Assert
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	file := reopen(t, workbook)
	defer file.Close()

	lastX, err := file.GetCellValue(export.DATA_SHEET, "A4")
	assert.NoError(t, err)
	assert.Equal(t, "Mar", lastX)

	missing, err := file.GetCellValue(export.DATA_SHEET, "C2")
	assert.NoError(t, err)
	assert.Equal(t, "", missing)

	shared, err := file.GetCellValue(export.DATA_SHEET, "C3")
	assert.NoError(t, err)
	assert.Equal(t, "3", shared)
}

func TestNewWorkbook_PieLaysSlicesOutAsRows(t *testing.T) {
	// Arrange
	series := []chart.Series{
		{Label: "Forest", Color: "#1f77b4", X: []string{"Forest"}, Y: []float64{62.5}},
		{Label: "Desert", Color: "#ff7f0e", X: []string{"Desert"}, Y: []float64{37.5}},
	}

	// Act
	workbook, err := export.NewWorkbook(chart.KindPie, series, "Cover share")

	// Assert
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	file := reopen(t, workbook)
	defer file.Close()

	label, err := file.GetCellValue(export.DATA_SHEET, "A2")
	assert.NoError(t, err)
	assert.Equal(t, "Forest", label)

	share, err := file.GetCellValue(export.DATA_SHEET, "B3")
	assert.NoError(t, err)
	assert.Equal(t, "37.5", share)
}

func TestNewWorkbook_UnknownKind(t *testing.T) {
	// Arrange

	// Act
	workbook, err := export.NewWorkbook(chart.Kind("sankey"), sampleSeries(), "Nope")

	// Assert
	assert.Error(t, err)
	assert.Nil(t, workbook)
}

func TestNewWorkbook_EmptySeries(t *testing.T) {
	// Arrange

	// Act
	workbook, err := export.NewWorkbook(chart.KindBar, nil, "Empty")

	// Assert
	assert.Error(t, err)
	assert.Nil(t, workbook)
}
