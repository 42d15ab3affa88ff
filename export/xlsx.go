// Package export writes chart series into XLSX workbooks with native charts.
package export

import (
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"geoplot-server/chart"
)

const DATA_SHEET = "Data"
const CHART_SHEET = "Chart"

// chartTypes maps the chart kind vocabulary onto excelize chart types.
var chartTypes = map[chart.Kind]excelize.ChartType{
	chart.KindBar:         excelize.Col,
	chart.KindBarH:        excelize.Bar,
	chart.KindStacked:     excelize.ColStacked,
	chart.KindPlot:        excelize.Line,
	chart.KindFillBetween: excelize.Area,
	chart.KindScatter:     excelize.Scatter,
	chart.KindPie:         excelize.Pie,
	chart.KindDonut:       excelize.Doughnut,
	chart.KindHist:        excelize.Col,
}

// Workbook holds an XLSX file with the series data on one sheet and a
// native chart over it on another.
type Workbook struct {
	file *excelize.File
}

// NewWorkbook writes the series into the Data sheet and adds a chart of the
// given kind referencing it.
func NewWorkbook(kind chart.Kind, series []chart.Series, title string) (*Workbook, error) {
	chartType, ok := chartTypes[kind]
	if !ok {
		return nil, fmt.Errorf("export: unknown chart kind %q", kind)
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("export: no series to export")
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", DATA_SHEET); err != nil {
		return nil, err
	}

	var chartSeries []excelize.ChartSeries
	var err error
	if kind == chart.KindPie || kind == chart.KindDonut {
		chartSeries, err = writePieData(f, series, title)
	} else {
		chartSeries, err = writeCartesianData(f, series)
	}
	if err != nil {
		return nil, err
	}

	chartCfg := &excelize.Chart{
		Type:   chartType,
		Series: chartSeries,
		Title:  []excelize.RichTextRun{{Text: title}},
		Legend: excelize.ChartLegend{Position: "bottom"},
	}
	if kind == chart.KindDonut {
		chartCfg.HoleSize = 50
	}

	idx, err := f.NewSheet(CHART_SHEET)
	if err != nil {
		return nil, err
	}
	if err := f.AddChart(CHART_SHEET, "B2", chartCfg); err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)

	return &Workbook{file: f}, nil
}

// writeCartesianData lays the series out with x values in column A and one
// column per series. Gap samples leave their cell empty.
func writeCartesianData(f *excelize.File, series []chart.Series) ([]excelize.ChartSeries, error) {
	axis, aligned := alignSeries(series)

	if err := f.SetCellValue(DATA_SHEET, "A1", "x"); err != nil {
		return nil, err
	}
	for i, x := range axis {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(DATA_SHEET, cell, x); err != nil {
			return nil, err
		}
	}

	categories, err := sheetRange(1, 2, 1, len(axis)+1)
	if err != nil {
		return nil, err
	}

	chartSeries := make([]excelize.ChartSeries, 0, len(series))
	for j, s := range series {
		head, err := excelize.CoordinatesToCellName(j+2, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(DATA_SHEET, head, s.Label); err != nil {
			return nil, err
		}
		for i, v := range aligned[j] {
			if math.IsNaN(v) {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+2, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(DATA_SHEET, cell, v); err != nil {
				return nil, err
			}
		}

		values, err := sheetRange(j+2, 2, j+2, len(axis)+1)
		if err != nil {
			return nil, err
		}
		chartSeries = append(chartSeries, excelize.ChartSeries{
			Name:       s.Label,
			Categories: categories,
			Values:     values,
		})
	}
	return chartSeries, nil
}

// writePieData lays pie slices out one row per slice: labels in column A,
// shares in column B, one chart series over both.
func writePieData(f *excelize.File, series []chart.Series, title string) ([]excelize.ChartSeries, error) {
	if err := f.SetCellValue(DATA_SHEET, "A1", "label"); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(DATA_SHEET, "B1", "share"); err != nil {
		return nil, err
	}

	row := 2
	for _, s := range series {
		if len(s.Y) == 0 {
			continue
		}
		labelCell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(DATA_SHEET, labelCell, s.Label); err != nil {
			return nil, err
		}
		valueCell, err := excelize.CoordinatesToCellName(2, row)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(DATA_SHEET, valueCell, s.Y[0]); err != nil {
			return nil, err
		}
		row++
	}

	categories, err := sheetRange(1, 2, 1, row-1)
	if err != nil {
		return nil, err
	}
	values, err := sheetRange(2, 2, 2, row-1)
	if err != nil {
		return nil, err
	}
	return []excelize.ChartSeries{{
		Name:       title,
		Categories: categories,
		Values:     values,
	}}, nil
}

// alignSeries returns the category axis (union of every series' x values in
// first-seen order) and each series' y values aligned to it, with NaN in
// the slots a series has no sample for.
func alignSeries(series []chart.Series) ([]string, [][]float64) {
	var axis []string
	position := map[string]int{}
	for _, s := range series {
		for _, x := range s.X {
			if _, ok := position[x]; !ok {
				position[x] = len(axis)
				axis = append(axis, x)
			}
		}
	}

	aligned := make([][]float64, len(series))
	for i, s := range series {
		row := make([]float64, len(axis))
		for j := range row {
			row[j] = math.NaN()
		}
		for j, x := range s.X {
			row[position[x]] = s.Y[j]
		}
		aligned[i] = row
	}
	return axis, aligned
}

// sheetRange renders an absolute Data-sheet range like Data!$A$2:$A$9.
func sheetRange(startCol, startRow, endCol, endRow int) (string, error) {
	start, err := excelize.CoordinatesToCellName(startCol, startRow, true)
	if err != nil {
		return "", err
	}
	end, err := excelize.CoordinatesToCellName(endCol, endRow, true)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s!%s:%s", DATA_SHEET, start, end), nil
}

// Write streams the workbook.
func (w *Workbook) Write(out io.Writer) error {
	return w.file.Write(out)
}

// SaveAs writes the workbook to disk.
func (w *Workbook) SaveAs(path string) error {
	return w.file.SaveAs(path)
}

// Close releases the workbook resources.
func (w *Workbook) Close() error {
	return w.file.Close()
}
