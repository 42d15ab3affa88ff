package chart

import (
	"fmt"
	"math"
	"strconv"

	"geoplot-server/models"
)

const defaultHistBins = 30

// Histogram bins the values of a single series into equal-width counts.
// The table must resolve to exactly one series: one row under
// RowsAsSeries, one declared column under RowsAsX. bins of 0 means 30.
// X holds the left bin edges; the last bin is closed on the right.
func Histogram(t *models.ReductionTable, spec Spec, bins int) ([]Series, error) {
	if bins == 0 {
		bins = defaultHistBins
	}
	if bins < 1 {
		return nil, &ConfigError{Reason: fmt.Sprintf("histograms need at least one bin, got %d", bins)}
	}
	if t.Len() == 0 {
		return nil, &ShapeError{Reason: "empty input table"}
	}

	var id string
	var values []float64
	if spec.Layout == RowsAsSeries {
		if t.Len() != 1 {
			return nil, &ConfigError{Reason: fmt.Sprintf("histograms take a single row, got %d", t.Len())}
		}
		rowID := t.Rows()[0]
		row, _ := t.Row(rowID)
		cols, err := resolveColumns(t, spec)
		if err != nil {
			return nil, err
		}
		for _, col := range cols {
			v, err := cell(row, rowID, col, spec.Missing)
			if err != nil {
				return nil, err
			}
			if math.IsNaN(v) {
				continue
			}
			values = append(values, v)
		}
		id = rowID
	} else {
		cols, err := resolveColumns(t, spec)
		if err != nil {
			return nil, err
		}
		if len(cols) != 1 {
			return nil, &ConfigError{Reason: fmt.Sprintf("histograms take a single column, got %d", len(cols))}
		}
		col := cols[0]
		for _, rowID := range t.Rows() {
			row, _ := t.Row(rowID)
			v, err := cell(row, rowID, col, spec.Missing)
			if err != nil {
				return nil, err
			}
			if math.IsNaN(v) {
				continue
			}
			values = append(values, v)
		}
		id = col
	}
	if len(values) == 0 {
		return nil, &ShapeError{Reason: "no samples to bin"}
	}
	labels, colors, err := seriesMeta(spec, []string{id})
	if err != nil {
		return nil, err
	}

	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if min == max { // degenerate range, widen like numpy does
		min, max = min-0.5, max+0.5
	}
	width := (max - min) / float64(bins)
	counts := make([]float64, bins)
	for _, v := range values {
		idx := int((v - min) / width)
		if idx >= bins {
			idx = bins - 1
		}
		if idx < 0 {
			idx = 0
		}
		counts[idx]++
	}

	s := Series{
		Label: labels[0],
		Color: colors[0],
		X:     make([]string, 0, bins),
		Y:     counts,
	}
	for i := 0; i < bins; i++ {
		edge := min + width*float64(i)
		s.X = append(s.X, strconv.FormatFloat(edge, 'g', -1, 64))
	}
	return []Series{s}, nil
}

// BinnedSteps reshapes a server-binned histogram table (rows of bin-start
// -> count) into staircase outlines for area rendering: every interior
// edge and every count but the last appear twice, so bins draw with flat
// tops. Edges truncate to precision decimals. Rows are always the series
// here.
func BinnedSteps(t *models.ReductionTable, spec Spec, precision int) ([]Series, error) {
	if precision < 0 {
		return nil, &ConfigError{Reason: fmt.Sprintf("precision must not be negative, got %d", precision)}
	}
	if t.Len() == 0 {
		return nil, &ShapeError{Reason: "empty input table"}
	}
	rows := t.Rows()
	labels, colors, err := seriesMeta(spec, rows)
	if err != nil {
		return nil, err
	}

	p := math.Pow(10, float64(precision))
	out := make([]Series, 0, len(rows))
	for i, rowID := range rows {
		row, _ := t.Row(rowID)
		cols := row.Columns()
		if len(cols) == 0 {
			return nil, &ShapeError{Row: rowID, Reason: "row has no bins"}
		}
		s := Series{Label: labels[i], Color: colors[i]}
		for j, col := range cols {
			edge, err := strconv.ParseFloat(col, 64)
			if err != nil {
				return nil, &ShapeError{Row: rowID, Column: col, Reason: "bin edge is not numeric"}
			}
			x := strconv.FormatFloat(math.Trunc(edge*p)/p, 'f', -1, 64)
			if j == 0 {
				s.X = append(s.X, x)
			} else {
				s.X = append(s.X, x, x)
			}
			count, err := cell(row, rowID, col, spec.Missing)
			if err != nil {
				return nil, err
			}
			if j == len(cols)-1 {
				s.Y = append(s.Y, count)
			} else {
				s.Y = append(s.Y, count, count)
			}
		}
		out = append(out, s)
	}
	return out, nil
}
