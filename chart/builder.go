package chart

import (
	"fmt"
	"math"

	"geoplot-server/models"
)

// ByCategory builds series from a category table. With RowsAsX the row
// identifiers become the x axis in wire order (category order is caller
// meaningful, so it is never sorted) and each declared column becomes one
// series. With RowsAsSeries each row becomes one series and the declared
// columns become the x axis.
func ByCategory(t *models.ReductionTable, spec Spec) ([]Series, error) {
	if t.Len() == 0 {
		return nil, &ShapeError{Reason: "empty input table"}
	}
	if spec.Layout == RowsAsSeries {
		return rowsAsSeries(t, spec)
	}
	return rowsAsX(t, spec)
}

// Build routes a category-shaped table through the builder matching the
// spec's kind: pie and donut go through PieShares, hist through Histogram
// with default bins, everything else through ByCategory.
func Build(t *models.ReductionTable, spec Spec) ([]Series, error) {
	switch spec.Kind {
	case KindPie, KindDonut:
		return PieShares(t, spec)
	case KindHist:
		return Histogram(t, spec, 0)
	}
	return ByCategory(t, spec)
}

// PieShares converts a single-row table into percentage-of-total slices:
// one single-point series per resolved column, y = value/total*100. Gaps
// count as zero-width slices. The layout does not matter because there is
// only one row either way.
func PieShares(t *models.ReductionTable, spec Spec) ([]Series, error) {
	if t.Len() == 0 {
		return nil, &ShapeError{Reason: "empty input table"}
	}
	if t.Len() != 1 {
		return nil, &ShapeError{Reason: fmt.Sprintf("pie charts take exactly one row, got %d", t.Len())}
	}
	rowID := t.Rows()[0]
	row, _ := t.Row(rowID)
	cols, err := resolveColumns(t, spec)
	if err != nil {
		return nil, err
	}
	labels, colors, err := seriesMeta(spec, cols)
	if err != nil {
		return nil, err
	}

	values := make([]float64, len(cols))
	total := 0.0
	for i, col := range cols {
		v, err := cell(row, rowID, col, spec.Missing)
		if err != nil {
			return nil, err
		}
		if math.IsNaN(v) {
			v = 0
		}
		values[i] = v
		total += v
	}
	if total == 0 {
		return nil, &ShapeError{Row: rowID, Reason: "pie shares need a non-zero total"}
	}

	out := make([]Series, 0, len(cols))
	for i, col := range cols {
		out = append(out, Series{
			Label: labels[i],
			Color: colors[i],
			X:     []string{col},
			Y:     []float64{values[i] / total * 100},
		})
	}
	return out, nil
}

func rowsAsX(t *models.ReductionTable, spec Spec) ([]Series, error) {
	cols, err := resolveColumns(t, spec)
	if err != nil {
		return nil, err
	}
	labels, colors, err := seriesMeta(spec, cols)
	if err != nil {
		return nil, err
	}
	rows := t.Rows()
	out := make([]Series, 0, len(cols))
	for i, col := range cols {
		s := Series{
			Label: labels[i],
			Color: colors[i],
			X:     make([]string, 0, len(rows)),
			Y:     make([]float64, 0, len(rows)),
		}
		for _, rowID := range rows {
			row, _ := t.Row(rowID)
			v, err := cell(row, rowID, col, spec.Missing)
			if err != nil {
				return nil, err
			}
			s.X = append(s.X, rowID)
			s.Y = append(s.Y, v)
		}
		out = append(out, s)
	}
	return out, nil
}

func rowsAsSeries(t *models.ReductionTable, spec Spec) ([]Series, error) {
	xCols, err := resolveColumns(t, spec)
	if err != nil {
		return nil, err
	}
	rows := t.Rows()
	labels, colors, err := seriesMeta(spec, rows)
	if err != nil {
		return nil, err
	}
	out := make([]Series, 0, len(rows))
	for i, rowID := range rows {
		row, _ := t.Row(rowID)
		s := Series{
			Label: labels[i],
			Color: colors[i],
			X:     make([]string, 0, len(xCols)),
			Y:     make([]float64, 0, len(xCols)),
		}
		for _, col := range xCols {
			v, err := cell(row, rowID, col, spec.Missing)
			if err != nil {
				return nil, err
			}
			s.X = append(s.X, col)
			s.Y = append(s.Y, v)
		}
		out = append(out, s)
	}
	return out, nil
}

// resolveColumns picks the column ids a build works with: the declared
// ones, or the first row's columns when the spec leaves them empty.
func resolveColumns(t *models.ReductionTable, spec Spec) ([]string, error) {
	if len(spec.Columns) > 0 {
		return spec.Columns, nil
	}
	first, _ := t.Row(t.Rows()[0])
	cols := first.Columns()
	if len(cols) == 0 {
		return nil, &ShapeError{Row: t.Rows()[0], Reason: "row has no columns"}
	}
	return cols, nil
}

// seriesMeta resolves the label and color for every series up front so a
// count mismatch fails before any series is assembled. ids are the series
// identities of the chosen layout (column ids, row ids, or years).
func seriesMeta(spec Spec, ids []string) (labels, colors []string, err error) {
	if len(spec.Labels) == 0 {
		labels = ids
	} else if len(spec.Labels) != len(ids) {
		return nil, nil, &ConfigError{
			Reason: fmt.Sprintf("%d labels for %d series", len(spec.Labels), len(ids)),
		}
	} else {
		labels = spec.Labels
	}
	if len(spec.Colors) == 0 {
		colors = make([]string, len(ids))
		for i := range colors {
			colors[i] = DefaultColor(i)
		}
	} else if len(spec.Colors) != len(ids) {
		return nil, nil, &ConfigError{
			Reason: fmt.Sprintf("%d colors for %d series", len(spec.Colors), len(ids)),
		}
	} else {
		colors = spec.Colors
	}
	return labels, colors, nil
}

// cell reads one sample under the missing policy. Absent columns and null
// samples are the same case: fail, zero, or NaN.
func cell(row *models.ReductionRow, rowID, col string, policy MissingPolicy) (float64, error) {
	v, present := row.Value(col)
	if present && !math.IsNaN(v) {
		return v, nil
	}
	switch policy {
	case MissingZero:
		return 0, nil
	case MissingGap:
		return math.NaN(), nil
	}
	reason := "column missing from row"
	if present {
		reason = "null sample in row"
	}
	return 0, &ShapeError{Row: rowID, Column: col, Reason: reason}
}
