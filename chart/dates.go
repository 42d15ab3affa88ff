package chart

import (
	"fmt"
	"sort"
	"time"

	"geoplot-server/models"
)

// DateLayout is the timestamp format the computation service uses for
// date-keyed rows.
const DateLayout = "2006-01-02T15-04-05"

// ByDates builds time series from a date-keyed table: row identifiers are
// DateLayout timestamps, each declared column becomes one series, and the
// x axis is sorted ascending by parsed time with ties kept in wire order.
// Date tables always take rows as the x axis.
func ByDates(t *models.ReductionTable, spec Spec) ([]Series, error) {
	if t.Len() == 0 {
		return nil, &ShapeError{Reason: "empty input table"}
	}
	rows := t.Rows()
	parsed, err := parseDates(rows)
	if err != nil {
		return nil, err
	}
	order := make([]int, len(rows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return parsed[order[a]].Before(parsed[order[b]])
	})

	cols, err := resolveColumns(t, spec)
	if err != nil {
		return nil, err
	}
	labels, colors, err := seriesMeta(spec, cols)
	if err != nil {
		return nil, err
	}

	out := make([]Series, 0, len(cols))
	for i, col := range cols {
		s := Series{
			Label: labels[i],
			Color: colors[i],
			X:     make([]string, 0, len(rows)),
			Y:     make([]float64, 0, len(rows)),
		}
		for _, idx := range order {
			rowID := rows[idx]
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

func parseDates(rows []string) ([]time.Time, error) {
	parsed := make([]time.Time, len(rows))
	for i, rowID := range rows {
		ts, err := time.Parse(DateLayout, rowID)
		if err != nil {
			return nil, &ShapeError{
				Row:    rowID,
				Reason: fmt.Sprintf("row key is not a %s timestamp", DateLayout),
			}
		}
		parsed[i] = ts
	}
	return parsed, nil
}
