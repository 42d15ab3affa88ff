package chart

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"geoplot-server/models"
)

// Day-of-year bounds. Day 366 exists on leap years only.
const (
	SeasonFirstDay = 1
	SeasonLastDay  = 366
)

// DOYSpec parameterizes the day-of-year time stage: the statistic that
// collapses samples sharing a day, and the inclusive season window kept on
// the x axis.
type DOYSpec struct {
	TimeReducer Reducer // defaults to mean
	SeasonStart int     // first day kept, inclusive; 0 means 1
	SeasonEnd   int     // last day kept, inclusive; 0 means 366
}

func (d DOYSpec) resolve() (DOYSpec, error) {
	if d.TimeReducer == "" {
		d.TimeReducer = ReducerMean
	}
	if !d.TimeReducer.Valid() {
		return d, &ConfigError{Reason: fmt.Sprintf("unknown reducer %q", string(d.TimeReducer))}
	}
	if d.SeasonStart == 0 {
		d.SeasonStart = SeasonFirstDay
	}
	if d.SeasonEnd == 0 {
		d.SeasonEnd = SeasonLastDay
	}
	if d.SeasonStart < SeasonFirstDay || d.SeasonEnd > SeasonLastDay || d.SeasonStart > d.SeasonEnd {
		return d, &ConfigError{
			Reason: fmt.Sprintf("season window %d..%d is not within %d..%d",
				d.SeasonStart, d.SeasonEnd, SeasonFirstDay, SeasonLastDay),
		}
	}
	return d, nil
}

// ByDayOfYear builds seasonal profiles from a date-keyed table: samples
// group by day of year across all years, each group collapses to one
// value with the time reducer, and x is that series' day list sorted
// ascending and deduplicated, restricted to the season window. One series
// per declared column. Gap samples join no group.
func ByDayOfYear(t *models.ReductionTable, spec Spec, doy DOYSpec) ([]Series, error) {
	doy, err := doy.resolve()
	if err != nil {
		return nil, err
	}
	if t.Len() == 0 {
		return nil, &ShapeError{Reason: "empty input table"}
	}
	rows := t.Rows()
	parsed, err := parseDates(rows)
	if err != nil {
		return nil, err
	}

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
		groups := map[int][]float64{}
		for j, rowID := range rows {
			day := parsed[j].YearDay()
			if day < doy.SeasonStart || day > doy.SeasonEnd {
				continue
			}
			row, _ := t.Row(rowID)
			v, err := cell(row, rowID, col, spec.Missing)
			if err != nil {
				return nil, err
			}
			if math.IsNaN(v) {
				continue
			}
			groups[day] = append(groups[day], v)
		}
		days := make([]int, 0, len(groups))
		for day := range groups {
			days = append(days, day)
		}
		sort.Ints(days)

		s := Series{
			Label: labels[i],
			Color: colors[i],
			X:     make([]string, 0, len(days)),
			Y:     make([]float64, 0, len(days)),
		}
		for _, day := range days {
			v, err := doy.TimeReducer.Apply(groups[day])
			if err != nil {
				return nil, err
			}
			s.X = append(s.X, strconv.Itoa(day))
			s.Y = append(s.Y, v)
		}
		out = append(out, s)
	}
	return out, nil
}

// BySeasons overlays calendar years of a single column on a shared
// day-of-year axis: one series per year, ascending, labelled with the year
// unless the spec says otherwise. Duplicate (year, day) samples collapse
// with the time reducer.
func BySeasons(t *models.ReductionTable, spec Spec, doy DOYSpec) ([]Series, error) {
	doy, err := doy.resolve()
	if err != nil {
		return nil, err
	}
	if t.Len() == 0 {
		return nil, &ShapeError{Reason: "empty input table"}
	}
	cols, err := resolveColumns(t, spec)
	if err != nil {
		return nil, err
	}
	if len(cols) != 1 {
		return nil, &ConfigError{Reason: fmt.Sprintf("season charts take a single column, got %d", len(cols))}
	}
	col := cols[0]

	rows := t.Rows()
	parsed, err := parseDates(rows)
	if err != nil {
		return nil, err
	}

	groups := map[int]map[int][]float64{} // year -> day -> samples
	for j, rowID := range rows {
		day := parsed[j].YearDay()
		if day < doy.SeasonStart || day > doy.SeasonEnd {
			continue
		}
		row, _ := t.Row(rowID)
		v, err := cell(row, rowID, col, spec.Missing)
		if err != nil {
			return nil, err
		}
		if math.IsNaN(v) {
			continue
		}
		year := parsed[j].Year()
		if groups[year] == nil {
			groups[year] = map[int][]float64{}
		}
		groups[year][day] = append(groups[year][day], v)
	}
	if len(groups) == 0 {
		return nil, &ShapeError{Column: col, Reason: "no samples inside the season window"}
	}

	years := make([]int, 0, len(groups))
	for year := range groups {
		years = append(years, year)
	}
	sort.Ints(years)
	yearIDs := make([]string, len(years))
	for i, year := range years {
		yearIDs[i] = strconv.Itoa(year)
	}
	labels, colors, err := seriesMeta(spec, yearIDs)
	if err != nil {
		return nil, err
	}

	out := make([]Series, 0, len(years))
	for i, year := range years {
		days := make([]int, 0, len(groups[year]))
		for day := range groups[year] {
			days = append(days, day)
		}
		sort.Ints(days)

		s := Series{
			Label: labels[i],
			Color: colors[i],
			X:     make([]string, 0, len(days)),
			Y:     make([]float64, 0, len(days)),
		}
		for _, day := range days {
			v, err := doy.TimeReducer.Apply(groups[year][day])
			if err != nil {
				return nil, err
			}
			s.X = append(s.X, strconv.Itoa(day))
			s.Y = append(s.Y, v)
		}
		out = append(out, s)
	}
	return out, nil
}
