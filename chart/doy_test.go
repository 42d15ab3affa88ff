package chart

import (
	"errors"
	"testing"

	"geoplot-server/models"

	"github.com/stretchr/testify/assert"
)

func seasonalTable() *models.ReductionTable {
	// Three years of samples on days 5 and 36, one stray on day 100.
	return models.NewReductionTable().
		Add("2019-01-05T00-00-00", "NDVI", 0.2).
		Add("2020-01-05T00-00-00", "NDVI", 0.4).
		Add("2021-01-05T00-00-00", "NDVI", 0.6).
		Add("2019-02-05T00-00-00", "NDVI", 0.3).
		Add("2021-02-05T00-00-00", "NDVI", 0.5).
		Add("2020-04-09T00-00-00", "NDVI", 0.9)
}

func TestByDayOfYear_GroupsAcrossYears(t *testing.T) {
	// Act
	series, err := ByDayOfYear(seasonalTable(), Spec{Kind: KindPlot}, DOYSpec{})

	// Assert
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(series) != 1 {
		t.Fatalf("Expected one series, got %d", len(series))
	}
	// Day 5 averages three years, day 36 two, day 100 stands alone.
	assert.Equal(t, []string{"5", "36", "100"}, series[0].X)
	assert.InDeltaSlice(t, []float64{0.4, 0.4, 0.9}, series[0].Y, 1e-9)
}

func TestByDayOfYear_SeasonWindowInclusive(t *testing.T) {
	series, err := ByDayOfYear(seasonalTable(), Spec{}, DOYSpec{SeasonStart: 5, SeasonEnd: 36})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	// Both bounds are kept, day 100 is not.
	assert.Equal(t, []string{"5", "36"}, series[0].X)
}

func TestByDayOfYear_TimeReducers(t *testing.T) {
	tests := []struct {
		name    string
		reducer Reducer
		day5    float64
	}{
		{"mean", ReducerMean, 0.4},
		{"min", ReducerMin, 0.2},
		{"max", ReducerMax, 0.6},
		{"sum", ReducerSum, 1.2},
		{"count", ReducerCount, 3},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			series, err := ByDayOfYear(seasonalTable(), Spec{}, DOYSpec{TimeReducer: test.reducer})
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			assert.InDelta(t, test.day5, series[0].Y[0], 1e-9)
		})
	}
}

func TestByDayOfYear_BadSeasonWindow(t *testing.T) {
	tests := []struct {
		name string
		doy  DOYSpec
	}{
		{"start after end", DOYSpec{SeasonStart: 40, SeasonEnd: 10}},
		{"end past 366", DOYSpec{SeasonStart: 1, SeasonEnd: 400}},
		{"negative start", DOYSpec{SeasonStart: -3, SeasonEnd: 10}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ByDayOfYear(seasonalTable(), Spec{}, test.doy)
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("Expected a ConfigError, got %v", err)
			}
		})
	}
}

func TestByDayOfYear_UnknownReducer(t *testing.T) {
	_, err := ByDayOfYear(seasonalTable(), Spec{}, DOYSpec{TimeReducer: "mode"})

	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Expected a ConfigError, got %v", err)
	}
}

func TestBySeasons_OneSeriesPerYear(t *testing.T) {
	series, err := BySeasons(seasonalTable(), Spec{}, DOYSpec{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(series) != 3 {
		t.Fatalf("Expected one series per year, got %d", len(series))
	}
	assert.Equal(t, "2019", series[0].Label)
	assert.Equal(t, "2020", series[1].Label)
	assert.Equal(t, "2021", series[2].Label)

	// 2019 has samples on days 5 and 36; 2020 on days 5 and 100.
	assert.Equal(t, []string{"5", "36"}, series[0].X)
	assert.Equal(t, []string{"5", "100"}, series[1].X)
	assert.InDeltaSlice(t, []float64{0.2, 0.3}, series[0].Y, 1e-9)
}

func TestBySeasons_WindowFiltersYears(t *testing.T) {
	// Day 100 only exists in 2020; a window past the January samples
	// should leave a single year.
	series, err := BySeasons(seasonalTable(), Spec{}, DOYSpec{SeasonStart: 90, SeasonEnd: 120})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(series) != 1 {
		t.Fatalf("Expected a single year, got %d", len(series))
	}
	assert.Equal(t, "2020", series[0].Label)
}

func TestBySeasons_SingleColumnOnly(t *testing.T) {
	table := models.NewReductionTable().
		Add("2020-01-05T00-00-00", "NDVI", 0.2).
		Add("2020-01-05T00-00-00", "EVI", 0.1)

	_, err := BySeasons(table, Spec{Columns: []string{"NDVI", "EVI"}}, DOYSpec{})

	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Expected a ConfigError, got %v", err)
	}
}

func TestBySeasons_EmptyWindow(t *testing.T) {
	_, err := BySeasons(seasonalTable(), Spec{}, DOYSpec{SeasonStart: 200, SeasonEnd: 220})

	var shapeErr *ShapeError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("Expected a ShapeError, got %v", err)
	}
}
