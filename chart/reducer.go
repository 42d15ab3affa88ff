package chart

import (
	"fmt"
	"math"
	"sort"
)

// Reducer names a statistic that collapses a group of samples into one
// value. The names match the reducers the computation service accepts, so
// the same value can parameterize a remote request and the local time
// stage of a day-of-year chart.
type Reducer string

const (
	ReducerMean   Reducer = "mean"
	ReducerMedian Reducer = "median"
	ReducerMin    Reducer = "min"
	ReducerMax    Reducer = "max"
	ReducerSum    Reducer = "sum"
	ReducerCount  Reducer = "count"
	ReducerStdDev Reducer = "stdDev"
)

// Valid reports whether r is a reducer this package can apply locally.
func (r Reducer) Valid() bool {
	switch r {
	case ReducerMean, ReducerMedian, ReducerMin, ReducerMax,
		ReducerSum, ReducerCount, ReducerStdDev:
		return true
	}
	return false
}

// Apply collapses values with the named statistic.
func (r Reducer) Apply(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, &ShapeError{Reason: "cannot reduce an empty group"}
	}
	switch r {
	case ReducerMean:
		return mean(values), nil
	case ReducerMedian:
		sorted := append([]float64(nil), values...)
		sort.Float64s(sorted)
		mid := len(sorted) / 2
		if len(sorted)%2 == 0 {
			return (sorted[mid-1] + sorted[mid]) / 2, nil
		}
		return sorted[mid], nil
	case ReducerMin:
		min := values[0]
		for _, v := range values[1:] {
			if v < min {
				min = v
			}
		}
		return min, nil
	case ReducerMax:
		max := values[0]
		for _, v := range values[1:] {
			if v > max {
				max = v
			}
		}
		return max, nil
	case ReducerSum:
		sum := 0.0
		for _, v := range values {
			sum += v
		}
		return sum, nil
	case ReducerCount:
		return float64(len(values)), nil
	case ReducerStdDev:
		m := mean(values)
		sq := 0.0
		for _, v := range values {
			sq += (v - m) * (v - m)
		}
		return math.Sqrt(sq / float64(len(values))), nil
	}
	return 0, &ConfigError{Reason: fmt.Sprintf("unknown reducer %q", string(r))}
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
