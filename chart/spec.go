package chart

import "fmt"

// Kind tags the chart family a series set is meant for. The builder only
// records the tag; the renderers decide whether they can draw it.
type Kind string

const (
	KindBar         Kind = "bar"
	KindBarH        Kind = "barh"
	KindStacked     Kind = "stacked"
	KindPlot        Kind = "plot"
	KindFillBetween Kind = "fill_between"
	KindScatter     Kind = "scatter"
	KindPie         Kind = "pie"
	KindDonut       Kind = "donut"
	KindHist        Kind = "hist"
)

// Layout says which table axis becomes the series set.
type Layout int

const (
	// RowsAsX keeps the table's row order as the x axis and turns each
	// declared column into a series.
	RowsAsX Layout = iota
	// RowsAsSeries turns each row into a series; the declared columns
	// become the x axis.
	RowsAsSeries
)

// MissingPolicy decides what happens when a declared column is absent from
// a row. Null samples from the wire count as absent.
type MissingPolicy int

const (
	// MissingFail rejects the table. Nothing is coerced silently.
	MissingFail MissingPolicy = iota
	// MissingZero substitutes 0.
	MissingZero
	// MissingGap substitutes NaN, which renders as a hole and marshals
	// as null.
	MissingGap
)

// Spec declares how a reduction table becomes chart series. Labels and
// Colors are optional; when set they must carry exactly one entry per
// series or the build fails before producing anything.
type Spec struct {
	Kind    Kind
	Layout  Layout
	Columns []string // column ids to include, in order; empty means the first row's columns
	Labels  []string // display labels, one per series
	Colors  []string // series colors, one per series
	Missing MissingPolicy
}

// ParseKind validates a chart kind coming from a query arg or flag.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindBar, KindBarH, KindStacked, KindPlot, KindFillBetween,
		KindScatter, KindPie, KindDonut, KindHist:
		return Kind(s), nil
	}
	return "", &ConfigError{Reason: fmt.Sprintf("unknown chart kind %q", s)}
}

// ParseMissing maps the wire names of the missing-column policies. The
// empty string is the strict default.
func ParseMissing(s string) (MissingPolicy, error) {
	switch s {
	case "", "fail":
		return MissingFail, nil
	case "zero":
		return MissingZero, nil
	case "gap":
		return MissingGap, nil
	}
	return MissingFail, &ConfigError{Reason: fmt.Sprintf("unknown missing policy %q", s)}
}

// ParseLayout maps the wire names of the table layouts.
func ParseLayout(s string) (Layout, error) {
	switch s {
	case "", "rows-as-x":
		return RowsAsX, nil
	case "rows-as-series":
		return RowsAsSeries, nil
	}
	return RowsAsX, &ConfigError{Reason: fmt.Sprintf("unknown layout %q", s)}
}
