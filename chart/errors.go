package chart

import "fmt"

// ConfigError reports a series specification that can never be satisfied:
// mismatched label or color counts, unknown reducers, inverted season
// bounds. The request is wrong, not the data.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "chart: invalid spec: " + e.Reason
}

// ShapeError reports input data that cannot fill the requested series:
// empty tables, columns absent under MissingFail, zero-sum pies. Row and
// Column carry the offending identifiers when they are known.
type ShapeError struct {
	Row    string
	Column string
	Reason string
}

func (e *ShapeError) Error() string {
	switch {
	case e.Row != "" && e.Column != "":
		return fmt.Sprintf("chart: bad data shape: %s (row %q, column %q)", e.Reason, e.Row, e.Column)
	case e.Row != "":
		return fmt.Sprintf("chart: bad data shape: %s (row %q)", e.Reason, e.Row)
	case e.Column != "":
		return fmt.Sprintf("chart: bad data shape: %s (column %q)", e.Reason, e.Column)
	}
	return "chart: bad data shape: " + e.Reason
}
