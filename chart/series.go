package chart

import (
	"encoding/json"
	"math"
)

// Series is one named line, bar group, or slice of a chart: an ordered x
// sequence with its aligned y values, plus the label and color the legend
// shows. A NaN y value is a gap (a missing sample kept as a hole).
type Series struct {
	Label string    `json:"label"`
	Color string    `json:"color"`
	X     []string  `json:"x"`
	Y     []float64 `json:"y"`
}

// MarshalJSON emits gaps as null, since NaN is not valid JSON.
func (s Series) MarshalJSON() ([]byte, error) {
	ys := make([]interface{}, len(s.Y))
	for i, v := range s.Y {
		if math.IsNaN(v) {
			ys[i] = nil
		} else {
			ys[i] = v
		}
	}
	return json.Marshal(struct {
		Label string        `json:"label"`
		Color string        `json:"color"`
		X     []string      `json:"x"`
		Y     []interface{} `json:"y"`
	}{s.Label, s.Color, s.X, ys})
}
