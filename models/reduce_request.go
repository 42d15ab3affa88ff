package models

import "net/url"
import "strconv"

// ReduceRequest mirrors the reduction endpoints' query args. Use
// zero-values to omit.
type ReduceRequest struct {
	Reducer       string    // spatial reducer name, e.g. "mean"
	DateProperty  string    // property holding the image timestamp; server default "system:time_start"
	LabelProperty string    // property labelling rows, e.g. "system:index"
	Bands         []string  // bands to include, in order
	Properties    []string  // feature properties to include, in order
	Band          string    // single band for date/season requests
	Region        string    // GeoJSON geometry, passed through untouched
	Scale         *int      // nominal scale in meters
	CRS           *string   // projection override
	CRSTransform  []float64 // row-major transform, paired with CRS
	BestEffort    *bool     // let the server degrade scale to fit
	MaxPixels     *int      // reduction pixel budget
	TileScale     *float64  // computation tile multiplier (0.1 .. 16)
	Bins          *int      // fixed histogram bin count
}

func (r ReduceRequest) ToValues() url.Values {
	q := url.Values{}

	if r.Reducer != "" {
		q.Set("reducer", r.Reducer)
	}
	if r.DateProperty != "" {
		q.Set("dateProperty", r.DateProperty)
	}
	if r.LabelProperty != "" {
		q.Set("labelProperty", r.LabelProperty)
	}
	if len(r.Bands) > 0 {
		// API expects comma-separated list
		q.Set("bands", join(r.Bands, ","))
	}
	if len(r.Properties) > 0 {
		q.Set("properties", join(r.Properties, ","))
	}
	if r.Band != "" {
		q.Set("band", r.Band)
	}
	if r.Region != "" {
		q.Set("region", r.Region)
	}
	if r.Scale != nil {
		q.Set("scale", itoa(*r.Scale))
	}
	if r.CRS != nil {
		q.Set("crs", *r.CRS)
	}
	if len(r.CRSTransform) > 0 {
		parts := make([]string, len(r.CRSTransform))
		for i, f := range r.CRSTransform {
			parts[i] = ftoa(f)
		}
		q.Set("crsTransform", join(parts, ","))
	}
	if r.BestEffort != nil {
		q.Set("bestEffort", btoa(*r.BestEffort))
	}
	if r.MaxPixels != nil {
		q.Set("maxPixels", itoa(*r.MaxPixels))
	}
	if r.TileScale != nil {
		q.Set("tileScale", ftoa(*r.TileScale))
	}
	if r.Bins != nil {
		q.Set("bins", itoa(*r.Bins))
	}

	return q
}

// lightweight helpers (no fmt.Sprintf allocations for ints/bools)
func itoa(i int) string     { return strconv.Itoa(i) }
func ftoa(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
func btoa(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
func join(ss []string, sep string) string {
	if len(ss) == 0 {
		return ""
	}
	out := ss[0]
	for i := 1; i < len(ss); i++ {
		out += sep + ss[i]
	}
	return out
}
