package chart

// defaultPalette is matplotlib's tab10 categorical cycle, the palette the
// remote service's own charting docs use for categorical series.
var defaultPalette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// DefaultColor returns the palette color for series index i, cycling when
// there are more series than palette entries.
func DefaultColor(i int) string {
	if i < 0 {
		i = -i
	}
	return defaultPalette[i%len(defaultPalette)]
}
