// Package render turns chart series into browser-ready echarts documents.
package render

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"geoplot-server/chart"
	"geoplot-server/metrics"
)

// Options carries the cosmetic figure properties a caller decorates a chart
// with. Series data never sets these.
type Options struct {
	Title     string
	Subtitle  string
	XAxisName string
	YAxisName string
	PageTitle string
	Width     string
	Height    string
}

// Renderable is the common surface of every chart type: something that can
// join a Page and also render standalone.
type Renderable interface {
	components.Charter
	Render(w io.Writer) error
}

// NewChart builds the echarts object for a series list. The chart kind
// selects the echarts type, Options only decorate it.
func NewChart(kind chart.Kind, series []chart.Series, o Options) (Renderable, error) {
	var c Renderable
	switch kind {
	case chart.KindBar:
		c = barChart(series, o, false, false)
	case chart.KindBarH:
		c = barChart(series, o, false, true)
	case chart.KindStacked:
		c = barChart(series, o, true, false)
	case chart.KindPlot:
		c = lineChart(series, o, false)
	case chart.KindFillBetween:
		c = lineChart(series, o, true)
	case chart.KindScatter:
		c = scatterChart(series, o)
	case chart.KindPie:
		c = pieChart(series, o, false)
	case chart.KindDonut:
		c = pieChart(series, o, true)
	case chart.KindHist:
		c = histChart(series, o)
	default:
		return nil, fmt.Errorf("render: unknown chart kind %q", kind)
	}
	metrics.RecordChartRendered(string(kind))
	return c, nil
}

// Render builds the chart for kind and writes a standalone HTML document.
func Render(w io.Writer, kind chart.Kind, series []chart.Series, o Options) error {
	c, err := NewChart(kind, series, o)
	if err != nil {
		return err
	}
	return c.Render(w)
}

// NewPage lays multiple charts out on one scrolling document.
func NewPage(pageTitle string, charts ...Renderable) *components.Page {
	page := components.NewPage()
	page.PageTitle = pageTitle
	page.SetLayout(components.PageFlexLayout)
	for _, c := range charts {
		page.AddCharts(c)
	}
	return page
}

func globalOpts(o Options, withAxes bool) []charts.GlobalOpts {
	width := o.Width
	if width == "" {
		width = "900px"
	}
	height := o.Height
	if height == "" {
		height = "500px"
	}
	trigger := "item"
	if withAxes {
		trigger = "axis"
	}

	global := []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: o.PageTitle,
			Width:     width,
			Height:    height,
		}),
		charts.WithTitleOpts(opts.Title{Title: o.Title, Subtitle: o.Subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: trigger}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	}
	if withAxes {
		global = append(global,
			charts.WithXAxisOpts(opts.XAxis{Name: o.XAxisName}),
			charts.WithYAxisOpts(opts.YAxis{Name: o.YAxisName}),
		)
	}
	return global
}

// axisAndAligned returns the category axis (the union of every series' x
// values in first-seen order) and each series' y values aligned to it. A
// series without a sample at some category keeps a nil slot, which echarts
// draws as a gap. NaN samples become nil slots the same way.
func axisAndAligned(series []chart.Series) ([]string, [][]interface{}) {
	var axis []string
	position := map[string]int{}
	for _, s := range series {
		for _, x := range s.X {
			if _, ok := position[x]; !ok {
				position[x] = len(axis)
				axis = append(axis, x)
			}
		}
	}

	aligned := make([][]interface{}, len(series))
	for i, s := range series {
		row := make([]interface{}, len(axis))
		for j, x := range s.X {
			if math.IsNaN(s.Y[j]) {
				continue
			}
			row[position[x]] = s.Y[j]
		}
		aligned[i] = row
	}
	return axis, aligned
}

func barChart(series []chart.Series, o Options, stacked, horizontal bool) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOpts(o, true)...)

	axis, aligned := axisAndAligned(series)
	bar.SetXAxis(axis)
	for i, s := range series {
		data := make([]opts.BarData, len(aligned[i]))
		for j, v := range aligned[i] {
			data[j] = opts.BarData{Value: v}
		}
		seriesOpts := []charts.SeriesOpts{
			charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}),
		}
		if stacked {
			seriesOpts = append(seriesOpts, charts.WithBarChartOpts(opts.BarChart{Stack: "total"}))
		}
		bar.AddSeries(s.Label, data, seriesOpts...)
	}
	if horizontal {
		bar.XYReversal()
	}
	return bar
}

func lineChart(series []chart.Series, o Options, area bool) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(globalOpts(o, true)...)

	axis, aligned := axisAndAligned(series)
	line.SetXAxis(axis)
	for i, s := range series {
		data := make([]opts.LineData, len(aligned[i]))
		for j, v := range aligned[i] {
			data[j] = opts.LineData{Value: v}
		}
		seriesOpts := []charts.SeriesOpts{
			charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: s.Color}),
		}
		if area {
			seriesOpts = append(seriesOpts, charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: 0.2}))
		}
		line.AddSeries(s.Label, data, seriesOpts...)
	}
	return line
}

func scatterChart(series []chart.Series, o Options) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(globalOpts(o, true)...)

	axis, aligned := axisAndAligned(series)
	scatter.SetXAxis(axis)
	for i, s := range series {
		data := make([]opts.ScatterData, len(aligned[i]))
		for j, v := range aligned[i] {
			data[j] = opts.ScatterData{Value: v, Symbol: "circle", SymbolSize: 8}
		}
		scatter.AddSeries(s.Label, data,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}),
		)
	}
	return scatter
}

func pieChart(series []chart.Series, o Options, donut bool) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(globalOpts(o, false)...)

	data := make([]opts.PieData, 0, len(series))
	for _, s := range series {
		if len(s.Y) == 0 {
			continue
		}
		data = append(data, opts.PieData{
			Name:      s.Label,
			Value:     s.Y[0],
			ItemStyle: &opts.ItemStyle{Color: s.Color},
		})
	}

	seriesOpts := []charts.SeriesOpts{
		charts.WithLabelOpts(opts.Label{
			Show:      opts.Bool(true),
			Formatter: "{b}: {d}%",
		}),
	}
	if donut {
		seriesOpts = append(seriesOpts, charts.WithPieChartOpts(opts.PieChart{
			Radius: []string{"40%", "75%"},
		}))
	}
	pie.AddSeries("share", data, seriesOpts...)
	return pie
}

func histChart(series []chart.Series, o Options) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOpts(o, true)...)

	axis, aligned := axisAndAligned(series)
	bar.SetXAxis(axis)
	for i, s := range series {
		data := make([]opts.BarData, len(aligned[i]))
		for j, v := range aligned[i] {
			data[j] = opts.BarData{Value: v}
		}
		// Adjacent bins touch
		bar.AddSeries(s.Label, data,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}),
			charts.WithBarChartOpts(opts.BarChart{BarGap: "0%", BarCategoryGap: "0%"}),
		)
	}
	return bar
}
