package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"geoplot-server/chart"
	"geoplot-server/export"
	"geoplot-server/metrics"
	"geoplot-server/models"
	"geoplot-server/render"
	services "geoplot-server/service"
)

const (
	ASSET_QUERY_ARG          = "asset"
	FORMAT_QUERY_ARG         = "format"
	KIND_QUERY_ARG           = "kind"
	MISSING_QUERY_ARG        = "missing"
	COLUMNS_QUERY_ARG        = "columns"
	LABELS_QUERY_ARG         = "labels"
	COLORS_QUERY_ARG         = "colors"
	REDUCER_QUERY_ARG        = "reducer"
	DATE_PROPERTY_QUERY_ARG  = "dateProperty"
	LABEL_PROPERTY_QUERY_ARG = "labelProperty"
	BANDS_QUERY_ARG          = "bands"
	PROPERTIES_QUERY_ARG     = "properties"
	BAND_QUERY_ARG           = "band"
	REGION_QUERY_ARG         = "region"
	SCALE_QUERY_ARG          = "scale"
	CRS_QUERY_ARG            = "crs"
	CRS_TRANSFORM_QUERY_ARG  = "crsTransform"
	BEST_EFFORT_QUERY_ARG    = "bestEffort"
	MAX_PIXELS_QUERY_ARG     = "maxPixels"
	TILE_SCALE_QUERY_ARG     = "tileScale"
	BINS_QUERY_ARG           = "bins"
	PRECISION_QUERY_ARG      = "precision"
	PROPERTY_QUERY_ARG       = "property"
	TIME_REDUCER_QUERY_ARG   = "timeReducer"
	SEASON_START_QUERY_ARG   = "seasonStart"
	SEASON_END_QUERY_ARG     = "seasonEnd"
	TITLE_QUERY_ARG          = "title"
	SUBTITLE_QUERY_ARG       = "subtitle"
	X_NAME_QUERY_ARG         = "xname"
	Y_NAME_QUERY_ARG         = "yname"
)

const (
	FORMAT_HTML = "html"
	FORMAT_JSON = "json"
	FORMAT_XLSX = "xlsx"

	XLSX_CONTENT_TYPE = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	// Default truncation for server-binned histogram edges.
	DEFAULT_EDGE_PRECISION = 2
)

// chartArgs is everything a chart route reads from its query string.
type chartArgs struct {
	asset     string
	format    string
	property  string
	bins      int
	precision int
	req       models.ReduceRequest
	spec      chart.Spec
	doy       chart.DOYSpec
	options   render.Options
}

type ChartHandler struct {
	chartService *services.ChartService
}

func NewChartHandler(chartService *services.ChartService) *ChartHandler {
	return &ChartHandler{chartService: chartService}
}

// ByFeatures handles GET /v1/charts/features: one series per property, the
// feature labels on the x axis.
func (h *ChartHandler) ByFeatures(w http.ResponseWriter, r *http.Request) {
	args, ok := h.parseArgs(r.URL.Query(), w, chart.KindBar)
	if !ok {
		return // error already written
	}
	series, err := h.chartService.SeriesByFeatures(args.asset, args.req, args.spec)
	if err != nil {
		writeSeriesError(w, err)
		return
	}
	h.writeSeries(w, args, series)
}

// ByProperties handles GET /v1/charts/properties: one series per feature,
// the properties on the x axis.
func (h *ChartHandler) ByProperties(w http.ResponseWriter, r *http.Request) {
	args, ok := h.parseArgs(r.URL.Query(), w, chart.KindBar)
	if !ok {
		return
	}
	series, err := h.chartService.SeriesByProperties(args.asset, args.req, args.spec)
	if err != nil {
		writeSeriesError(w, err)
		return
	}
	h.writeSeries(w, args, series)
}

// ByRegions handles GET /v1/charts/regions: one series per band, the region
// labels on the x axis.
func (h *ChartHandler) ByRegions(w http.ResponseWriter, r *http.Request) {
	args, ok := h.parseArgs(r.URL.Query(), w, chart.KindBar)
	if !ok {
		return
	}
	series, err := h.chartService.SeriesByRegions(args.asset, args.req, args.spec)
	if err != nil {
		writeSeriesError(w, err)
		return
	}
	h.writeSeries(w, args, series)
}

// ByBands handles GET /v1/charts/bands: one series per region, the bands on
// the x axis.
func (h *ChartHandler) ByBands(w http.ResponseWriter, r *http.Request) {
	args, ok := h.parseArgs(r.URL.Query(), w, chart.KindBar)
	if !ok {
		return
	}
	series, err := h.chartService.SeriesByBands(args.asset, args.req, args.spec)
	if err != nil {
		writeSeriesError(w, err)
		return
	}
	h.writeSeries(w, args, series)
}

// DatesByBands handles GET /v1/charts/dates/bands: one time series per band.
func (h *ChartHandler) DatesByBands(w http.ResponseWriter, r *http.Request) {
	args, ok := h.parseArgs(r.URL.Query(), w, chart.KindPlot)
	if !ok {
		return
	}
	series, err := h.chartService.SeriesDatesByBands(args.asset, args.req, args.spec)
	if err != nil {
		writeSeriesError(w, err)
		return
	}
	h.writeSeries(w, args, series)
}

// DatesByRegions handles GET /v1/charts/dates/regions: one time series per
// region.
func (h *ChartHandler) DatesByRegions(w http.ResponseWriter, r *http.Request) {
	args, ok := h.parseArgs(r.URL.Query(), w, chart.KindPlot)
	if !ok {
		return
	}
	series, err := h.chartService.SeriesDatesByRegions(args.asset, args.req, args.spec)
	if err != nil {
		writeSeriesError(w, err)
		return
	}
	h.writeSeries(w, args, series)
}

// DoyByBands handles GET /v1/charts/doy/bands: one seasonal profile per band.
func (h *ChartHandler) DoyByBands(w http.ResponseWriter, r *http.Request) {
	args, ok := h.parseArgs(r.URL.Query(), w, chart.KindPlot)
	if !ok {
		return
	}
	series, err := h.chartService.SeriesDoyByBands(args.asset, args.req, args.spec, args.doy)
	if err != nil {
		writeSeriesError(w, err)
		return
	}
	h.writeSeries(w, args, series)
}

// DoyByRegions handles GET /v1/charts/doy/regions: one seasonal profile per
// region.
func (h *ChartHandler) DoyByRegions(w http.ResponseWriter, r *http.Request) {
	args, ok := h.parseArgs(r.URL.Query(), w, chart.KindPlot)
	if !ok {
		return
	}
	series, err := h.chartService.SeriesDoyByRegions(args.asset, args.req, args.spec, args.doy)
	if err != nil {
		writeSeriesError(w, err)
		return
	}
	h.writeSeries(w, args, series)
}

// DoyBySeasons handles GET /v1/charts/doy/seasons: the calendar years of a
// single band overlaid on a shared day-of-year axis.
func (h *ChartHandler) DoyBySeasons(w http.ResponseWriter, r *http.Request) {
	args, ok := h.parseArgs(r.URL.Query(), w, chart.KindPlot)
	if !ok {
		return
	}
	if len(args.spec.Columns) == 0 && args.req.Band != "" {
		args.spec.Columns = []string{args.req.Band}
	}
	series, err := h.chartService.SeriesDoyBySeasons(args.asset, args.req, args.spec, args.doy)
	if err != nil {
		writeSeriesError(w, err)
		return
	}
	h.writeSeries(w, args, series)
}

// HistByProperty handles GET /v1/charts/hist/property: one property's values
// across the features binned client-side.
func (h *ChartHandler) HistByProperty(w http.ResponseWriter, r *http.Request) {
	args, ok := h.parseArgs(r.URL.Query(), w, chart.KindHist)
	if !ok {
		return
	}
	if args.property == "" {
		http.Error(w, "Missing argument "+PROPERTY_QUERY_ARG, http.StatusBadRequest)
		return
	}
	series, err := h.chartService.SeriesHistByProperty(args.asset, args.property, args.req, args.spec, args.bins)
	if err != nil {
		writeSeriesError(w, err)
		return
	}
	h.writeSeries(w, args, series)
}

// HistByBands handles GET /v1/charts/hist/bands: server-binned band
// histograms drawn as staircase outlines.
func (h *ChartHandler) HistByBands(w http.ResponseWriter, r *http.Request) {
	args, ok := h.parseArgs(r.URL.Query(), w, chart.KindFillBetween)
	if !ok {
		return
	}
	if args.bins > 0 {
		args.req.Bins = &args.bins
	}
	series, err := h.chartService.SeriesHistByBands(args.asset, args.req, args.spec, args.precision)
	if err != nil {
		writeSeriesError(w, err)
		return
	}
	h.writeSeries(w, args, series)
}

// Dashboard handles GET /v1/dashboard: the collection's time series and
// seasonal profile on one page, plus the per-year overlay when a band is
// named.
func (h *ChartHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	args, ok := h.parseArgs(r.URL.Query(), w, chart.KindPlot)
	if !ok {
		return
	}

	// 1) Band time series over the collection dates
	dates, err := h.chartService.SeriesDatesByBands(args.asset, args.req, args.spec)
	if err != nil {
		writeSeriesError(w, err)
		return
	}
	trend, err := render.NewChart(chart.KindPlot, dates, render.Options{
		Title:     "Band time series",
		XAxisName: args.options.XAxisName,
		YAxisName: args.options.YAxisName,
	})
	if err != nil {
		writeSeriesError(w, err)
		return
	}

	// 2) Day-of-year profile across all years
	profile, err := h.chartService.SeriesDoyByBands(args.asset, args.req, args.spec, args.doy)
	if err != nil {
		writeSeriesError(w, err)
		return
	}
	seasonal, err := render.NewChart(chart.KindPlot, profile, render.Options{
		Title:     "Seasonal profile",
		XAxisName: "day of year",
	})
	if err != nil {
		writeSeriesError(w, err)
		return
	}
	charts := []render.Renderable{trend, seasonal}

	// 3) Per-year overlay, only when a single band is named
	if args.req.Band != "" {
		seasonSpec := chart.Spec{
			Kind:    chart.KindPlot,
			Missing: args.spec.Missing,
			Columns: []string{args.req.Band},
		}
		years, err := h.chartService.SeriesDoyBySeasons(args.asset, args.req, seasonSpec, args.doy)
		if err != nil {
			writeSeriesError(w, err)
			return
		}
		overlay, err := render.NewChart(chart.KindPlot, years, render.Options{
			Title:     args.req.Band + " by year",
			XAxisName: "day of year",
		})
		if err != nil {
			writeSeriesError(w, err)
			return
		}
		charts = append(charts, overlay)
	}

	pageTitle := args.options.Title
	if pageTitle == "" {
		pageTitle = "Collection dashboard"
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.NewPage(pageTitle, charts...).Render(w); err != nil {
		log.Println("Error rendering dashboard:", err)
	}
}

// InvalidateReductions handles DELETE /v1/cache/reductions.
func (h *ChartHandler) InvalidateReductions(w http.ResponseWriter, r *http.Request) {
	removed, err := h.chartService.InvalidateReductions()
	if err != nil {
		log.Println("Error invalidating reductions:", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]int{"removed": removed})
}

// Ping handles GET /ping
func (h *ChartHandler) Ping(w http.ResponseWriter, r *http.Request) {
	log.Println("Pinging server")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "pong"})
}

// parseArgs reads every chart query arg. Parse failures write a 400 and
// return ok=false.
func (h *ChartHandler) parseArgs(vals url.Values, w http.ResponseWriter, defaultKind chart.Kind) (args chartArgs, ok bool) {
	args.asset = vals.Get(ASSET_QUERY_ARG)
	if args.asset == "" {
		http.Error(w, "Missing argument "+ASSET_QUERY_ARG, http.StatusBadRequest)
		return
	}

	args.format = vals.Get(FORMAT_QUERY_ARG)
	if args.format == "" {
		args.format = FORMAT_HTML
	}
	if args.format != FORMAT_HTML && args.format != FORMAT_JSON && args.format != FORMAT_XLSX {
		http.Error(w, "Invalid argument "+FORMAT_QUERY_ARG, http.StatusBadRequest)
		return
	}

	kind := defaultKind
	if v := vals.Get(KIND_QUERY_ARG); v != "" {
		parsed, err := chart.ParseKind(v)
		if err != nil {
			http.Error(w, "Invalid argument "+KIND_QUERY_ARG, http.StatusBadRequest)
			return
		}
		kind = parsed
	}
	missing, err := chart.ParseMissing(vals.Get(MISSING_QUERY_ARG))
	if err != nil {
		http.Error(w, "Invalid argument "+MISSING_QUERY_ARG, http.StatusBadRequest)
		return
	}
	args.spec = chart.Spec{
		Kind:    kind,
		Missing: missing,
		Columns: parseArgList(vals, COLUMNS_QUERY_ARG),
		Labels:  parseArgList(vals, LABELS_QUERY_ARG),
		Colors:  parseArgList(vals, COLORS_QUERY_ARG),
	}

	args.req = models.ReduceRequest{
		Reducer:       vals.Get(REDUCER_QUERY_ARG),
		DateProperty:  vals.Get(DATE_PROPERTY_QUERY_ARG),
		LabelProperty: vals.Get(LABEL_PROPERTY_QUERY_ARG),
		Bands:         parseArgList(vals, BANDS_QUERY_ARG),
		Properties:    parseArgList(vals, PROPERTIES_QUERY_ARG),
		Band:          vals.Get(BAND_QUERY_ARG),
		Region:        vals.Get(REGION_QUERY_ARG),
		CRS:           optionalString(vals, CRS_QUERY_ARG),
	}
	if args.req.Scale, err = optionalInt(vals, SCALE_QUERY_ARG); err != nil {
		http.Error(w, "Invalid argument "+SCALE_QUERY_ARG, http.StatusBadRequest)
		return
	}
	if args.req.MaxPixels, err = optionalInt(vals, MAX_PIXELS_QUERY_ARG); err != nil {
		http.Error(w, "Invalid argument "+MAX_PIXELS_QUERY_ARG, http.StatusBadRequest)
		return
	}
	if args.req.TileScale, err = optionalFloat64(vals, TILE_SCALE_QUERY_ARG); err != nil {
		http.Error(w, "Invalid argument "+TILE_SCALE_QUERY_ARG, http.StatusBadRequest)
		return
	}
	if args.req.BestEffort, err = optionalBool(vals, BEST_EFFORT_QUERY_ARG); err != nil {
		http.Error(w, "Invalid argument "+BEST_EFFORT_QUERY_ARG, http.StatusBadRequest)
		return
	}
	if args.req.CRSTransform, err = parseArgFloatList(vals, CRS_TRANSFORM_QUERY_ARG); err != nil {
		http.Error(w, "Invalid argument "+CRS_TRANSFORM_QUERY_ARG, http.StatusBadRequest)
		return
	}

	if args.bins, err = parseArgIntDefault(vals, BINS_QUERY_ARG, 0); err != nil {
		http.Error(w, "Invalid argument "+BINS_QUERY_ARG, http.StatusBadRequest)
		return
	}
	if args.precision, err = parseArgIntDefault(vals, PRECISION_QUERY_ARG, DEFAULT_EDGE_PRECISION); err != nil {
		http.Error(w, "Invalid argument "+PRECISION_QUERY_ARG, http.StatusBadRequest)
		return
	}
	args.property = vals.Get(PROPERTY_QUERY_ARG)

	args.doy.TimeReducer = chart.Reducer(vals.Get(TIME_REDUCER_QUERY_ARG))
	if args.doy.SeasonStart, err = parseArgIntDefault(vals, SEASON_START_QUERY_ARG, 0); err != nil {
		http.Error(w, "Invalid argument "+SEASON_START_QUERY_ARG, http.StatusBadRequest)
		return
	}
	if args.doy.SeasonEnd, err = parseArgIntDefault(vals, SEASON_END_QUERY_ARG, 0); err != nil {
		http.Error(w, "Invalid argument "+SEASON_END_QUERY_ARG, http.StatusBadRequest)
		return
	}

	args.options = render.Options{
		Title:     vals.Get(TITLE_QUERY_ARG),
		Subtitle:  vals.Get(SUBTITLE_QUERY_ARG),
		XAxisName: vals.Get(X_NAME_QUERY_ARG),
		YAxisName: vals.Get(Y_NAME_QUERY_ARG),
	}

	ok = true
	return
}

// writeSeries encodes the series in the requested format.
func (h *ChartHandler) writeSeries(w http.ResponseWriter, args chartArgs, series []chart.Series) {
	switch args.format {
	case FORMAT_JSON:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(series); err != nil {
			log.Println("Error encoding response:", err)
		}
	case FORMAT_XLSX:
		workbook, err := export.NewWorkbook(args.spec.Kind, series, args.options.Title)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		defer workbook.Close()
		w.Header().Set("Content-Type", XLSX_CONTENT_TYPE)
		w.Header().Set("Content-Disposition", `attachment; filename="chart.xlsx"`)
		w.WriteHeader(http.StatusOK)
		if err := workbook.Write(w); err != nil {
			log.Println("Error writing workbook:", err)
		}
	default:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := render.Render(w, args.spec.Kind, series, args.options); err != nil {
			log.Println("Error rendering chart:", err)
		}
	}
}

// writeSeriesError maps build failures onto status codes: bad specs and bad
// data shapes are the caller's problem, everything else is the upstream's.
func writeSeriesError(w http.ResponseWriter, err error) {
	var confErr *chart.ConfigError
	var shapeErr *chart.ShapeError
	if errors.As(err, &confErr) || errors.As(err, &shapeErr) {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	metrics.RecordUpstreamError()
	log.Println("Error building chart series:", err)
	http.Error(w, "Upstream computation error", http.StatusBadGateway)
}

func parseArgList(vals url.Values, name string) []string {
	s := vals.Get(name)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func parseArgFloatList(vals url.Values, name string) ([]float64, error) {
	parts := parseArgList(vals, name)
	if parts == nil {
		return nil, nil
	}
	out := make([]float64, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

func parseArgIntDefault(vals url.Values, name string, def int) (int, error) {
	s := vals.Get(name)
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}

func optionalString(vals url.Values, name string) *string {
	s := vals.Get(name)
	if s == "" {
		return nil
	}
	return &s
}

func optionalInt(vals url.Values, name string) (*int, error) {
	s := vals.Get(name)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func optionalFloat64(vals url.Values, name string) (*float64, error) {
	s := vals.Get(name)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func optionalBool(vals url.Values, name string) (*bool, error) {
	s := vals.Get(name)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
