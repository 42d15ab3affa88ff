package server

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"geoplot-server/metrics"
	"geoplot-server/server/handlers"
)

type Router struct {
	chartHandler *handlers.ChartHandler
	taskHandler  *handlers.TaskHandler
	assetHandler *handlers.AssetHandler
	router       *mux.Router
}

// NewRouter creates a router with the app's routes.
func NewRouter(
	chartHandler *handlers.ChartHandler,
	taskHandler *handlers.TaskHandler,
	assetHandler *handlers.AssetHandler,
	router *mux.Router) *Router {
	return &Router{
		chartHandler: chartHandler,
		taskHandler:  taskHandler,
		assetHandler: assetHandler,
		router:       router,
	}
}

func (r *Router) RegisterRoutes() {
	r.router.Use(MetricsMiddleware)

	// every chart route expects ?asset={asset id} plus the reduce and
	// series args; format=html|json|xlsx picks the response body
	r.router.HandleFunc("/v1/charts/features", r.chartHandler.ByFeatures).Methods("GET")
	r.router.HandleFunc("/v1/charts/properties", r.chartHandler.ByProperties).Methods("GET")
	r.router.HandleFunc("/v1/charts/regions", r.chartHandler.ByRegions).Methods("GET")
	r.router.HandleFunc("/v1/charts/bands", r.chartHandler.ByBands).Methods("GET")

	r.router.HandleFunc("/v1/charts/dates/bands", r.chartHandler.DatesByBands).Methods("GET")
	r.router.HandleFunc("/v1/charts/dates/regions", r.chartHandler.DatesByRegions).Methods("GET")
	r.router.HandleFunc("/v1/charts/doy/bands", r.chartHandler.DoyByBands).Methods("GET")
	r.router.HandleFunc("/v1/charts/doy/regions", r.chartHandler.DoyByRegions).Methods("GET")
	r.router.HandleFunc("/v1/charts/doy/seasons", r.chartHandler.DoyBySeasons).Methods("GET")

	// expects ?property={property id} on top of the chart args
	r.router.HandleFunc("/v1/charts/hist/property", r.chartHandler.HistByProperty).Methods("GET")
	r.router.HandleFunc("/v1/charts/hist/bands", r.chartHandler.HistByBands).Methods("GET")

	r.router.HandleFunc("/v1/dashboard", r.chartHandler.Dashboard).Methods("GET")
	r.router.HandleFunc("/v1/tasks", r.taskHandler.GetTasks).Methods("GET")
	r.router.HandleFunc("/v1/assets", r.assetHandler.GetAssetFolders).Methods("GET")
	r.router.HandleFunc("/v1/cache/reductions", r.chartHandler.InvalidateReductions).Methods("DELETE")

	r.router.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})).Methods("GET")
	r.router.HandleFunc("/ping", r.chartHandler.Ping).Methods("GET")
}
