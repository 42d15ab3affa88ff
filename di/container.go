package di

import (
	"context"
	"fmt"
	"log"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"

	"geoplot-server/api"
	"geoplot-server/api/earthengine"
	"geoplot-server/config"
	"geoplot-server/dao/redis"
	"geoplot-server/db"
	"geoplot-server/server"
	"geoplot-server/server/handlers"
	services "geoplot-server/service"
)

// Container holds all application dependencies.
type Container struct {
	Config                     *config.Config
	RedisClient                db.RedisClient
	RedisResultDao             *redis.RedisResultDAO
	EarthEngineAPI             earthengine.EarthEngineAPI
	ChartService               *services.ChartService
	OperationsRefresherService *services.OperationsRefresherService
	ChartHandler               *handlers.ChartHandler
	TaskHandler                *handlers.TaskHandler
	AssetHandler               *handlers.AssetHandler
	MuxRouter                  *mux.Router
	Router                     *server.Router
	GeoPlotHttpServer          *server.GeoPlotHttpServer
}

// NewContainer initializes and wires up all dependencies.
func NewContainer(cfg *config.Config) *Container {
	log.Printf("initializing container - env: %s", cfg.Env)
	ctx := context.Background()

	// Initialize Redis client - prod talks to a real instance, anything
	// else runs on the in-memory mock
	var redisClient db.RedisClient
	if cfg.Env == "prod" {
		redisInternalClient := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddress,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})

		redisClient = db.NewCacheRedisClient(ctx, redisInternalClient)
		if err := redisClient.Ping(); err != nil {
			panic(fmt.Sprintf("Failed to connect to Redis: %v", err))
		}
	} else {
		log.Printf("Using mock redis client")
		redisClient = db.NewMockRedisClient(ctx)
	}

	// Initialize Redis result DAO
	redisResultDao := redis.NewRedisResultDAO(redisClient, time.Duration(cfg.CacheTTLMinutes)*time.Minute)

	// Initialize EarthEngineAPI - the mock serves fixtures outside prod
	var eeApiClient earthengine.EarthEngineAPI
	if cfg.Env != "prod" {
		eeApiClient = earthengine.NewEarthEngineApiClientMock()
		log.Printf("Using mock earth engine api")
	} else {
		log.Printf("Using prod earth engine api")
		httpClient := api.NewHTTPClient(cfg.EarthEngineBaseURL)

		client := earthengine.NewEarthEngineApiClient(httpClient)
		client.SetCredentials(cfg.EarthEngineToken)
		eeApiClient = client
	}

	// Initialize service layer
	chartService := services.NewChartService(redisResultDao, eeApiClient)
	operationsRefresherService := services.NewOperationsRefresherService(redisResultDao, eeApiClient)

	// Initialize handlers
	chartHandler := handlers.NewChartHandler(chartService)
	taskHandler := handlers.NewTaskHandler(chartService)
	assetHandler := handlers.NewAssetHandler(chartService, cfg.Project)

	// Initialize mux router
	muxRouter := mux.NewRouter()

	// Initialize router
	router := server.NewRouter(chartHandler, taskHandler, assetHandler, muxRouter)

	// Initialize geoplot server
	geoPlotHttpServer := server.NewGeoPlotHttpServer(router, muxRouter, cfg.Addr)

	return &Container{
		Config:                     cfg,
		RedisClient:                redisClient,
		RedisResultDao:             redisResultDao,
		EarthEngineAPI:             eeApiClient,
		ChartService:               chartService,
		OperationsRefresherService: operationsRefresherService,
		ChartHandler:               chartHandler,
		TaskHandler:                taskHandler,
		AssetHandler:               assetHandler,
		MuxRouter:                  muxRouter,
		Router:                     router,
		GeoPlotHttpServer:          geoPlotHttpServer,
	}
}
