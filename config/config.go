package config

import (
	"os"
	"path/filepath"
)

// Redis Config
const REDIS_DB_ADDRESS = "redis:6379"
const REDIS_DB_PASSWORD = ""
const REDIS_DB = 0

// Operations Refresher config
const OPERATIONS_REFRESHER_SCHEDULE_MINUTES = 5
const OPERATIONS_REFRESHER_RETRY_WAIT_SECONDS = 2

// Reduction cache config
const REDUCTION_CACHE_TTL_MINUTES = 30

// Earth Engine API
const EE_ENDPOINT_BASE_V1 = "https://earthengine.googleapis.com/v1"

// Server config
const SERVER_ADDRESS = ":8080"

// Resources file paths
const RESOURCES_PATH_PREFIX = "resources"
const TABLE_BY_PROPERTIES_RESOURCE = "table_by_properties.json"
const TABLE_BY_FEATURES_RESOURCE = "table_by_features.json"
const IMAGE_BY_BANDS_RESOURCE = "image_by_bands.json"
const IMAGE_BY_REGIONS_RESOURCE = "image_by_regions.json"
const DATES_BY_BANDS_RESOURCE = "dates_by_bands.json"
const DATES_BY_REGIONS_RESOURCE = "dates_by_regions.json"
const IMAGE_HISTOGRAM_RESOURCE = "image_histogram.json"
const OPERATIONS_RESOURCE = "operations.json"
const ASSET_FOLDERS_RESOURCE = "asset_folders.json"

// BaseDir returns the absolute path of the project root directory
func BaseDir() string {
	// Check if PROJECT_ROOT is set
	if root := os.Getenv("PROJECT_ROOT"); root != "" {
		return root
	}

	// Default to the current working directory
	wd, err := os.Getwd()
	if err != nil {
		panic("Unable to determine working directory: " + err.Error())
	}

	return wd
}

func GetResourcePath(resource_file string) string {
	return filepath.Join(BaseDir(), RESOURCES_PATH_PREFIX, resource_file)
}
