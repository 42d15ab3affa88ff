package earthengine

import (
	"geoplot-server/models"
)

// EarthEngineAPI defines the interface for interacting with the Earth Engine
// reduction API
type EarthEngineAPI interface {
	ByProperties(assetID string, req models.ReduceRequest) (*models.ReductionTable, error)
	ByFeatures(assetID string, req models.ReduceRequest) (*models.ReductionTable, error)
	ByBands(assetID string, req models.ReduceRequest) (*models.ReductionTable, error)
	ByRegions(assetID string, req models.ReduceRequest) (*models.ReductionTable, error)
	DatesByBands(assetID string, req models.ReduceRequest) (*models.ReductionTable, error)
	DatesByRegions(assetID string, req models.ReduceRequest) (*models.ReductionTable, error)
	FixedHistogram(assetID string, req models.ReduceRequest) (*models.ReductionTable, error)
	ListOperations() ([]models.Operation, error)
	ListAssetFolders(project string) ([]models.AssetFolder, error)
	SetCredentials(token string)
}
