package earthengine

import (
	"fmt"

	"geoplot-server/config"
	"geoplot-server/models"
	"geoplot-server/util"
)

// EarthEngineApiClientMock embeds mocked logic for the earth engine api client
type EarthEngineApiClientMock struct {
}

// NewEarthEngineApiClientMock creates a new instance of EarthEngineApiClientMock
func NewEarthEngineApiClientMock() *EarthEngineApiClientMock {
	return &EarthEngineApiClientMock{}
}

func (c *EarthEngineApiClientMock) readTable(resource string) (*models.ReductionTable, error) {
	table, err := util.ReadReductionTableFromJSON(config.GetResourcePath(resource))
	if err != nil {
		fmt.Println("Could not read reduction table from json: " + resource)
		return nil, err
	}
	return table, nil
}

// ByProperties returns the canned table-by-properties reduction
func (c *EarthEngineApiClientMock) ByProperties(assetID string, req models.ReduceRequest) (*models.ReductionTable, error) {
	return c.readTable(config.TABLE_BY_PROPERTIES_RESOURCE)
}

// ByFeatures returns the canned table-by-features reduction
func (c *EarthEngineApiClientMock) ByFeatures(assetID string, req models.ReduceRequest) (*models.ReductionTable, error) {
	return c.readTable(config.TABLE_BY_FEATURES_RESOURCE)
}

// ByBands returns the canned image-by-bands reduction
func (c *EarthEngineApiClientMock) ByBands(assetID string, req models.ReduceRequest) (*models.ReductionTable, error) {
	return c.readTable(config.IMAGE_BY_BANDS_RESOURCE)
}

// ByRegions returns the canned image-by-regions reduction
func (c *EarthEngineApiClientMock) ByRegions(assetID string, req models.ReduceRequest) (*models.ReductionTable, error) {
	return c.readTable(config.IMAGE_BY_REGIONS_RESOURCE)
}

// DatesByBands returns the canned per-date band reduction
func (c *EarthEngineApiClientMock) DatesByBands(assetID string, req models.ReduceRequest) (*models.ReductionTable, error) {
	return c.readTable(config.DATES_BY_BANDS_RESOURCE)
}

// DatesByRegions returns the canned per-date region reduction
func (c *EarthEngineApiClientMock) DatesByRegions(assetID string, req models.ReduceRequest) (*models.ReductionTable, error) {
	return c.readTable(config.DATES_BY_REGIONS_RESOURCE)
}

// FixedHistogram returns the canned server-binned histogram
func (c *EarthEngineApiClientMock) FixedHistogram(assetID string, req models.ReduceRequest) (*models.ReductionTable, error) {
	return c.readTable(config.IMAGE_HISTOGRAM_RESOURCE)
}

// ListOperations returns the canned operations snapshot
func (c *EarthEngineApiClientMock) ListOperations() ([]models.Operation, error) {
	response, err := util.ReadOperationsFromJSON(config.GetResourcePath(config.OPERATIONS_RESOURCE))
	if err != nil {
		fmt.Println("Could not read operations from json")
		return nil, err
	}
	return response.Operations, nil
}

// ListAssetFolders returns the canned asset folder listing
func (c *EarthEngineApiClientMock) ListAssetFolders(project string) ([]models.AssetFolder, error) {
	response, err := util.ReadAssetFoldersFromJSON(config.GetResourcePath(config.ASSET_FOLDERS_RESOURCE))
	if err != nil {
		fmt.Println("Could not read asset folders from json")
		return nil, err
	}
	return response.Folders, nil
}

// SetCredentials is a no-op on the mock
func (c *EarthEngineApiClientMock) SetCredentials(token string) {
}
