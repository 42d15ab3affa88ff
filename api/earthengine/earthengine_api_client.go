package earthengine

import (
	"net/url"

	"geoplot-server/api"
	"geoplot-server/models"
)

// Endpoints relative to the versioned API base URL
const TABLE_BY_PROPERTIES_ENDPOINT = "/table/byProperties"
const TABLE_BY_FEATURES_ENDPOINT = "/table/byFeatures"
const IMAGE_BY_BANDS_ENDPOINT = "/image/byBands"
const IMAGE_BY_REGIONS_ENDPOINT = "/image/byRegions"
const IMAGE_HISTOGRAM_ENDPOINT = "/image/histogram"
const DATES_BY_BANDS_ENDPOINT = "/collection/datesByBands"
const DATES_BY_REGIONS_ENDPOINT = "/collection/datesByRegions"
const OPERATIONS_ENDPOINT = "/operations"
const ASSETS_ENDPOINT = "/assets"

// EarthEngineApiClient embeds the common HTTPClient
type EarthEngineApiClient struct {
	*api.HTTPClient // Embed HTTPClient to reuse its methods and properties
	token           string
}

// NewEarthEngineApiClient creates a new instance of EarthEngineApiClient
func NewEarthEngineApiClient(httpClient *api.HTTPClient) *EarthEngineApiClient {
	return &EarthEngineApiClient{
		HTTPClient: httpClient,
	}
}

// SetCredentials stores the OAuth bearer token attached to every request
func (c *EarthEngineApiClient) SetCredentials(token string) {
	c.token = token
}

func (c *EarthEngineApiClient) authHeaders() map[string]string {
	if c.token == "" {
		return nil
	}
	return map[string]string{"Authorization": "Bearer " + c.token}
}

// reduceQuery renders the asset id plus the reduce parameters as an encoded
// query string
func reduceQuery(assetID string, req models.ReduceRequest) string {
	values := req.ToValues()
	values.Set("asset", assetID)
	return "?" + values.Encode()
}

func (c *EarthEngineApiClient) reduce(endpoint, assetID string, req models.ReduceRequest) (*models.ReductionTable, error) {
	var response models.ReductionTable
	err := c.Request("GET", endpoint+reduceQuery(assetID, req), c.authHeaders(), nil, &response)
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// ByProperties reduces a feature collection region-wide and returns one row
// per property value, with one column per feature label
func (c *EarthEngineApiClient) ByProperties(assetID string, req models.ReduceRequest) (*models.ReductionTable, error) {
	return c.reduce(TABLE_BY_PROPERTIES_ENDPOINT, assetID, req)
}

// ByFeatures returns one row per feature label, with one column per property
func (c *EarthEngineApiClient) ByFeatures(assetID string, req models.ReduceRequest) (*models.ReductionTable, error) {
	return c.reduce(TABLE_BY_FEATURES_ENDPOINT, assetID, req)
}

// ByBands reduces an image over the request regions and returns one row per
// region label, with one column per band
func (c *EarthEngineApiClient) ByBands(assetID string, req models.ReduceRequest) (*models.ReductionTable, error) {
	return c.reduce(IMAGE_BY_BANDS_ENDPOINT, assetID, req)
}

// ByRegions returns one row per band, with one column per region label
func (c *EarthEngineApiClient) ByRegions(assetID string, req models.ReduceRequest) (*models.ReductionTable, error) {
	return c.reduce(IMAGE_BY_REGIONS_ENDPOINT, assetID, req)
}

// DatesByBands reduces every image of a collection over one region and
// returns one row per band, with one column per image date
func (c *EarthEngineApiClient) DatesByBands(assetID string, req models.ReduceRequest) (*models.ReductionTable, error) {
	return c.reduce(DATES_BY_BANDS_ENDPOINT, assetID, req)
}

// DatesByRegions reduces one band of every image over the request regions and
// returns one row per region label, with one column per image date
func (c *EarthEngineApiClient) DatesByRegions(assetID string, req models.ReduceRequest) (*models.ReductionTable, error) {
	return c.reduce(DATES_BY_REGIONS_ENDPOINT, assetID, req)
}

// FixedHistogram bins one band of an image server-side and returns one row
// per band, with bin edges as columns and counts as values
func (c *EarthEngineApiClient) FixedHistogram(assetID string, req models.ReduceRequest) (*models.ReductionTable, error) {
	return c.reduce(IMAGE_HISTOGRAM_ENDPOINT, assetID, req)
}

// ListOperations retrieves the export and ingestion tasks of the
// authenticated account
func (c *EarthEngineApiClient) ListOperations() ([]models.Operation, error) {
	var response models.ListOperationsResponse
	err := c.Request("GET", OPERATIONS_ENDPOINT, c.authHeaders(), nil, &response)
	if err != nil {
		return nil, err
	}
	return response.Operations, nil
}

// ListAssetFolders retrieves the top-level asset folders of a cloud project
func (c *EarthEngineApiClient) ListAssetFolders(project string) ([]models.AssetFolder, error) {
	values := url.Values{}
	values.Set("project", project)

	var response models.ListAssetFoldersResponse
	err := c.Request("GET", ASSETS_ENDPOINT+"?"+values.Encode(), c.authHeaders(), nil, &response)
	if err != nil {
		return nil, err
	}
	return response.Folders, nil
}
