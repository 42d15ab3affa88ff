package services

import (
	"log"

	"geoplot-server/api/earthengine"
	"geoplot-server/chart"
	"geoplot-server/dao/redis"
	"geoplot-server/models"
)

// fetchFunc is one reduction endpoint of the EarthEngineAPI.
type fetchFunc func(assetID string, req models.ReduceRequest) (*models.ReductionTable, error)

// ChartService turns remote reductions into chart series: fetch through the
// cache, reshape the table, build with the chart package.
type ChartService struct {
	resultDao *redis.RedisResultDAO
	eeApi     earthengine.EarthEngineAPI
}

// NewChartService constructs a new ChartService with Redis dependency injection.
func NewChartService(
	resultDao *redis.RedisResultDAO,
	eeApi earthengine.EarthEngineAPI) *ChartService {

	return &ChartService{
		resultDao: resultDao,
		eeApi:     eeApi,
	}
}

// fetchCached returns the cached reduction for the endpoint and request, or
// fetches and caches it. The cache key is the endpoint plus the encoded
// query, so two requests differing in any parameter never share an entry.
func (cs *ChartService) fetchCached(endpoint, assetID string, req models.ReduceRequest, fetch fetchFunc) (*models.ReductionTable, error) {
	values := req.ToValues()
	values.Set("asset", assetID)
	key := redis.ReductionKey(endpoint, values.Encode())

	cached, err := cs.resultDao.GetReduction(key)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		return cached, nil
	}

	table, err := fetch(assetID, req)
	if err != nil {
		return nil, err
	}
	if err := cs.resultDao.SetReduction(key, table); err != nil {
		log.Printf("[ChartService] Failed to cache reduction %s: %v", key, err)
	}
	return table, nil
}

// SeriesByFeatures charts one series per property with the feature labels as
// the x axis.
func (cs *ChartService) SeriesByFeatures(assetID string, req models.ReduceRequest, spec chart.Spec) ([]chart.Series, error) {
	table, err := cs.fetchCached(earthengine.TABLE_BY_PROPERTIES_ENDPOINT, assetID, req, cs.eeApi.ByProperties)
	if err != nil {
		return nil, err
	}
	spec.Layout = chart.RowsAsSeries
	return chart.Build(table, spec)
}

// SeriesByProperties charts one series per feature with the properties as
// the x axis.
func (cs *ChartService) SeriesByProperties(assetID string, req models.ReduceRequest, spec chart.Spec) ([]chart.Series, error) {
	table, err := cs.fetchCached(earthengine.TABLE_BY_FEATURES_ENDPOINT, assetID, req, cs.eeApi.ByFeatures)
	if err != nil {
		return nil, err
	}
	spec.Layout = chart.RowsAsSeries
	return chart.Build(table, spec)
}

// SeriesByRegions charts one series per band with the region labels as the
// x axis.
func (cs *ChartService) SeriesByRegions(assetID string, req models.ReduceRequest, spec chart.Spec) ([]chart.Series, error) {
	table, err := cs.fetchCached(earthengine.IMAGE_BY_BANDS_ENDPOINT, assetID, req, cs.eeApi.ByBands)
	if err != nil {
		return nil, err
	}
	spec.Layout = chart.RowsAsX
	return chart.Build(table, spec)
}

// SeriesByBands charts one series per region with the bands as the x axis.
func (cs *ChartService) SeriesByBands(assetID string, req models.ReduceRequest, spec chart.Spec) ([]chart.Series, error) {
	table, err := cs.fetchCached(earthengine.IMAGE_BY_REGIONS_ENDPOINT, assetID, req, cs.eeApi.ByRegions)
	if err != nil {
		return nil, err
	}
	spec.Layout = chart.RowsAsX
	return chart.Build(table, spec)
}

// SeriesDatesByBands charts one time series per band over the collection
// dates.
func (cs *ChartService) SeriesDatesByBands(assetID string, req models.ReduceRequest, spec chart.Spec) ([]chart.Series, error) {
	table, err := cs.fetchCached(earthengine.DATES_BY_BANDS_ENDPOINT, assetID, req, cs.eeApi.DatesByBands)
	if err != nil {
		return nil, err
	}
	// Rows arrive as bands, the date builder wants them as dates.
	return chart.ByDates(table.Transpose(), spec)
}

// SeriesDatesByRegions charts one time series per region over the collection
// dates.
func (cs *ChartService) SeriesDatesByRegions(assetID string, req models.ReduceRequest, spec chart.Spec) ([]chart.Series, error) {
	table, err := cs.fetchCached(earthengine.DATES_BY_REGIONS_ENDPOINT, assetID, req, cs.eeApi.DatesByRegions)
	if err != nil {
		return nil, err
	}
	return chart.ByDates(table.Transpose(), spec)
}

// SeriesDoyByBands charts one seasonal profile per band: samples grouped by
// day of year across every year of the collection. The spatial reducer rides
// in the request, the time reducer in the day-of-year spec.
func (cs *ChartService) SeriesDoyByBands(assetID string, req models.ReduceRequest, spec chart.Spec, doy chart.DOYSpec) ([]chart.Series, error) {
	table, err := cs.fetchCached(earthengine.DATES_BY_BANDS_ENDPOINT, assetID, req, cs.eeApi.DatesByBands)
	if err != nil {
		return nil, err
	}
	return chart.ByDayOfYear(table.Transpose(), spec, doy)
}

// SeriesDoyByRegions charts one seasonal profile per region.
func (cs *ChartService) SeriesDoyByRegions(assetID string, req models.ReduceRequest, spec chart.Spec, doy chart.DOYSpec) ([]chart.Series, error) {
	table, err := cs.fetchCached(earthengine.DATES_BY_REGIONS_ENDPOINT, assetID, req, cs.eeApi.DatesByRegions)
	if err != nil {
		return nil, err
	}
	return chart.ByDayOfYear(table.Transpose(), spec, doy)
}

// SeriesDoyBySeasons overlays the calendar years of a single band on a
// shared day-of-year axis, one series per year.
func (cs *ChartService) SeriesDoyBySeasons(assetID string, req models.ReduceRequest, spec chart.Spec, doy chart.DOYSpec) ([]chart.Series, error) {
	table, err := cs.fetchCached(earthengine.DATES_BY_BANDS_ENDPOINT, assetID, req, cs.eeApi.DatesByBands)
	if err != nil {
		return nil, err
	}
	return chart.BySeasons(table.Transpose(), spec, doy)
}

// SeriesHistByProperty bins one property's values across the features into
// equal-width counts. bins of 0 means the builder default.
func (cs *ChartService) SeriesHistByProperty(assetID, property string, req models.ReduceRequest, spec chart.Spec, bins int) ([]chart.Series, error) {
	table, err := cs.fetchCached(earthengine.TABLE_BY_FEATURES_ENDPOINT, assetID, req, cs.eeApi.ByFeatures)
	if err != nil {
		return nil, err
	}
	spec.Layout = chart.RowsAsX
	spec.Columns = []string{property}
	return chart.Histogram(table, spec, bins)
}

// SeriesHistByBands turns a server-binned histogram into staircase outlines,
// one series per band. Edges truncate to precision decimals.
func (cs *ChartService) SeriesHistByBands(assetID string, req models.ReduceRequest, spec chart.Spec, precision int) ([]chart.Series, error) {
	table, err := cs.fetchCached(earthengine.IMAGE_HISTOGRAM_ENDPOINT, assetID, req, cs.eeApi.FixedHistogram)
	if err != nil {
		return nil, err
	}
	return chart.BinnedSteps(table, spec, precision)
}

// Operations returns the task list, preferring the snapshot the refresher
// keeps in the cache and falling back to the API on a cold cache.
func (cs *ChartService) Operations() ([]models.Operation, error) {
	ops, err := cs.resultDao.GetOperations()
	if err != nil {
		return nil, err
	}
	if ops != nil {
		return ops, nil
	}

	ops, err = cs.eeApi.ListOperations()
	if err != nil {
		return nil, err
	}
	if err := cs.resultDao.SetOperations(ops); err != nil {
		log.Printf("[ChartService] Failed to cache operations: %v", err)
	}
	return ops, nil
}

// AssetFolders returns the project's top-level asset folders through the
// cache.
func (cs *ChartService) AssetFolders(project string) ([]models.AssetFolder, error) {
	folders, err := cs.resultDao.GetAssetFolders(project)
	if err != nil {
		return nil, err
	}
	if folders != nil {
		return folders, nil
	}

	folders, err = cs.eeApi.ListAssetFolders(project)
	if err != nil {
		return nil, err
	}
	if err := cs.resultDao.SetAssetFolders(project, folders); err != nil {
		log.Printf("[ChartService] Failed to cache asset folders for %s: %v", project, err)
	}
	return folders, nil
}

// InvalidateReductions drops every cached reduction table and returns how
// many were removed.
func (cs *ChartService) InvalidateReductions() (int, error) {
	return cs.resultDao.InvalidateReductions()
}
