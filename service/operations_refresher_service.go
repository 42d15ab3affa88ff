package services

import (
	"log"
	"time"

	"geoplot-server/api/earthengine"
	"geoplot-server/config"
	"geoplot-server/dao/redis"
	"geoplot-server/metrics"
	"geoplot-server/models"
)

// OperationsRefresherService periodically snapshots the remote task list
// into the cache so task reads never wait on the API.
type OperationsRefresherService struct {
	resultDao *redis.RedisResultDAO
	eeApi     earthengine.EarthEngineAPI
}

// NewOperationsRefresherService constructs a new Refresher with dependencies.
func NewOperationsRefresherService(
	resultDao *redis.RedisResultDAO,
	eeApi earthengine.EarthEngineAPI,
) *OperationsRefresherService {
	return &OperationsRefresherService{
		resultDao: resultDao,
		eeApi:     eeApi,
	}
}

// StartPeriodicJob launches the background loop at the given interval.
func (or *OperationsRefresherService) StartPeriodicJob(interval time.Duration) {
	go or.startPeriodicJob(interval)
}

func (or *OperationsRefresherService) startPeriodicJob(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		log.Println("[OperationsRefresherService] Running periodic operations refresher job.")
		if err := or.RefreshOperations(); err != nil {
			log.Printf("[OperationsRefresherService] RefreshOperations returned error: %v", err)
		} else {
			log.Println("[OperationsRefresherService] RefreshOperations completed successfully.")
		}
	}
}

// RefreshOperations fetches the task list and stores the snapshot, retrying
// transient API failures with a growing wait.
func (or *OperationsRefresherService) RefreshOperations() error {
	metrics.RecordRefresherRun()

	var ops []models.Operation
	var err error

	const maxRetries = 3
	for i := 0; i < maxRetries; i++ {
		ops, err = or.eeApi.ListOperations()
		if err == nil {
			break
		}
		log.Printf("[OperationsRefresherService] ListOperations failed (attempt %d/%d): %v", i+1, maxRetries, err)
		if i < maxRetries-1 {
			or.waitBeforeRetry(i + 1)
		}
	}
	if err != nil {
		metrics.RecordRefresherError()
		return err
	}

	log.Printf("[OperationsRefresherService] Caching %d operations", len(ops))
	if err := or.resultDao.SetOperations(ops); err != nil {
		metrics.RecordRefresherError()
		return err
	}
	return nil
}

// waitBeforeRetry sleeps for the configured retry interval.
func (or *OperationsRefresherService) waitBeforeRetry(attemptNumber int) {
	wait := time.Duration(config.OPERATIONS_REFRESHER_RETRY_WAIT_SECONDS*attemptNumber) * time.Second
	log.Printf("[OperationsRefresherService] Waiting %v before retrying...", wait)
	time.Sleep(wait)
}
