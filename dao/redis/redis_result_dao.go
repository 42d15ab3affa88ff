package redis

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"geoplot-server/db"
	"geoplot-server/metrics"
	"geoplot-server/models"
)

const REDUCTION_KEY_FORMAT_V1 = "reduction_v1:%s"
const OPERATIONS_KEY_V1 = "operations_v1"
const ASSET_FOLDERS_KEY_FORMAT_V1 = "asset_folders_v1:%s"

// RedisResultDAO caches reduction API results in Redis.
type RedisResultDAO struct {
	client db.RedisClient
	ttl    time.Duration
}

// NewRedisResultDAO initializes a RedisResultDAO with the Redis client. ttl
// bounds how long cached reduction tables stay valid.
func NewRedisResultDAO(client db.RedisClient, ttl time.Duration) *RedisResultDAO {
	return &RedisResultDAO{client: client, ttl: ttl}
}

// ReductionKey derives the cache key for one reduction call. The endpoint
// plus the encoded query identify the call, the key stores their digest.
func ReductionKey(endpoint, query string) string {
	sum := sha1.Sum([]byte(endpoint + "?" + query))
	return fmt.Sprintf(REDUCTION_KEY_FORMAT_V1, hex.EncodeToString(sum[:]))
}

// GetReduction retrieves a cached reduction table. A miss returns (nil, nil).
func (dao *RedisResultDAO) GetReduction(key string) (*models.ReductionTable, error) {
	str, err := dao.client.Get(key)
	if err != nil {
		// Get reports missing keys as errors
		metrics.RecordCacheMiss()
		return nil, nil
	}
	var table models.ReductionTable
	if err := json.Unmarshal([]byte(str), &table); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached reduction table: %w", err)
	}
	metrics.RecordCacheHit()
	return &table, nil
}

// SetReduction caches a reduction table under the given key with the DAO's TTL.
func (dao *RedisResultDAO) SetReduction(key string, table *models.ReductionTable) error {
	data, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("failed to marshal reduction table: %w", err)
	}
	if err := dao.client.SetWithTTL(key, string(data), dao.ttl); err != nil {
		return fmt.Errorf("failed to set reduction table in redis: %w", err)
	}
	return nil
}

// InvalidateReductions drops every cached reduction table and returns how
// many keys were removed.
func (dao *RedisResultDAO) InvalidateReductions() (int, error) {
	pattern := fmt.Sprintf(REDUCTION_KEY_FORMAT_V1, "*")
	keys, err := dao.client.Keys(pattern)
	if err != nil {
		return 0, fmt.Errorf("failed to list reduction keys: %w", err)
	}
	for _, k := range keys {
		if err := dao.client.Del(k); err != nil {
			return 0, fmt.Errorf("failed to delete reduction key %s: %w", k, err)
		}
	}
	return len(keys), nil
}

// SetOperations caches the latest operations snapshot.
func (dao *RedisResultDAO) SetOperations(ops []models.Operation) error {
	data, err := json.Marshal(ops)
	if err != nil {
		return fmt.Errorf("failed to marshal operations: %w", err)
	}
	if err := dao.client.Set(OPERATIONS_KEY_V1, string(data)); err != nil {
		return fmt.Errorf("failed to set operations in redis: %w", err)
	}
	return nil
}

// GetOperations retrieves the cached operations snapshot. A miss returns
// (nil, nil).
func (dao *RedisResultDAO) GetOperations() ([]models.Operation, error) {
	str, err := dao.client.Get(OPERATIONS_KEY_V1)
	if err != nil {
		return nil, nil
	}
	var ops []models.Operation
	if err := json.Unmarshal([]byte(str), &ops); err != nil {
		return nil, fmt.Errorf("failed to unmarshal operations JSON: %w", err)
	}
	return ops, nil
}

// SetAssetFolders caches the folder listing of one project.
func (dao *RedisResultDAO) SetAssetFolders(project string, folders []models.AssetFolder) error {
	key := fmt.Sprintf(ASSET_FOLDERS_KEY_FORMAT_V1, project)
	data, err := json.Marshal(folders)
	if err != nil {
		return fmt.Errorf("failed to marshal asset folders: %w", err)
	}
	if err := dao.client.SetWithTTL(key, string(data), dao.ttl); err != nil {
		return fmt.Errorf("failed to set asset folders in redis: %w", err)
	}
	return nil
}

// GetAssetFolders retrieves the cached folder listing of one project. A miss
// returns (nil, nil).
func (dao *RedisResultDAO) GetAssetFolders(project string) ([]models.AssetFolder, error) {
	key := fmt.Sprintf(ASSET_FOLDERS_KEY_FORMAT_V1, project)
	str, err := dao.client.Get(key)
	if err != nil {
		return nil, nil
	}
	var folders []models.AssetFolder
	if err := json.Unmarshal([]byte(str), &folders); err != nil {
		return nil, fmt.Errorf("failed to unmarshal asset folders JSON: %w", err)
	}
	return folders, nil
}
