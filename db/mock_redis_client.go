package db

import (
	"context"
	"fmt"
	"log"
	"path"
	"sync"
	"time"
)

// MockRedisClient simulates a Redis client for testing purposes.
type MockRedisClient struct {
	data      map[string]string    // Key-value store
	expiresAt map[string]time.Time // Per-key expiry
	mu        sync.RWMutex         // Mutex for thread-safe operations
	context   context.Context
}

// NewMockRedisClient initializes a new MockRedisClient.
func NewMockRedisClient(ctx context.Context) *MockRedisClient {
	return &MockRedisClient{
		data:      make(map[string]string),
		expiresAt: make(map[string]time.Time),
		context:   ctx,
	}
}

// Set stores a key-value pair in the mock Redis.
func (m *MockRedisClient) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	delete(m.expiresAt, key)
	return nil
}

// SetWithTTL stores a key-value pair that expires after ttl.
func (m *MockRedisClient) SetWithTTL(key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.expiresAt[key] = time.Now().Add(ttl)
	return nil
}

// Get retrieves a value for a given key from the mock Redis. Expired keys
// report as missing.
func (m *MockRedisClient) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, exists := m.data[key]
	if !exists {
		return "", fmt.Errorf("key not found: %s", key)
	}
	if deadline, ok := m.expiresAt[key]; ok && time.Now().After(deadline) {
		return "", fmt.Errorf("key not found: %s", key)
	}
	return value, nil
}

// Keys lists the live keys matching a glob pattern.
func (m *MockRedisClient) Keys(pattern string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := time.Now()
	var keys []string
	for key := range m.data {
		if deadline, ok := m.expiresAt[key]; ok && now.After(deadline) {
			continue
		}
		matched, err := path.Match(pattern, key)
		if err != nil {
			return nil, err
		}
		if matched {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// Del removes a key.
func (m *MockRedisClient) Del(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	delete(m.expiresAt, key)
	return nil
}

// GetContext returns the mock Redis client's context.
func (m *MockRedisClient) GetContext() context.Context {
	return m.context
}

// Ping simulates a Redis Ping operation.
func (m *MockRedisClient) Ping() error {
	// Always return nil (indicating Redis is "reachable").
	log.Println("MockRedisClient: Ping successful")
	return nil
}
