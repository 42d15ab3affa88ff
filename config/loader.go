package config

import (
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config contains process configuration loaded at startup.
type Config struct {
	// Env selects the dependency wiring: "prod" talks to the real
	// reduction API and Redis, anything else runs on mocks.
	Env string `koanf:"env"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// RedisAddress, RedisPassword and RedisDB configure the cache backend.
	RedisAddress  string `koanf:"redis_address"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	// EarthEngineBaseURL points at the versioned reduction API root.
	EarthEngineBaseURL string `koanf:"earthengine_base_url"`

	// EarthEngineToken is the OAuth bearer token sent with every request.
	EarthEngineToken string `koanf:"earthengine_token"`

	// Project scopes asset folder listings.
	Project string `koanf:"project"`

	// CacheTTLMinutes bounds how long reduction tables stay cached.
	CacheTTLMinutes int `koanf:"cache_ttl_minutes"`

	// RefresherScheduleMinutes sets the operations refresher period.
	RefresherScheduleMinutes int `koanf:"refresher_schedule_minutes"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		Env:                      "dev",
		Addr:                     SERVER_ADDRESS,
		RedisAddress:             REDIS_DB_ADDRESS,
		RedisPassword:            REDIS_DB_PASSWORD,
		RedisDB:                  REDIS_DB,
		EarthEngineBaseURL:       EE_ENDPOINT_BASE_V1,
		CacheTTLMinutes:          REDUCTION_CACHE_TTL_MINUTES,
		RefresherScheduleMinutes: OPERATIONS_REFRESHER_SCHEDULE_MINUTES,
	}
}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if GEOPLOT_CONFIG is set
//  3. env (prefix GEOPLOT_)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("GEOPLOT_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Environment variables: GEOPLOT_ADDR, GEOPLOT_REDIS_ADDRESS, ...
	// Map env keys like GEOPLOT_REDIS_ADDRESS -> redis_address (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("GEOPLOT_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "geoplot_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	// Basic validation
	if cfg.Addr == "" {
		return nil, errors.New("addr must not be empty")
	}
	if cfg.CacheTTLMinutes < 0 {
		return nil, errors.New("cache_ttl_minutes must not be negative")
	}
	return &cfg, nil
}
