package outbound

import (
	"time"

	"hotspot-control/core/database"
)

// Config holds configuration for the outbound client.
type Config struct {
	// TimeoutSeconds bounds dialing, response headers and the whole request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"5"`
	// Workers is the number of executor goroutines.
	Workers int `mapstructure:"workers" default:"2"`
	// Queue is the executor queue capacity.
	Queue int `mapstructure:"queue" default:"16"`
	// MaxBodyBytes caps response bodies read into memory.
	MaxBodyBytes int64 `mapstructure:"max_body_bytes" default:"1048576"`
	// Cache configures the response cache.
	Cache CacheConfig `mapstructure:"cache"`
}

// CacheConfig holds configuration for the response cache.
type CacheConfig struct {
	// Enabled turns the response cache on.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// TTL is how long a cached response is served.
	TTL time.Duration `mapstructure:"ttl" default:"30s"`
	// PurgeInterval is how often expired rows are deleted.
	PurgeInterval time.Duration `mapstructure:"purge_interval" default:"1m"`
	// Database is where responses are stored.
	Database database.Config `mapstructure:"database"`
}
