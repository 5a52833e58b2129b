package statuscache

import "time"

// Config holds configuration for the status cache.
type Config struct {
	// TTL is how long a snapshot is served before it is recomputed.
	TTL time.Duration `mapstructure:"ttl" default:"2s"`
	// RefreshInterval warms the cache in the background. Zero disables it.
	RefreshInterval time.Duration `mapstructure:"refresh_interval" default:"0s"`
}
