package network

// Config holds configuration for connectivity checks.
type Config struct {
	// Enabled registers the check route.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// TargetURLs are requested on each check.
	TargetURLs []string `mapstructure:"target_urls" default:"http://connectivitycheck.gstatic.com/generate_204"`
}
