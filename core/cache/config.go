package cache

// Config holds configuration for the on-disk API cache.
type Config struct {
	// Dir is the root directory of the cache. Namespace subdirectories
	// are created underneath it on first write.
	Dir string `mapstructure:"dir" default:".cache"`
}
