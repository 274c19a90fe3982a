package catalog

// Config holds catalog initialization parameters.
type Config struct {
	Path string `json:"path,omitempty"` // file or directory of restaurant documents; empty disables the catalog.
}

// DefaultConfig returns the default catalog configuration (disabled).
func DefaultConfig() Config {
	return Config{}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Path != "" {
		c.Path = source.Path
	}
}

// NewProvider creates a Provider from configuration. Returns a nil Provider
// when Path is empty, indicating no catalog is available.
func NewProvider(cfg *Config) Provider {
	if cfg.Path == "" {
		return nil
	}
	return NewFileProvider(cfg.Path)
}
