package session

const defaultHistorySize = 4

// Config holds session initialization parameters.
type Config struct {
	// HistorySize bounds the number of raw turns retained as oracle context.
	HistorySize int `json:"history_size,omitempty"`
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{HistorySize: defaultHistorySize}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.HistorySize > 0 {
		c.HistorySize = source.HistorySize
	}
}
