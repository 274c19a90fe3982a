package oracle

import "os"

// Config holds the explicit settings an oracle provider is constructed from.
// Credentials are resolved by the caller; the engine never reads them.
type Config struct {
	Provider    string  `json:"provider,omitempty"`
	Model       string  `json:"model,omitempty"`
	BaseURL     string  `json:"base_url,omitempty"`
	APIKey      string  `json:"-"`
	APIKeyEnv   string  `json:"api_key_env,omitempty"`
	Temperature float32 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
}

// DefaultConfig returns the default oracle configuration.
func DefaultConfig() Config {
	return Config{
		APIKeyEnv:   "OPENAI_API_KEY",
		Temperature: 0.1,
		MaxTokens:   3000,
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Provider != "" {
		c.Provider = source.Provider
	}
	if source.Model != "" {
		c.Model = source.Model
	}
	if source.BaseURL != "" {
		c.BaseURL = source.BaseURL
	}
	if source.APIKey != "" {
		c.APIKey = source.APIKey
	}
	if source.APIKeyEnv != "" {
		c.APIKeyEnv = source.APIKeyEnv
	}
	if source.Temperature > 0 {
		c.Temperature = source.Temperature
	}
	if source.MaxTokens > 0 {
		c.MaxTokens = source.MaxTokens
	}
}

// ResolveAPIKey fills APIKey from the APIKeyEnv environment variable when it
// is not already set. Intended for process entry points only.
func (c *Config) ResolveAPIKey() {
	if c.APIKey == "" && c.APIKeyEnv != "" {
		c.APIKey = os.Getenv(c.APIKeyEnv)
	}
}
