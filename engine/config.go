package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/tailored-agentic-units/supra/catalog"
	"github.com/tailored-agentic-units/supra/oracle"
	"github.com/tailored-agentic-units/supra/session"
)

const (
	defaultLimit            = 10
	defaultOracleTimeout    = 30 * time.Second
	defaultSatisfiedMessage = "Enjoy your meal!"
)

// Duration is a time.Duration that reads and writes JSON as a Go duration
// string ("30s", "1m30s"). Bare numbers are read as seconds.
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch val := v.(type) {
	case float64:
		*d = Duration(val * float64(time.Second))
	case string:
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", val, err)
		}
		*d = Duration(parsed)
	default:
		return fmt.Errorf("invalid duration %s", data)
	}
	return nil
}

// Config holds initialization parameters for the engine and its
// collaborators. Each collaborator section delegates to that package's
// config-driven constructor.
type Config struct {
	Limit            int            `json:"limit,omitempty"`
	OracleTimeout    Duration       `json:"oracle_timeout,omitempty"`
	Keywords         string         `json:"keywords,omitempty"` // YAML vocabulary merged over the embedded default
	SatisfiedMessage string         `json:"satisfied_message,omitempty"`
	Session          session.Config `json:"session"`
	Catalog          catalog.Config `json:"catalog"`
	Oracle           oracle.Config  `json:"oracle"`
}

// DefaultConfig returns a Config with sensible defaults for all subsystems.
func DefaultConfig() Config {
	return Config{
		Limit:            defaultLimit,
		OracleTimeout:    Duration(defaultOracleTimeout),
		SatisfiedMessage: defaultSatisfiedMessage,
		Session:          session.DefaultConfig(),
		Catalog:          catalog.DefaultConfig(),
		Oracle:           oracle.DefaultConfig(),
	}
}

// Merge applies non-zero values from source into c, delegating to each
// subsystem's Merge method.
func (c *Config) Merge(source *Config) {
	c.Session.Merge(&source.Session)
	c.Catalog.Merge(&source.Catalog)
	c.Oracle.Merge(&source.Oracle)

	if source.Limit > 0 {
		c.Limit = source.Limit
	}
	if source.OracleTimeout > 0 {
		c.OracleTimeout = source.OracleTimeout
	}
	if source.Keywords != "" {
		c.Keywords = source.Keywords
	}
	if source.SatisfiedMessage != "" {
		c.SatisfiedMessage = source.SatisfiedMessage
	}
}

// LoadConfig reads a JSON config file, merges it with defaults, and returns
// the resulting Config.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}
