package oracle_test

import (
	"testing"

	"github.com/tailored-agentic-units/supra/oracle"
)

func TestConfig_Merge(t *testing.T) {
	cfg := oracle.DefaultConfig()
	cfg.Merge(&oracle.Config{Provider: "openai", Model: "gpt-4o-mini", MaxTokens: 500})

	if cfg.Provider != "openai" || cfg.Model != "gpt-4o-mini" {
		t.Errorf("got provider %q model %q", cfg.Provider, cfg.Model)
	}
	if cfg.MaxTokens != 500 {
		t.Errorf("got MaxTokens %d, want 500", cfg.MaxTokens)
	}
	if cfg.Temperature != 0.1 {
		t.Errorf("got Temperature %v, want default 0.1", cfg.Temperature)
	}
}

func TestConfig_ResolveAPIKey(t *testing.T) {
	t.Setenv("SUPRA_TEST_KEY", "secret")

	cfg := oracle.Config{APIKeyEnv: "SUPRA_TEST_KEY"}
	cfg.ResolveAPIKey()
	if cfg.APIKey != "secret" {
		t.Errorf("got APIKey %q, want %q", cfg.APIKey, "secret")
	}

	explicit := oracle.Config{APIKey: "given", APIKeyEnv: "SUPRA_TEST_KEY"}
	explicit.ResolveAPIKey()
	if explicit.APIKey != "given" {
		t.Errorf("explicit key overwritten: %q", explicit.APIKey)
	}
}
