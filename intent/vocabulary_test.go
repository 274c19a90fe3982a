package intent_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tailored-agentic-units/supra/intent"
)

func TestDefaultVocabulary(t *testing.T) {
	v := intent.DefaultVocabulary()

	if len(v.Indicators.Satisfaction) == 0 {
		t.Error("default vocabulary has no satisfaction phrases")
	}
	if got := v.Terms["dumplings"]; len(got) != 1 || got[0] != "khinkali" {
		t.Errorf("got dumplings terms %v, want [khinkali]", got)
	}
}

func TestParseVocabulary_Normalizes(t *testing.T) {
	v, err := intent.ParseVocabulary([]byte(`
indicators:
  satisfaction: ["  ALL   Good "]
terms:
  Noodles: [Ramen]
`))
	if err != nil {
		t.Fatalf("ParseVocabulary failed: %v", err)
	}

	if v.Indicators.Satisfaction[0] != "all good" {
		t.Errorf("got phrase %q, want %q", v.Indicators.Satisfaction[0], "all good")
	}
	if got := v.Terms["noodles"]; len(got) != 1 || got[0] != "ramen" {
		t.Errorf("got terms %v, want [ramen]", got)
	}
}

func TestParseVocabulary_Invalid(t *testing.T) {
	if _, err := intent.ParseVocabulary([]byte("indicators: [")); err == nil {
		t.Fatal("expected error for invalid YAML, got nil")
	}
}

func TestLoadVocabulary_MergesOverDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vocab.yaml")

	content := `
indicators:
  satisfaction: ["we are good"]
terms:
  noodles: [ramen]
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	v, err := intent.LoadVocabulary(path)
	if err != nil {
		t.Fatalf("LoadVocabulary failed: %v", err)
	}

	if len(v.Indicators.Satisfaction) != 1 || v.Indicators.Satisfaction[0] != "we are good" {
		t.Errorf("satisfaction not replaced: %v", v.Indicators.Satisfaction)
	}
	if len(v.Indicators.Addition) == 0 {
		t.Error("unset indicator set should keep default phrases")
	}
	if _, ok := v.Terms["dumplings"]; !ok {
		t.Error("default terms should survive merge")
	}
	if _, ok := v.Terms["noodles"]; !ok {
		t.Error("loaded terms should be added")
	}

	c := intent.New(v)
	if got := c.Classify("we are good, thanks").Intent; got != intent.Satisfied {
		t.Errorf("got intent %q, want %q", got, intent.Satisfied)
	}
}

func TestLoadVocabulary_FileNotFound(t *testing.T) {
	if _, err := intent.LoadVocabulary("/nonexistent/vocab.yaml"); err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}
