package intent

import (
	_ "embed"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed vocabulary.yaml
var defaultVocabulary []byte

// Indicators holds the phrase sets that drive classification.
type Indicators struct {
	Satisfaction []string `yaml:"satisfaction"`
	Replacement  []string `yaml:"replacement"`
	Removal      []string `yaml:"removal"`
	Preservation []string `yaml:"preservation"`
	PreserveAll  []string `yaml:"preserve_all"`
	Addition     []string `yaml:"addition"`
}

// Vocabulary is the configuration data behind the classifier: indicator
// phrases plus the keyword-to-domain-term table used for preservation.
type Vocabulary struct {
	Indicators Indicators          `yaml:"indicators"`
	Terms      map[string][]string `yaml:"terms"`
}

// DefaultVocabulary returns the embedded vocabulary.
func DefaultVocabulary() Vocabulary {
	v, err := ParseVocabulary(defaultVocabulary)
	if err != nil {
		panic(fmt.Sprintf("embedded vocabulary is invalid: %v", err))
	}
	return v
}

// ParseVocabulary decodes a YAML vocabulary document. Phrases and terms are
// normalized to lower case.
func ParseVocabulary(data []byte) (Vocabulary, error) {
	var v Vocabulary
	if err := yaml.Unmarshal(data, &v); err != nil {
		return Vocabulary{}, fmt.Errorf("failed to parse vocabulary: %w", err)
	}
	v.normalize()
	return v, nil
}

// LoadVocabulary reads a YAML vocabulary file and merges it over the default.
func LoadVocabulary(filename string) (Vocabulary, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Vocabulary{}, fmt.Errorf("failed to read vocabulary file: %w", err)
	}

	loaded, err := ParseVocabulary(data)
	if err != nil {
		return Vocabulary{}, err
	}

	v := DefaultVocabulary()
	v.Merge(&loaded)
	return v, nil
}

// Merge applies non-empty indicator sets from source and adds or replaces
// its term entries.
func (v *Vocabulary) Merge(source *Vocabulary) {
	mergeList(&v.Indicators.Satisfaction, source.Indicators.Satisfaction)
	mergeList(&v.Indicators.Replacement, source.Indicators.Replacement)
	mergeList(&v.Indicators.Removal, source.Indicators.Removal)
	mergeList(&v.Indicators.Preservation, source.Indicators.Preservation)
	mergeList(&v.Indicators.PreserveAll, source.Indicators.PreserveAll)
	mergeList(&v.Indicators.Addition, source.Indicators.Addition)

	if len(source.Terms) == 0 {
		return
	}
	if v.Terms == nil {
		v.Terms = make(map[string][]string, len(source.Terms))
	}
	for k, terms := range source.Terms {
		v.Terms[k] = slices.Clone(terms)
	}
}

// Keywords returns the term table keys in sorted order.
func (v *Vocabulary) Keywords() []string {
	return slices.Sorted(maps.Keys(v.Terms))
}

func (v *Vocabulary) normalize() {
	for _, list := range []*[]string{
		&v.Indicators.Satisfaction,
		&v.Indicators.Replacement,
		&v.Indicators.Removal,
		&v.Indicators.Preservation,
		&v.Indicators.PreserveAll,
		&v.Indicators.Addition,
	} {
		for i, phrase := range *list {
			(*list)[i] = normalize(phrase)
		}
	}

	if len(v.Terms) == 0 {
		return
	}
	terms := make(map[string][]string, len(v.Terms))
	for k, natives := range v.Terms {
		key := normalize(k)
		if _, ok := terms[key]; !ok {
			terms[key] = nil
		}
		for _, n := range natives {
			terms[key] = append(terms[key], normalize(n))
		}
	}
	v.Terms = terms
}

func mergeList(dst *[]string, src []string) {
	if len(src) > 0 {
		*dst = slices.Clone(src)
	}
}

var apostrophes = strings.NewReplacer("’", "'", "‘", "'", "`", "'")

// normalize lower-cases s, unifies apostrophes and collapses whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(apostrophes.Replace(strings.ToLower(s))), " ")
}
