// Package intent maps raw turn text to a coarse intent using fixed indicator
// phrase sets. Classification is a pure function of the text and performs no
// I/O.
package intent

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tailored-agentic-units/supra/core/menu"
)

// Intent is the coarse meaning of a turn.
type Intent string

const (
	Satisfied Intent = "satisfied"
	Replace   Intent = "replace"
	Remove    Intent = "remove-by-reference"
	Preserve  Intent = "preserve-by-keyword"
	Add       Intent = "add"
	None      Intent = "none"
)

// Classification is the result of classifying one turn.
type Classification struct {
	Intent Intent
	// Position is the 1-based ordinal referenced by a removal ("#2",
	// "item 2", "number 2"); zero when absent.
	Position int
	// PreserveAll is set when a preservation turn asks to keep everything.
	PreserveAll bool
	// Matched lists the indicator phrase that decided the intent.
	Matched string
}

var ordinalPattern = regexp.MustCompile(`#\s*(\d+)|item\s+(\d+)|number\s+(\d+)`)

// Classifier classifies turn text against a Vocabulary.
type Classifier struct {
	vocab Vocabulary
}

// New creates a Classifier over vocab.
func New(vocab Vocabulary) *Classifier {
	return &Classifier{vocab: vocab}
}

// NewDefault creates a Classifier over the embedded vocabulary.
func NewDefault() *Classifier {
	return New(DefaultVocabulary())
}

// Vocabulary returns the classifier's vocabulary.
func (c *Classifier) Vocabulary() Vocabulary {
	return c.vocab
}

// Classify returns the intent of text. Priority is first-match-wins:
// satisfied, replace, remove, preserve, add. Any non-empty text that matches
// nothing classifies as Add; empty text classifies as None.
func (c *Classifier) Classify(text string) Classification {
	t := normalize(text)
	if t == "" {
		return Classification{Intent: None}
	}

	ind := c.vocab.Indicators

	if p, ok := firstMatch(t, ind.Satisfaction); ok {
		return Classification{Intent: Satisfied, Matched: p}
	}
	if p, ok := firstMatch(t, ind.Replacement); ok {
		return Classification{Intent: Replace, Matched: p}
	}
	if p, ok := firstMatch(t, ind.Removal); ok {
		return Classification{Intent: Remove, Matched: p, Position: ordinal(t)}
	}
	if p, ok := firstMatch(t, ind.PreserveAll); ok {
		return Classification{Intent: Preserve, Matched: p, PreserveAll: true}
	}
	if p, ok := firstMatch(t, ind.Preservation); ok {
		return Classification{Intent: Preserve, Matched: p}
	}
	if p, ok := firstMatch(t, ind.Addition); ok {
		return Classification{Intent: Add, Matched: p}
	}
	return Classification{Intent: Add}
}

// MatchItems returns the items of pool that text refers to, either by naming
// the item directly or through a keyword of the term table. Order follows pool.
func (c *Classifier) MatchItems(text string, pool []menu.Item) []menu.Item {
	t := normalize(text)
	if t == "" {
		return nil
	}

	terms := c.terms(t)

	var out []menu.Item
	for _, it := range pool {
		name := normalize(it.ItemName)
		if name == "" {
			continue
		}
		if strings.Contains(t, name) {
			out = append(out, it)
			continue
		}
		for _, term := range terms {
			if strings.Contains(name, term) {
				out = append(out, it)
				break
			}
		}
	}
	return out
}

// terms collects every domain term implied by normalized text t: for each
// table entry whose keyword or native term occurs in t, the keyword and all of
// its natives.
func (c *Classifier) terms(t string) []string {
	var out []string
	for _, keyword := range c.vocab.Keywords() {
		natives := c.vocab.Terms[keyword]
		hit := strings.Contains(t, keyword)
		for _, n := range natives {
			if hit {
				break
			}
			hit = strings.Contains(t, n)
		}
		if hit {
			out = append(out, keyword)
			out = append(out, natives...)
		}
	}
	return out
}

func firstMatch(t string, phrases []string) (string, bool) {
	for _, p := range phrases {
		if p != "" && strings.Contains(t, p) {
			return p, true
		}
	}
	return "", false
}

func ordinal(t string) int {
	m := ordinalPattern.FindStringSubmatch(t)
	if m == nil {
		return 0
	}
	for _, g := range m[1:] {
		if g == "" {
			continue
		}
		n, err := strconv.Atoi(g)
		if err != nil {
			return 0
		}
		return n
	}
	return 0
}
