// Package ledger tracks the running item selection of a session together
// with the keys that are excluded and the keys that were ever shown.
//
// The ledger enforces its invariants on every operation:
//
//   - the selection never holds two items with the same key
//   - excluded keys never appear in the selection
//   - every selected key is recorded in the suggested history
//   - preserved items precede new items
//
// A Ledger is not safe for concurrent use; the owning session serializes access.
package ledger

import (
	"fmt"
	"slices"

	"github.com/tailored-agentic-units/supra/core/menu"
)

// Ledger is the authoritative record of selected, excluded and previously
// suggested items.
type Ledger struct {
	selection []menu.Item
	excluded  keySet
	suggested keySet
	pool      []menu.Item
}

// New creates an empty Ledger.
func New() *Ledger {
	return &Ledger{
		excluded:  newKeySet(),
		suggested: newKeySet(),
	}
}

// Selection returns a copy of the current selection.
func (l *Ledger) Selection() []menu.Item {
	return slices.Clone(l.selection)
}

// Len returns the number of selected items.
func (l *Ledger) Len() int {
	return len(l.selection)
}

// At returns the item at the 1-based position pos.
func (l *Ledger) At(pos int) (menu.Item, bool) {
	if pos < 1 || pos > len(l.selection) {
		return menu.Item{}, false
	}
	return l.selection[pos-1], true
}

// Preserved returns the preserved items of the selection in order.
func (l *Ledger) Preserved() []menu.Item {
	var out []menu.Item
	for _, it := range l.selection {
		if it.Preserved() {
			out = append(out, it)
		}
	}
	return out
}

// Pool returns the candidates accepted by the most recent Merge.
func (l *Ledger) Pool() []menu.Item {
	return slices.Clone(l.pool)
}

// Excluded returns excluded keys in the order they were excluded.
func (l *Ledger) Excluded() []menu.Key {
	return l.excluded.list()
}

// IsExcluded reports whether key has been excluded.
func (l *Ledger) IsExcluded(key menu.Key) bool {
	return l.excluded.has(key)
}

// Suggested returns every key ever placed in the selection, in first-seen order.
func (l *Ledger) Suggested() []menu.Key {
	return l.suggested.list()
}

// WasSuggested reports whether key was ever placed in the selection.
func (l *Ledger) WasSuggested(key menu.Key) bool {
	return l.suggested.has(key)
}

// Contains reports whether key is currently selected.
func (l *Ledger) Contains(key menu.Key) bool {
	return l.index(key) >= 0
}

// Total sums the price of the selection.
func (l *Ledger) Total() float64 {
	return menu.TotalPrice(l.selection)
}

// Exclude moves key into the excluded set and strips any matching item from
// the selection. Returns false when key was already excluded.
func (l *Ledger) Exclude(key menu.Key) bool {
	if !l.excluded.add(key) {
		return false
	}
	l.selection = slices.DeleteFunc(l.selection, func(it menu.Item) bool {
		return it.Key() == key
	})
	l.pool = slices.DeleteFunc(l.pool, func(it menu.Item) bool {
		return it.Key() == key
	})
	return true
}

// Preserve commits item to the selection with preserved status. An excluded
// key is ignored. A key already selected as new is promoted in place. Returns
// whether the selection changed.
func (l *Ledger) Preserve(item menu.Item) bool {
	key := item.Key()
	if l.excluded.has(key) {
		return false
	}

	if i := l.index(key); i >= 0 {
		if l.selection[i].Preserved() {
			return false
		}
		l.selection[i] = l.selection[i].WithStatus(menu.StatusPreserved)
	} else {
		l.selection = append(l.selection, item.WithStatus(menu.StatusPreserved))
		l.suggested.add(key)
	}

	l.selection = preservedFirst(l.selection)
	return true
}

// MergeReport describes what a Merge accepted and dropped.
type MergeReport struct {
	Policy     Policy
	Accepted   int         // candidates that passed validation, exclusion and dedup
	Added      []menu.Item // surviving items that were not selected before the merge
	Malformed  int         // candidates dropped for missing or invalid fields
	Excluded   int         // candidates dropped because their key is excluded
	Duplicates int         // candidates dropped because their key was already present
	Truncated  []menu.Item // items removed to respect the limit
	Violation  *PolicyViolation
	Errors     []error // one ErrMalformedCandidate per malformed candidate
}

// Merge folds a fresh candidate list into the selection under policy and
// returns a report. Malformed candidates are dropped individually; Merge never
// fails as a whole.
func (l *Ledger) Merge(candidates []menu.Candidate, policy Policy) MergeReport {
	report := MergeReport{Policy: policy}

	before := newKeySet()
	for _, it := range l.selection {
		before.add(it.Key())
	}

	var merged []menu.Item
	if policy.Mode == ModeAppendNewOnly {
		merged = slices.Clone(l.selection)
	}

	seen := newKeySet()
	for _, it := range merged {
		seen.add(it.Key())
	}

	var accepted []menu.Item
	for i, c := range candidates {
		item, err := c.Item()
		if err != nil {
			report.Malformed++
			report.Errors = append(report.Errors, fmt.Errorf("%w: candidate %d: %v", ErrMalformedCandidate, i, err))
			continue
		}

		key := item.Key()
		if l.excluded.has(key) {
			report.Excluded++
			continue
		}
		if !seen.add(key) {
			report.Duplicates++
			continue
		}

		merged = append(merged, item)
		accepted = append(accepted, item)
	}

	merged = preservedFirst(merged)
	merged, report.Truncated, report.Violation = truncate(merged, policy)

	survivors := newKeySet()
	for _, it := range merged {
		key := it.Key()
		survivors.add(key)
		l.suggested.add(key)
		if !before.has(key) {
			report.Added = append(report.Added, it)
		}
	}

	l.pool = slices.DeleteFunc(accepted, func(it menu.Item) bool {
		return !survivors.has(it.Key())
	})
	report.Accepted = len(l.pool)
	l.selection = merged

	return report
}

// Clone returns an independent copy of the ledger.
func (l *Ledger) Clone() *Ledger {
	return &Ledger{
		selection: slices.Clone(l.selection),
		excluded:  l.excluded.clone(),
		suggested: l.suggested.clone(),
		pool:      slices.Clone(l.pool),
	}
}

func (l *Ledger) index(key menu.Key) int {
	return slices.IndexFunc(l.selection, func(it menu.Item) bool {
		return it.Key() == key
	})
}

// preservedFirst stably moves preserved items ahead of new ones.
func preservedFirst(items []menu.Item) []menu.Item {
	out := make([]menu.Item, 0, len(items))
	for _, it := range items {
		if it.Preserved() {
			out = append(out, it)
		}
	}
	for _, it := range items {
		if !it.Preserved() {
			out = append(out, it)
		}
	}
	return out
}

// truncate trims an ordered selection to the policy limit, dropping new items
// from the tail first. Preserved items are only dropped when the limit is
// below their count, which is reported as a violation.
func truncate(items []menu.Item, policy Policy) ([]menu.Item, []menu.Item, *PolicyViolation) {
	if !policy.Limited() || len(items) <= policy.Limit {
		return items, nil, nil
	}

	preserved := 0
	for _, it := range items {
		if it.Preserved() {
			preserved++
		}
	}

	kept := slices.Clone(items[:policy.Limit])
	dropped := slices.Clone(items[policy.Limit:])

	if policy.Limit < preserved {
		return kept, dropped, &PolicyViolation{Limit: policy.Limit, Preserved: preserved}
	}
	return kept, dropped, nil
}
