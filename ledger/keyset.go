package ledger

import (
	"maps"
	"slices"

	"github.com/tailored-agentic-units/supra/core/menu"
)

// keySet is an insertion-ordered set of keys.
type keySet struct {
	order []menu.Key
	index map[menu.Key]struct{}
}

func newKeySet() keySet {
	return keySet{index: make(map[menu.Key]struct{})}
}

// add inserts key and reports whether it was absent.
func (s *keySet) add(key menu.Key) bool {
	if _, ok := s.index[key]; ok {
		return false
	}
	s.index[key] = struct{}{}
	s.order = append(s.order, key)
	return true
}

func (s keySet) has(key menu.Key) bool {
	_, ok := s.index[key]
	return ok
}

func (s keySet) list() []menu.Key {
	return slices.Clone(s.order)
}

func (s keySet) clone() keySet {
	return keySet{
		order: slices.Clone(s.order),
		index: maps.Clone(s.index),
	}
}
