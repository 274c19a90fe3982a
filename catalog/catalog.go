// Package catalog provides read-only access to the restaurants and dishes a
// session may draw from. The engine loads the catalog once per session and
// never mutates it.
package catalog

import (
	"context"
	"slices"

	"github.com/tailored-agentic-units/supra/core/menu"
)

// Provider loads the full set of available restaurants.
type Provider interface {
	Load(ctx context.Context) ([]menu.Restaurant, error)
}

type static []menu.Restaurant

// Static returns a Provider serving a fixed set of restaurants.
func Static(restaurants ...menu.Restaurant) Provider {
	return static(slices.Clone(restaurants))
}

func (s static) Load(_ context.Context) ([]menu.Restaurant, error) {
	return clone(s), nil
}

func clone(restaurants []menu.Restaurant) []menu.Restaurant {
	out := make([]menu.Restaurant, len(restaurants))
	for i, r := range restaurants {
		r.Dishes = slices.Clone(r.Dishes)
		out[i] = r
	}
	return out
}

// Items flattens restaurants into new-status items in catalog order.
func Items(restaurants []menu.Restaurant) []menu.Item {
	var items []menu.Item
	for _, r := range restaurants {
		for _, d := range r.Dishes {
			items = append(items, r.Item(d))
		}
	}
	return items
}
