// Package menu defines the records exchanged between the session engine,
// the catalog and the recommendation oracle.
package menu

import "fmt"

// Status marks whether an item was committed to by the user or newly proposed.
type Status string

const (
	StatusPreserved Status = "preserved"
	StatusNew       Status = "new"
)

// Key is the identity of an item. Two items are the same iff their keys are
// equal; comparison is exact and case-sensitive.
type Key struct {
	Restaurant string `json:"restaurant_name"`
	Item       string `json:"item_name"`
}

// String renders the key as "Restaurant_Item".
func (k Key) String() string {
	return k.Restaurant + "_" + k.Item
}

// Item is a selected menu item. Items are treated as immutable once produced;
// the ledger copies rather than mutates them.
type Item struct {
	RestaurantID   string  `json:"restaurant_id,omitempty"`
	RestaurantName string  `json:"restaurant_name"`
	ItemName       string  `json:"item_name"`
	Price          float64 `json:"price"`
	Reason         string  `json:"reason,omitempty"`
	Status         Status  `json:"status,omitempty"`
}

// Key returns the identity key of the item.
func (i Item) Key() Key {
	return Key{Restaurant: i.RestaurantName, Item: i.ItemName}
}

// Preserved reports whether the item carries preserved status.
func (i Item) Preserved() bool {
	return i.Status == StatusPreserved
}

// WithStatus returns a copy of the item with the given status.
func (i Item) WithStatus(s Status) Item {
	i.Status = s
	return i
}

func (i Item) String() string {
	return fmt.Sprintf("%s from %s ($%.2f)", i.ItemName, i.RestaurantName, i.Price)
}

// TotalPrice sums the price of every item.
func TotalPrice(items []Item) float64 {
	var total float64
	for _, it := range items {
		total += it.Price
	}
	return total
}

// Keys returns the identity keys of items in order.
func Keys(items []Item) []Key {
	keys := make([]Key, len(items))
	for i, it := range items {
		keys[i] = it.Key()
	}
	return keys
}
