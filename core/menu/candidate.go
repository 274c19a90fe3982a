package menu

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidCandidate is returned when a candidate is missing a required
// field or carries an out-of-range value.
var ErrInvalidCandidate = errors.New("invalid candidate")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Candidate is an item as proposed by the oracle. The oracle is untrusted, so
// every field is optional on the wire and checked by Item before use. Status
// is advisory only.
type Candidate struct {
	RestaurantID   string   `json:"restaurant_id,omitempty"`
	RestaurantName string   `json:"restaurant_name" validate:"required"`
	ItemName       string   `json:"item_name" validate:"required"`
	Price          *float64 `json:"price" validate:"required,gte=0"`
	Reason         string   `json:"reason,omitempty"`
	Status         Status   `json:"status,omitempty" validate:"omitempty,oneof=preserved new"`
}

// CandidateOf builds a Candidate carrying the same fields as item.
func CandidateOf(item Item) Candidate {
	price := item.Price
	return Candidate{
		RestaurantID:   item.RestaurantID,
		RestaurantName: item.RestaurantName,
		ItemName:       item.ItemName,
		Price:          &price,
		Reason:         item.Reason,
		Status:         item.Status,
	}
}

// Validate checks the candidate's required fields.
func (c Candidate) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCandidate, err)
	}
	return nil
}

// Item validates the candidate and converts it. A candidate without a status
// becomes a new item.
func (c Candidate) Item() (Item, error) {
	if err := c.Validate(); err != nil {
		return Item{}, err
	}

	status := c.Status
	if status == "" {
		status = StatusNew
	}

	return Item{
		RestaurantID:   c.RestaurantID,
		RestaurantName: c.RestaurantName,
		ItemName:       c.ItemName,
		Price:          *c.Price,
		Reason:         c.Reason,
		Status:         status,
	}, nil
}
