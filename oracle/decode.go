package oracle

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tailored-agentic-units/supra/core/menu"
)

// wireProposal is the JSON document providers are asked to produce.
type wireProposal struct {
	Message string            `json:"conversation_response"`
	Results *[]json.RawMessage `json:"results"`
}

// wireCandidate accepts both the item/price field names and the older
// dish/dish_price names. Any status the provider sends is advisory and not
// decoded.
type wireCandidate struct {
	RestaurantID   string   `json:"restaurant_id"`
	RestaurantName string   `json:"restaurant_name"`
	ItemName       string   `json:"item_name"`
	DishName       string   `json:"dish_name"`
	Price          *float64 `json:"price"`
	DishPrice      *float64 `json:"dish_price"`
	Reason         string   `json:"reason"`
}

func (w wireCandidate) candidate() menu.Candidate {
	c := menu.Candidate{
		RestaurantID:   w.RestaurantID,
		RestaurantName: w.RestaurantName,
		ItemName:       w.ItemName,
		Price:          w.Price,
		Reason:         w.Reason,
	}
	if c.ItemName == "" {
		c.ItemName = w.DishName
	}
	if c.Price == nil {
		c.Price = w.DishPrice
	}
	return c
}

// DecodeProposal parses a provider's JSON output. Markdown code fences and
// prose around the outermost JSON object are tolerated. Result entries that
// are not JSON objects of the expected shape are counted in Malformed instead
// of failing the proposal. A document that is not a JSON object, or that has
// no results array, returns ErrInvalidProposal.
func DecodeProposal(data []byte) (*Proposal, error) {
	data = stripFence(data)
	if len(data) == 0 {
		return nil, ErrEmptyProposal
	}

	var wire wireProposal
	if err := json.Unmarshal(outerObject(data), &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProposal, err)
	}
	if wire.Results == nil {
		return nil, fmt.Errorf("%w: missing results", ErrInvalidProposal)
	}

	p := &Proposal{Message: wire.Message}
	for _, raw := range *wire.Results {
		var w wireCandidate
		if err := json.Unmarshal(raw, &w); err != nil {
			p.Malformed++
			continue
		}
		p.Candidates = append(p.Candidates, w.candidate())
	}
	return p, nil
}

func stripFence(data []byte) []byte {
	data = bytes.TrimSpace(data)
	if !bytes.HasPrefix(data, []byte("```")) {
		return data
	}
	data = bytes.TrimPrefix(data, []byte("```"))
	if nl := bytes.IndexByte(data, '\n'); nl >= 0 {
		data = data[nl+1:]
	}
	data = bytes.TrimSuffix(bytes.TrimSpace(data), []byte("```"))
	return bytes.TrimSpace(data)
}

// outerObject returns the span from the first '{' to the last '}', or data
// unchanged when there is no such span.
func outerObject(data []byte) []byte {
	start := bytes.IndexByte(data, '{')
	end := bytes.LastIndexByte(data, '}')
	if start < 0 || end < start {
		return data
	}
	return data[start : end+1]
}
