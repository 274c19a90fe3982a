// Package response defines the result shape returned to callers of the
// session engine for every turn.
package response

import "github.com/tailored-agentic-units/supra/core/menu"

// Status is the outcome class of a turn.
type Status string

const (
	StatusNoResponse Status = "no_response"
	StatusSatisfied  Status = "satisfied"
	StatusSuccess    Status = "success"
	StatusError      Status = "error"
)

// Mode describes how the turn was interpreted against the running selection.
type Mode string

const (
	ModeInitial     Mode = "initial"
	ModeAddition    Mode = "addition"
	ModeReplacement Mode = "replacement"
)

// Response is produced by the engine for every chat call. Selection is a copy;
// callers may modify it freely.
type Response struct {
	Status        Status      `json:"status"`
	Selection     []menu.Item `json:"selection"`
	TurnCount     int         `json:"turn_count"`
	TotalPrice    float64     `json:"total_price"`
	Terminal      bool        `json:"terminal"`
	Message       string      `json:"message,omitempty"`
	Mode          Mode        `json:"mode,omitempty"`
	Added         int         `json:"added,omitempty"`
	ExcludedCount int         `json:"excluded_count"`
	Warnings      []string    `json:"warnings,omitempty"`
}

// Active reports whether the session can still accept turns.
func (r *Response) Active() bool {
	return !r.Terminal
}
