// Package oracle defines the contract between the session engine and the
// external recommendation service that proposes candidate items per turn.
//
// The oracle is untrusted: everything it returns is treated as raw candidates
// that the ledger validates, deduplicates and filters.
package oracle

import (
	"context"

	"github.com/tailored-agentic-units/supra/core/menu"
	"github.com/tailored-agentic-units/supra/core/response"
)

// Attachment is optional binary input for a turn, such as a photo of a dish.
type Attachment struct {
	Data     []byte
	MIMEType string
}

// View is the read-only session context handed to the oracle for one turn.
type View struct {
	SessionID    string
	Preferences  string
	InitialQuery string
	TurnCount    int
	Mode         response.Mode
	Request      string
	Selection    []menu.Item
	Excluded     []menu.Key
	Suggested    []menu.Key
	History      []string
	Catalog      []menu.Restaurant
}

// Proposal is the oracle's answer for one turn. Message is a conversational
// acknowledgement passed through to the caller unmodified. Malformed counts
// entries the decoder could not read at all.
type Proposal struct {
	Message    string
	Candidates []menu.Candidate
	Malformed  int
}

// Oracle proposes candidate items for a turn. requested is the number of
// items the engine asks for; implementations may return more or fewer.
type Oracle interface {
	Propose(ctx context.Context, view View, requested int, attachment *Attachment) (*Proposal, error)
}

// Func adapts a function to the Oracle interface.
type Func func(ctx context.Context, view View, requested int, attachment *Attachment) (*Proposal, error)

func (f Func) Propose(ctx context.Context, view View, requested int, attachment *Attachment) (*Proposal, error) {
	return f(ctx, view, requested, attachment)
}
