// Package mock provides a scripted Oracle for tests.
package mock

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/tailored-agentic-units/supra/core/menu"
	"github.com/tailored-agentic-units/supra/oracle"
)

// ErrExhausted is returned once every scripted step has been consumed.
var ErrExhausted = errors.New("no more responses configured")

// Step is one scripted oracle outcome.
type Step struct {
	Proposal *oracle.Proposal
	Err      error
}

// Call records the arguments of one Propose invocation.
type Call struct {
	View       oracle.View
	Requested  int
	Attachment *oracle.Attachment
}

// Hook runs at the start of every Propose call. A non-nil error is returned
// in place of the scripted step, which is then not consumed.
type Hook func(ctx context.Context, view oracle.View) error

// Oracle returns scripted steps in order. Safe for concurrent use.
type Oracle struct {
	mu    sync.Mutex
	steps []Step
	calls []Call
	hook  Hook
}

// Option configures an Oracle.
type Option func(*Oracle)

// WithSteps appends scripted steps.
func WithSteps(steps ...Step) Option {
	return func(o *Oracle) { o.steps = append(o.steps, steps...) }
}

// WithHook installs a hook run before each step is returned.
func WithHook(h Hook) Option {
	return func(o *Oracle) { o.hook = h }
}

// New creates a scripted Oracle.
func New(opts ...Option) *Oracle {
	o := &Oracle{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Respond appends a successful step with the given message and candidates.
func (o *Oracle) Respond(message string, candidates ...menu.Candidate) *Oracle {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.steps = append(o.steps, Step{Proposal: &oracle.Proposal{Message: message, Candidates: candidates}})
	return o
}

// Fail appends a failing step.
func (o *Oracle) Fail(err error) *Oracle {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.steps = append(o.steps, Step{Err: err})
	return o
}

// Calls returns the recorded invocations.
func (o *Oracle) Calls() []Call {
	o.mu.Lock()
	defer o.mu.Unlock()
	return slices.Clone(o.calls)
}

// LastCall returns the most recent invocation.
func (o *Oracle) LastCall() (Call, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.calls) == 0 {
		return Call{}, false
	}
	return o.calls[len(o.calls)-1], true
}

func (o *Oracle) Propose(ctx context.Context, view oracle.View, requested int, attachment *oracle.Attachment) (*oracle.Proposal, error) {
	o.mu.Lock()
	o.calls = append(o.calls, Call{View: view, Requested: requested, Attachment: attachment})
	hook := o.hook
	o.mu.Unlock()

	if hook != nil {
		if err := hook(ctx, view); err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if len(o.steps) == 0 {
		return nil, ErrExhausted
	}
	step := o.steps[0]
	o.steps = o.steps[1:]
	return step.Proposal, step.Err
}

// Candidate builds a candidate for tests.
func Candidate(restaurant, item string, price float64) menu.Candidate {
	return menu.Candidate{RestaurantName: restaurant, ItemName: item, Price: &price}
}
