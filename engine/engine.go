// Package engine implements the session engine: the turn processor that folds
// raw user text and untrusted oracle proposals into a deterministic,
// duplicate-free selection, and the façade callers drive it through.
//
// The engine initializes from configuration via New, creating the classifier,
// oracle and catalog from their config sections. Functional options override
// any collaborator for testing.
//
//	e, err := engine.New(&cfg)
//	err = e.Start(ctx, "vegetarian, no mushrooms")
//	resp, err := e.Chat(ctx, "something warm for a cold evening", nil)
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/tailored-agentic-units/supra/catalog"
	"github.com/tailored-agentic-units/supra/core/menu"
	"github.com/tailored-agentic-units/supra/core/response"
	"github.com/tailored-agentic-units/supra/intent"
	"github.com/tailored-agentic-units/supra/ledger"
	"github.com/tailored-agentic-units/supra/observability"
	"github.com/tailored-agentic-units/supra/oracle"
	"github.com/tailored-agentic-units/supra/session"
)

// Option configures an Engine after config-driven initialization.
type Option func(*Engine)

// WithOracle overrides the config-created oracle.
func WithOracle(o oracle.Oracle) Option {
	return func(e *Engine) { e.oracle = o }
}

// WithCatalog overrides the config-created catalog provider.
func WithCatalog(p catalog.Provider) Option {
	return func(e *Engine) { e.catalog = p }
}

// WithClassifier overrides the config-created intent classifier.
func WithClassifier(c *intent.Classifier) Option {
	return func(e *Engine) { e.classifier = c }
}

// WithObserver overrides the default SlogObserver.
func WithObserver(o observability.Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// WithClock overrides the time source used for turn timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// conversation is one Session and its Ledger. A committed conversation is
// never mutated; turns work on a clone and swap it in on success.
type conversation struct {
	session *session.Session
	ledger  *ledger.Ledger
	catalog []menu.Restaurant
}

func (c *conversation) fork() *conversation {
	return &conversation{
		session: c.session.Clone(),
		ledger:  c.ledger.Clone(),
		catalog: c.catalog,
	}
}

// Engine drives one session at a time. Turns are strictly sequential: a Chat
// or Start arriving while another is in flight is rejected with
// ErrSessionBusy. All methods are safe for concurrent use.
type Engine struct {
	oracle     oracle.Oracle
	catalog    catalog.Provider
	classifier *intent.Classifier
	observer   observability.Observer
	now        func() time.Time

	limit            int
	timeout          time.Duration
	satisfiedMessage string
	sessionCfg       session.Config

	turn sync.Mutex
	mu   sync.RWMutex
	conv *conversation
}

// New creates an Engine from configuration. The oracle is created through the
// provider registry when cfg.Oracle.Provider is set; otherwise WithOracle
// must supply one.
func New(cfg *Config, opts ...Option) (*Engine, error) {
	vocab := intent.DefaultVocabulary()
	if cfg.Keywords != "" {
		loaded, err := intent.LoadVocabulary(cfg.Keywords)
		if err != nil {
			return nil, fmt.Errorf("failed to load keywords: %w", err)
		}
		vocab = loaded
	}

	var orc oracle.Oracle
	if cfg.Oracle.Provider != "" {
		o, err := oracle.New(&cfg.Oracle)
		if err != nil {
			return nil, fmt.Errorf("failed to create oracle: %w", err)
		}
		orc = o
	}

	limit := cfg.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	message := cfg.SatisfiedMessage
	if message == "" {
		message = defaultSatisfiedMessage
	}

	e := &Engine{
		oracle:           orc,
		catalog:          catalog.NewProvider(&cfg.Catalog),
		classifier:       intent.New(vocab),
		observer:         observability.NewSlogObserver(slog.Default()),
		now:              time.Now,
		limit:            limit,
		timeout:          time.Duration(cfg.OracleTimeout),
		satisfiedMessage: message,
		sessionCfg:       cfg.Session,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.oracle == nil {
		return nil, ErrNoOracle
	}

	return e, nil
}

// Limit returns the maximum selection size.
func (e *Engine) Limit() int {
	return e.limit
}

// Start begins a new session with the given preferences, discarding any prior
// session and ledger together. The catalog, when configured, is loaded once
// here and handed to the oracle on every turn.
func (e *Engine) Start(ctx context.Context, preferences string) error {
	if !e.turn.TryLock() {
		return ErrSessionBusy
	}
	defer e.turn.Unlock()

	var restaurants []menu.Restaurant
	if e.catalog != nil {
		loaded, err := e.catalog.Load(ctx)
		if err != nil {
			e.emit(ctx, EventError, observability.LevelError, "", "engine.Start", map[string]any{
				"error": err.Error(),
			})
			return fmt.Errorf("failed to load catalog: %w", err)
		}
		restaurants = loaded
	}

	conv := &conversation{
		session: session.New(&e.sessionCfg, preferences),
		ledger:  ledger.New(),
		catalog: restaurants,
	}
	e.commit(conv)

	e.emit(ctx, EventSessionStart, observability.LevelInfo, conv.session.ID(), "engine.Start", map[string]any{
		"restaurants":        len(restaurants),
		"limit":              e.limit,
		"preferences_length": len(preferences),
	})

	return nil
}

// Chat processes one turn. The returned Response is never nil. A non-nil
// error accompanies every Response with status error: ErrNotStarted,
// ErrSessionBusy, or ErrOracleFailure wrapping the oracle's error. On error
// the session is exactly as it was before the call.
func (e *Engine) Chat(ctx context.Context, text string, attachment *oracle.Attachment) (*response.Response, error) {
	if !e.turn.TryLock() {
		r := respond(response.StatusError, e.current())
		r.Message = ErrSessionBusy.Error()
		return r, ErrSessionBusy
	}
	defer e.turn.Unlock()

	conv := e.current()
	if conv == nil {
		r := respond(response.StatusError, nil)
		r.Message = ErrNotStarted.Error()
		return r, ErrNotStarted
	}

	return e.process(ctx, conv, text, attachment)
}

// IsActive reports whether a session is started and not yet terminal.
func (e *Engine) IsActive() bool {
	conv := e.current()
	return conv != nil && !conv.session.Terminal()
}

func (e *Engine) current() *conversation {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.conv
}

func (e *Engine) commit(conv *conversation) {
	e.mu.Lock()
	e.conv = conv
	e.mu.Unlock()
}

func (e *Engine) emit(ctx context.Context, typ observability.EventType, level observability.Level, sessionID, source string, data map[string]any) {
	e.observer.OnEvent(ctx, observability.Event{
		Type:      typ,
		Level:     level,
		Timestamp: time.Now(),
		Source:    source,
		SessionID: sessionID,
		Data:      data,
	})
}

func respond(status response.Status, conv *conversation) *response.Response {
	r := &response.Response{Status: status, Selection: []menu.Item{}}
	if conv == nil {
		return r
	}
	if sel := conv.ledger.Selection(); sel != nil {
		r.Selection = sel
	}
	r.TurnCount = conv.session.TurnCount()
	r.TotalPrice = conv.ledger.Total()
	r.Terminal = conv.session.Terminal()
	r.ExcludedCount = len(conv.ledger.Excluded())
	return r
}

// Snapshot is a point-in-time copy of the session state.
type Snapshot struct {
	SessionID    string         `json:"session_id"`
	Preferences  string         `json:"preferences"`
	InitialQuery string         `json:"initial_query"`
	TurnCount    int            `json:"turn_count"`
	Selection    []menu.Item    `json:"selection"`
	TotalPrice   float64        `json:"total_price"`
	Excluded     []menu.Key     `json:"excluded"`
	Suggested    []menu.Key     `json:"suggested"`
	History      []session.Turn `json:"history"`
	Terminal     bool           `json:"terminal"`
	Active       bool           `json:"active"`
}

// State returns a snapshot of the current session. Before Start the snapshot
// is empty and inactive.
func (e *Engine) State() Snapshot {
	conv := e.current()
	if conv == nil {
		return Snapshot{}
	}

	s := conv.session
	return Snapshot{
		SessionID:    s.ID(),
		Preferences:  s.Preferences(),
		InitialQuery: s.InitialQuery(),
		TurnCount:    s.TurnCount(),
		Selection:    conv.ledger.Selection(),
		TotalPrice:   conv.ledger.Total(),
		Excluded:     conv.ledger.Excluded(),
		Suggested:    conv.ledger.Suggested(),
		History:      s.History(),
		Terminal:     s.Terminal(),
		Active:       !s.Terminal(),
	}
}

func (e *Engine) process(ctx context.Context, conv *conversation, text string, attachment *oracle.Attachment) (*response.Response, error) {
	sid := conv.session.ID()

	if strings.TrimSpace(text) == "" {
		e.emit(ctx, EventTurnEmpty, observability.LevelVerbose, sid, "engine.Chat", nil)
		return respond(response.StatusNoResponse, conv), nil
	}

	if conv.session.Terminal() {
		r := respond(response.StatusSatisfied, conv)
		r.Message = e.satisfiedMessage
		return r, nil
	}

	e.emit(ctx, EventTurnStart, observability.LevelInfo, sid, "engine.Chat", map[string]any{
		"turn":        conv.session.TurnCount(),
		"text_length": len(text),
		"attachment":  attachment != nil,
	})

	class := e.classifier.Classify(text)
	e.emit(ctx, EventIntent, observability.LevelVerbose, sid, "engine.Chat", map[string]any{
		"intent":   string(class.Intent),
		"matched":  class.Matched,
		"position": class.Position,
	})

	if class.Intent == intent.Satisfied {
		return e.satisfy(ctx, conv), nil
	}

	next := conv.fork()
	e.applyLocal(ctx, next, class, text)
	mode, policy, requested := e.plan(next, class)

	e.emit(ctx, EventOracleCall, observability.LevelInfo, sid, "engine.Chat", map[string]any{
		"mode":      string(mode),
		"policy":    policy.String(),
		"requested": requested,
	})

	started := time.Now()
	proposal, err := e.propose(ctx, e.view(next, mode, text), requested, attachment)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrOracleFailure, err)
		e.emit(ctx, EventError, observability.LevelError, sid, "engine.Chat", map[string]any{
			"error":    err.Error(),
			"duration": time.Since(started),
		})
		r := respond(response.StatusError, conv)
		r.Message = err.Error()
		return r, err
	}

	e.emit(ctx, EventOracleComplete, observability.LevelInfo, sid, "engine.Chat", map[string]any{
		"candidates": len(proposal.Candidates),
		"malformed":  proposal.Malformed,
		"duration":   time.Since(started),
	})

	report := next.ledger.Merge(candidates(next.ledger, proposal, policy), policy)
	e.emit(ctx, EventMerge, observability.LevelVerbose, sid, "engine.Chat", map[string]any{
		"policy":     policy.String(),
		"accepted":   report.Accepted,
		"added":      len(report.Added),
		"malformed":  report.Malformed + proposal.Malformed,
		"excluded":   report.Excluded,
		"duplicates": report.Duplicates,
		"truncated":  len(report.Truncated),
	})

	var warnings []string
	if v := report.Violation; v != nil {
		warnings = append(warnings, v.Error())
		e.emit(ctx, EventPolicyViolation, observability.LevelWarning, sid, "engine.Chat", map[string]any{
			"limit":     v.Limit,
			"preserved": v.Preserved,
		})
	}

	next.session.Advance(text, e.now())
	e.commit(next)

	r := respond(response.StatusSuccess, next)
	r.Message = proposal.Message
	r.Mode = mode
	r.Added = len(report.Added)
	r.Warnings = warnings

	e.emit(ctx, EventTurnComplete, observability.LevelInfo, sid, "engine.Chat", map[string]any{
		"turn":        r.TurnCount,
		"items":       len(r.Selection),
		"added":       r.Added,
		"total_price": r.TotalPrice,
	})

	return r, nil
}

// satisfy moves the session into its terminal state. The ledger is shared
// with the prior conversation since it is not modified.
func (e *Engine) satisfy(ctx context.Context, conv *conversation) *response.Response {
	next := &conversation{
		session: conv.session.Clone(),
		ledger:  conv.ledger,
		catalog: conv.catalog,
	}
	next.session.Terminate()
	e.commit(next)

	r := respond(response.StatusSatisfied, next)
	r.Message = e.satisfiedMessage

	e.emit(ctx, EventTurnSatisfied, observability.LevelInfo, next.session.ID(), "engine.Chat", map[string]any{
		"turn":        r.TurnCount,
		"items":       len(r.Selection),
		"total_price": r.TotalPrice,
	})

	return r
}

// applyLocal performs the removals and preservations a turn implies before
// the oracle is consulted.
func (e *Engine) applyLocal(ctx context.Context, conv *conversation, class intent.Classification, text string) {
	sid := conv.session.ID()
	l := conv.ledger

	switch class.Intent {
	case intent.Remove:
		var targets []menu.Item
		if item, ok := l.At(class.Position); ok {
			targets = []menu.Item{item}
		} else {
			targets = e.classifier.MatchItems(text, l.Selection())
		}
		for _, it := range targets {
			if l.Exclude(it.Key()) {
				e.emit(ctx, EventRemoval, observability.LevelInfo, sid, "engine.Chat", map[string]any{
					"item":     it.Key().String(),
					"position": class.Position,
				})
			}
		}

	case intent.Preserve:
		targets := l.Selection()
		if !class.PreserveAll {
			targets = e.classifier.MatchItems(text, preservable(l))
		}
		for _, it := range targets {
			if l.Preserve(it) {
				e.emit(ctx, EventPreserve, observability.LevelInfo, sid, "engine.Chat", map[string]any{
					"item": it.Key().String(),
					"all":  class.PreserveAll,
				})
			}
		}
	}
}

// preservable returns the items a preservation turn may refer to: the current
// selection followed by the last merge's accepted candidates that did not
// survive into it.
func preservable(l *ledger.Ledger) []menu.Item {
	out := l.Selection()
	for _, it := range l.Pool() {
		if !l.Contains(it.Key()) {
			out = append(out, it)
		}
	}
	return out
}

// plan selects the merge policy and the number of items to ask the oracle for.
func (e *Engine) plan(conv *conversation, class intent.Classification) (response.Mode, ledger.Policy, int) {
	if class.Intent == intent.Replace {
		return response.ModeReplacement, ledger.ReplaceAll(e.limit), e.limit
	}

	mode := response.ModeAddition
	if conv.session.TurnCount() == 0 {
		mode = response.ModeInitial
	}
	return mode, ledger.AppendNewOnly(e.limit), max(1, e.limit-conv.ledger.Len())
}

func (e *Engine) view(conv *conversation, mode response.Mode, text string) oracle.View {
	s := conv.session

	turns := s.History()
	history := make([]string, len(turns))
	for i, t := range turns {
		history[i] = t.Text
	}

	initial := s.InitialQuery()
	if s.TurnCount() == 0 {
		initial = text
	}

	return oracle.View{
		SessionID:    s.ID(),
		Preferences:  s.Preferences(),
		InitialQuery: initial,
		TurnCount:    s.TurnCount(),
		Mode:         mode,
		Request:      text,
		Selection:    conv.ledger.Selection(),
		Excluded:     conv.ledger.Excluded(),
		Suggested:    conv.ledger.Suggested(),
		History:      history,
		Catalog:      conv.catalog,
	}
}

type proposeResult struct {
	proposal *oracle.Proposal
	err      error
}

// propose calls the oracle under the configured timeout. An oracle that
// ignores its context is abandoned once the deadline passes.
func (e *Engine) propose(ctx context.Context, view oracle.View, requested int, attachment *oracle.Attachment) (*oracle.Proposal, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	done := make(chan proposeResult, 1)
	go func() {
		p, err := e.oracle.Propose(ctx, view, requested, attachment)
		done <- proposeResult{proposal: p, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		if res.err != nil {
			return nil, res.err
		}
		if res.proposal == nil {
			return nil, oracle.ErrEmptyProposal
		}
		return res.proposal, nil
	}
}

// candidates prepares the merge input. Oracle status is advisory and dropped;
// under replace-all the preserved items are re-injected ahead of the proposal
// so they survive the replacement.
func candidates(l *ledger.Ledger, p *oracle.Proposal, policy ledger.Policy) []menu.Candidate {
	var out []menu.Candidate
	if policy.Mode == ledger.ModeReplaceAll {
		for _, it := range l.Preserved() {
			out = append(out, menu.CandidateOf(it))
		}
	}
	for _, c := range p.Candidates {
		c.Status = menu.StatusNew
		out = append(out, c)
	}
	return out
}
