// Package server hosts many independent sessions behind a Connect RPC
// service. Each session is its own engine; sessions share nothing mutable.
package server

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/tailored-agentic-units/supra/engine"
)

// Manager creates, looks up and closes sessions. Sessions stay registered
// until Close or EvictIdle removes them; a client that walks away without
// closing leaks its session unless the owner sweeps with EvictIdle. Safe for
// concurrent use.
type Manager struct {
	cfg      *engine.Config
	opts     []engine.Option
	mu       sync.Mutex
	sessions map[string]*entry
}

type entry struct {
	engine   *engine.Engine
	lastUsed time.Time
}

// NewManager creates a Manager whose sessions are built from cfg and opts.
// An oracle passed through engine.WithOracle is shared by every session and
// must be safe for concurrent use.
func NewManager(cfg *engine.Config, opts ...engine.Option) *Manager {
	return &Manager{
		cfg:      cfg,
		opts:     opts,
		sessions: make(map[string]*entry),
	}
}

// Create starts a new session and returns its engine and id.
func (m *Manager) Create(ctx context.Context, preferences string) (*engine.Engine, string, error) {
	e, err := engine.New(m.cfg, m.opts...)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create engine: %w", err)
	}
	if err := e.Start(ctx, preferences); err != nil {
		return nil, "", err
	}

	id := e.State().SessionID

	m.mu.Lock()
	m.sessions[id] = &entry{engine: e, lastUsed: time.Now()}
	m.mu.Unlock()

	return e, id, nil
}

// Get returns the engine of session id and marks the session as used.
func (m *Manager) Get(id string) (*engine.Engine, error) {
	if id == "" {
		return nil, ErrMissingSessionID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	ent, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	ent.lastUsed = time.Now()
	return ent.engine, nil
}

// Close discards session id.
func (m *Manager) Close(id string) error {
	if id == "" {
		return ErrMissingSessionID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(m.sessions, id)
	return nil
}

// EvictIdle discards every session last used before cutoff and returns their
// ids in sorted order.
func (m *Manager) EvictIdle(cutoff time.Time) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var evicted []string
	for id, ent := range m.sessions {
		if ent.lastUsed.Before(cutoff) {
			delete(m.sessions, id)
			evicted = append(evicted, id)
		}
	}
	sort.Strings(evicted)
	return evicted
}

// Sessions returns the ids of open sessions in sorted order.
func (m *Manager) Sessions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
