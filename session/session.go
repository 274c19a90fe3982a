// Package session holds the per-conversation counters and context of the
// session engine: turn count, preferences, initial query, the terminal flag
// and a bounded window of recent turns.
package session

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Turn is one raw user turn retained as oracle context.
type Turn struct {
	Number int       `json:"number"`
	Text   string    `json:"text"`
	At     time.Time `json:"at"`
}

// Session is the state of one conversation. A Session is not safe for
// concurrent use; the engine serializes access.
type Session struct {
	id           string
	preferences  string
	initialQuery string
	turnCount    int
	terminal     bool
	history      []Turn
	historySize  int
}

// New creates a Session with the given preferences. The session is assigned a
// unique UUIDv7 identifier.
func New(cfg *Config, preferences string) *Session {
	size := cfg.HistorySize
	if size <= 0 {
		size = defaultHistorySize
	}
	return &Session{
		id:          uuid.Must(uuid.NewV7()).String(),
		preferences: preferences,
		historySize: size,
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Preferences() string {
	return s.preferences
}

func (s *Session) InitialQuery() string {
	return s.initialQuery
}

func (s *Session) TurnCount() int {
	return s.turnCount
}

// Terminal reports whether the session reached its terminal state.
func (s *Session) Terminal() bool {
	return s.terminal
}

// History returns a copy of the retained turns, oldest first.
func (s *Session) History() []Turn {
	return slices.Clone(s.history)
}

// Advance records a completed turn: the first turn becomes the initial query,
// the counter increments, and the history window is trimmed to its bound.
// Advance is a no-op on a terminal session.
func (s *Session) Advance(text string, at time.Time) {
	if s.terminal {
		return
	}
	if s.turnCount == 0 {
		s.initialQuery = text
	}
	s.turnCount++

	s.history = append(s.history, Turn{Number: s.turnCount, Text: text, At: at})
	if over := len(s.history) - s.historySize; over > 0 {
		s.history = slices.Delete(s.history, 0, over)
	}
}

// Terminate moves the session into its terminal state. The transition is
// one-way.
func (s *Session) Terminate() {
	s.terminal = true
}

// Clone returns an independent copy of the session, keeping its identifier.
func (s *Session) Clone() *Session {
	c := *s
	c.history = slices.Clone(s.history)
	return &c
}
