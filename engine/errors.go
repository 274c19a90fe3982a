package engine

import "errors"

var (
	// ErrOracleFailure wraps any failed, timed out or unparseable oracle
	// round-trip. The session is left exactly as it was before the turn.
	ErrOracleFailure = errors.New("oracle failure")

	// ErrSessionBusy is returned when a turn arrives while another turn of the
	// same session is still in flight.
	ErrSessionBusy = errors.New("session busy")

	// ErrNotStarted is returned by Chat before Start.
	ErrNotStarted = errors.New("session not started")

	// ErrNoOracle is returned by New when neither configuration nor options
	// provide an oracle.
	ErrNoOracle = errors.New("no oracle configured")
)
