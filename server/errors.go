package server

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/tailored-agentic-units/supra/catalog"
	"github.com/tailored-agentic-units/supra/engine"
)

var (
	// ErrSessionNotFound is returned for an unknown or closed session id.
	ErrSessionNotFound = errors.New("session not found")

	// ErrMissingSessionID is returned for requests without a session id.
	ErrMissingSessionID = errors.New("session id is required")
)

// connectError maps engine and manager errors onto Connect codes.
func connectError(err error) *connect.Error {
	switch {
	case errors.Is(err, ErrMissingSessionID):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, ErrSessionNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, engine.ErrSessionBusy):
		return connect.NewError(connect.CodeAborted, err)
	case errors.Is(err, engine.ErrOracleFailure):
		return connect.NewError(connect.CodeUnavailable, err)
	case errors.Is(err, engine.ErrNotStarted):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, catalog.ErrLoadFailed):
		return connect.NewError(connect.CodeUnavailable, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
