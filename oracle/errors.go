package oracle

import "errors"

// Sentinel errors for oracle providers.
var (
	ErrEmptyProposal     = errors.New("oracle returned no proposal")
	ErrInvalidProposal   = errors.New("oracle returned an unparseable proposal")
	ErrProviderNotFound  = errors.New("oracle provider not found")
	ErrProviderExists    = errors.New("oracle provider already registered")
	ErrEmptyProviderName = errors.New("oracle provider name is empty")
)
