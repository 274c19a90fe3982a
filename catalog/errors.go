package catalog

import "errors"

// Sentinel errors for catalog loading.
var (
	ErrNotFound   = errors.New("catalog not found")
	ErrLoadFailed = errors.New("catalog load failed")
)
