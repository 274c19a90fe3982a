package ledger

import (
	"errors"
	"fmt"
)

// Sentinel errors for ledger operations.
var (
	ErrMalformedCandidate = errors.New("malformed candidate")
	ErrPolicyViolation    = errors.New("policy violation")
)

// PolicyViolation records a merge that had to drop preserved items because
// the limit was smaller than the number of items the caller promised to keep.
type PolicyViolation struct {
	Limit     int
	Preserved int
}

func (v *PolicyViolation) Error() string {
	return fmt.Sprintf("%s: limit %d is below %d preserved items", ErrPolicyViolation, v.Limit, v.Preserved)
}

func (v *PolicyViolation) Unwrap() error {
	return ErrPolicyViolation
}
