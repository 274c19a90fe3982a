package ledger

import "fmt"

// Mode selects how fresh candidates combine with the existing selection.
type Mode string

const (
	// ModeReplaceAll discards the prior selection; callers re-inject the
	// items they want kept into the candidate list.
	ModeReplaceAll Mode = "replace-all"
	// ModeAppendNewOnly keeps the prior selection and appends unseen candidates.
	ModeAppendNewOnly Mode = "append-new-only"
)

// Policy is the merge policy applied by Merge. Limit caps the resulting
// selection size; zero or negative disables the cap.
type Policy struct {
	Mode  Mode
	Limit int
}

// ReplaceAll returns a replace-all policy capped at limit.
func ReplaceAll(limit int) Policy {
	return Policy{Mode: ModeReplaceAll, Limit: limit}
}

// AppendNewOnly returns an append-new-only policy capped at limit.
func AppendNewOnly(limit int) Policy {
	return Policy{Mode: ModeAppendNewOnly, Limit: limit}
}

// Limited reports whether the policy enforces a size cap.
func (p Policy) Limited() bool {
	return p.Limit > 0
}

func (p Policy) String() string {
	if !p.Limited() {
		return string(p.Mode)
	}
	return fmt.Sprintf("%s+enforce-limit(%d)", p.Mode, p.Limit)
}
