package driver

import "github.com/pkg/errors"

// ErrKind classifies a driver-level failure for callers that want to
// react differently to configuration errors versus per-target chemistry
// failures (spec.md §4.10, §7).
type ErrKind int

const (
	// InputInvalid marks a construction-time configuration error: bad
	// Config, unreadable rules/building-block files.
	InputInvalid ErrKind = iota
	// RuleApplicationFailed marks a ChemKernel.Apply failure absorbed
	// during search (the offending rule is skipped, not fatal).
	RuleApplicationFailed
	// ValueEstimationFailed marks a ValueEstimator failure (sentinel low
	// value already substituted; recorded for diagnostics).
	ValueEstimationFailed
	// PolicyEvaluationFailed marks an ExpansionPolicy failure.
	PolicyEvaluationFailed
)

// Error wraps an underlying cause with its ErrKind, preserving a stack
// trace via pkg/errors the way agogo.go's Load/SaveAZ wrap os/json errors.
type Error struct {
	Kind  ErrKind
	cause error
}

func (e *Error) Error() string { return e.cause.Error() }
func (e *Error) Unwrap() error { return e.cause }

// wrap attaches kind to err and stamps a stack trace, or returns nil if
// err is nil.
func wrap(kind ErrKind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, cause: errors.WithStack(err)}
}
