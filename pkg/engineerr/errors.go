package engineerr

import "errors"

// Kind classifies an engine failure (spec §7).
type Kind string

const (
	// BlueprintInvariantViolation means a generator produced a blueprint that
	// fails validation. This is a generator bug; the location must be
	// aborted and the diagnostic surfaced rather than silently patched.
	BlueprintInvariantViolation Kind = "blueprint_invariant_violation"

	// ConstraintDerivationError means the constraint builder could not derive
	// a schema from an otherwise-valid blueprint. Should not occur against a
	// blueprint that already passed validation; indicates a constraint-layer
	// bug.
	ConstraintDerivationError Kind = "constraint_derivation_error"

	// LmTimeout means a transport Submit did not return within its budget.
	LmTimeout Kind = "lm_timeout"

	// LmCancelled means a transport request was cancelled before completion.
	LmCancelled Kind = "lm_cancelled"

	// LmInvalidJSON means the model's reply did not parse as JSON at all.
	LmInvalidJSON Kind = "lm_invalid_json"

	// LmSchemaViolation means the reply parsed but failed grammar/validator
	// checks, including a validated choice that turned out to reference an
	// inaccessible sublocation or state (InvalidTransition is folded into
	// this kind per spec §7).
	LmSchemaViolation Kind = "lm_schema_violation"

	// TransportUnavailable means the LM transport is not ready to accept
	// requests. The turn controller must refuse to enter LocationInteraction
	// rather than substitute mock content.
	TransportUnavailable Kind = "transport_unavailable"
)

// Error is the engine's structured error type. Every exported engine failure
// is (or wraps) one of these so callers can branch on Kind.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap exposes the wrapped cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same Kind, so callers can
// write errors.Is(err, engineerr.New(engineerr.LmTimeout, "")).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New creates an Error with no wrapped cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an Error that wraps an underlying cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// KindOf extracts the Kind from err if it (or something in its chain) is an
// *Error. The second return is false for errors outside this taxonomy.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
