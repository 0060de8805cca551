package engineerr_test

import (
	"errors"
	"testing"

	"github.com/dshills/locale/pkg/engineerr"
)

func TestNew(t *testing.T) {
	err := engineerr.New(engineerr.LmTimeout, "director did not respond in time")

	if err.Kind != engineerr.LmTimeout {
		t.Errorf("Kind = %v, want %v", err.Kind, engineerr.LmTimeout)
	}
	if err.Error() != "director did not respond in time" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := engineerr.Wrap(engineerr.TransportUnavailable, "narrator slot unreachable", cause)

	if err.Unwrap() != cause {
		t.Errorf("Unwrap() = %v, want %v", err.Unwrap(), cause)
	}
	if err.Error() != "narrator slot unreachable: connection reset" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestIsMatchesByKind(t *testing.T) {
	a := engineerr.New(engineerr.LmSchemaViolation, "related_skill not in vocabulary")
	b := engineerr.New(engineerr.LmSchemaViolation, "difficulty out of range")
	c := engineerr.New(engineerr.LmTimeout, "timed out")

	if !errors.Is(a, b) {
		t.Error("expected errors with the same Kind to match via errors.Is")
	}
	if errors.Is(a, c) {
		t.Error("expected errors with different Kinds not to match")
	}
}

func TestKindOf(t *testing.T) {
	wrapped := engineerr.Wrap(engineerr.LmInvalidJSON, "malformed reply", errors.New("unexpected EOF"))

	kind, ok := engineerr.KindOf(wrapped)
	if !ok || kind != engineerr.LmInvalidJSON {
		t.Errorf("KindOf() = (%v, %v), want (%v, true)", kind, ok, engineerr.LmInvalidJSON)
	}

	_, ok = engineerr.KindOf(errors.New("plain error"))
	if ok {
		t.Error("expected KindOf to fail for a non-engine error")
	}
}
