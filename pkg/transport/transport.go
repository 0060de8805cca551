package transport

import (
	"context"
	"errors"
	"time"

	"github.com/dshills/locale/pkg/schema"
)

// ErrTimeout is returned by Submit when the LM does not respond within the
// requested timeout.
var ErrTimeout = errors.New("transport: request timed out")

// ErrCancelled is returned by Submit when the request was cancelled before a
// response arrived.
var ErrCancelled = errors.New("transport: request cancelled")

// SlotID identifies a conversational slot. Slot ids are opaque to the core;
// only the transport implementation assigns meaning to them.
type SlotID string

// Transport is the language-model collaborator (spec §6). Implementations own
// the actual conversation/session management; the core only ever calls these
// four operations.
type Transport interface {
	// CreateSlot opens a new conversation seeded with systemPrompt and returns
	// its handle.
	CreateSlot(ctx context.Context, systemPrompt string) (SlotID, error)

	// Submit sends userPrompt plus the grammar that constrains the reply, and
	// waits up to timeout for json_bytes conforming to it. Returns
	// ErrTimeout or ErrCancelled (wrapped) on those outcomes.
	Submit(ctx context.Context, slot SlotID, userPrompt string, grammar *schema.Object, timeout time.Duration) ([]byte, error)

	// Cancel requests that any in-flight Submit on slot stop and release the
	// slot. The transport must acknowledge cancellation; see spec §4.C8 on
	// the 2x-timeout liveness contract callers are expected to enforce.
	Cancel(ctx context.Context, slot SlotID) error

	// Reset clears a slot's conversation memory without destroying the slot.
	Reset(ctx context.Context, slot SlotID) error
}
