package transport

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dshills/locale/pkg/schema"
)

// PersonaSlotCount is the number of skill-persona slots the pool reserves
// (spec §6: "additional slots indexed 0..29").
const PersonaSlotCount = 30

// Pool manages the fixed pool of conversational slots a Transport exposes:
// one slot for the Director, one for the Narrator, and PersonaSlotCount
// persona slots. It enforces that no slot is used by two requests at once; it
// does not record which caller owns a slot, so any holder of a SlotID may
// submit to it.
type Pool struct {
	transport Transport

	mu       sync.Mutex
	director SlotID
	narrator SlotID
	personas [PersonaSlotCount]SlotID
	inFlight map[SlotID]bool
}

// NewPool wraps a Transport with slot-ownership bookkeeping.
func NewPool(t Transport) *Pool {
	return &Pool{
		transport: t,
		inFlight:  make(map[SlotID]bool),
	}
}

// OpenCoreSlots creates the Director and Narrator slots, each seeded with its
// own frozen system prompt.
func (p *Pool) OpenCoreSlots(ctx context.Context, directorPrompt, narratorPrompt string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	director, err := p.transport.CreateSlot(ctx, directorPrompt)
	if err != nil {
		return fmt.Errorf("opening director slot: %w", err)
	}
	narrator, err := p.transport.CreateSlot(ctx, narratorPrompt)
	if err != nil {
		return fmt.Errorf("opening narrator slot: %w", err)
	}
	p.director = director
	p.narrator = narrator
	return nil
}

// OpenPersona creates the slot for a single skill-persona index (0..29),
// seeded with a frozen persona prompt.
func (p *Pool) OpenPersona(ctx context.Context, index int, personaPrompt string) error {
	if index < 0 || index >= PersonaSlotCount {
		return fmt.Errorf("persona index %d out of range 0..%d", index, PersonaSlotCount-1)
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	slot, err := p.transport.CreateSlot(ctx, personaPrompt)
	if err != nil {
		return fmt.Errorf("opening persona slot %d: %w", index, err)
	}
	p.personas[index] = slot
	return nil
}

// Director returns the Director's slot handle.
func (p *Pool) Director() SlotID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.director
}

// Narrator returns the Narrator's slot handle.
func (p *Pool) Narrator() SlotID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.narrator
}

// Persona returns the slot handle for a persona index.
func (p *Pool) Persona(index int) (SlotID, error) {
	if index < 0 || index >= PersonaSlotCount {
		return "", fmt.Errorf("persona index %d out of range 0..%d", index, PersonaSlotCount-1)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.personas[index], nil
}

// Submit enforces non-overlapping use of a slot before
// delegating to the underlying Transport. It returns an error without
// calling the transport if the slot is already mid-request.
func (p *Pool) Submit(ctx context.Context, slot SlotID, userPrompt string, grammar *schema.Object, timeout time.Duration) ([]byte, error) {
	if err := p.claim(slot); err != nil {
		return nil, err
	}
	defer p.release(slot)

	return p.transport.Submit(ctx, slot, userPrompt, grammar, timeout)
}

// Cancel requests cancellation of any in-flight request on slot and releases
// it regardless of the transport's acknowledgement, per the 2x-timeout
// liveness contract in spec §4.C8: an unacknowledged cancellation eventually
// means the slot is considered lost rather than stuck forever.
func (p *Pool) Cancel(ctx context.Context, slot SlotID) error {
	err := p.transport.Cancel(ctx, slot)
	p.release(slot)
	return err
}

// Reset clears a slot's conversation memory.
func (p *Pool) Reset(ctx context.Context, slot SlotID) error {
	return p.transport.Reset(ctx, slot)
}

func (p *Pool) claim(slot SlotID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.inFlight[slot] {
		return fmt.Errorf("slot %s is already mid-request", slot)
	}
	p.inFlight[slot] = true
	return nil
}

func (p *Pool) release(slot SlotID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.inFlight, slot)
}
