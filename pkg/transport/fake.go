package transport

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/locale/pkg/schema"
)

// FakeTransport is an in-memory Transport for tests and the CLI demo. Each
// slot has a queue of canned responses; Submit pops the next one (or returns
// ErrTimeout/ErrCancelled if so configured). It never talks to an actual
// language model — the concrete transport is out of scope (spec §1).
type FakeTransport struct {
	mu      sync.Mutex
	prompts map[SlotID]string
	queues  map[SlotID][]Response
	counter int64
}

// Response is one canned reply a FakeTransport slot will give out, in order.
type Response struct {
	JSON      []byte
	Err       error // if set, Submit returns this error instead of JSON
	Latency   time.Duration
}

// NewFakeTransport creates an empty fake transport.
func NewFakeTransport() *FakeTransport {
	return &FakeTransport{
		prompts: make(map[SlotID]string),
		queues:  make(map[SlotID][]Response),
	}
}

// CreateSlot implements Transport.
func (f *FakeTransport) CreateSlot(_ context.Context, systemPrompt string) (SlotID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := SlotID(fmt.Sprintf("slot-%d", atomic.AddInt64(&f.counter, 1)))
	f.prompts[id] = systemPrompt
	return id, nil
}

// Enqueue appends a canned response to a slot's reply queue. Test-only helper.
func (f *FakeTransport) Enqueue(slot SlotID, resp Response) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queues[slot] = append(f.queues[slot], resp)
}

// Submit implements Transport: pops the next queued response for slot.
func (f *FakeTransport) Submit(ctx context.Context, slot SlotID, _ string, _ *schema.Object, timeout time.Duration) ([]byte, error) {
	f.mu.Lock()
	if _, ok := f.prompts[slot]; !ok {
		f.mu.Unlock()
		return nil, fmt.Errorf("fake transport: unknown slot %s", slot)
	}
	queue := f.queues[slot]
	if len(queue) == 0 {
		f.mu.Unlock()
		return nil, fmt.Errorf("fake transport: slot %s has no queued response", slot)
	}
	resp := queue[0]
	f.queues[slot] = queue[1:]
	f.mu.Unlock()

	if resp.Latency > timeout {
		return nil, ErrTimeout
	}

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrCancelled, ctx.Err())
	default:
	}
	if resp.Latency > 0 {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", ErrCancelled, ctx.Err())
		case <-time.After(resp.Latency):
		}
	}

	if resp.Err != nil {
		return nil, resp.Err
	}
	return resp.JSON, nil
}

// Cancel implements Transport: discards whatever response was queued for the
// in-flight request, simulating an aborted generation.
func (f *FakeTransport) Cancel(_ context.Context, slot SlotID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queues[slot]) > 0 {
		f.queues[slot] = f.queues[slot][1:]
	}
	return nil
}

// Reset implements Transport: clears queued responses.
func (f *FakeTransport) Reset(_ context.Context, slot SlotID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queues[slot] = nil
	return nil
}
