// If you are AI: this file implements the mark state machine.
// Package mark tracks whether the client surface is currently visible to
// the user (the "mark" signal), deferring the transition back to
// invisible by one second after a primary surface is destroyed so a
// quick destroy-then-recreate doesn't flicker the signal. Grounded on the
// teacher's timer-based delayed-action pattern (the reconnect backoff in
// internal/svc/relay/pull.go and push.go, which also arms a cancellable
// delayed action keyed off connection lifecycle events).
package mark

import (
	"sync"
	"time"
)

// Sink receives the mark(bool) signal.
type Sink interface {
	Mark(value bool)
}

// deferDelay is the fixed deferral before a primary-destroy turns into a
// mark(false) emission. Overridable in tests.
var deferDelay = time.Second

// Machine tracks the mark ∈ {false, true} state and the pending deferred
// event armed by a primary destroy. The deferral only arms when
// channelID != 0; it is an explicit constructor parameter rather than a
// hard-coded assumption, so callers can see and control the policy.
type Machine struct {
	channelID uint32
	sink      Sink

	mu      sync.Mutex
	value   bool
	pending *time.Timer
}

// New creates a mark state machine for the given channel id. A nil sink
// discards mark events.
func New(channelID uint32, sink Sink) *Machine {
	if sink == nil {
		sink = nopSink{}
	}
	return &Machine{channelID: channelID, sink: sink}
}

type nopSink struct{}

// Mark discards the event.
func (nopSink) Mark(bool) {}

// cancelPendingLocked stops any armed deferred-false timer. Caller must
// hold m.mu.
func (m *Machine) cancelPendingLocked() {
	if m.pending != nil {
		m.pending.Stop()
		m.pending = nil
	}
}

// HandleMark processes an incoming mark message: true while a primary
// exists.
func (m *Machine) HandleMark(hasPrimary bool) {
	if !hasPrimary {
		return
	}
	m.mu.Lock()
	m.cancelPendingLocked()
	m.value = true
	m.mu.Unlock()
	m.sink.Mark(true)
}

// HandleReset processes an incoming reset message: sets mark to false
// immediately.
func (m *Machine) HandleReset() {
	m.mu.Lock()
	m.cancelPendingLocked()
	m.value = false
	m.mu.Unlock()
	m.sink.Mark(false)
}

// PrimaryDestroyed arms a deferred mark(false) one second out, but only
// when channelID != 0. Any already-pending deferred event is replaced.
func (m *Machine) PrimaryDestroyed() {
	if m.channelID == 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelPendingLocked()
	m.pending = time.AfterFunc(deferDelay, func() {
		m.mu.Lock()
		m.value = false
		m.pending = nil
		m.mu.Unlock()
		m.sink.Mark(false)
	})
}

// PrimaryCreated cancels any pending deferred mark(false) event: a new
// primary surface means the client is visible again.
func (m *Machine) PrimaryCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelPendingLocked()
}

// Value returns the current mark state.
func (m *Machine) Value() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value
}

// Stop cancels any pending deferred event, e.g. on channel reset/dispose.
func (m *Machine) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelPendingLocked()
}
