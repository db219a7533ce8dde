// If you are AI: this file implements the stream table.
// Package stream implements the video-stream pipeline: a sparse table of
// active streams, a scheduler that times frame presentation against the
// media clock, and a QoS reporter. The FIFO-plus-bounded-delivery shape
// is generalized from a ring-buffer-backed pub/sub stream (map + mutex,
// bounded delivery), and the scheduler's per-stream timer lifecycle
// follows a goroutine-plus-cancel pattern used elsewhere for
// connection-lifecycle background work.
package stream

import "fmt"

// Table is a sparse, growable array of stream slots indexed by stream
// id. It grows by doubling from 1 until the requested id fits; existing
// slots are never shrunk or relocated silently (Create returns an error
// rather than overwrite a live slot).
type Table struct {
	slots []*Stream
}

// NewTable creates an empty stream table.
func NewTable() *Table {
	return &Table{slots: make([]*Stream, 1)}
}

// growSize returns the smallest power of two greater than id, starting
// the doubling search from 1.
func growSize(id uint32) int {
	size := 1
	for uint32(size) <= id {
		size *= 2
	}
	return size
}

// growTo ensures t.slots has at least enough room to index id.
func (t *Table) growTo(id uint32) {
	need := growSize(id)
	if need <= len(t.slots) {
		return
	}
	grown := make([]*Stream, need)
	copy(grown, t.slots)
	t.slots = grown
}

// Create installs a new stream at id. It fails if id already holds a
// live stream; the table grows as needed to fit id first.
func (t *Table) Create(id uint32, codec Codec, surfaceID uint32, topDown bool) (*Stream, error) {
	t.growTo(id)
	if t.slots[id] != nil {
		return nil, fmt.Errorf("stream: id %d already exists", id)
	}
	s := newStream(id, codec, surfaceID, topDown)
	t.slots[id] = s
	return s, nil
}

// Get returns the stream at id, or nil if the id is out of range or the
// slot is empty.
func (t *Table) Get(id uint32) *Stream {
	if int(id) >= len(t.slots) {
		return nil
	}
	return t.slots[id]
}

// Destroy stops and removes the stream at id. Returns false if the id
// was already empty.
func (t *Table) Destroy(id uint32) bool {
	if int(id) >= len(t.slots) || t.slots[id] == nil {
		return false
	}
	t.slots[id].stopTimer()
	t.slots[id] = nil
	return true
}

// All returns every live stream, in ascending id order.
func (t *Table) All() []*Stream {
	out := make([]*Stream, 0, len(t.slots))
	for _, s := range t.slots {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

// Reset destroys every stream, stopping their timers first.
func (t *Table) Reset() {
	for i, s := range t.slots {
		if s != nil {
			s.stopTimer()
			t.slots[i] = nil
		}
	}
}
