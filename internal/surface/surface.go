// If you are AI: this file defines the Surface type and its registry.
// This file defines the Surface type and its registry, generalizing the
// teacher's bus.Registry (map + sync.RWMutex, GetOrCreate-shaped API)
// from stream-keyed pub/sub to surface-id-keyed canvases with a
// dedicated primary fast path.
package surface

import (
	"fmt"
	"sync"

	"displaychannel/internal/shm"
)

// PixelFormat identifies a surface's pixel layout.
type PixelFormat uint8

const (
	// Format32xRGB is 32 bits per pixel, padded RGB.
	Format32xRGB PixelFormat = iota
	// Format16x555 is 16 bits per pixel, 5-5-5 RGB.
	Format16x555
)

// BytesPerPixel returns the storage width of the format.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case Format16x555:
		return 2
	default:
		return 4
	}
}

// Decoders bundles the three per-surface decoder handles (lossless
// dictionary, deflate, JPEG). They are opaque to this package: decoding
// is an out-of-scope codec concern.
type Decoders struct {
	Lossless any
	Deflate  any
	JPEG     any
}

// Surface is a pixel canvas owned by the display channel.
type Surface struct {
	ID       uint32
	Format   PixelFormat
	Width    int32
	Height   int32
	Stride   int32
	Primary  bool
	Canvas   Canvas
	Decoders Decoders

	seg *shm.Segment
}

// Data returns the surface's backing pixel bytes.
func (s *Surface) Data() []byte {
	if s.seg != nil {
		return s.seg.Bytes
	}
	return nil
}

// Shmid returns the OS shared-memory id backing the surface, or 0 if the
// surface is heap-backed.
func (s *Surface) Shmid() int32 {
	if s.seg == nil {
		return 0
	}
	return s.seg.Shmid
}

// CanvasFactory constructs the canvas collaborator for a new surface.
// Callers supply their own implementation, or fall back to MemCanvas.
type CanvasFactory func(format PixelFormat, width, height, stride int32, data []byte) (Canvas, error)

// EventSink receives the primary-create/primary-destroy signals a
// Registry emits.
type EventSink interface {
	PrimaryCreate(s *Surface)
	PrimaryDestroy()
}

type nopSink struct{}

// PrimaryCreate discards the event.
func (nopSink) PrimaryCreate(*Surface) {}

// PrimaryDestroy discards the event.
func (nopSink) PrimaryDestroy() {}

// Registry owns surfaces keyed by id and tracks the at-most-one primary.
// Lock expectations: mutex-protected for concurrent access, though in
// practice only the single dispatcher goroutine mutates it.
type Registry struct {
	mu      sync.RWMutex
	surface map[uint32]*Surface
	primary *Surface
	factory CanvasFactory
	sink    EventSink
}

// NewRegistry creates an empty surface registry. A nil sink discards
// events; a nil factory defaults to MemCanvas.
func NewRegistry(factory CanvasFactory, sink EventSink) *Registry {
	if sink == nil {
		sink = nopSink{}
	}
	if factory == nil {
		factory = func(format PixelFormat, width, height, stride int32, data []byte) (Canvas, error) {
			return NewMemCanvas(width, height, stride), nil
		}
	}
	return &Registry{
		surface: make(map[uint32]*Surface),
		factory: factory,
		sink:    sink,
	}
}

// reuse reports whether an existing primary can be reused for a new
// primary create at the same size ("create_surface for an existing
// primary with identical dimensions is a no-op").
func (r *Registry) reuse(width, height int32) bool {
	return r.primary != nil && r.primary.Width == width && r.primary.Height == height
}

// CreateSurface installs a new surface. If primary is true and an
// existing primary has identical dimensions, the existing primary is
// reused silently (no events). Otherwise, if replacing a primary, a
// primary-destroy event is emitted before the old one is evicted, then a
// primary-create event follows the new install. Shared memory is
// preferred for the primary's backing bytes; any allocation failure
// falls back to heap (handled transparently by shm.Alloc).
func (r *Registry) CreateSurface(id uint32, format PixelFormat, width, height int32, primary bool) (*Surface, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.surface[id]; exists {
		return nil, fmt.Errorf("surface: id %d already exists", id)
	}

	if primary && r.reuse(width, height) {
		return r.primary, nil
	}

	if primary && r.primary != nil {
		old := r.primary
		r.sink.PrimaryDestroy()
		delete(r.surface, old.ID)
		old.seg.Release()
		r.primary = nil
	}

	stride := width * int32(format.BytesPerPixel())
	var seg *shm.Segment
	if primary {
		seg = shmAlloc(int(stride) * int(height))
	} else {
		seg = shmHeap(int(stride) * int(height))
	}

	canvas, err := r.factory(format, width, height, stride, seg.Bytes)
	if err != nil {
		seg.Release()
		return nil, fmt.Errorf("surface: construct canvas: %w", err)
	}

	s := &Surface{
		ID:      id,
		Format:  format,
		Width:   width,
		Height:  height,
		Stride:  stride,
		Primary: primary,
		Canvas:  canvas,
		seg:     seg,
	}
	r.surface[id] = s
	if primary {
		r.primary = s
		r.sink.PrimaryCreate(s)
	}
	return s, nil
}

// DestroySurface removes a surface. If it was primary, a primary-destroy
// event is emitted (mark-state deferral is the caller's responsibility,
// see internal/mark).
func (r *Registry) DestroySurface(id uint32) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, exists := r.surface[id]
	if !exists {
		return false
	}
	delete(r.surface, id)
	if s.Primary {
		r.primary = nil
		s.seg.Release()
		r.sink.PrimaryDestroy()
		return true
	}
	s.seg.Release()
	return true
}

// Find looks up a surface by id, checking the primary fast path first.
func (r *Registry) Find(id uint32) *Surface {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.primary != nil && r.primary.ID == id {
		return r.primary
	}
	return r.surface[id]
}

// Primary returns the current primary surface, or nil.
func (r *Registry) Primary() *Surface {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.primary
}

// Clear destroys all surfaces; if keepPrimary is true the primary survives.
func (r *Registry) Clear(keepPrimary bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, s := range r.surface {
		if keepPrimary && s.Primary {
			continue
		}
		delete(r.surface, id)
		s.seg.Release()
		if s.Primary {
			r.primary = nil
			r.sink.PrimaryDestroy()
		}
	}
}

// Count returns the number of registered surfaces.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.surface)
}

// shmAlloc allocates primary-surface backing storage, preferring shared
// memory.
func shmAlloc(size int) *shm.Segment { return shm.Alloc(size) }

// shmHeap allocates non-primary surface backing storage on the heap.
func shmHeap(size int) *shm.Segment { return shm.Heap(size) }
