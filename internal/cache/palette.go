// If you are AI: this file implements the palette cache.
// Palette references returned by Get are weak borrows (no refcount):
// callers must not retain them across a dispatcher yield. The
// "duplicate the supplied table" put semantics mirror the teacher's
// MediaMessage.Clone/SetPayload pattern in core/bus/message.go, which
// also copies caller-owned bytes into cache-owned storage rather than
// aliasing them.
package cache

import "sync"

// Palette is a variable-length color table.
type Palette struct {
	Unique uint64
	Ents   []uint32
}

// clone makes an independent copy of p's color table, so the cache never
// aliases caller-owned memory.
func (p Palette) clone() Palette {
	ents := make([]uint32, len(p.Ents))
	copy(ents, p.Ents)
	return Palette{Unique: p.Unique, Ents: ents}
}

// PaletteCache is a per-channel store of color tables keyed by palette id.
type PaletteCache struct {
	mu    sync.Mutex
	table map[uint64]Palette
}

// NewPaletteCache creates an empty palette cache.
func NewPaletteCache() *PaletteCache {
	return &PaletteCache{table: make(map[uint64]Palette)}
}

// Put stores a duplicate of p, keyed by p.Unique.
func (c *PaletteCache) Put(p Palette) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.table[p.Unique] = p.clone()
}

// Get returns a weak reference to the palette for id. The returned value
// is a Go slice header pointing at cache-owned memory: callers must not
// retain it past the current dispatcher handler.
func (c *PaletteCache) Get(id uint64) (Palette, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.table[id]
	return p, ok
}

// Remove deletes a single palette (inval_palette with a specific id).
func (c *PaletteCache) Remove(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.table, id)
}

// Clear deletes every palette (inval_all_palettes).
func (c *PaletteCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.table = make(map[uint64]Palette)
}

// Release is a documented no-op: palettes are not reference-counted.
func (c *PaletteCache) Release(Palette) {}
