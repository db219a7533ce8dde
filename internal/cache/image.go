// If you are AI: this file implements the image cache.
// Package cache implements the image cache: a content-addressed store of
// decoded pixmaps with cooperative wait-until-present semantics. It is
// shared at session scope, so the map itself is mutex-protected; the
// cooperative wait is modelled with per-id waiter channels instead of a
// stackful coroutine yield.
package cache

import "sync"

// Pixmap is an opaque decoded image. Decoding itself is delegated to the
// out-of-scope codec collaborators; this package only stores references.
type Pixmap any

type entry struct {
	image Pixmap
	lossy bool
}

// ImageCache is a 64-bit-image-id-keyed store of decoded pixmaps, shared
// across channels at session scope.
type ImageCache struct {
	mu      sync.Mutex
	entries map[uint64]entry
	waiters map[uint64][]chan struct{}
}

// NewImageCache creates an empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		entries: make(map[uint64]entry),
		waiters: make(map[uint64][]chan struct{}),
	}
}

// wake closes and clears every waiter channel registered for id.
func (c *ImageCache) wake(id uint64) {
	for _, ch := range c.waiters[id] {
		close(ch)
	}
	delete(c.waiters, id)
}

// Put stores a lossless image, overwriting any existing (lossy or not)
// entry for id, and wakes any waiters.
func (c *ImageCache) Put(id uint64, image Pixmap) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[id] = entry{image: image, lossy: false}
	c.wake(id)
}

// PutLossy stores a lossy image for id. It is a protocol error for an
// entry to already exist at id (mirrors the original's debug assertion);
// callers should not call PutLossy for an id already present.
func (c *ImageCache) PutLossy(id uint64, image Pixmap) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[id] = entry{image: image, lossy: true}
	c.wake(id)
}

// ReplaceLossy overwrites a previously-lossy entry with a lossless image.
// Equivalent to Put; kept as a distinct name since callers treat
// replacing a lossy entry as a separate operation from a first insert.
func (c *ImageCache) ReplaceLossy(id uint64, image Pixmap) {
	c.Put(id, image)
}

// Remove deletes a single entry, e.g. from inval_list. Returns false if
// the id was unknown, so the caller can log and ignore unknown pixmap
// ids.
func (c *ImageCache) Remove(id uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[id]; !ok {
		return false
	}
	delete(c.entries, id)
	return true
}

// Clear removes every entry (inval_all_pixmaps). Safe to call repeatedly.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[uint64]entry)
}

// find returns the entry for id and whether it is present, without
// blocking.
func (c *ImageCache) find(id uint64) (entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[id]
	return e, ok
}

// registerWaiter adds a channel that closes the next time id is written,
// and returns it alongside a snapshot check performed under the same
// lock so no wake can be missed between check and register.
func (c *ImageCache) registerWaiter(id uint64) (entry, bool, chan struct{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[id]
	if ok {
		return e, true, nil
	}
	ch := make(chan struct{})
	c.waiters[id] = append(c.waiters[id], ch)
	return entry{}, false, ch
}

// Get blocks until an entry (lossy or lossless) is present for id, or
// cancel is closed. Returns nil, false on cancellation — a visible
// signal to the caller, not an error.
func (c *ImageCache) Get(id uint64, cancel <-chan struct{}) (Pixmap, bool) {
	for {
		e, ok, wait := c.registerWaiter(id)
		if ok {
			return e.image, true
		}
		select {
		case <-wait:
			// loop: re-check under lock
		case <-cancel:
			return nil, false
		}
	}
}

// registerWaiterAlways unconditionally arms a waiter channel for the next
// write to id, returning the current entry (if any) under the same lock.
func (c *ImageCache) registerWaiterAlways(id uint64) (entry, bool, chan struct{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[id]
	ch := make(chan struct{})
	c.waiters[id] = append(c.waiters[id], ch)
	return e, ok, ch
}

// GetLossless blocks until a lossless entry is present for id, or cancel
// is closed. A lossy entry arriving while waiting never satisfies the
// wait; it keeps looping until a lossless copy replaces it.
func (c *ImageCache) GetLossless(id uint64, cancel <-chan struct{}) (Pixmap, bool) {
	for {
		e, ok, wait := c.registerWaiterAlways(id)
		if ok && !e.lossy {
			return e.image, true
		}
		select {
		case <-wait:
		case <-cancel:
			return nil, false
		}
	}
}
