// If you are AI: this file defines the allocation result type and the
// heap fallback path for surface backing storage.
// Package shm allocates the backing bytes for a primary surface,
// preferring a POSIX shared-memory-like mapping and falling back silently
// to a heap buffer on any failure.
package shm

// Segment is a backing allocation for a surface. Shmid is non-zero only
// when the allocation is backed by a real shared mapping; Release must be
// called exactly once when the surface is destroyed.
type Segment struct {
	Bytes []byte
	Shmid int32
	close func() error
}

// Release frees the segment. Safe to call multiple times.
func (s *Segment) Release() {
	if s == nil || s.close == nil {
		return
	}
	s.close()
	s.close = nil
}

// heapSegment builds a Segment backed by a plain Go slice, with a no-op
// close.
func heapSegment(size int) *Segment {
	return &Segment{
		Bytes: make([]byte, size),
		Shmid: 0,
		close: func() error { return nil },
	}
}

// Heap allocates a plain process-heap-backed segment, bypassing the
// shared-memory path entirely. Used for non-primary surfaces, which never
// need to be backed by shared memory.
func Heap(size int) *Segment {
	return heapSegment(size)
}
