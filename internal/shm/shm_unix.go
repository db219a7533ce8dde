//go:build unix

// If you are AI: this file implements the unix shared-memory allocation
// path via an unlinked anonymous mmap'd temp file.
package shm

import (
	"os"
	"syscall"
)

// Alloc attempts a shared, anonymous memory-mapped allocation of size
// bytes (modelling POSIX shared memory for the primary surface), falling
// back to a heap buffer on any error. The backing file is unlinked
// immediately so the mapping's lifetime matches the Segment's.
func Alloc(size int) *Segment {
	if size <= 0 {
		return heapSegment(size)
	}

	f, err := os.CreateTemp("", "displaychannel-surface-*")
	if err != nil {
		return heapSegment(size)
	}
	name := f.Name()
	os.Remove(name) // unlink now; fd keeps the backing store alive

	if err := f.Truncate(int64(size)); err != nil {
		f.Close()
		return heapSegment(size)
	}

	data, err := syscall.Mmap(int(f.Fd()), 0, size, syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED)
	if err != nil {
		f.Close()
		return heapSegment(size)
	}

	fd := int32(f.Fd())
	return &Segment{
		Bytes: data,
		Shmid: fd,
		close: func() error {
			err := syscall.Munmap(data)
			f.Close()
			return err
		},
	}
}
