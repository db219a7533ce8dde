// If you are AI: this file implements the per-stream render scheduler.
package stream

import (
	"context"
	"log"
	"time"

	"displaychannel/internal/draw"
	"displaychannel/internal/surface"
)

// Scheduler times frame presentation against a media clock: one timer
// per stream, all firings funneled through a single goroutine (Run) so
// render never happens concurrently with itself. Grounded on
// internal/svc/relay/manager.go's goroutine-per-task lifecycle, narrowed
// to one funnel channel instead of one goroutine per stream since
// render work itself is short (decode-and-blit, not a network loop).
type Scheduler struct {
	clock    Clock
	table    *Table
	registry *surface.Registry
	decoders map[Codec]Decoder
	sink     draw.InvalidateSink
	sync     SyncSink
	report   *reporter

	fire chan uint32
}

// Clock is the read-only media-clock collaborator the scheduler times
// presentation against.
type Clock interface {
	Now() (ms uint32, invalid bool)
}

// NewScheduler creates a scheduler. sink and sync may be nil. decoders
// defaults to DefaultDecoders() when nil.
func NewScheduler(clock Clock, table *Table, registry *surface.Registry, decoders map[Codec]Decoder, sink draw.InvalidateSink, qosSink QoSSink, sync SyncSink) *Scheduler {
	if decoders == nil {
		decoders = DefaultDecoders()
	}
	return &Scheduler{
		clock:    clock,
		table:    table,
		registry: registry,
		decoders: decoders,
		sink:     sink,
		sync:     sync,
		report:   newReporter(qosSink),
		fire:     make(chan uint32, 64),
	}
}

// Run drains timer firings on the calling goroutine until ctx is done,
// serializing every render call onto one goroutine.
func (sch *Scheduler) Run(ctx context.Context) {
	for {
		select {
		case id := <-sch.fire:
			sch.render(id)
		case <-ctx.Done():
			return
		}
	}
}

// fskipLevel maps a decode duration to a frame-skip level: >120ms -> 3,
// >80ms -> 2, >40ms -> 1, 40ms or under -> 0.
func fskipLevel(d time.Duration) int {
	ms := d.Milliseconds()
	switch {
	case ms > 120:
		return 3
	case ms > 80:
		return 2
	case ms > 40:
		return 1
	default:
		return 0
	}
}

// Schedule arms or re-arms streamID's render timer. Safe to call from
// any goroutine; it only ever touches the stream's own lock. Dropping
// frames whose media_time has already passed happens here, in a loop,
// until either a timer is armed or the FIFO is empty.
func (sch *Scheduler) Schedule(streamID uint32) {
	s := sch.table.Get(streamID)
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sch.scheduleLocked(s)
}

// scheduleLocked is Schedule's body. Caller must hold s.mu.
func (sch *Scheduler) scheduleLocked(s *Stream) {
	if s.timerArmed {
		return
	}
	for {
		head, ok := s.peekHeadLocked()
		if !ok {
			return
		}
		now, invalid := sch.clock.Now()
		if invalid {
			sch.armLocked(s, 0)
			return
		}
		delta := int64(head.MediaTime) - int64(now)
		if delta >= 0 {
			sch.armLocked(s, time.Duration(delta)*time.Millisecond)
			return
		}
		s.popHeadLocked()
		s.stats.DropsOnPlayback++
		if len(s.fifo) == 0 {
			return
		}
	}
}

// armLocked starts s's render timer, firing into the scheduler's funnel
// channel. Caller must hold s.mu.
func (sch *Scheduler) armLocked(s *Stream, d time.Duration) {
	s.timerArmed = true
	id := s.ID
	s.timer = time.AfterFunc(d, func() { sch.fire <- id })
}

// render pops and presents streamID's head frame, then re-arms
// scheduling for whatever remains. It is only ever called from Run's
// goroutine.
func (sch *Scheduler) render(streamID uint32) {
	s := sch.table.Get(streamID)
	if s == nil {
		return
	}

	s.mu.Lock()
	s.timerArmed = false
	msg, ok := s.popHeadLocked()
	if !ok {
		s.mu.Unlock()
		return
	}

	if s.fskipFrame > 0 {
		s.fskipFrame--
		s.mu.Unlock()
	} else {
		dest := s.destRect
		if msg.DestRect != nil {
			dest = *msg.DestRect
			s.destRect = dest
		}
		hull := s.lastDest.Union(dest)
		s.lastDest = dest
		codec, topDown, surfaceID, clip := s.Codec, s.TopDown, s.SurfaceID, s.clip
		s.mu.Unlock()

		elapsed := sch.decodeAndPresent(codec, topDown, surfaceID, dest, clip, hull, msg.Data)

		s.mu.Lock()
		s.stats.DecodedFrames++
		s.stats.DecodeMicros += uint64(elapsed.Microseconds())
		newLevel := fskipLevel(elapsed)
		if newLevel != s.fskipLevel {
			log.Printf("stream %d: frame-skip level %d -> %d", s.ID, s.fskipLevel, newLevel)
			s.fskipLevel = newLevel
			s.fskipFrame = newLevel
		}
		s.mu.Unlock()
	}

	s.mu.Lock()
	_, hasNext := s.peekHeadLocked()
	s.mu.Unlock()
	if hasNext {
		sch.Schedule(streamID)
	}
}

// decodeAndPresent decodes data with codec's decoder and blits it into
// surfaceID's canvas at dest, invalidating hull if that surface is
// primary. Decode and unknown-surface/codec failures are logged and
// otherwise ignored: a dropped frame does not stop the stream. The
// returned duration is the wall-clock time the decode step took, fed
// into the frame-skip-level recompute.
func (sch *Scheduler) decodeAndPresent(codec Codec, topDown bool, surfaceID uint32, dest surface.Rect, clip surface.Clip, hull surface.Rect, data []byte) time.Duration {
	dec, ok := sch.decoders[codec]
	if !ok {
		log.Printf("stream: no decoder registered for codec %d, dropping frame", codec)
		return 0
	}

	start := time.Now()
	rgba, w, h, stride, err := dec.Decode(data)
	elapsed := time.Since(start)
	if err != nil {
		log.Printf("stream: decode error: %v", err)
		return elapsed
	}
	if !topDown {
		stride = -stride
	}

	srf := sch.registry.Find(surfaceID)
	if srf == nil {
		log.Printf("stream: unknown surface id %d, dropping decoded frame", surfaceID)
		return elapsed
	}
	if err := srf.Canvas.PutImage(dest, rgba, int32(w), int32(h), int32(stride), clip); err != nil {
		log.Printf("stream: put_image: %v", err)
		return elapsed
	}
	if srf.Primary && sch.sink != nil {
		sch.sink.Invalidate(hull)
	}
	return elapsed
}
