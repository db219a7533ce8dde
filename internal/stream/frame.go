// If you are AI: this file implements the frame-arrival handler and the
// media-clock discontinuity reset.
package stream

// HandleFrameData processes one incoming frame message for streamID:
// a media_time of exactly 0 is patched to now+100ms (a known-bad-driver
// workaround preserved verbatim); a frame that has already missed its
// presentation time is dropped here, before ever reaching the FIFO, and
// counted as a receive drop rather than a playback drop. A frame that
// survives is checked against the FIFO tail for a clock rewind (which
// flushes the FIFO first), enqueued, and scheduling is re-armed.
//
// Returns the QoS report and whether the QoS window closed on this
// frame (the report is meaningful only then, and has already been
// delivered to the QoS sink).
func (sch *Scheduler) HandleFrameData(streamID uint32, msg FrameMsg) (Report, bool) {
	s := sch.table.Get(streamID)
	if s == nil {
		return Report{}, false
	}

	now, invalid := sch.clock.Now()
	if msg.MediaTime == 0 {
		msg.MediaTime = now + 100
	}
	latency := int64(msg.MediaTime) - int64(now)

	s.mu.Lock()
	syncTrip := false
	droppedOnReceive := !invalid && latency < 0
	if droppedOnReceive {
		s.stats.ArriveLateTime += uint64(int64(now) - int64(msg.MediaTime))
		s.stats.DropsOnReceive++
		s.syncStreak++
		if s.syncStreak >= syncDropSeqLimit {
			syncTrip = true
			s.syncStreak = 0
		}
	} else {
		if tail, ok := s.peekTailLocked(); ok && msg.MediaTime < tail.MediaTime {
			s.flushLocked()
		}
		s.fifo = append(s.fifo, msg)
		s.syncStreak = 0
	}
	rep, emit := sch.report.updateLocked(s, msg.MediaTime, int32(latency), invalid)
	s.mu.Unlock()

	if !droppedOnReceive {
		sch.Schedule(streamID)
	}
	if syncTrip && sch.sync != nil {
		sch.sync.SyncPlaybackLatency()
	}
	if emit && sch.report.sink != nil {
		sch.report.sink.StreamReport(rep)
	}
	return rep, emit
}

// ResetClock flushes every live stream's FIFO and cancels its timer,
// leaving nothing armed until the next frame arrives: the media
// clock has reset (e.g. a new playback-time base), so every stream's
// scheduling decisions made against the old clock are stale.
func (sch *Scheduler) ResetClock() {
	for _, s := range sch.table.All() {
		s.mu.Lock()
		s.flushLocked()
		s.mu.Unlock()
	}
}
