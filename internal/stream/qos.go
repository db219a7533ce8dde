// If you are AI: this file implements the QoS window reporter.
package stream

import "time"

// reportDropSeqLimit is the consecutive-receive-drop count that forces
// an early QoS report regardless of window size or elapsed time.
const reportDropSeqLimit = 3

// syncDropSeqLimit is the consecutive-receive-drop count that triggers
// an audio/video playback-latency resync, independent of QoS reporting.
const syncDropSeqLimit = 5

// Report is one emitted QoS window summary.
type Report struct {
	StreamID       uint32
	UniqueID       uint32
	StartFrameTime uint32
	EndFrameTime   uint32
	NumFrames      uint32
	NumDrops       uint32
	LastFrameDelay int32
	AudioDelay     uint32
}

// QoSSink receives emitted stream-report events.
type QoSSink interface {
	StreamReport(r Report)
}

// SyncSink receives the playback-latency resync signal, a collaborator
// owned by the out-of-scope session.
type SyncSink interface {
	SyncPlaybackLatency()
}

// reporter tracks the wall-clock source used for QoS window timeouts,
// kept overridable so tests don't depend on real elapsed time.
type reporter struct {
	nowMS func() int64
	sink  QoSSink
}

// newReporter creates a reporter using the real wall clock.
func newReporter(sink QoSSink) *reporter {
	return &reporter{nowMS: func() int64 { return time.Now().UnixMilli() }, sink: sink}
}

// updateLocked folds one frame's arrival latency into s's QoS window and
// returns a report plus true when the window closes (frame count
// reached, timeout elapsed, or a drop streak of reportDropSeqLimit). The
// caller emits the report after releasing s.mu. Caller must hold s.mu.
func (r *reporter) updateLocked(s *Stream, frameTime uint32, latency int32, invalidMMTime bool) (Report, bool) {
	if !s.qos.active {
		return Report{}, false
	}
	if s.qos.numFrames == 0 {
		s.qos.startFrameTime = frameTime
		s.qos.startWallMS = r.nowMS()
	}
	s.qos.numFrames++
	if latency < 0 && !invalidMMTime {
		s.qos.numDrops++
		s.qos.dropStreak++
	} else {
		s.qos.dropStreak = 0
	}

	elapsed := r.nowMS() - s.qos.startWallMS
	emit := s.qos.numFrames >= s.qos.maxWindow ||
		elapsed >= int64(s.qos.timeoutMS) ||
		s.qos.dropStreak >= reportDropSeqLimit
	if !emit {
		return Report{}, false
	}

	rep := Report{
		StreamID:       s.ID,
		UniqueID:       s.qos.uniqueID,
		StartFrameTime: s.qos.startFrameTime,
		EndFrameTime:   frameTime,
		NumFrames:      s.qos.numFrames,
		NumDrops:       s.qos.numDrops,
		LastFrameDelay: latency,
		AudioDelay:     s.qos.audioDelay,
	}
	s.qos.numFrames = 0
	s.qos.numDrops = 0
	s.qos.dropStreak = 0
	return rep, true
}
