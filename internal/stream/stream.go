// If you are AI: this file defines the Stream type, its FIFO, and its
// presentation stats.
package stream

import (
	"sync"
	"time"

	"displaychannel/internal/surface"
)

// Codec identifies the compression format carried by a stream's frame
// messages.
type Codec uint8

const (
	// CodecMJPEG frames are independently decodable baseline JPEGs.
	CodecMJPEG Codec = iota
	// CodecMPEG4 frames require an MPEG-4 decoder (not built in).
	CodecMPEG4
	// CodecH264 frames require an H.264 decoder (not built in).
	CodecH264
	// CodecZlib frames are zlib-compressed raw pixels (not built in).
	CodecZlib
	// CodecGLZ frames use the lossless dictionary codec (not built in).
	CodecGLZ
)

// FrameMsg is one pending frame in a stream's presentation FIFO.
type FrameMsg struct {
	// MediaTime is the media-clock timestamp the frame should be
	// presented at.
	MediaTime uint32
	// Data is the still-compressed frame payload.
	Data []byte
	// DestRect overrides the stream's destination rectangle for this
	// frame only; nil for the non-sized message variant.
	DestRect *surface.Rect
}

// Stats accumulates the presentation-side counters a QoS report and test
// assertions read back.
type Stats struct {
	DropsOnReceive  uint64
	DropsOnPlayback uint64
	ArriveLateTime  uint64
	DecodedFrames   uint64
	DecodeMicros    uint64
}

// qosState is the reporter's window-accounting state for one stream.
// Zero value is "reporting not active".
type qosState struct {
	active         bool
	uniqueID       uint32
	maxWindow      uint32
	timeoutMS      uint32
	startWallMS    int64
	startFrameTime uint32
	numFrames      uint32
	numDrops       uint32
	dropStreak     uint32
	audioDelay     uint32
}

// Stream is one active video stream: a destination on a surface, a FIFO
// of pending compressed frames, frame-skip state, and presentation
// stats. All mutable fields are guarded by mu; ID/Codec/SurfaceID/TopDown
// are fixed for the stream's lifetime and read without locking.
type Stream struct {
	ID        uint32
	Codec     Codec
	SurfaceID uint32
	TopDown   bool

	mu          sync.Mutex
	clip        surface.Clip
	destRect    surface.Rect
	lastDest    surface.Rect
	fifo        []FrameMsg
	timer       *time.Timer
	timerArmed  bool
	fskipLevel  int
	fskipFrame  int
	syncStreak  uint32
	stats       Stats
	qos         qosState
}

// newStream constructs a Stream with empty FIFO and zeroed stats.
func newStream(id uint32, codec Codec, surfaceID uint32, topDown bool) *Stream {
	return &Stream{ID: id, Codec: codec, SurfaceID: surfaceID, TopDown: topDown}
}

// SetClip replaces the stream's current clip region.
func (s *Stream) SetClip(c surface.Clip) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clip = c
}

// SetDestRect replaces the stream's current destination rectangle.
func (s *Stream) SetDestRect(r surface.Rect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.destRect = r
}

// ActivateReport arms QoS reporting for this stream with the window
// parameters the server advertised.
func (s *Stream) ActivateReport(uniqueID, maxWindow, timeoutMS uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.qos = qosState{
		active:     true,
		uniqueID:   uniqueID,
		maxWindow:  maxWindow,
		timeoutMS:  timeoutMS,
		audioDelay: noAudioPlayback,
	}
}

// SetAudioDelay records the current audio-playback delay for the next
// QoS report; pass noAudioPlayback when no audio stream is playing.
func (s *Stream) SetAudioDelay(delay uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.qos.audioDelay = delay
}

// Stats returns a snapshot of the stream's presentation counters.
func (s *Stream) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// FSkipLevel returns the stream's current frame-skip level (0-3).
func (s *Stream) FSkipLevel() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fskipLevel
}

// PendingFrames returns the number of frames currently queued.
func (s *Stream) PendingFrames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.fifo)
}

// peekHeadLocked returns the FIFO head without removing it. Caller must
// hold s.mu.
func (s *Stream) peekHeadLocked() (FrameMsg, bool) {
	if len(s.fifo) == 0 {
		return FrameMsg{}, false
	}
	return s.fifo[0], true
}

// peekTailLocked returns the FIFO tail without removing it. Caller must
// hold s.mu.
func (s *Stream) peekTailLocked() (FrameMsg, bool) {
	if len(s.fifo) == 0 {
		return FrameMsg{}, false
	}
	return s.fifo[len(s.fifo)-1], true
}

// popHeadLocked removes and returns the FIFO head. Caller must hold
// s.mu.
func (s *Stream) popHeadLocked() (FrameMsg, bool) {
	if len(s.fifo) == 0 {
		return FrameMsg{}, false
	}
	m := s.fifo[0]
	s.fifo = s.fifo[1:]
	return m, true
}

// flushLocked discards every queued frame and cancels the active timer,
// e.g. on a media-clock rewind. Caller must hold s.mu.
func (s *Stream) flushLocked() {
	s.fifo = nil
	s.stopTimerLocked()
}

// stopTimerLocked cancels the stream's render timer, if armed. Caller
// must hold s.mu.
func (s *Stream) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.timerArmed = false
}

// stopTimer cancels the stream's render timer, if armed.
func (s *Stream) stopTimer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimerLocked()
}
