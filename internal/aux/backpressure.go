// If you are AI: this file implements the aux pipeline's back-pressure
// reporting: a throttled signal that the decode side is falling behind.
package aux

import (
	"sync"
	"time"
)

// backpressureQueueThreshold is the queue length, as returned by the
// reporter's queueLen source, at or above which the pipeline is
// considered backed up. Pipeline supplies only the in-band
// decoder-visible queue's length: frames still held by LatencyQueue
// timers are not counted, and in sidecar mode the source always returns 0.
const backpressureQueueThreshold = 7

// backpressureProtocolMin is the minimum negotiated protocol level the
// client must advertise before back-pressure reports are sent at all.
const backpressureProtocolMin = 2

// backpressureMinInterval bounds report frequency to at most one per
// second.
const backpressureMinInterval = time.Second

// StatSink receives a back-pressure report naming the combined queue
// length observed at emission time.
type StatSink interface {
	StreamStatData(queueLen int)
}

// BackpressureReporter watches a queue-length source and emits at most
// one StatSink report per second while the combined queue stays at or
// above backpressureQueueThreshold and the negotiated protocol level
// supports it.
type BackpressureReporter struct {
	queueLen      func() int
	protocolLevel int
	sink          StatSink
	nowFn         func() time.Time

	mu       sync.Mutex
	lastEmit time.Time
}

// NewBackpressureReporter creates a reporter. queueLen is called on each
// Check to read the current combined queue length.
func NewBackpressureReporter(queueLen func() int, protocolLevel int, sink StatSink) *BackpressureReporter {
	return &BackpressureReporter{
		queueLen:      queueLen,
		protocolLevel: protocolLevel,
		sink:          sink,
		nowFn:         time.Now,
	}
}

// Check reads the current queue length and emits a report if the
// back-pressure condition holds and the throttle window has elapsed.
func (b *BackpressureReporter) Check() {
	if b.protocolLevel < backpressureProtocolMin {
		return
	}
	queueLen := b.queueLen()
	if queueLen < backpressureQueueThreshold {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.nowFn()
	if !b.lastEmit.IsZero() && now.Sub(b.lastEmit) < backpressureMinInterval {
		return
	}
	b.lastEmit = now
	if b.sink != nil {
		b.sink.StreamStatData(queueLen)
	}
}
