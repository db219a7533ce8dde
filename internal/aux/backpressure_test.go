package aux

import (
	"testing"
	"time"
)

type recordingStatSink struct {
	reports []int
}

func (s *recordingStatSink) StreamStatData(queueLen int) {
	s.reports = append(s.reports, queueLen)
}

func TestBackpressureReporterEmitsAboveThreshold(t *testing.T) {
	sink := &recordingStatSink{}
	r := NewBackpressureReporter(func() int { return 7 }, 2, sink)
	r.Check()

	if len(sink.reports) != 1 || sink.reports[0] != 7 {
		t.Fatalf("got %v, want one report of 7", sink.reports)
	}
}

func TestBackpressureReporterSilentBelowThreshold(t *testing.T) {
	sink := &recordingStatSink{}
	r := NewBackpressureReporter(func() int { return 6 }, 2, sink)
	r.Check()

	if len(sink.reports) != 0 {
		t.Fatalf("got %v, want no reports below threshold", sink.reports)
	}
}

func TestBackpressureReporterSilentBelowProtocolLevel(t *testing.T) {
	sink := &recordingStatSink{}
	r := NewBackpressureReporter(func() int { return 50 }, 1, sink)
	r.Check()

	if len(sink.reports) != 0 {
		t.Fatalf("got %v, want no reports below protocol level 2", sink.reports)
	}
}

func TestBackpressureReporterThrottlesToOncePerSecond(t *testing.T) {
	sink := &recordingStatSink{}
	now := time.Unix(0, 0)
	r := NewBackpressureReporter(func() int { return 10 }, 2, sink)
	r.nowFn = func() time.Time { return now }

	r.Check()
	now = now.Add(500 * time.Millisecond)
	r.Check()
	if len(sink.reports) != 1 {
		t.Fatalf("got %d reports within the same second, want 1", len(sink.reports))
	}

	now = now.Add(600 * time.Millisecond)
	r.Check()
	if len(sink.reports) != 2 {
		t.Fatalf("got %d reports after window elapsed, want 2", len(sink.reports))
	}
}
