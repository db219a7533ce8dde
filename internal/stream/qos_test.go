package stream

import (
	"testing"

	"displaychannel/internal/mediaclock"
)

// countingSink records every emitted stream report.
type countingSink struct {
	reports []Report
}

// StreamReport appends r to the sink's recorded reports.
func (c *countingSink) StreamReport(r Report) {
	c.reports = append(c.reports, r)
}

func TestQoSWindowEmitsAtExactFrameCount(t *testing.T) {
	clk := mediaclock.NewManual(0)
	tbl := NewTable()
	sink := &countingSink{}
	sch := NewScheduler(clk, tbl, nil, nil, nil, sink, nil)
	sch.report.nowMS = func() int64 { return 0 }

	s, _ := tbl.Create(1, CodecMJPEG, 1, true)
	s.ActivateReport(42, 30, 500)

	for i := 0; i < 29; i++ {
		clk.Set(uint32(i * 10))
		sch.HandleFrameData(1, FrameMsg{MediaTime: uint32(i*10 + 1000)})
	}
	if len(sink.reports) != 0 {
		t.Fatalf("expected no report before the 30th frame, got %d", len(sink.reports))
	}

	clk.Set(290)
	sch.HandleFrameData(1, FrameMsg{MediaTime: 1290})

	if len(sink.reports) != 1 {
		t.Fatalf("expected exactly one report at the 30th frame, got %d", len(sink.reports))
	}
	rep := sink.reports[0]
	if rep.NumFrames != 30 {
		t.Errorf("NumFrames = %d, want 30", rep.NumFrames)
	}
	if rep.UniqueID != 42 {
		t.Errorf("UniqueID = %d, want 42", rep.UniqueID)
	}

	// Window resets after emitting: one more frame should not re-emit.
	clk.Set(300)
	sch.HandleFrameData(1, FrameMsg{MediaTime: 1300})
	if len(sink.reports) != 1 {
		t.Errorf("window should reset after emitting, got %d total reports", len(sink.reports))
	}
}

func TestQoSDropStreakForcesEarlyReport(t *testing.T) {
	clk := mediaclock.NewManual(1000)
	tbl := NewTable()
	sink := &countingSink{}
	sch := NewScheduler(clk, tbl, nil, nil, nil, sink, nil)
	sch.report.nowMS = func() int64 { return 0 }

	s, _ := tbl.Create(1, CodecMJPEG, 1, true)
	s.ActivateReport(1, 30, 500)

	// Three consecutive receive-drops (media_time far behind the clock).
	for i := 0; i < reportDropSeqLimit; i++ {
		sch.HandleFrameData(1, FrameMsg{MediaTime: 1})
	}

	if len(sink.reports) != 1 {
		t.Fatalf("expected one early report after %d consecutive drops, got %d", reportDropSeqLimit, len(sink.reports))
	}
	if sink.reports[0].NumDrops != uint32(reportDropSeqLimit) {
		t.Errorf("NumDrops = %d, want %d", sink.reports[0].NumDrops, reportDropSeqLimit)
	}
}

func TestSyncPlaybackLatencyTripsAfterFiveReceiveDrops(t *testing.T) {
	clk := mediaclock.NewManual(1000)
	tbl := NewTable()

	tripped := 0
	syncSink := syncSinkFunc(func() { tripped++ })
	sch := NewScheduler(clk, tbl, nil, nil, nil, nil, syncSink)
	tbl.Create(1, CodecMJPEG, 1, true)

	for i := 0; i < syncDropSeqLimit; i++ {
		sch.HandleFrameData(1, FrameMsg{MediaTime: 1})
	}
	if tripped != 1 {
		t.Errorf("SyncPlaybackLatency called %d times, want 1", tripped)
	}
}

// syncSinkFunc adapts a func to the SyncSink interface.
type syncSinkFunc func()

// SyncPlaybackLatency invokes the wrapped func.
func (f syncSinkFunc) SyncPlaybackLatency() { f() }
