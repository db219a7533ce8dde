package stream

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
	"time"

	"displaychannel/internal/mediaclock"
	"displaychannel/internal/surface"
)

// recordingInvalidate captures every Invalidate call for test assertions.
type recordingInvalidate struct {
	mu    chan struct{}
	rects []surface.Rect
}

func newRecordingInvalidate() *recordingInvalidate {
	return &recordingInvalidate{mu: make(chan struct{}, 1)}
}

// Invalidate records rect and signals the done channel.
func (r *recordingInvalidate) Invalidate(rect surface.Rect) {
	r.rects = append(r.rects, rect)
	select {
	case r.mu <- struct{}{}:
	default:
	}
}

func TestFSkipLevelBoundaries(t *testing.T) {
	cases := []struct {
		ms   int64
		want int
	}{
		{39, 0},
		{40, 0},
		{41, 1},
		{80, 1},
		{81, 2},
		{120, 2},
		{121, 3},
	}
	for _, c := range cases {
		got := fskipLevel(time.Duration(c.ms) * time.Millisecond)
		if got != c.want {
			t.Errorf("fskipLevel(%dms) = %d, want %d", c.ms, got, c.want)
		}
	}
}

func TestScheduleDropsFramesBehindClock(t *testing.T) {
	clk := mediaclock.NewManual(620)
	tbl := NewTable()
	s, _ := tbl.Create(1, CodecMJPEG, 1, true)
	s.mu.Lock()
	s.fifo = []FrameMsg{{MediaTime: 500}, {MediaTime: 540}}
	s.mu.Unlock()

	sch := NewScheduler(clk, tbl, nil, nil, nil, nil, nil)
	sch.Schedule(1)

	stats := s.Stats()
	if stats.DropsOnPlayback != 2 {
		t.Errorf("DropsOnPlayback = %d, want 2", stats.DropsOnPlayback)
	}
	if s.PendingFrames() != 0 {
		t.Errorf("PendingFrames() = %d, want 0", s.PendingFrames())
	}
	s.mu.Lock()
	armed := s.timerArmed
	s.mu.Unlock()
	if armed {
		t.Error("timer should not be armed once the FIFO drains to empty")
	}
}

func tinyJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 200, G: 10, B: 10, A: 255})
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode test jpeg: %v", err)
	}
	return buf.Bytes()
}

func TestRenderOnTimeDecodesAndInvalidates(t *testing.T) {
	reg := surface.NewRegistry(nil, nil)
	if _, err := reg.CreateSurface(1, surface.Format32xRGB, 16, 16, true); err != nil {
		t.Fatalf("CreateSurface: %v", err)
	}

	clk := mediaclock.NewManual(990)
	tbl := NewTable()
	s, _ := tbl.Create(1, CodecMJPEG, 1, true)
	s.SetDestRect(surface.Rect{X: 0, Y: 0, Width: 2, Height: 2})
	s.mu.Lock()
	s.fifo = []FrameMsg{{MediaTime: 1000, Data: tinyJPEG(t)}}
	s.mu.Unlock()

	sink := newRecordingInvalidate()
	sch := NewScheduler(clk, tbl, reg, nil, sink, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sch.Run(ctx)

	sch.Schedule(1)

	select {
	case <-sink.mu:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for invalidate after on-time render")
	}

	stats := s.Stats()
	if stats.DecodedFrames != 1 {
		t.Errorf("DecodedFrames = %d, want 1", stats.DecodedFrames)
	}
	if len(sink.rects) != 1 || sink.rects[0].Width != 2 || sink.rects[0].Height != 2 {
		t.Errorf("invalidate rects = %v, want one 2x2 rect", sink.rects)
	}
}

func TestClockRewindFlushesAndReschedules(t *testing.T) {
	clk := mediaclock.NewManual(50)
	tbl := NewTable()
	sch := NewScheduler(clk, tbl, nil, nil, nil, nil, nil)
	tbl.Create(1, CodecMJPEG, 1, true)

	sch.HandleFrameData(1, FrameMsg{MediaTime: 10000})
	s := tbl.Get(1)
	s.mu.Lock()
	tail, ok := s.peekTailLocked()
	s.mu.Unlock()
	if !ok || tail.MediaTime != 10000 {
		t.Fatalf("expected tail media_time 10000 before rewind, got %v ok=%v", tail, ok)
	}

	sch.HandleFrameData(1, FrameMsg{MediaTime: 200})

	if s.PendingFrames() != 1 {
		t.Fatalf("PendingFrames() after rewind = %d, want 1", s.PendingFrames())
	}
	s.mu.Lock()
	head, ok := s.peekHeadLocked()
	armed := s.timerArmed
	s.mu.Unlock()
	if !ok || head.MediaTime != 200 {
		t.Errorf("head after rewind = %v, want media_time 200", head)
	}
	if !armed {
		t.Error("a new timer should be armed for the post-rewind frame")
	}
}
