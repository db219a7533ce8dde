package channel

import (
	"sync"
	"testing"

	"displaychannel/internal/mediaclock"
	"displaychannel/internal/monitors"
	"displaychannel/internal/stream"
	"displaychannel/internal/surface"
)

// recordingObserver implements Observer, recording every call for
// assertions. Safe for concurrent use since the scheduler and aux
// pipeline each run on their own goroutine.
type recordingObserver struct {
	mu sync.Mutex

	primaryCreates  int
	primaryDestroys int
	invalidates     []surface.Rect
	marks           []bool
	widthHeight     []struct{ w, h int32 }
	monitorsCfgs    []monitors.Config
	reports         []stream.Report
	syncCalls       int
	vaSessions      [][]string
}

func (o *recordingObserver) PrimaryCreate(format surface.PixelFormat, width, height, stride int32, shmid int32, data []byte) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.primaryCreates++
}

func (o *recordingObserver) PrimaryDestroy() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.primaryDestroys++
}

func (o *recordingObserver) Invalidate(rect surface.Rect) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.invalidates = append(o.invalidates, rect)
}

func (o *recordingObserver) Mark(value bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.marks = append(o.marks, value)
}

func (o *recordingObserver) ObserveWidthHeight(width, height int32) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.widthHeight = append(o.widthHeight, struct{ w, h int32 }{width, height})
}

func (o *recordingObserver) ObserveMonitors(cfg monitors.Config) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.monitorsCfgs = append(o.monitorsCfgs, cfg)
}

func (o *recordingObserver) StreamReport(r stream.Report) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.reports = append(o.reports, r)
}

func (o *recordingObserver) SyncPlaybackLatency() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.syncCalls++
}

func (o *recordingObserver) ObserveVASessions(sessions []string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.vaSessions = append(o.vaSessions, sessions)
}

func (o *recordingObserver) primaryCreateCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.primaryCreates
}

func (o *recordingObserver) primaryDestroyCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.primaryDestroys
}

func newTestChannel() (*Channel, *recordingObserver) {
	obs := &recordingObserver{}
	ch := New(Config{ID: 1}, mediaclock.NewManual(0), obs)
	return ch, obs
}

func TestModeCreatesPrimaryOnFirstMessage(t *testing.T) {
	ch, obs := newTestChannel()
	ch.handle(Message{Kind: KindMode, Width: 640, Height: 480, Format: surface.Format32xRGB})

	if obs.primaryCreateCount() != 1 {
		t.Fatalf("primaryCreateCount = %d, want 1", obs.primaryCreateCount())
	}
	if ch.surfaces.Primary() == nil {
		t.Fatal("no primary surface after mode")
	}
}

func TestModeSameDimensionsIsNoOp(t *testing.T) {
	ch, obs := newTestChannel()
	ch.handle(Message{Kind: KindMode, Width: 640, Height: 480, Format: surface.Format32xRGB})
	ch.handle(Message{Kind: KindMode, Width: 640, Height: 480, Format: surface.Format32xRGB})

	if obs.primaryCreateCount() != 1 {
		t.Fatalf("primaryCreateCount = %d, want 1 (second mode should reuse)", obs.primaryCreateCount())
	}
	if obs.primaryDestroyCount() != 0 {
		t.Fatalf("primaryDestroyCount = %d, want 0", obs.primaryDestroyCount())
	}
}

func TestModeDifferentDimensionsReplacesPrimary(t *testing.T) {
	ch, obs := newTestChannel()
	ch.handle(Message{Kind: KindMode, Width: 640, Height: 480, Format: surface.Format32xRGB})
	ch.handle(Message{Kind: KindMode, Width: 800, Height: 600, Format: surface.Format32xRGB})

	if obs.primaryCreateCount() != 2 {
		t.Fatalf("primaryCreateCount = %d, want 2", obs.primaryCreateCount())
	}
	if obs.primaryDestroyCount() != 1 {
		t.Fatalf("primaryDestroyCount = %d, want 1", obs.primaryDestroyCount())
	}
}

func TestHandleMarkWithPrimaryForwardsTrueToMarkMachine(t *testing.T) {
	ch, obs := newTestChannel()
	ch.handle(Message{Kind: KindMode, Width: 640, Height: 480, Format: surface.Format32xRGB})
	ch.handle(Message{Kind: KindMark})

	if len(obs.marks) != 1 || obs.marks[0] != true {
		t.Fatalf("marks = %v, want [true]", obs.marks)
	}
}

func TestHandleMarkWithNoPrimaryEmitsNothing(t *testing.T) {
	ch, obs := newTestChannel()
	ch.handle(Message{Kind: KindMark})

	if len(obs.marks) != 0 {
		t.Fatalf("marks = %v, want none (no primary surface exists)", obs.marks)
	}
}

func TestHandleStreamClipUnknownIDIsIgnored(t *testing.T) {
	ch, _ := newTestChannel()
	ch.handle(Message{Kind: KindStreamClip, StreamID: 99, Clip: surface.Clip{}})
}

func TestHandleActivateReportUnknownIDIsIgnored(t *testing.T) {
	ch, _ := newTestChannel()
	ch.handle(Message{Kind: KindStreamActivateReport, StreamID: 99, UniqueID: 1, MaxWindow: 10, TimeoutMS: 1000})
}

func TestUnknownKindIsIgnored(t *testing.T) {
	ch, _ := newTestChannel()
	ch.handle(Message{Kind: Kind(255)})
}
