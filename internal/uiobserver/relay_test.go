package uiobserver

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"displaychannel/internal/monitors"
	"displaychannel/internal/surface"
)

// fakeConn is an in-memory wsConn that records every written frame.
type fakeConn struct {
	mu      sync.Mutex
	frames  [][]byte
	closed  bool
	writeErr error
}

func (c *fakeConn) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeErr != nil {
		return c.writeErr
	}
	frame := make([]byte, len(data))
	copy(frame, data)
	c.frames = append(c.frames, frame)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) frameCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.frames)
}

func (c *fakeConn) lastEvent(t *testing.T) Event {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.frames) == 0 {
		t.Fatal("no frames written")
	}
	var ev Event
	if err := json.Unmarshal(c.frames[len(c.frames)-1], &ev); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	return ev
}

func waitForFrames(t *testing.T, conn *fakeConn, n int) {
	t.Helper()
	deadline := time.After(time.Second)
	for conn.frameCount() < n {
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for %d frames, got %d", n, conn.frameCount())
		case <-time.After(time.Millisecond):
		}
	}
}

func TestRelayBroadcastsToAttachedSubscriber(t *testing.T) {
	relay := NewRelay()
	conn := &fakeConn{}
	_, id := relay.attach(conn)
	defer relay.detach(id)

	relay.PrimaryCreate(surface.Format32xRGB, 640, 480, 2560, -1, nil)
	waitForFrames(t, conn, 1)

	ev := conn.lastEvent(t)
	if ev.Type != "primary_create" || ev.Width != 640 || ev.Height != 480 {
		t.Fatalf("event = %+v, want primary_create 640x480", ev)
	}
}

func TestRelayBroadcastsToMultipleSubscribers(t *testing.T) {
	relay := NewRelay()
	connA := &fakeConn{}
	connB := &fakeConn{}
	_, idA := relay.attach(connA)
	_, idB := relay.attach(connB)
	defer relay.detach(idA)
	defer relay.detach(idB)

	relay.Mark(true)
	waitForFrames(t, connA, 1)
	waitForFrames(t, connB, 1)
}

func TestRelayDetachStopsDelivery(t *testing.T) {
	relay := NewRelay()
	conn := &fakeConn{}
	_, id := relay.attach(conn)

	relay.detach(id)
	relay.Mark(false)

	time.Sleep(10 * time.Millisecond)
	if conn.frameCount() != 0 {
		t.Fatalf("frameCount = %d, want 0 after detach", conn.frameCount())
	}
	if !conn.closed {
		t.Fatal("connection not closed after detach")
	}
}

func TestRelayObserveMonitorsCarriesConfig(t *testing.T) {
	relay := NewRelay()
	conn := &fakeConn{}
	_, id := relay.attach(conn)
	defer relay.detach(id)

	relay.ObserveMonitors(monitors.Config{MaxAllowed: 2, Heads: []monitors.Head{{ID: 0}}})
	waitForFrames(t, conn, 1)

	ev := conn.lastEvent(t)
	if ev.Type != "monitors" || ev.Monitors == nil || ev.Monitors.MaxAllowed != 2 {
		t.Fatalf("event = %+v, want monitors with MaxAllowed=2", ev)
	}
}

func TestSubscriberDropsOldestWhenQueueFull(t *testing.T) {
	conn := &fakeConn{writeErr: errBlocked{}}
	sub := newSubscriber(conn)
	defer sub.close()

	for i := 0; i < subscriberQueueCap+10; i++ {
		sub.enqueue(Event{Type: "invalidate"})
	}

	sub.mu.Lock()
	dropped := sub.dropped
	sub.mu.Unlock()

	if dropped == 0 {
		t.Fatal("expected some drops once queue exceeded capacity")
	}
}

// errBlocked is a non-nil error used to keep the delivery goroutine from
// draining the queue, so capacity-triggered drops are observable above.
type errBlocked struct{}

func (errBlocked) Error() string { return "blocked" }
