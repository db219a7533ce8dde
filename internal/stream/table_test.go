package stream

import (
	"testing"
	"time"
)

func TestGrowSizeCeilPow2(t *testing.T) {
	cases := []struct {
		id   uint32
		want int
	}{
		{0, 1},
		{1, 2},
		{2, 4},
		{3, 4},
		{4, 8},
		{7, 8},
		{8, 16},
	}
	for _, c := range cases {
		if got := growSize(c.id); got != c.want {
			t.Errorf("growSize(%d) = %d, want %d", c.id, got, c.want)
		}
	}
}

func TestTableCreateGrowsAndRejectsDuplicate(t *testing.T) {
	tbl := NewTable()
	if _, err := tbl.Create(5, CodecMJPEG, 1, true); err != nil {
		t.Fatalf("Create(5): %v", err)
	}
	if len(tbl.slots) != 8 {
		t.Errorf("after Create(5), len(slots) = %d, want 8", len(tbl.slots))
	}
	if _, err := tbl.Create(5, CodecMJPEG, 1, true); err == nil {
		t.Error("Create(5) a second time should fail, got nil error")
	}
	if s := tbl.Get(5); s == nil || s.ID != 5 {
		t.Errorf("Get(5) = %v, want stream with ID 5", s)
	}
}

func TestTableDestroyStopsTimerAndFreesSlot(t *testing.T) {
	tbl := NewTable()
	s, _ := tbl.Create(2, CodecMJPEG, 1, true)
	s.mu.Lock()
	s.fifo = []FrameMsg{{MediaTime: 1000}}
	s.timer = time.AfterFunc(time.Hour, func() {})
	s.timerArmed = true
	s.mu.Unlock()

	if !tbl.Destroy(2) {
		t.Fatal("Destroy(2) = false, want true")
	}
	s.mu.Lock()
	armed, timer := s.timerArmed, s.timer
	s.mu.Unlock()
	if armed || timer != nil {
		t.Error("Destroy should stop and clear the stream's timer")
	}
	if tbl.Get(2) != nil {
		t.Error("Get(2) after Destroy should be nil")
	}
	if tbl.Destroy(2) {
		t.Error("Destroy(2) a second time should return false")
	}
}

func TestTableResetClearsAllSlots(t *testing.T) {
	tbl := NewTable()
	tbl.Create(0, CodecMJPEG, 1, true)
	tbl.Create(3, CodecMJPEG, 1, true)
	tbl.Reset()
	if got := tbl.All(); len(got) != 0 {
		t.Errorf("All() after Reset = %v, want empty", got)
	}
}
