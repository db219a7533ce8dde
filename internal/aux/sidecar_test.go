package aux

import (
	"bufio"
	"net"
	"strings"
	"testing"
	"time"
)

func TestSidecarAddrRealPort(t *testing.T) {
	if got := SidecarAddr("127.0.0.1", 5930, 5901); got != "127.0.0.1:5901" {
		t.Errorf("got %q, want 127.0.0.1:5901", got)
	}
}

func TestSidecarAddrOffset(t *testing.T) {
	if got := SidecarAddr("127.0.0.1", 5930, 5); got != "127.0.0.1:5935" {
		t.Errorf("got %q, want 127.0.0.1:5935 (offset from main port)", got)
	}
}

func TestDialSidecarSendsHandshake(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	received := make(chan []string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		r := bufio.NewScanner(conn)
		var lines []string
		for len(lines) < 4 && r.Scan() {
			lines = append(lines, r.Text())
		}
		received <- lines
	}()

	conn, err := DialSidecar(ln.Addr().String(), Handshake{
		ChannelID: 7, Width: 1024, Height: 768, ClientInfo: "test-client",
	})
	if err != nil {
		t.Fatalf("DialSidecar: %v", err)
	}
	defer conn.Close()

	select {
	case lines := <-received:
		joined := strings.Join(lines, "\n")
		for _, want := range []string{"channel_id=7", "width=1024", "height=768", "client_info=test-client"} {
			if !strings.Contains(joined, want) {
				t.Errorf("handshake missing %q, got: %q", want, joined)
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatal("handshake not received")
	}
}

func TestDialSidecarDialFailureWraps(t *testing.T) {
	// Nothing listens on this closed port.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	_, err = DialSidecar(addr, Handshake{})
	if err == nil {
		t.Fatal("expected dial error")
	}
}
