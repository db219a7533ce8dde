// If you are AI: this file implements the sidecar transport: dialing
// the hardware-accelerated stream process and exchanging the text
// handshake before switching to the binary frame wire format.
package aux

import (
	"bufio"
	"fmt"
	"net"
	"time"
)

// SidecarAddr computes the sidecar's listening address from the
// channel's main port and the configured stream_port: stream_port
// itself when it names a real port (>1000), otherwise mainPort +
// stream_port as an offset.
func SidecarAddr(host string, mainPort, streamPort int) string {
	port := streamPort
	if streamPort <= 1000 {
		port = mainPort + streamPort
	}
	return fmt.Sprintf("%s:%d", host, port)
}

// Handshake is the four key=value lines sent to the sidecar immediately
// after connecting, before any binary frame data.
type Handshake struct {
	ChannelID  uint32
	Width      uint32
	Height     uint32
	ClientInfo string
}

// writeTo sends h as four newline-terminated key=value lines.
func (h Handshake) writeTo(w *bufio.Writer) error {
	lines := []string{
		fmt.Sprintf("channel_id=%d\n", h.ChannelID),
		fmt.Sprintf("width=%d\n", h.Width),
		fmt.Sprintf("height=%d\n", h.Height),
		fmt.Sprintf("client_info=%s\n", h.ClientInfo),
	}
	for _, line := range lines {
		if _, err := w.WriteString(line); err != nil {
			return err
		}
	}
	return w.Flush()
}

// dialTimeout is the connect deadline for a sidecar dial attempt.
const dialTimeout = 5 * time.Second

// SidecarConn is an established, handshaken sidecar connection ready for
// ReadFrame calls.
type SidecarConn struct {
	conn net.Conn
	r    *bufio.Reader
}

// DialSidecar connects to addr, performs the handshake, and returns a
// connection ready to read frames from.
func DialSidecar(addr string, hs Handshake) (*SidecarConn, error) {
	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("aux: dial sidecar: %w", err)
	}
	w := bufio.NewWriter(conn)
	if err := hs.writeTo(w); err != nil {
		conn.Close()
		return nil, fmt.Errorf("aux: sidecar handshake: %w", err)
	}
	return &SidecarConn{conn: conn, r: bufio.NewReader(conn)}, nil
}

// ReadFrame reads the next length-prefixed frame from the sidecar.
func (c *SidecarConn) ReadFrame() (FrameHeader, []byte, error) {
	return ReadFrame(c.r)
}

// Close closes the underlying connection.
func (c *SidecarConn) Close() error {
	return c.conn.Close()
}
