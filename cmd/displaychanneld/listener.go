// If you are AI: this file implements the channel connection handler:
// a length-prefixed JSON envelope reader, grounded on the teacher's
// per-connection ReadChunk-then-dispatch loop
// (internal/svc/rtmp/server.go's handleConnection).
package main

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net"

	"displaychannel/internal/channel"
)

// maxEnvelopeSize bounds a single envelope's JSON body, guarding against
// a corrupt or hostile length prefix causing an unbounded allocation.
const maxEnvelopeSize = 16 << 20

// handleChannelConn reads one length-prefixed JSON envelope at a time
// from conn and dispatches each onto ch until the connection closes, an
// error occurs, or ctx is done.
func handleChannelConn(ctx context.Context, conn net.Conn, ch *channel.Channel) {
	defer conn.Close()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		body, err := readEnvelopeFrame(conn)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Printf("displaychanneld: read envelope: %v", err)
			}
			return
		}

		var env envelope
		if err := json.Unmarshal(body, &env); err != nil {
			log.Printf("displaychanneld: decode envelope: %v, ignoring", err)
			continue
		}

		msg, err := env.toMessage()
		if err != nil {
			log.Printf("displaychanneld: %v, ignoring", err)
			continue
		}

		ch.Dispatch(msg)
	}
}

// readEnvelopeFrame reads one 4-byte big-endian length prefix followed
// by that many bytes of JSON body.
func readEnvelopeFrame(conn net.Conn) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(conn, lenBuf[:]); err != nil {
		return nil, err
	}
	size := binary.BigEndian.Uint32(lenBuf[:])
	if size > maxEnvelopeSize {
		return nil, errors.New("envelope exceeds maximum frame size")
	}

	body := make([]byte, size)
	if _, err := io.ReadFull(conn, body); err != nil {
		return nil, err
	}
	return body, nil
}
