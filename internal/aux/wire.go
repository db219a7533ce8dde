// If you are AI: this file implements the aux frame wire format.
package aux

import (
	"encoding/binary"
	"fmt"
	"io"
)

// fixedHeaderSize is the byte length of the eight little-endian uint32
// fields common to every frame header, before any codec-specific
// private header.
const fixedHeaderSize = 32

// codecMPEG4 is the wire value of the codec field meaning MPEG4; any
// other value means H.264.
const codecMPEG4 = 60000

// privateHeaderAlign is the byte alignment the combined header (fixed
// plus private) must satisfy.
const privateHeaderAlign = 32

// FrameHeader is one parsed aux frame header.
type FrameHeader struct {
	TotalSize         uint32
	HeaderSize        uint32
	DataSize          uint32
	Width             uint32
	Height            uint32
	Sequence          uint32
	Codec             uint32
	PrivateHeaderSize uint32
	PrivateHeader     []byte
}

// IsMPEG4 reports whether the header's codec field names MPEG4.
func (h FrameHeader) IsMPEG4() bool { return h.Codec == codecMPEG4 }

// HeaderMismatchError reports a frame header that fails the wire
// format's size invariants.
type HeaderMismatchError struct {
	Reason string
}

// Error describes the invariant that failed.
func (e *HeaderMismatchError) Error() string {
	return fmt.Sprintf("aux: frame header invariant violated: %s", e.Reason)
}

// ReadFrameHeader parses one frame header from r: the eight fixed
// fields, then PrivateHeaderSize bytes of codec-specific private
// header. It validates header_size == fixed_header + private_header_size
// and total_size == header_size + data_size before returning.
func ReadFrameHeader(r io.Reader) (FrameHeader, error) {
	var raw [8]uint32
	if err := binary.Read(r, binary.LittleEndian, &raw); err != nil {
		return FrameHeader{}, fmt.Errorf("aux: read frame header: %w", err)
	}
	h := FrameHeader{
		TotalSize:         raw[0],
		HeaderSize:        raw[1],
		DataSize:          raw[2],
		Width:             raw[3],
		Height:            raw[4],
		Sequence:          raw[5],
		Codec:             raw[6],
		PrivateHeaderSize: raw[7],
	}

	if h.HeaderSize != fixedHeaderSize+h.PrivateHeaderSize {
		return FrameHeader{}, &HeaderMismatchError{Reason: fmt.Sprintf(
			"header_size %d != fixed_header %d + private_header_size %d",
			h.HeaderSize, fixedHeaderSize, h.PrivateHeaderSize)}
	}
	if h.TotalSize != h.HeaderSize+h.DataSize {
		return FrameHeader{}, &HeaderMismatchError{Reason: fmt.Sprintf(
			"total_size %d != header_size %d + data_size %d",
			h.TotalSize, h.HeaderSize, h.DataSize)}
	}

	if h.PrivateHeaderSize > 0 {
		h.PrivateHeader = make([]byte, h.PrivateHeaderSize)
		if _, err := io.ReadFull(r, h.PrivateHeader); err != nil {
			return FrameHeader{}, fmt.Errorf("aux: read private header: %w", err)
		}
	}
	return h, nil
}

// MP4ESPrivateHeader builds the MP4-ES descriptor private header for an
// MPEG4 frame: a descriptor length and sync flag, padded so the combined
// header (fixed + private) is 32-byte aligned.
func MP4ESPrivateHeader(descriptorLen uint32, sync bool) []byte {
	const bodyLen = 5 // 4-byte length + 1-byte sync flag
	total := fixedHeaderSize + bodyLen
	padded := total
	if rem := padded % privateHeaderAlign; rem != 0 {
		padded += privateHeaderAlign - rem
	}
	buf := make([]byte, padded-fixedHeaderSize)
	binary.LittleEndian.PutUint32(buf[0:4], descriptorLen)
	if sync {
		buf[4] = 1
	}
	return buf
}

// ReadFrame reads one complete frame (header plus data_size bytes of
// payload) from r.
func ReadFrame(r io.Reader) (FrameHeader, []byte, error) {
	h, err := ReadFrameHeader(r)
	if err != nil {
		return FrameHeader{}, nil, err
	}
	data := make([]byte, h.DataSize)
	if _, err := io.ReadFull(r, data); err != nil {
		return FrameHeader{}, nil, fmt.Errorf("aux: read frame payload: %w", err)
	}
	return h, data, nil
}
