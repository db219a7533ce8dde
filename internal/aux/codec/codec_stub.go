//go:build !auxcodec
// +build !auxcodec

// If you are AI: this file provides stub implementations when the aux
// hardware codec is not compiled in. All functions return
// ErrCodecUnavailable. The default build.
package codec

import "errors"

// ErrCodecUnavailable is returned by every Decoder method in the default
// (non-auxcodec) build.
var ErrCodecUnavailable = errors.New("aux: hardware codec not compiled in (build with -tags auxcodec)")

// Decoder is the out-of-scope MPEG4/H.264 decode-plus-scale collaborator
// the aux pipeline drives. Its real implementation (native decoder
// bindings, pixel-format scaler) is left as a structural placeholder;
// only the seam is specified here.
type Decoder struct{}

// New constructs a stub Decoder.
func New() *Decoder { return &Decoder{} }

// Open initializes the decoder for the given codec/dimensions. Stub:
// always fails.
func (*Decoder) Open(mpeg4 bool, width, height int) error {
	return ErrCodecUnavailable
}

// Decode decodes one payload into 32-bit RGB. Stub: always fails.
func (*Decoder) Decode(payload []byte) (rgba []byte, stride int, err error) {
	return nil, 0, ErrCodecUnavailable
}

// Close releases the decoder's native resources. Stub: no-op.
func (*Decoder) Close() {}
