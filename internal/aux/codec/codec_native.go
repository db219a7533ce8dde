//go:build auxcodec
// +build auxcodec

// If you are AI: this file is the seam a real deployment fills in with
// native bindings to an external MPEG4/H.264 decoder and RGB scaler.
// Left as a structural placeholder: actual codec logic is out of scope.
package codec

import "errors"

// ErrCodecUnavailable is returned until a real native binding replaces
// this placeholder.
var ErrCodecUnavailable = errors.New("aux: native codec binding not implemented")

// Decoder is the native hardware decoder handle.
type Decoder struct{}

// New constructs a native Decoder.
func New() *Decoder { return &Decoder{} }

// Open initializes the native decoder for the given codec/dimensions.
func (*Decoder) Open(mpeg4 bool, width, height int) error {
	// NOTE: a real build wires cgo bindings to the native decoder here.
	return ErrCodecUnavailable
}

// Decode decodes one payload into 32-bit RGB via the native decoder and
// scaler.
func (*Decoder) Decode(payload []byte) (rgba []byte, stride int, err error) {
	return nil, 0, ErrCodecUnavailable
}

// Close releases the native decoder's resources.
func (*Decoder) Close() {}
