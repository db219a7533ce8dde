// If you are AI: this file implements the Decoder interface and the
// built-in MJPEG decoder.
package stream

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
)

// ErrCodecNotRegistered is returned by a decoder slot that has no actual
// codec wired in (MPEG4/H.264/zlib/GLZ: implementing those codecs is out
// of scope, but the slot itself is real so a stream using one fails
// loudly rather than silently).
var ErrCodecNotRegistered = errors.New("stream: codec not registered")

// noAudioPlayback is the QoS report's audio_delay sentinel for "no audio
// stream is currently playing".
const noAudioPlayback = ^uint32(0)

// Decoder turns one compressed frame payload into a tightly packed
// top-down RGBA buffer plus its dimensions and row stride in bytes.
type Decoder interface {
	Decode(frame []byte) (rgba []byte, width, height, stride int, err error)
}

// unregisteredDecoder backs every codec slot this module does not
// implement.
type unregisteredDecoder struct{}

// Decode always fails with ErrCodecNotRegistered.
func (unregisteredDecoder) Decode([]byte) ([]byte, int, int, int, error) {
	return nil, 0, 0, 0, ErrCodecNotRegistered
}

// MJPEGDecoder decodes a single baseline JPEG frame into top-down RGBA.
type MJPEGDecoder struct{}

// Decode parses frame as a JPEG image and expands it into RGBA.
func (MJPEGDecoder) Decode(frame []byte) ([]byte, int, int, int, error) {
	img, err := jpeg.Decode(bytes.NewReader(frame))
	if err != nil {
		return nil, 0, 0, 0, fmt.Errorf("stream: mjpeg decode: %w", err)
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	stride := w * 4
	out := make([]byte, stride*h)
	drawRGBA(out, stride, img, b)
	return out, w, h, stride, nil
}

// drawRGBA copies every pixel of img within b into out, 4 bytes per
// pixel, top-down.
func drawRGBA(out []byte, stride int, img image.Image, b image.Rectangle) {
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			r, g, bl, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			off := y*stride + x*4
			out[off] = byte(r >> 8)
			out[off+1] = byte(g >> 8)
			out[off+2] = byte(bl >> 8)
			out[off+3] = byte(a >> 8)
		}
	}
}

// DefaultDecoders returns the codec table used by the demo binary: a
// real MJPEG decoder plus unregistered slots for every codec this module
// does not implement.
func DefaultDecoders() map[Codec]Decoder {
	return map[Codec]Decoder{
		CodecMJPEG: MJPEGDecoder{},
		CodecMPEG4: unregisteredDecoder{},
		CodecH264:  unregisteredDecoder{},
		CodecZlib:  unregisteredDecoder{},
		CodecGLZ:   unregisteredDecoder{},
	}
}
