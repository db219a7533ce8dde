// If you are AI: this file defines the Op type and its Kind enum.
// Package draw defines drawing ops as a tagged variant of op records,
// each carrying its own operands, dispatched through a single switch
// rather than per-kind virtual methods. Generalized from the teacher's
// switch-on-message-type command routing in internal/svc/rtmp/server.go.
package draw

import "displaychannel/internal/surface"

// Kind identifies which canvas method an Op dispatches to.
type Kind uint8

const (
	Fill Kind = iota
	Opaque
	Copy
	Blend
	Blackness
	Whiteness
	Invers
	Rop3
	Stroke
	Text
	Transparent
	AlphaBlend
	Composite
	CopyBits
)

// Op is one parsed drawing command: a surface id, the op's bounding
// rectangle, an optional clip, and kind-specific operands. Operands are
// left as `any` since interpreting them (ROP codes, brush patterns,
// glyph strings) is the canvas collaborator's job, not this package's.
type Op struct {
	Kind      Kind
	SurfaceID uint32
	Rect      surface.Rect
	Clip      surface.Clip
	Operand   any
	// SrcX, SrcY are used only by CopyBits.
	SrcX, SrcY int32
}
