// If you are AI: this file defines the dispatcher's inbound message
// type: a single tagged struct carrying every message kind's payload,
// generalized from the teacher's switch-on-message-type command routing
// (internal/svc/rtmp/server.go's handleConnection loop) the same way
// internal/draw/ops.go already generalizes individual drawing ops.
package channel

import (
	"displaychannel/internal/aux"
	"displaychannel/internal/draw"
	"displaychannel/internal/monitors"
	"displaychannel/internal/stream"
	"displaychannel/internal/surface"
)

// Kind identifies which handler a Message dispatches to.
type Kind uint8

const (
	KindMode Kind = iota
	KindMark
	KindReset
	KindDraw
	KindInvalList
	KindInvalAllPixmaps
	KindInvalPalette
	KindInvalAllPalettes
	KindStreamCreate
	KindStreamData
	KindStreamClip
	KindStreamDestroy
	KindStreamDestroyAll
	KindStreamActivateReport
	KindSurfaceCreate
	KindSurfaceDestroy
	KindMonitorsConfig
	KindAuxStreamConfig
	KindAuxStreamFrameData
)

// Message is one parsed inbound command. Only the fields relevant to
// Kind are meaningful; the rest are zero. Messages are assumed pre-parsed
// by the transport layer, which is out of scope for this package.
type Message struct {
	Kind Kind

	// mode: sets the primary surface's format and dimensions.
	Width, Height int32
	Format        surface.PixelFormat

	// draw-* and copy-bits share the drawing facade's own Op type.
	Draw draw.Op

	// inval-list
	PixmapIDs []uint64

	// inval-palette
	PaletteID uint64

	// stream-create
	StreamID  uint32
	Codec     stream.Codec
	SurfaceID uint32
	TopDown   bool

	// stream-data, stream-data-sized (DestRect set only for the sized
	// variant; nil otherwise, matching stream.FrameMsg's own contract)
	Frame stream.FrameMsg

	// stream-clip
	Clip surface.Clip

	// stream-activate-report
	UniqueID, MaxWindow, TimeoutMS uint32

	// surface-create / surface-destroy
	Primary bool

	// monitors-config
	MaxAllowed, Count int
	Heads             []monitors.Head

	// aux stream-config / stream-frame-data
	AuxConfig aux.Config
	AuxFrame  aux.InBandFrame
	AuxMMTime uint32
}
