// If you are AI: this file defines the demo wire envelope and its
// translation into a channel.Message. The framing itself (length-prefix
// plus JSON body) is a convenience for driving the pipeline from the
// command line, not a specified contract.
package main

import (
	"fmt"

	"displaychannel/internal/aux"
	"displaychannel/internal/channel"
	"displaychannel/internal/draw"
	"displaychannel/internal/monitors"
	"displaychannel/internal/stream"
	"displaychannel/internal/surface"
)

// envelope is one inbound message as JSON: kind names which fields are
// meaningful, mirroring channel.Message's own "only the relevant fields
// are populated" contract.
type envelope struct {
	Kind string `json:"kind"`

	Width  int32 `json:"width,omitempty"`
	Height int32 `json:"height,omitempty"`
	Format uint8 `json:"format,omitempty"`

	DrawKind  uint8        `json:"draw_kind,omitempty"`
	SurfaceID uint32       `json:"surface_id,omitempty"`
	Rect      surface.Rect `json:"rect,omitempty"`
	Clip      surface.Clip `json:"clip,omitempty"`
	SrcX      int32        `json:"src_x,omitempty"`
	SrcY      int32        `json:"src_y,omitempty"`

	PixmapIDs []uint64 `json:"pixmap_ids,omitempty"`
	PaletteID uint64   `json:"palette_id,omitempty"`

	StreamID uint32 `json:"stream_id,omitempty"`
	Codec    uint8  `json:"codec,omitempty"`
	TopDown  bool   `json:"top_down,omitempty"`

	MediaTime uint32        `json:"media_time,omitempty"`
	Data      []byte        `json:"data,omitempty"`
	DestRect  *surface.Rect `json:"dest_rect,omitempty"`

	UniqueID  uint32 `json:"unique_id,omitempty"`
	MaxWindow uint32 `json:"max_window,omitempty"`
	TimeoutMS uint32 `json:"timeout_ms,omitempty"`

	Primary bool `json:"primary,omitempty"`

	MaxAllowed int              `json:"max_allowed,omitempty"`
	Count      int              `json:"count,omitempty"`
	Heads      []monitors.Head  `json:"heads,omitempty"`

	AuxConfig *auxConfigJSON `json:"aux_config,omitempty"`
	AuxMMTime uint32         `json:"aux_mm_time,omitempty"`
}

// auxConfigJSON mirrors aux.Config's fields for wire transport.
type auxConfigJSON struct {
	StreamPort             int  `json:"stream_port"`
	StreamOnMovieDetection bool `json:"stream_on_movie_detection"`
	OnVariationCapture     bool `json:"on_variation_capture"`
	MaxSamplingFPS         int  `json:"max_sampling_fps"`
	AudioSyncNot           bool `json:"audio_sync_not"`
}

// toMessage translates e into a channel.Message, returning an error for
// an unrecognized kind.
func (e envelope) toMessage() (channel.Message, error) {
	switch e.Kind {
	case "mode":
		return channel.Message{Kind: channel.KindMode, Width: e.Width, Height: e.Height, Format: surface.PixelFormat(e.Format)}, nil
	case "mark":
		return channel.Message{Kind: channel.KindMark}, nil
	case "reset":
		return channel.Message{Kind: channel.KindReset}, nil
	case "draw":
		return channel.Message{Kind: channel.KindDraw, Draw: draw.Op{
			Kind: draw.Kind(e.DrawKind), SurfaceID: e.SurfaceID, Rect: e.Rect, Clip: e.Clip, SrcX: e.SrcX, SrcY: e.SrcY,
		}}, nil
	case "inval_list":
		return channel.Message{Kind: channel.KindInvalList, PixmapIDs: e.PixmapIDs}, nil
	case "inval_all_pixmaps":
		return channel.Message{Kind: channel.KindInvalAllPixmaps}, nil
	case "inval_palette":
		return channel.Message{Kind: channel.KindInvalPalette, PaletteID: e.PaletteID}, nil
	case "inval_all_palettes":
		return channel.Message{Kind: channel.KindInvalAllPalettes}, nil
	case "stream_create":
		return channel.Message{Kind: channel.KindStreamCreate, StreamID: e.StreamID, Codec: stream.Codec(e.Codec), SurfaceID: e.SurfaceID, TopDown: e.TopDown}, nil
	case "stream_data":
		return channel.Message{Kind: channel.KindStreamData, StreamID: e.StreamID, Frame: stream.FrameMsg{MediaTime: e.MediaTime, Data: e.Data, DestRect: e.DestRect}}, nil
	case "stream_clip":
		return channel.Message{Kind: channel.KindStreamClip, StreamID: e.StreamID, Clip: e.Clip}, nil
	case "stream_destroy":
		return channel.Message{Kind: channel.KindStreamDestroy, StreamID: e.StreamID}, nil
	case "stream_destroy_all":
		return channel.Message{Kind: channel.KindStreamDestroyAll}, nil
	case "stream_activate_report":
		return channel.Message{Kind: channel.KindStreamActivateReport, StreamID: e.StreamID, UniqueID: e.UniqueID, MaxWindow: e.MaxWindow, TimeoutMS: e.TimeoutMS}, nil
	case "surface_create":
		return channel.Message{Kind: channel.KindSurfaceCreate, SurfaceID: e.SurfaceID, Format: surface.PixelFormat(e.Format), Width: e.Width, Height: e.Height, Primary: e.Primary}, nil
	case "surface_destroy":
		return channel.Message{Kind: channel.KindSurfaceDestroy, SurfaceID: e.SurfaceID}, nil
	case "monitors_config":
		return channel.Message{Kind: channel.KindMonitorsConfig, MaxAllowed: e.MaxAllowed, Count: e.Count, Heads: e.Heads}, nil
	case "aux_stream_config":
		cfg := aux.DefaultConfig()
		if e.AuxConfig != nil {
			cfg = aux.Config{
				StreamPort:             e.AuxConfig.StreamPort,
				StreamOnMovieDetection: e.AuxConfig.StreamOnMovieDetection,
				OnVariationCapture:     e.AuxConfig.OnVariationCapture,
				MaxSamplingFPS:         e.AuxConfig.MaxSamplingFPS,
				AudioSyncNot:           e.AuxConfig.AudioSyncNot,
			}
		}
		return channel.Message{Kind: channel.KindAuxStreamConfig, AuxConfig: cfg}, nil
	case "aux_stream_frame_data":
		return channel.Message{
			Kind:      channel.KindAuxStreamFrameData,
			AuxFrame:  aux.InBandFrame{MediaTime: e.MediaTime, Payload: e.Data},
			AuxMMTime: e.AuxMMTime,
		}, nil
	default:
		return channel.Message{}, fmt.Errorf("envelope: unknown kind %q", e.Kind)
	}
}
