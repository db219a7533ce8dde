// If you are AI: this file implements the per-message-kind handlers the
// dispatch loop routes to, plus the two small adaptors (surfaceEvents,
// schedulerClock) that connect the channel's collaborators to each
// other's event interfaces.
package channel

import (
	"log"

	"displaychannel/internal/draw"
	"displaychannel/internal/mark"
	"displaychannel/internal/mediaclock"
	"displaychannel/internal/monitors"
	"displaychannel/internal/surface"
)

// surfaceEvents adapts surface.Registry's primary-create/destroy events
// to both the mark machine and the external observer, since a primary
// transition affects both.
type surfaceEvents struct {
	observer Observer
	mark     *mark.Machine
}

// PrimaryCreate notifies the mark machine and emits the primary-create
// signal with the width/height observable update.
func (e surfaceEvents) PrimaryCreate(s *surface.Surface) {
	e.mark.PrimaryCreated()
	e.observer.PrimaryCreate(s.Format, s.Width, s.Height, s.Stride, s.Shmid(), s.Data())
	e.observer.ObserveWidthHeight(s.Width, s.Height)
}

// PrimaryDestroy arms the mark machine's deferred mark(false) and emits
// the primary-destroy signal.
func (e surfaceEvents) PrimaryDestroy() {
	e.mark.PrimaryDestroyed()
	e.observer.PrimaryDestroy()
}

// schedulerClock adapts mediaclock.Clock to stream.Clock; the two
// interfaces are structurally identical, but a named adaptor keeps the
// dependency direction explicit (stream does not import mediaclock).
type schedulerClock struct{ mediaclock.Clock }

// handle routes one message to its owning collaborator. Malformed or
// out-of-range identifiers are logged and ignored rather than treated as
// fatal, matching the channel's best-effort display contract.
func (ch *Channel) handle(msg Message) {
	switch msg.Kind {
	case KindMode:
		ch.handleMode(msg)
	case KindMark:
		ch.mark.HandleMark(ch.surfaces.Primary() != nil)
	case KindReset:
		ch.Reset()
	case KindDraw:
		if err := draw.Apply(ch.surfaces, ch.observer, msg.Draw); err != nil {
			log.Printf("channel: draw op %d failed: %v", msg.Draw.Kind, err)
		}
	case KindInvalList:
		draw.InvalList(ch.images, msg.PixmapIDs)
	case KindInvalAllPixmaps:
		draw.InvalAllPixmaps(ch.images, nil)
	case KindInvalPalette:
		ch.palettes.Remove(msg.PaletteID)
	case KindInvalAllPalettes:
		ch.palettes.Clear()
	case KindStreamCreate:
		if _, err := ch.streams.Create(msg.StreamID, msg.Codec, msg.SurfaceID, msg.TopDown); err != nil {
			log.Printf("channel: stream_create: %v", err)
		}
	case KindStreamData:
		ch.sched.HandleFrameData(msg.StreamID, msg.Frame)
	case KindStreamClip:
		ch.handleStreamClip(msg)
	case KindStreamDestroy:
		ch.streams.Destroy(msg.StreamID)
	case KindStreamDestroyAll:
		ch.streams.Reset()
	case KindStreamActivateReport:
		ch.handleActivateReport(msg)
	case KindSurfaceCreate:
		if _, err := ch.surfaces.CreateSurface(msg.SurfaceID, msg.Format, msg.Width, msg.Height, msg.Primary); err != nil {
			log.Printf("channel: surface_create: %v", err)
		}
	case KindSurfaceDestroy:
		ch.surfaces.DestroySurface(msg.SurfaceID)
	case KindMonitorsConfig:
		ch.handleMonitorsConfig(msg)
	case KindAuxStreamConfig:
		ch.auxConfig = msg.AuxConfig
	case KindAuxStreamFrameData:
		if ch.aux != nil {
			ch.aux.Enqueue(msg.AuxFrame, msg.AuxMMTime)
		}
	default:
		log.Printf("channel: unknown message kind %d, ignoring", msg.Kind)
	}
}

// handleMode installs a new primary surface at a freshly allocated id.
// Registry.CreateSurface silently reuses the existing primary (no events)
// when the requested dimensions are unchanged.
func (ch *Channel) handleMode(msg Message) {
	id := ch.nextSurfaceID
	ch.nextSurfaceID++
	if _, err := ch.surfaces.CreateSurface(id, msg.Format, msg.Width, msg.Height, true); err != nil {
		log.Printf("channel: mode: %v", err)
	}
}

// handleStreamClip looks up streamID and sets its destination clip.
// Unknown stream ids are logged and ignored.
func (ch *Channel) handleStreamClip(msg Message) {
	s := ch.streams.Get(msg.StreamID)
	if s == nil {
		log.Printf("channel: stream_clip: unknown stream id %d, ignoring", msg.StreamID)
		return
	}
	s.SetClip(msg.Clip)
}

// handleActivateReport arms QoS reporting on streamID. Unknown stream
// ids are logged and ignored.
func (ch *Channel) handleActivateReport(msg Message) {
	s := ch.streams.Get(msg.StreamID)
	if s == nil {
		log.Printf("channel: activate_report: unknown stream id %d, ignoring", msg.StreamID)
		return
	}
	s.ActivateReport(msg.UniqueID, msg.MaxWindow, msg.TimeoutMS)
}

// handleMonitorsConfig clamps and applies a new monitor layout, or
// synthesizes a single-monitor fallback if the channel has not been
// granted the monitors-config capability.
func (ch *Channel) handleMonitorsConfig(msg Message) {
	if !ch.monitorsCapable {
		primary := ch.surfaces.Primary()
		if primary == nil {
			return
		}
		ch.monitorsCfg = monitors.SynthesizeSingle(primary.ID, primary.Width, primary.Height)
	} else {
		maxAllowed := msg.MaxAllowed
		if ch.cfg.MonitorsMax > 0 && maxAllowed > ch.cfg.MonitorsMax {
			maxAllowed = ch.cfg.MonitorsMax
		}
		ch.monitorsCfg = monitors.Apply(maxAllowed, msg.Count, msg.Heads)
	}
	ch.observer.ObserveMonitors(ch.monitorsCfg)
}
