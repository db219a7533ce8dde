// If you are AI: this file defines the Observer collaborator: every
// signal and observable-property change a channel emits, and the
// capability/display-init payloads advertised at connect time.
package channel

import (
	"displaychannel/internal/monitors"
	"displaychannel/internal/stream"
	"displaychannel/internal/surface"
)

// Observer receives every signal and observable-property change a
// channel emits. A single collaborator implements all of it (rather than
// one interface per concern) since every concrete consumer in this
// system — the UI signal relay — forwards all of them to the same
// websocket fan-out; splitting it would only add wiring, not clarity.
type Observer interface {
	// PrimaryCreate signals a new primary surface, carrying the fields a
	// host UI needs to map the surface into its own address space.
	PrimaryCreate(format surface.PixelFormat, width, height, stride int32, shmid int32, data []byte)
	// PrimaryDestroy signals the primary surface going away.
	PrimaryDestroy()
	// Invalidate signals that rect of the primary surface changed.
	Invalidate(rect surface.Rect)
	// Mark signals the client-visibility state.
	Mark(value bool)

	// ObserveWidthHeight reports the primary surface's current dimensions.
	ObserveWidthHeight(width, height int32)
	// ObserveMonitors reports the current monitor layout.
	ObserveMonitors(cfg monitors.Config)
	// StreamReport delivers one QoS window summary.
	StreamReport(r stream.Report)
	// SyncPlaybackLatency signals that playback has fallen far enough
	// behind the media clock to warrant an out-of-band resync.
	SyncPlaybackLatency()
	// ObserveVASessions reports the current set of active hardware-accel
	// decode sessions by name.
	ObserveVASessions(sessions []string)
}

// DisplayInit is the first outbound message a channel sends: the cache
// identity and sizing the client needs before any pixmap traffic.
type DisplayInit struct {
	PixmapCacheID       uint64
	GlzDictionaryID     uint64
	CacheSizePixels     uint32
	GlzWindowSizePixels uint32
}

// Capabilities is the set of optional features this channel advertises
// at connect time.
type Capabilities struct {
	SizedStream    bool
	MonitorsConfig bool
	Composite      bool
	A8Surface      bool
	LZ4            bool
	StreamReport   bool
}

// lz4Compiled records whether an LZ4 encoder is linked into this build.
// No such dependency is wired anywhere in this system (none of the
// reference repos this one is built from import one), so this is always
// false; a real deployment would flip it behind its own build tag the
// same way internal/aux/codec gates its native decoder.
const lz4Compiled = false

// AdvertisedCapabilities builds the capability set for a channel.
// adaptiveStreamingEnabled gates stream-report: it is withheld entirely
// when the environment disables adaptive streaming.
func AdvertisedCapabilities(adaptiveStreamingEnabled bool) Capabilities {
	return Capabilities{
		SizedStream:    true,
		MonitorsConfig: true,
		Composite:      true,
		A8Surface:      true,
		LZ4:            lz4Compiled,
		StreamReport:   adaptiveStreamingEnabled,
	}
}
