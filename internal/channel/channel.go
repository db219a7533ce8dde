// If you are AI: this file implements the channel dispatcher: a single
// goroutine draining an inbound message channel and routing each message
// to the collaborator that owns its state, generalized from the
// teacher's handleConnection read-dispatch loop
// (internal/svc/rtmp/server.go), which reads one chunk, assembles one
// message, and switches on its type on a single goroutine per connection.
package channel

import (
	"context"
	"sync"

	"displaychannel/internal/aux"
	"displaychannel/internal/cache"
	"displaychannel/internal/mark"
	"displaychannel/internal/mediaclock"
	"displaychannel/internal/monitors"
	"displaychannel/internal/stream"
	"displaychannel/internal/surface"
)

// Config configures a channel's identity and the fixed values it reports
// at connect time. These are supplied by the caller (session/server
// layer) rather than generated here, keeping construction deterministic
// and testable.
type Config struct {
	ID                   uint32
	PixmapCacheID        uint64
	GlzDictionaryID      uint64
	// CacheSizeBytes and GlzWindowSizeBytes are the pixmap cache and GLZ
	// dictionary window sizes in bytes, as configured; DisplayInit
	// reports each divided by 4 to convert to pixels, per the wire
	// contract.
	CacheSizeBytes           uint32
	GlzWindowSizeBytes       uint32
	AdaptiveStreamingEnabled bool
	PreferredCompression     string
	// MonitorsMax additionally caps the max_allowed a monitors-config
	// message can request, on top of monitors.HardMax; 0 means no
	// additional cap is applied.
	MonitorsMax int
}

// bytesToPixels converts a byte size to pixels assuming 4 bytes per
// pixel (32-bit RGB), the wire contract's cache/window sizing unit.
func bytesToPixels(n uint32) uint32 {
	return n / 4
}

// Channel owns one display channel's full state: surfaces, caches,
// streams, the mark machine, the monitor layout, and (optionally) the
// aux video pipeline. Every field it owns is touched only from the
// single dispatch goroutine, except the stream scheduler (its own
// goroutine, synchronized internally) and the aux pipeline (its own
// decode-thread goroutine, synchronized via its state machine).
type Channel struct {
	cfg      Config
	observer Observer

	surfaces *surface.Registry
	images   *cache.ImageCache
	palettes *cache.PaletteCache
	streams  *stream.Table
	sched    *stream.Scheduler
	mark     *mark.Machine

	monitorsCfg     monitors.Config
	monitorsCapable bool

	aux       *aux.Pipeline
	auxConfig aux.Config

	nextSurfaceID uint32

	inbox  chan Message
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a channel wired against clock for stream scheduling and
// observer for every emitted signal/observable. The channel is inert
// until Start is called.
func New(cfg Config, clock mediaclock.Clock, observer Observer) *Channel {
	ch := &Channel{
		cfg:             cfg,
		observer:        observer,
		images:          cache.NewImageCache(),
		palettes:        cache.NewPaletteCache(),
		streams:         stream.NewTable(),
		nextSurfaceID:   1,
		inbox:           make(chan Message, 64),
		auxConfig:       aux.DefaultConfig(),
		monitorsCapable: true,
	}
	ch.mark = mark.New(cfg.ID, observer)
	ch.surfaces = surface.NewRegistry(nil, surfaceEvents{observer: observer, mark: ch.mark})
	ch.sched = stream.NewScheduler(schedulerClock{clock}, ch.streams, ch.surfaces, nil, observer, observer, observer)
	return ch
}

// DisplayInit returns the fixed connect-time payload this channel
// reports: cache identity and sizing, expressed in pixels (bytes / 4)
// per the wire contract.
func (ch *Channel) DisplayInit() DisplayInit {
	return DisplayInit{
		PixmapCacheID:       ch.cfg.PixmapCacheID,
		GlzDictionaryID:     ch.cfg.GlzDictionaryID,
		CacheSizePixels:     bytesToPixels(ch.cfg.CacheSizeBytes),
		GlzWindowSizePixels: bytesToPixels(ch.cfg.GlzWindowSizeBytes),
	}
}

// Capabilities returns the capability set this channel advertises.
func (ch *Channel) Capabilities() Capabilities {
	return AdvertisedCapabilities(ch.cfg.AdaptiveStreamingEnabled)
}

// PreferredCompression returns the compression scheme negotiated for
// this channel, or "" if none was. Negotiation itself happens in the
// out-of-scope transport layer; this is a pass-through of its result.
func (ch *Channel) PreferredCompression() string {
	return ch.cfg.PreferredCompression
}

// Start launches the dispatch loop and the stream scheduler's render
// loop, each on its own goroutine, until ctx is done.
func (ch *Channel) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	ch.cancel = cancel
	ch.wg.Add(2)
	go func() {
		defer ch.wg.Done()
		ch.dispatchLoop(ctx)
	}()
	go func() {
		defer ch.wg.Done()
		ch.sched.Run(ctx)
	}()
}

// Dispatch enqueues msg for processing on the dispatch goroutine. It may
// block briefly if the inbox is full; the dispatcher is expected to
// drain faster than messages arrive in normal operation.
func (ch *Channel) Dispatch(msg Message) {
	ch.inbox <- msg
}

// dispatchLoop is the single goroutine that owns every piece of channel
// state not already internally synchronized.
func (ch *Channel) dispatchLoop(ctx context.Context) {
	for {
		select {
		case msg := <-ch.inbox:
			ch.handle(msg)
		case <-ctx.Done():
			return
		}
	}
}

// SetMonitorsCapable records whether the client has granted the
// monitors-config capability, controlling whether handleMonitorsConfig
// applies the client's request or synthesizes a single-monitor fallback.
func (ch *Channel) SetMonitorsCapable(capable bool) {
	ch.monitorsCapable = capable
}

// MonitorsConfig returns the channel's current monitor layout.
func (ch *Channel) MonitorsConfig() monitors.Config {
	return ch.monitorsCfg
}

// SetAuxConfig replaces the aux pipeline's tuning knobs, normally read
// from the aux sidecar's own on-disk config file at startup, before any
// aux-stream-config message has arrived to override it.
func (ch *Channel) SetAuxConfig(cfg aux.Config) {
	ch.auxConfig = cfg
}

// AttachAuxPipeline installs the aux video pipeline once its transport
// and codec are ready. A nil pipeline (the default) means aux
// stream-frame-data messages are silently dropped, matching "the channel
// continues without the aux path" for any aux start-up failure.
func (ch *Channel) AttachAuxPipeline(p *aux.Pipeline) {
	ch.aux = p
}

// Reset returns the channel to its post-construction state: every
// stream's timer is cancelled, every surface is destroyed, both caches
// are cleared, mark is forced false, and the aux decode thread (if any)
// is joined and detached. The channel remains usable afterward; it is
// not torn down.
func (ch *Channel) Reset() {
	ch.streams.Reset()
	ch.surfaces.Clear(false)
	ch.images.Clear()
	ch.palettes.Clear()
	ch.mark.HandleReset()
	if ch.aux != nil {
		ch.aux.Close()
		ch.aux = nil
	}
}

// Dispose stops the dispatch loop and scheduler goroutines and performs
// a final Reset. Safe to call once; Start must not be called again
// afterward.
func (ch *Channel) Dispose() {
	if ch.cancel != nil {
		ch.cancel()
	}
	ch.wg.Wait()
	ch.Reset()
	ch.mark.Stop()
}
