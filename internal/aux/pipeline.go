// If you are AI: this file ties the wire format, state machine, codec
// seam, and transport (sidecar or in-band) into the running decode
// thread.
package aux

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"displaychannel/internal/aux/codec"
)

// FrameSink receives one decoded frame ready for presentation.
type FrameSink interface {
	AuxFrameDecoded(rgba []byte, width, height, stride int, sequence uint32)
}

// Pipeline owns one aux decode thread for the lifetime of a channel
// connection. It is created once the aux config and handshake
// parameters are known and torn down via Close, which is idempotent.
type Pipeline struct {
	cfg     Config
	dec     *codec.Decoder
	sm      *stateMachine
	sink    FrameSink
	backp   *BackpressureReporter
	queue   *InBandQueue
	latency *LatencyQueue
	sidecar *SidecarConn

	cancel    chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewPipeline opens a decode thread. When cfg.StreamPort is positive,
// frames arrive over a sidecar connection to the address SidecarAddr
// derives from it (a real port above 1000, else an offset from mainPort);
// otherwise frames are expected to be pushed in-band via Enqueue, and
// the returned pipeline schedules them through its LatencyQueue unless
// cfg.AudioSyncNot disables that.
func NewPipeline(cfg Config, host string, mainPort int, hs Handshake, protocolLevel int, statSink StatSink, sink FrameSink) (*Pipeline, error) {
	p := &Pipeline{
		cfg:    cfg,
		dec:    codec.New(),
		sm:     newStateMachine(),
		sink:   sink,
		cancel: make(chan struct{}),
	}

	if cfg.StreamPort > 0 {
		addr := SidecarAddr(host, mainPort, cfg.StreamPort)
		conn, err := DialSidecar(addr, hs)
		if err != nil {
			return nil, fmt.Errorf("aux: start pipeline: %w", err)
		}
		p.sidecar = conn
		p.backp = NewBackpressureReporter(func() int { return 0 }, protocolLevel, statSink)
	} else {
		p.queue = NewInBandQueue(inBandQueueCap)
		p.latency = NewLatencyQueue(p.queue, cfg.AudioSyncNot)
		p.backp = NewBackpressureReporter(p.queue.Len, protocolLevel, statSink)
	}

	p.sm.set(StateRun)
	p.wg.Add(1)
	go p.decodeLoop()
	return p, nil
}

// Enqueue hands an in-band frame to the latency queue. It is a no-op in
// sidecar mode, where frames arrive over the sidecar connection instead.
func (p *Pipeline) Enqueue(frame InBandFrame, mmTime uint32) {
	if p.latency == nil {
		return
	}
	p.latency.Enqueue(frame, mmTime)
	p.backp.Check()
}

// SetAudioDelay forwards the current audio-playback delay to the
// latency queue, or nil when no audio stream is playing.
func (p *Pipeline) SetAudioDelay(delay *uint32) {
	if p.latency != nil {
		p.latency.SetAudioDelay(delay)
	}
}

// decodeLoop is the decode thread: pull a frame from whichever transport
// is active, open or reopen the codec on size change, format change,
// sequence restart, or a present private header, decode, and hand the
// result to the sink. A header invariant violation ends the thread; the
// channel keeps running.
func (p *Pipeline) decodeLoop() {
	defer p.wg.Done()
	defer p.dec.Close()

	opened := false
	var openWidth, openHeight uint32
	var openMPEG4 bool

	for {
		var header FrameHeader
		var payload []byte
		var ok bool

		if p.sidecar != nil {
			h, data, err := p.sidecar.ReadFrame()
			if err != nil {
				var mismatch *HeaderMismatchError
				if errors.As(err, &mismatch) {
					log.Printf("aux: %v, decode thread exiting", mismatch)
				} else if !errors.Is(err, io.EOF) {
					log.Printf("aux: sidecar read error: %v", err)
				}
				p.sm.set(StateFinRsp)
				return
			}
			header, payload, ok = h, data, true
		} else {
			f, got := p.queue.Pop(p.cancel)
			if !got {
				p.sm.set(StateFinRsp)
				return
			}
			header, payload, ok = f.Header, f.Payload, true
		}
		if !ok {
			continue
		}

		if p.sm.get() == StatePauseReq {
			p.sm.set(StatePauseRsp)
			if !p.sm.waitFor(StateRun, p.cancel) {
				p.sm.set(StateFinRsp)
				return
			}
		}

		if !opened || header.Width != openWidth || header.Height != openHeight || header.IsMPEG4() != openMPEG4 ||
			header.Sequence == 0 || header.PrivateHeaderSize != 0 {
			if opened {
				p.dec.Close()
			}
			if err := p.dec.Open(header.IsMPEG4(), int(header.Width), int(header.Height)); err != nil {
				log.Printf("aux: codec open failed: %v", err)
				continue
			}
			opened, openWidth, openHeight, openMPEG4 = true, header.Width, header.Height, header.IsMPEG4()
		}

		rgba, stride, err := p.dec.Decode(payload)
		if err != nil {
			log.Printf("aux: decode failed: %v", err)
			continue
		}
		if p.sink != nil {
			p.sink.AuxFrameDecoded(rgba, int(header.Width), int(header.Height), stride, header.Sequence)
		}
	}
}

// RequestPause pauses the decode thread, blocking until acknowledged or
// cancel closes.
func (p *Pipeline) RequestPause(cancel <-chan struct{}) bool {
	return p.sm.requestPause(cancel)
}

// Resume moves a paused decode thread back to running.
func (p *Pipeline) Resume() {
	p.sm.resume()
}

// Close stops the decode thread and releases its transport and codec
// resources. Safe to call more than once.
func (p *Pipeline) Close() {
	p.closeOnce.Do(func() {
		close(p.cancel)
		if p.queue != nil {
			p.queue.Close()
		}
		if p.sidecar != nil {
			p.sidecar.Close()
		}
		p.wg.Wait()
	})
}
