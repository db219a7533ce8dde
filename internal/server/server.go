// If you are AI: This file implements the daemon's process lifecycle:
// the health and UI-signal HTTP listeners plus the display-channel's
// own TCP message listener, grounded on the teacher's Listen/Accept/
// handleConnection shape (internal/svc/rtmp/server.go).

package server

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"displaychannel/internal/channel"
	"displaychannel/internal/config"
	"displaychannel/internal/uiobserver"
)

// ConnHandler processes one accepted channel connection until it closes
// or ctx is done. Supplied by the caller (cmd/displaychanneld) since the
// message framing used over that connection is a demo convenience, not
// part of this package's contract.
type ConnHandler func(ctx context.Context, conn net.Conn, ch *channel.Channel)

// Server owns the daemon's three listening surfaces: health, the
// UI-signal websocket, and the channel message listener. The server is
// not started until Start is called.
type Server struct {
	cfg *config.Config

	healthServer *http.Server
	uiServer     *http.Server
	channelLn    net.Listener

	channel     *channel.Channel
	connHandler ConnHandler
}

// New creates a server instance wired against cfg, ch, and relay.
func New(cfg *config.Config, ch *channel.Channel, relay *uiobserver.Relay, connHandler ConnHandler) *Server {
	healthMux := http.NewServeMux()
	healthMux.HandleFunc("/healthz", handleHealth)

	uiMux := http.NewServeMux()
	uiobserver.NewHandler(relay).RegisterRoutes(uiMux)

	return &Server{
		cfg:         cfg,
		channel:     ch,
		connHandler: connHandler,
		healthServer: &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Server.HealthPort),
			Handler: healthMux,
		},
		uiServer: &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Server.UIPort),
			Handler: uiMux,
		},
	}
}

// handleHealth responds 200 OK to any GET request.
func handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// Start opens the channel listener and launches all three listen loops
// on their own goroutines, then blocks until ctx is done or one of the
// listeners fails.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.cfg.Server.ChannelPort))
	if err != nil {
		return fmt.Errorf("channel listener: %w", err)
	}
	s.channelLn = ln

	errCh := make(chan error, 3)

	go func() {
		if err := s.healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("health server: %w", err)
		}
	}()
	go func() {
		if err := s.uiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("ui server: %w", err)
		}
	}()
	go s.acceptChannelConns(ctx)

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// acceptChannelConns accepts channel connections until the listener is
// closed, handling each on its own goroutine so a slow or hung client
// never blocks new connections.
func (s *Server) acceptChannelConns(ctx context.Context) {
	for {
		conn, err := s.channelLn.Accept()
		if err != nil {
			return
		}
		go s.connHandler(ctx, conn, s.channel)
	}
}

// Shutdown gracefully stops both HTTP listeners and closes the channel
// listener. Returns the first error encountered, if any.
func (s *Server) Shutdown(ctx context.Context) error {
	var firstErr error
	if err := s.healthServer.Shutdown(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := s.uiServer.Shutdown(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	if s.channelLn != nil {
		if err := s.channelLn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
