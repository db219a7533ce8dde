// If you are AI: this file implements the /signals WebSocket endpoint,
// grounded on the teacher's wsflv.Handler.ServeHTTP upgrade-then-attach
// shape.
package uiobserver

import (
	"net/http"

	"github.com/gorilla/websocket"
)

// Handler upgrades GET /signals requests to WebSocket connections and
// attaches each to the relay for the connection's lifetime.
type Handler struct {
	relay    *Relay
	upgrader websocket.Upgrader
}

// NewHandler creates a handler that fans relay's events out to every
// connected client.
func NewHandler(relay *Relay) *Handler {
	return &Handler{
		relay: relay,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the request, attaches a subscriber to the relay,
// and blocks until the client disconnects.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	sub, id := h.relay.attach(conn)
	defer h.relay.detach(id)

	// Clients never send signals upstream; this pump only exists to
	// observe the close frame / read error that marks disconnection.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	sub.close()
}

// RegisterRoutes registers the /signals route on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/signals", h.ServeHTTP)
}
