package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin policy is enforced by the CORS layer; the feed is read-only.
		return true
	},
}

// hub fans each served prediction out to connected WebSocket clients. A
// slow or dead client is dropped rather than allowed to stall the rest.
type hub struct {
	mu       sync.Mutex
	clients  map[*websocket.Conn]struct{}
	recorder Recorder
}

func newHub(recorder Recorder) *hub {
	return &hub{
		clients:  make(map[*websocket.Conn]struct{}),
		recorder: recorder,
	}
}

func (h *hub) handleConnect(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	h.add(conn)
	log.Info().Str("client", r.RemoteAddr).Msg("live feed client connected")

	// The feed is one-way; the read loop only detects disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.remove(conn)
	log.Info().Str("client", r.RemoteAddr).Msg("live feed client disconnected")
}

// broadcast sends one prediction to every connected client.
func (h *hub) broadcast(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal live feed event")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Warn().Err(err).Msg("dropping live feed client")
			conn.Close()
			delete(h.clients, conn)
			if h.recorder != nil {
				h.recorder.WSClientsAdd(-1)
			}
		}
	}
}

func (h *hub) add(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()
	if h.recorder != nil {
		h.recorder.WSClientsAdd(1)
	}
}

func (h *hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	_, present := h.clients[conn]
	delete(h.clients, conn)
	h.mu.Unlock()

	conn.Close()
	if present && h.recorder != nil {
		h.recorder.WSClientsAdd(-1)
	}
}

// closeAll disconnects every client, used during shutdown.
func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
		if h.recorder != nil {
			h.recorder.WSClientsAdd(-1)
		}
	}
}
