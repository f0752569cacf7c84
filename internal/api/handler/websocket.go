// internal/api/handler/websocket.go
package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"homefinder/internal/domain/session"
	"homefinder/internal/utils"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // the gateway only listens locally
	},
}

// SessionStreamHandler pushes a session snapshot to the socket on connect and
// after every change. Clients never write to the session through it.
type SessionStreamHandler struct {
	state  *session.State
	logger *utils.Logger
}

func NewSessionStreamHandler(state *session.State, logger *utils.Logger) *SessionStreamHandler {
	return &SessionStreamHandler{
		state:  state,
		logger: logger,
	}
}

func (h *SessionStreamHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already answered the client.
		h.logger.Warn("[ws] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	updates, cancel := h.state.Subscribe()
	defer cancel()

	closed := make(chan struct{})
	go h.readPump(conn, closed)

	if err := h.send(conn, h.state.Snapshot()); err != nil {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case snap, ok := <-updates:
			if !ok {
				return
			}
			if err := h.send(conn, snap); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *SessionStreamHandler) send(conn *websocket.Conn, snap session.Snapshot) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(newSessionResponse(snap)); err != nil {
		h.logger.Debug("[ws] write failed: %v", err)
		return err
	}
	return nil
}

// readPump drains control frames so pongs and the close handshake are seen.
func (h *SessionStreamHandler) readPump(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
