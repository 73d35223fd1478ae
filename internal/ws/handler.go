package ws

import (
	"net/http"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades connections, registers them with the hub and greets each
// client with the run description.
type Handler struct {
	hub  *Hub
	info RunInfoPayload
}

func NewHandler(hub *Hub, info RunInfoPayload) *Handler {
	return &Handler{hub: hub, info: info}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	client := &Client{
		hub:  h.hub,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}

	// queued before Register so it precedes any broadcast
	if msg, err := NewEnvelope(TypeRunInfo, h.info); err == nil {
		client.send <- msg
	} else {
		log.WithError(err).Error("marshal run info")
	}

	h.hub.Register(client)
	go client.writePump()

	h.readPump(client)
}

// readPump drains client messages until the connection closes. Clients are
// listeners only.
func (h *Handler) readPump(c *Client) {
	defer func() {
		h.hub.Unregister(c)
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.WithError(err).Warn("websocket read error")
			}
			return
		}
	}
}
