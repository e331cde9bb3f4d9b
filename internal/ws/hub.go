package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10
)

// InviteEvent is pushed to a user when they are added to a board. This is a
// fire-and-forget side channel: failures are logged and never affect the
// request that produced the event.
type InviteEvent struct {
	Type       string    `json:"type"`
	BoardID    uuid.UUID `json:"boardId"`
	BoardTitle string    `json:"boardTitle"`
	InviterID  uuid.UUID `json:"inviterId"`
}

// Client is one connected browser session.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID uuid.UUID
}

// NewClient wraps an upgraded connection for the given user.
func NewClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, 8),
		userID: userID,
	}
}

// ReadPump drains (and discards) inbound frames so pings and close frames are
// processed; the invite channel is server-to-client only.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(1024)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

// WritePump pumps messages from the hub to the connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Hub maintains the set of connected clients and routes invite events to the
// invited user's sessions.
type Hub struct {
	clients    map[*Client]bool
	notify     chan targetedMessage
	register   chan *Client
	unregister chan *Client
	logger     *zap.Logger
}

type targetedMessage struct {
	userID  uuid.UUID
	payload []byte
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		notify:     make(chan targetedMessage, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// NotifyInvite delivers the event to every session of the invited user.
// Delivery is best effort; a full client buffer drops the message.
func (h *Hub) NotifyInvite(userID uuid.UUID, event InviteEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Warn("failed to marshal invite event", zap.Error(err))
		return
	}
	h.notify <- targetedMessage{userID: userID, payload: payload}
}

// Run is the hub's main loop; start it once in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
		case msg := <-h.notify:
			for client := range h.clients {
				if client.userID != msg.userID {
					continue
				}
				select {
				case client.send <- msg.payload:
				default:
					h.logger.Warn("dropping invite event, client buffer full",
						zap.String("user_id", msg.userID.String()),
					)
				}
			}
		}
	}
}
