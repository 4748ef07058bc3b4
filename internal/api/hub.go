/*
Package api
File: hub.go
Description:
    The WebSocket Hub pushes contract lifecycle events to connected clients
    (bot front ends, ops dashboards). It keeps a registry of active
    connections and fans every broadcast out to all of them.

    Clients are listen-only: anything they send is discarded. The server is
    the single source of contract events.
*/

package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

// Event is the JSON envelope for all real-time messages.
type Event struct {
	Type    string      `json:"type"`    // "quote_issued", "contract_accepted", "contract_status", "contract_pulse"
	Payload interface{} `json:"payload"` // Event-specific data
}

// Client represents one connected listener.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte // Buffered channel of outbound messages
}

// Hub maintains the set of active clients and broadcasts events to them.
type Hub struct {
	clients map[*Client]bool

	// Broadcast accepts pre-marshaled event bytes from the handlers and the
	// stats heartbeat.
	Broadcast chan []byte

	register   chan *Client
	unregister chan *Client
}

// NewHub creates a Hub. Call once at startup and run as a goroutine.
func NewHub() *Hub {
	return &Hub{
		Broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// Run is the hub's event loop. It blocks: `go hub.Run()`.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			log.Println("WS: New Connection Registered")

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}

		case message := <-h.Broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Full send buffer means the client hung or disconnected.
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// Send marshals an event and hands it to the broadcast loop.
// A nil hub is a no-op so the handlers can run without a socket layer in tests.
func (h *Hub) Send(eventType string, payload interface{}) {
	if h == nil {
		return
	}
	raw, err := json.Marshal(Event{Type: eventType, Payload: payload})
	if err != nil {
		log.Printf("WS: marshal %s event: %v", eventType, err)
		return
	}
	h.Broadcast <- raw
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWs upgrades an HTTP request to a WebSocket and registers the client.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WS Upgrade Error:", err)
		return
	}

	client := &Client{hub: hub, conn: conn, send: make(chan []byte, 256)}
	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump drains the connection so pings and closes are processed.
// Incoming payloads are intentionally ignored.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WS Error: %v", err)
			}
			break
		}
	}
}

// writePump pumps events from the hub to the connection.
// Exits when the hub closes c.send.
func (c *Client) writePump() {
	defer func() {
		c.conn.Close()
	}()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
