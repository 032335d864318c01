package ws

import (
	"encoding/json"
	"sync"

	log "github.com/sirupsen/logrus"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MsgResponseReceived MessageType = "response_received"
	MsgError            MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans submission events out to owner dashboard connections. An owner
// may watch the same form from several tabs, so connections are keyed per
// form and per connection id.
type Hub struct {
	conns map[string]map[string]*Connection // formID -> connID -> conn

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *broadcastMessage
}

// Connection represents one owner dashboard connection
type Connection struct {
	ID     string
	FormID string
	Send   chan []byte
	Hub    *Hub
}

type broadcastMessage struct {
	FormID  string
	Message *Message
}

// NewHub creates a new hub and starts its event loop
func NewHub() *Hub {
	h := &Hub{
		conns:      make(map[string]map[string]*Connection),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *broadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.conns[conn.FormID] == nil {
				h.conns[conn.FormID] = make(map[string]*Connection)
			}
			h.conns[conn.FormID][conn.ID] = conn
			h.mu.Unlock()
			log.Debugf("owner connected to form %s feed", conn.FormID)

		case conn := <-h.unregister:
			h.mu.Lock()
			if watchers, ok := h.conns[conn.FormID]; ok {
				if existing, ok := watchers[conn.ID]; ok && existing == conn {
					delete(watchers, conn.ID)
					close(conn.Send)
					if len(watchers) == 0 {
						delete(h.conns, conn.FormID)
					}
				}
			}
			h.mu.Unlock()
			log.Debugf("owner disconnected from form %s feed", conn.FormID)

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)
			for _, conn := range h.conns[msg.FormID] {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BroadcastToOwner sends an event to every dashboard watching the form
// (implements service.Broadcaster)
func (h *Hub) BroadcastToOwner(formID string, msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.WithError(err).Warn("dropping unencodable broadcast payload")
		return
	}
	h.broadcast <- &broadcastMessage{
		FormID: formID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}
