package sse

import (
	"encoding/json"
	"fmt"
	"io"
	"log"

	"github.com/gin-gonic/gin"
)

// Event is a server-sent event addressed to a single user.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type client struct {
	userID string
	send   chan Event
}

// Manager fans events out to the SSE connections of each user.
// All registry mutations happen on the Run goroutine.
type Manager struct {
	clients    map[*client]struct{}
	register   chan *client
	unregister chan *client
	broadcast  chan userEvent
}

type userEvent struct {
	userID string
	event  Event
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[*client]struct{}),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan userEvent, 256),
	}
}

// Run processes registrations and deliveries. Call once, in a goroutine.
func (m *Manager) Run() {
	for {
		select {
		case c := <-m.register:
			m.clients[c] = struct{}{}
		case c := <-m.unregister:
			if _, ok := m.clients[c]; ok {
				delete(m.clients, c)
				close(c.send)
			}
		case ue := <-m.broadcast:
			for c := range m.clients {
				if c.userID != ue.userID {
					continue
				}
				select {
				case c.send <- ue.event:
				default:
					// Slow consumer, drop the connection rather than block.
					delete(m.clients, c)
					close(c.send)
				}
			}
		}
	}
}

// SendToUser delivers an event to every open connection of userID.
func (m *Manager) SendToUser(userID string, eventType string, payload interface{}) {
	select {
	case m.broadcast <- userEvent{userID: userID, event: Event{Type: eventType, Payload: payload}}:
	default:
		log.Printf("[SSE] Broadcast queue full, dropping %s event for user %s", eventType, userID)
	}
}

// ServeHTTP streams events to a connected client until it disconnects.
func (m *Manager) ServeHTTP(c *gin.Context, userID string) {
	cl := &client{userID: userID, send: make(chan Event, 32)}
	m.register <- cl
	defer func() { m.unregister <- cl }()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-cl.send:
			if !ok {
				return false
			}
			data, err := json.Marshal(ev.Payload)
			if err != nil {
				log.Printf("[SSE] Failed to marshal %s payload: %v", ev.Type, err)
				return true
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
