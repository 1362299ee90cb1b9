package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/fasthttp/websocket"
)

const writeWait = 5 * time.Second

// Hub fans messages out to the sockets subscribed to each assessment session
type Hub struct {
	sessions   map[string]map[*websocket.Conn]bool
	publish    chan envelope
	register   chan subscription
	unregister chan subscription
	done       chan struct{}
	stopOnce   sync.Once
	mutex      sync.RWMutex
}

// Message is the JSON frame sent to clients
type Message struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId"`
	Data      interface{} `json:"data"`
	Timestamp string      `json:"timestamp"`
}

type subscription struct {
	sessionID string
	conn      *websocket.Conn
}

type envelope struct {
	sessionID string
	payload   []byte
}

func NewHub() *Hub {
	return &Hub{
		sessions:   make(map[string]map[*websocket.Conn]bool),
		publish:    make(chan envelope, 64),
		register:   make(chan subscription),
		unregister: make(chan subscription),
		done:       make(chan struct{}),
	}
}

// Run processes subscriptions and deliveries until Stop is called
func (h *Hub) Run() {
	for {
		select {
		case sub := <-h.register:
			h.mutex.Lock()
			conns, ok := h.sessions[sub.sessionID]
			if !ok {
				conns = make(map[*websocket.Conn]bool)
				h.sessions[sub.sessionID] = conns
			}
			conns[sub.conn] = true
			h.mutex.Unlock()
			log.Printf("🔌 WebSocket subscribed to session %s (%d listeners)", sub.sessionID, len(conns))

		case sub := <-h.unregister:
			h.remove(sub)
			log.Printf("🔌 WebSocket left session %s", sub.sessionID)

		case env := <-h.publish:
			h.deliver(env)

		case <-h.done:
			h.mutex.Lock()
			for id, conns := range h.sessions {
				for conn := range conns {
					conn.Close()
				}
				delete(h.sessions, id)
			}
			h.mutex.Unlock()
			return
		}
	}
}

func (h *Hub) deliver(env envelope) {
	h.mutex.RLock()
	var stale []*websocket.Conn
	for conn := range h.sessions[env.sessionID] {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, env.payload); err != nil {
			log.Printf("⚠️ WebSocket write to session %s failed: %v", env.sessionID, err)
			stale = append(stale, conn)
		}
	}
	h.mutex.RUnlock()

	for _, conn := range stale {
		h.remove(subscription{sessionID: env.sessionID, conn: conn})
	}
}

func (h *Hub) remove(sub subscription) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	conns, ok := h.sessions[sub.sessionID]
	if !ok || !conns[sub.conn] {
		return
	}
	delete(conns, sub.conn)
	sub.conn.Close()
	if len(conns) == 0 {
		delete(h.sessions, sub.sessionID)
	}
}

// Stop ends Run and closes every socket
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *Hub) Register(sessionID string, conn *websocket.Conn) {
	select {
	case h.register <- subscription{sessionID: sessionID, conn: conn}:
	case <-h.done:
	}
}

func (h *Hub) Unregister(sessionID string, conn *websocket.Conn) {
	select {
	case h.unregister <- subscription{sessionID: sessionID, conn: conn}:
	case <-h.done:
	}
}

// Listeners returns how many sockets follow a session
func (h *Hub) Listeners(sessionID string) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.sessions[sessionID])
}

// Publish sends a typed message to every socket of a session
func (h *Hub) Publish(sessionID, msgType string, data interface{}) {
	msg := Message{
		Type:      msgType,
		SessionID: sessionID,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		log.Printf("❌ Error encoding %s message: %v", msgType, err)
		return
	}

	select {
	case h.publish <- envelope{sessionID: sessionID, payload: payload}:
	case <-h.done:
	}
}
