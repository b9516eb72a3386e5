package realtime

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

// Event is the coarse invalidation message pushed to a user's connections.
// Clients re-fetch on receipt; no incremental payload is carried.
type Event struct {
	Type   string `json:"type"`
	UserID string `json:"-"`
}

// EventNotificationsChanged fires on any insert/update/delete touching the
// user's notifications.
const EventNotificationsChanged = "notifications_changed"

// Publisher is what the service layer sees; the hub implements it and tests
// substitute a recorder.
type Publisher interface {
	Publish(event Event)
}

type clientConn struct {
	userID string
	conn   *websocket.Conn
	send   chan []byte
}

// Hub fans events out to every live connection of the target user. One
// goroutine owns the maps; connections talk to it through channels.
type Hub struct {
	mu         sync.Mutex
	clients    map[string]map[*websocket.Conn]chan []byte
	register   chan *clientConn
	unregister chan *clientConn
	events     chan Event
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*websocket.Conn]chan []byte),
		register:   make(chan *clientConn),
		unregister: make(chan *clientConn),
		events:     make(chan Event, 64),
		logger:     logger,
	}
}

// Run loops over registration and event traffic until the process exits.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			if h.clients[c.userID] == nil {
				h.clients[c.userID] = make(map[*websocket.Conn]chan []byte)
			}
			h.clients[c.userID][c.conn] = c.send
			h.mu.Unlock()
			h.logger.Debug("realtime client connected", "user_id", c.userID)

		case c := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.clients[c.userID]; ok {
				if send, ok := conns[c.conn]; ok {
					close(send)
					delete(conns, c.conn)
					c.conn.Close()
				}
				if len(conns) == 0 {
					delete(h.clients, c.userID)
				}
			}
			h.mu.Unlock()
			h.logger.Debug("realtime client disconnected", "user_id", c.userID)

		case event := <-h.events:
			data, err := json.Marshal(event)
			if err != nil {
				h.logger.Error("marshal realtime event", "error", err)
				continue
			}
			h.mu.Lock()
			for conn, send := range h.clients[event.UserID] {
				select {
				case send <- data:
				default:
					// Slow client: drop the connection rather than block
					// the hub loop.
					close(send)
					delete(h.clients[event.UserID], conn)
					conn.Close()
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish enqueues an event without blocking the caller. A full queue drops
// the event: the channel is an invalidation hint, not a durable feed.
func (h *Hub) Publish(event Event) {
	select {
	case h.events <- event:
	default:
		h.logger.Warn("realtime event queue full, dropping event", "type", event.Type)
	}
}

// NoopPublisher satisfies Publisher where no hub is wired (tests, tooling).
type NoopPublisher struct{}

func (NoopPublisher) Publish(Event) {}
