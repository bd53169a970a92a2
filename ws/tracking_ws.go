package ws

import (
	"log"
	"net/http"
	"strconv"
	"sync"

	"delivergo/entity"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// TrackingHub fans appended tracking events out to everyone watching an
// order. One goroutine owns the maps; register/unregister/broadcast all
// go through channels.
type TrackingHub struct {
	clients    map[uint]map[*websocket.Conn]bool // orderID -> set of clients
	broadcast  chan broadcastEvent
	register   chan subscription
	unregister chan subscription
	mu         sync.Mutex
}

type subscription struct {
	Conn    *websocket.Conn
	OrderID uint
	UserID  uint
}

type broadcastEvent struct {
	OrderID uint
	Event   *entity.TrackingEvent
}

func NewTrackingHub() *TrackingHub {
	return &TrackingHub{
		clients:    make(map[uint]map[*websocket.Conn]bool),
		broadcast:  make(chan broadcastEvent),
		register:   make(chan subscription),
		unregister: make(chan subscription),
	}
}

func (h *TrackingHub) Run() {
	for {
		select {
		case sub := <-h.register:
			h.mu.Lock()
			if h.clients[sub.OrderID] == nil {
				h.clients[sub.OrderID] = make(map[*websocket.Conn]bool)
			}
			h.clients[sub.OrderID][sub.Conn] = true
			h.mu.Unlock()

		case sub := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[sub.OrderID][sub.Conn]; ok {
				delete(h.clients[sub.OrderID], sub.Conn)
				sub.Conn.Close()
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients[msg.OrderID] {
				if err := conn.WriteJSON(msg.Event); err != nil {
					log.Printf("ws write error: %v", err)
					conn.Close()
					delete(h.clients[msg.OrderID], conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastEvent satisfies the tracking service's Broadcaster.
func (h *TrackingHub) BroadcastEvent(orderID uint, ev *entity.TrackingEvent) {
	h.broadcast <- broadcastEvent{OrderID: orderID, Event: ev}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WS route: /ws/orders/:id
func (h *TrackingHub) HandleWebSocket(c *gin.Context) {
	orderID64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid order id"})
		return
	}
	orderID := uint(orderID64)

	userIDVal, _ := c.Get("userId")
	userID, _ := userIDVal.(uint)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws upgrade error: %v", err)
		return
	}

	sub := subscription{Conn: conn, OrderID: orderID, UserID: userID}
	h.register <- sub

	// Reader loop only watches for the client hanging up; this is a
	// one-way feed.
	go func() {
		defer func() { h.unregister <- sub }()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
