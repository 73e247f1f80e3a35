// Package kds is the kitchen display feed: every connected dashboard gets a
// message after each successful write to the menu or the ledger so it can
// refresh. Delivery is best effort.
package kds

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-backoffice/models"
	"github.com/yeremiapane/restaurant-backoffice/utils"
)

// Event types
const (
	EventOrderCreated       = "order_created"
	EventOrderStatusUpdated = "order_status_updated"
	EventMenuItemCreated    = "menu_item_created"
	EventMenuItemUpdated    = "menu_item_updated"
	EventMenuItemDeleted    = "menu_item_deleted"
)

const (
	writeWait = 5 * time.Second

	// sendBuffer is how many messages a client may fall behind before it
	// is dropped.
	sendBuffer = 16
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// client is one dashboard connection. Only its writer goroutine touches
// the connection for writes.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub holds the connected dashboard clients.
type Hub struct {
	clients map[*websocket.Conn]*client
	mutex   sync.Mutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]*client)}
}

// Register adds the connection and starts its writer.
func (h *Hub) Register(conn *websocket.Conn) {
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mutex.Lock()
	h.clients[conn] = c
	h.mutex.Unlock()

	go h.writePump(c)
}

// Unregister drops the connection. Its writer closes it.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.remove(conn)
}

// remove must be called with the mutex held.
func (h *Hub) remove(conn *websocket.Conn) {
	if c, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		close(c.send)
	}
}

func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

func (h *Hub) writePump(c *client) {
	defer c.conn.Close()
	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.WithError(err).Warn("Error sending message to client, dropping it")
			h.Unregister(c.conn)
			return
		}
	}
}

func (h *Hub) BroadcastOrderCreated(order *models.Order) {
	h.Broadcast(Message{Event: EventOrderCreated, Data: order})
}

func (h *Hub) BroadcastOrderStatusUpdated(order *models.Order) {
	h.Broadcast(Message{Event: EventOrderStatusUpdated, Data: order})
}

func (h *Hub) BroadcastMenuItemCreated(item *models.MenuItem) {
	h.Broadcast(Message{Event: EventMenuItemCreated, Data: item})
}

func (h *Hub) BroadcastMenuItemUpdated(item *models.MenuItem) {
	h.Broadcast(Message{Event: EventMenuItemUpdated, Data: item})
}

func (h *Hub) BroadcastMenuItemDeleted(id string) {
	h.Broadcast(Message{Event: EventMenuItemDeleted, Data: map[string]string{"id": id}})
}

// Broadcast queues msg for every client and returns without waiting for
// the writes. A client whose queue is full is dropped.
func (h *Hub) Broadcast(msg Message) {
	if h == nil {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.WithError(err).Error("Error marshaling message")
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for conn, c := range h.clients {
		select {
		case c.send <- data:
		default:
			utils.ErrorLogger.Warn("Client is not keeping up, dropping it")
			h.remove(conn)
		}
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"event":   msg.Event,
		"clients": len(h.clients),
	}).Debug("Broadcast queued")
}
