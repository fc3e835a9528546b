package services

import (
	"net/http"
	"sync"
	"time"

	"github.com/calmisko/donation-backend/models"
	"github.com/calmisko/donation-backend/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

const (
	feedSendBuffer = 32
	feedWriteWait  = 10 * time.Second
)

// FeedEvent is what connected front ends receive for each new ledger row.
type FeedEvent struct {
	DonorID   *int64  `json:"donorId"`
	Amount    float64 `json:"amount"`
	Fee       float64 `json:"fee"`
	Timestamp int64   `json:"timestamp"`
}

// feedClient owns one connection. All writes go through the send channel and
// a single writePump goroutine; the websocket connection itself never sees
// concurrent writers.
type feedClient struct {
	conn *websocket.Conn
	send chan FeedEvent
}

// Feed fans newly recorded transactions out to websocket subscribers.
// Delivery is best-effort: a slow or dead client is dropped, never waited on,
// and a failed broadcast never affects the ledger write that triggered it.
type Feed struct {
	mu      sync.Mutex
	clients map[*feedClient]bool
}

func NewFeed() *Feed {
	return &Feed{clients: make(map[*feedClient]bool)}
}

// HandleWebSocket upgrades the request and registers the client.
func (f *Feed) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Errorf("[WS] upgrade error: %v", err)
		return
	}

	client := &feedClient{
		conn: conn,
		send: make(chan FeedEvent, feedSendBuffer),
	}

	f.mu.Lock()
	f.clients[client] = true
	count := len(f.clients)
	f.mu.Unlock()
	logger.Infof("[WS] feed client connected, %d active", count)

	go f.writePump(client)
	go f.readPump(client)
}

// writePump is the only goroutine allowed to write to the connection. It
// drains the send channel until the client is removed or a write fails.
func (f *Feed) writePump(client *feedClient) {
	defer client.conn.Close()
	for event := range client.send {
		client.conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
		if err := client.conn.WriteJSON(event); err != nil {
			logger.Warnf("[WS] write failed, dropping client: %v", err)
			f.remove(client)
			return
		}
	}
}

// readPump drains reads so close frames are processed; the feed never
// expects messages from clients.
func (f *Feed) readPump(client *feedClient) {
	defer f.remove(client)
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// remove is idempotent. The send channel is closed under the same lock that
// guards Broadcast's sends, so a removed client can never be sent to again.
func (f *Feed) remove(client *feedClient) {
	f.mu.Lock()
	if _, ok := f.clients[client]; ok {
		delete(f.clients, client)
		close(client.send)
	}
	f.mu.Unlock()
	client.conn.Close()
}

// Broadcast queues the transaction for every subscriber. Sends are
// non-blocking: a client whose buffer is full is dropped rather than ever
// stalling the ingesting request.
func (f *Feed) Broadcast(tx models.Transaction) {
	event := FeedEvent{
		DonorID:   tx.DonorID,
		Amount:    tx.Amount,
		Fee:       tx.Fee,
		Timestamp: tx.Timestamp,
	}

	var full []*feedClient
	f.mu.Lock()
	for client := range f.clients {
		select {
		case client.send <- event:
		default:
			full = append(full, client)
		}
	}
	f.mu.Unlock()

	for _, client := range full {
		logger.Warnf("[WS] client buffer full, dropping client")
		f.remove(client)
	}
}
