// internal/realtime/hub.go
package realtime

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	sendBufferSize = 32
	writeWait      = 10 * time.Second
)

// Message はクライアントに送るイベント
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Client はユーザー1接続分の送信キュー
type Client struct {
	userID uuid.UUID
	conn   *websocket.Conn
	send   chan []byte
}

func newClient(userID uuid.UUID, conn *websocket.Conn) *Client {
	c := &Client{
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
	}
	go c.writePump()
	return c
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
}

// Hub はユーザーごとのWebSocket接続を保持し、イベントをそのユーザーの全接続に配信します
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]map[*Client]struct{}
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients: make(map[uuid.UUID]map[*Client]struct{}),
		logger:  logger,
	}
}

// Register は接続を userID の購読者として登録します
func (h *Hub) Register(userID uuid.UUID, conn *websocket.Conn) *Client {
	c := newClient(userID, conn)

	h.mu.Lock()
	set, ok := h.clients[userID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[userID] = set
	}
	set[c] = struct{}{}
	h.mu.Unlock()

	h.logger.Debug("Realtime client registered", slog.String("user_id", userID.String()))
	return c
}

// Unregister は接続を外して送信を止めます。二重に呼んでも安全です
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.userID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.userID)
	}
	close(c.send)
}

// Publish は userID の全接続に event を送り、キューに積めた接続数を返します。
// 送信が詰まっている接続は切断します。
func (h *Hub) Publish(userID uuid.UUID, event string, payload interface{}) int {
	data, err := json.Marshal(Message{Type: event, Payload: payload})
	if err != nil {
		h.logger.Error("Failed to marshal realtime message", slog.Any("error", err), slog.String("event", event))
		return 0
	}

	// send の close は書き込みロック下でのみ行う
	var slow []*Client
	delivered := 0
	h.mu.RLock()
	for c := range h.clients[userID] {
		select {
		case c.send <- data:
			delivered++
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("Realtime client too slow, disconnecting", slog.String("user_id", userID.String()))
		h.Unregister(c)
	}
	return delivered
}

// ClientCount は userID の接続数
func (h *Hub) ClientCount(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Close は全接続を閉じます (シャットダウン時)
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, set := range h.clients {
		for c := range set {
			close(c.send)
		}
		delete(h.clients, userID)
	}
}
