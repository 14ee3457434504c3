package realtime

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dialHub は userID として Hub に登録されるWebSocket接続を1本張ります
func dialHub(t *testing.T, hub *Hub, userID uuid.UUID) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Register(userID, conn)
	}))
	t.Cleanup(server.Close)

	before := hub.ClientCount(userID)
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.Eventually(t, func() bool { return hub.ClientCount(userID) == before+1 }, 2*time.Second, 10*time.Millisecond)
	return conn
}

func newTestHub() *Hub {
	return NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestHub_Publish(t *testing.T) {
	t.Run("正常系: 同じユーザーの全接続に届く", func(t *testing.T) {
		hub := newTestHub()
		defer hub.Close()
		userID := uuid.New()
		c1 := dialHub(t, hub, userID)
		c2 := dialHub(t, hub, userID)

		delivered := hub.Publish(userID, "notification", map[string]int{"level": 2})
		assert.Equal(t, 2, delivered)

		for _, c := range []*websocket.Conn{c1, c2} {
			require.NoError(t, c.SetReadDeadline(time.Now().Add(2*time.Second)))
			var msg struct {
				Type    string         `json:"type"`
				Payload map[string]int `json:"payload"`
			}
			require.NoError(t, c.ReadJSON(&msg))
			assert.Equal(t, "notification", msg.Type)
			assert.Equal(t, 2, msg.Payload["level"])
		}
	})

	t.Run("正常系: 他のユーザーには届かない", func(t *testing.T) {
		hub := newTestHub()
		defer hub.Close()
		dialHub(t, hub, uuid.New())

		assert.Equal(t, 0, hub.Publish(uuid.New(), "notification", "hello"))
	})

	t.Run("異常系: JSONにできないペイロードは配信しない", func(t *testing.T) {
		hub := newTestHub()
		defer hub.Close()
		userID := uuid.New()
		dialHub(t, hub, userID)

		assert.Equal(t, 0, hub.Publish(userID, "notification", make(chan int)))
	})
}

func TestHub_SlowClientIsDropped(t *testing.T) {
	hub := newTestHub()
	defer hub.Close()
	userID := uuid.New()

	// 書き込みループのない接続を直接登録して送信バッファを詰まらせる
	c := &Client{userID: userID, send: make(chan []byte, 1)}
	hub.mu.Lock()
	hub.clients[userID] = map[*Client]struct{}{c: {}}
	hub.mu.Unlock()

	assert.Equal(t, 1, hub.Publish(userID, "notification", 1))
	assert.Equal(t, 0, hub.Publish(userID, "notification", 2))
	assert.Equal(t, 0, hub.ClientCount(userID))
}

func TestHub_Unregister(t *testing.T) {
	hub := newTestHub()
	defer hub.Close()
	userID := uuid.New()

	c := &Client{userID: userID, send: make(chan []byte, 1)}
	hub.mu.Lock()
	hub.clients[userID] = map[*Client]struct{}{c: {}}
	hub.mu.Unlock()

	hub.Unregister(c)
	assert.NotPanics(t, func() { hub.Unregister(c) })
	assert.Equal(t, 0, hub.ClientCount(userID))
}
