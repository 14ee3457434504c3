// internal/handlers/realtime_handler.go
package handlers

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"readquest/internal/realtime"

	"github.com/gorilla/websocket"
)

type RealtimeHandler struct {
	hub            *realtime.Hub
	logger         *slog.Logger
	allowedOrigins map[string]bool
	allowAll       bool
	upgrader       websocket.Upgrader
}

// NewRealtimeHandler は allowedOrigins (CORS設定と同じもの) で Origin を検査する WebSocket ハンドラを返します
func NewRealtimeHandler(hub *realtime.Hub, allowedOrigins []string, logger *slog.Logger) *RealtimeHandler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &RealtimeHandler{
		hub:            hub,
		logger:         logger,
		allowedOrigins: make(map[string]bool),
	}
	for _, origin := range allowedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "*" {
			h.allowAll = true
		}
		if trimmed != "" {
			h.allowedOrigins[trimmed] = true
		}
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *RealtimeHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || h.allowAll {
		return true
	}
	if len(h.allowedOrigins) == 0 {
		// 設定がなければ同一ホストのみ
		u, err := url.Parse(origin)
		return err == nil && u.Host == r.Host
	}
	return h.allowedOrigins[origin]
}

// Subscribe は接続をアップグレードし、ユーザー宛ての通知をプッシュし続けます
func (h *RealtimeHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "Subscribe"))
	userID, ok := requireUserID(w, r, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade がエラーレスポンスを書き込み済み
		logger.Warn("WebSocket upgrade failed", slog.Any("error", err))
		return
	}

	c := h.hub.Register(userID, conn)
	logger.Info("Realtime client connected", slog.String("remote_addr", r.RemoteAddr))

	// クライアントからの受信は切断検知にだけ使う
	go func() {
		defer func() {
			h.hub.Unregister(c)
			logger.Info("Realtime client disconnected", slog.String("remote_addr", r.RemoteAddr))
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
