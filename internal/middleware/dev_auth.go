// internal/middleware/dev_auth.go
package middleware

import (
	"log/slog"
	"net/http"

	"readquest/internal/model"
	"readquest/internal/webutil"

	"github.com/google/uuid"
)

// DevUserContextMiddleware は開発時用ミドルウェアです (auth.enabled=false)。
// X-User-ID ヘッダー (WebSocket では user_id クエリ) からUUIDを抽出し、コンテキストに設定します。
func DevUserContextMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := GetLogger(r.Context())

		userIDStr := r.Header.Get("X-User-ID")
		if userIDStr == "" {
			userIDStr = r.URL.Query().Get("user_id")
		}
		if userIDStr == "" {
			logger.Warn("[DEV AUTH] Failed: X-User-ID header missing")
			webutil.HandleError(w, logger, model.NewAppError("UNAUTHORIZED", "[DEV] X-User-IDヘッダーが必要です。", "", model.ErrUnauthorized))
			return
		}

		userID, err := uuid.Parse(userIDStr)
		if err != nil || userID == uuid.Nil {
			logger.Warn("[DEV AUTH] Failed: Invalid X-User-ID format", slog.String("x_user_id", userIDStr))
			webutil.HandleError(w, logger, model.NewAppError("UNAUTHORIZED", "[DEV] X-User-IDの形式が正しくありません。", "", model.ErrUnauthorized))
			return
		}

		logger.Debug("[DEV AUTH] User ID set to context (no validation)", slog.String("user_id", userID.String()))
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}
