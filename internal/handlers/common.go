// internal/handlers/common.go
package handlers

import (
	"log/slog"
	"net/http"

	"readquest/internal/middleware"
	"readquest/internal/model"
	"readquest/internal/webutil"

	"github.com/google/uuid"
)

// requireUserID は認証ミドルウェアがセットしたユーザーIDを取り出します。
// 取り出せなければ 401 を書き込み false を返します
func requireUserID(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (uuid.UUID, bool) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrUnauthorized)
		webutil.HandleError(w, logger, appErr)
		return uuid.Nil, false
	}
	return userID, true
}
