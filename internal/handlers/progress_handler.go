// internal/handlers/progress_handler.go
package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"readquest/internal/config"
	"readquest/internal/model"
	"readquest/internal/service"
	"readquest/internal/webutil"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ProgressHandler struct {
	service      service.ProgressService
	logger       *slog.Logger
	historyLimit int
	feedLimit    int
}

// NewProgressHandler は一覧系のデフォルト件数を config.Cfg.App から読みます
func NewProgressHandler(s service.ProgressService, logger *slog.Logger) *ProgressHandler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &ProgressHandler{
		service:      s,
		logger:       logger,
		historyLimit: config.Cfg.App.HistoryLimit,
		feedLimit:    config.Cfg.App.FeedLimit,
	}
	if h.historyLimit <= 0 {
		h.historyLimit = config.DefaultHistoryLimit
	}
	if h.feedLimit <= 0 {
		h.feedLimit = config.DefaultFeedLimit
	}
	return h
}

// GetLevel は自分のレベルと累積XPを返すハンドラ
func (h *ProgressHandler) GetLevel(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetLevel"))
	userID, ok := requireUserID(w, r, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	level, err := h.service.GetLevel(r.Context(), userID)
	if err != nil {
		logger.Error("Error getting level from service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, level, logger)
}

// GetStreak は自分の読書ストリークを返すハンドラ
func (h *ProgressHandler) GetStreak(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetStreak"))
	userID, ok := requireUserID(w, r, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	streak, err := h.service.GetStreak(r.Context(), userID)
	if err != nil {
		logger.Error("Error getting streak from service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, streak, logger)
}

// GetBadges はバッジカタログを獲得状況つきで返すハンドラ
func (h *ProgressHandler) GetBadges(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetBadges"))
	userID, ok := requireUserID(w, r, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	badges, err := h.service.ListBadges(r.Context(), userID)
	if err != nil {
		logger.Error("Error listing badges in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	if badges == nil {
		badges = []model.BadgeStatusResponse{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, badges, logger)
}

// GetXPEvents はXP台帳を新しい順に返すハンドラ (?limit=)
func (h *ProgressHandler) GetXPEvents(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetXPEvents"))
	userID, ok := requireUserID(w, r, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	limit, err := webutil.QueryInt(r, "limit", h.historyLimit, config.MaxListLimit)
	if err != nil {
		logger.Warn("Invalid limit parameter", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	events, err := h.service.ListXPHistory(r.Context(), userID, limit)
	if err != nil {
		logger.Error("Error listing xp events in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	if events == nil {
		events = []*model.XPEvent{}
	}
	logger.Info("XP events listed successfully", slog.Int("count", len(events)))
	webutil.RespondWithJSON(w, http.StatusOK, events, logger)
}

// ExportXPEvents はXP台帳全体を xlsx としてダウンロードさせるハンドラ
func (h *ProgressHandler) ExportXPEvents(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ExportXPEvents"))
	userID, ok := requireUserID(w, r, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	data, err := h.service.ExportXPHistory(r.Context(), userID)
	if err != nil {
		logger.Error("Error exporting xp events in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	filename := fmt.Sprintf("xp-history-%s.xlsx", time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := bytes.NewReader(data).WriteTo(w); err != nil {
		logger.Error("Error writing xlsx response", slog.Any("error", err))
	}
}

// GetNotifications は通知一覧を返すハンドラ (?unread=true で未読のみ)
func (h *ProgressHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetNotifications"))
	userID, ok := requireUserID(w, r, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	limit, err := webutil.QueryInt(r, "limit", h.historyLimit, config.MaxListLimit)
	if err != nil {
		logger.Warn("Invalid limit parameter", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	notifications, err := h.service.ListNotifications(r.Context(), userID, webutil.QueryBool(r, "unread"), limit)
	if err != nil {
		logger.Error("Error listing notifications in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	if notifications == nil {
		notifications = []*model.Notification{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, notifications, logger)
}

// MarkNotificationRead は通知を既読にするハンドラ
func (h *ProgressHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "MarkNotificationRead"))
	userID, ok := requireUserID(w, r, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	notificationIDStr := chi.URLParam(r, "notification_id")
	notificationID, err := uuid.Parse(notificationIDStr)
	if err != nil {
		logger.Warn("Invalid notification ID format in URL", slog.String("notification_id_str", notificationIDStr))
		appErr := model.NewAppError("INVALID_URL_PARAM", "notification_idの形式が正しくありません。", "notification_id", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	if err := h.service.MarkNotificationRead(r.Context(), userID, notificationID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Info("Notification not found", slog.String("notification_id", notificationID.String()))
		} else {
			logger.Error("Error marking notification read in service", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Notification marked as read", slog.String("notification_id", notificationID.String()))
	w.WriteHeader(http.StatusNoContent)
}

// GetFeed は自分とフレンドのアクティビティを新しい順に返すハンドラ
func (h *ProgressHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetFeed"))
	userID, ok := requireUserID(w, r, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	limit, err := webutil.QueryInt(r, "limit", h.feedLimit, config.MaxListLimit)
	if err != nil {
		logger.Warn("Invalid limit parameter", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	items, err := h.service.ListFeed(r.Context(), userID, limit)
	if err != nil {
		logger.Error("Error listing feed in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	if items == nil {
		items = []*model.FeedItem{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, items, logger)
}
