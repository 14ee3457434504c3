// internal/handlers/award_handler.go
package handlers

import (
	"log/slog"
	"net/http"

	"readquest/internal/model"
	"readquest/internal/service"
	"readquest/internal/webutil"
)

type AwardHandler struct {
	service service.AwardService
	logger  *slog.Logger
}

func NewAwardHandler(s service.AwardService, logger *slog.Logger) *AwardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AwardHandler{
		service: s,
		logger:  logger,
	}
}

// PostAward はユーザー行動に対してXPを付与するハンドラ
func (h *AwardHandler) PostAward(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostAward"))

	userID, ok := requireUserID(w, r, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	var req model.AwardXPRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	if err := webutil.ValidateStruct(req); err != nil {
		logger.Warn("Validation failed", slog.Any("error", err), slog.Any("request", req))
		webutil.HandleError(w, logger, err)
		return
	}

	result, err := h.service.Award(r.Context(), userID, &req)
	if err != nil {
		if result != nil {
			// XPは付与済み。どこまで反映されたかをクライアントに返す
			logger.Error("XP award partially failed", slog.Any("error", err), slog.Any("completed_steps", result.CompletedSteps))
			webutil.HandleErrorWithPartial(w, logger, err, result)
			return
		}
		logger.Warn("Error awarding xp in service", slog.Any("error", err), slog.String("action", string(req.Action)))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("XP awarded successfully", slog.Int("xp", result.XPAwarded), slog.Bool("leveled_up", result.LeveledUp))
	webutil.RespondWithJSON(w, http.StatusOK, result, logger)
}
