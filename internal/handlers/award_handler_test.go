// internal/handlers/award_handler_test.go
package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"readquest/internal/handlers"
	"readquest/internal/model"
	"readquest/internal/service/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAwardHandler_PostAward(t *testing.T) {
	userID := uuid.New()
	validReq := model.AwardXPRequest{
		Action:   model.ActionReadingSession,
		Metadata: &model.AwardMetadata{DurationMinutes: float64Ptr(30)},
	}
	okResult := &model.AwardResult{
		XPAwarded:           60,
		NewTotalXP:          60,
		NewLevel:            1,
		NewCurrentXPInLevel: 60,
		XPToNextLevel:       40,
		Streak:              &model.StreakSummary{CurrentStreak: 1, LongestStreak: 1, IsNewDay: true},
		BadgesEarned:        []model.BadgeResponse{},
		CompletedSteps:      []string{model.StepXP, model.StepStreak, model.StepBadges, model.StepNotifications},
	}
	dbDown := fmt.Errorf("wrapped: %w", model.ErrRepositoryUnavailable)

	tests := []struct {
		name           string
		userID         *uuid.UUID
		body           interface{}
		setupMock      func(m *mocks.AwardService)
		expectedStatus int
		expectedCode   string
		verify         func(t *testing.T, body []byte)
	}{
		{
			name:   "正常系: 付与結果を返す",
			userID: &userID,
			body:   validReq,
			setupMock: func(m *mocks.AwardService) {
				m.On("Award", mock.Anything, userID, mock.MatchedBy(func(req *model.AwardXPRequest) bool {
					return req.Action == model.ActionReadingSession && req.Metadata != nil && *req.Metadata.DurationMinutes == 30
				})).Return(okResult, nil).Once()
			},
			expectedStatus: http.StatusOK,
			verify: func(t *testing.T, body []byte) {
				var raw map[string]interface{}
				require.NoError(t, json.Unmarshal(body, &raw))
				assert.EqualValues(t, 60, raw["xpAwarded"])
				assert.EqualValues(t, 60, raw["newTotalXp"])
				assert.EqualValues(t, 1, raw["newLevel"])
				assert.Equal(t, false, raw["leveledUp"])
				streak, ok := raw["streak"].(map[string]interface{})
				require.True(t, ok)
				assert.Equal(t, true, streak["isNewDay"])
			},
		},
		{
			name:           "異常系: ユーザーIDヘッダーなし",
			userID:         nil,
			body:           validReq,
			setupMock:      func(m *mocks.AwardService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   "UNAUTHORIZED",
		},
		{
			name:           "異常系: JSONが壊れている",
			userID:         &userID,
			body:           `{"action": `,
			setupMock:      func(m *mocks.AwardService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_REQUEST_BODY",
		},
		{
			name:           "異常系: 未知のフィールド",
			userID:         &userID,
			body:           `{"action":"daily_login","xp":9999}`,
			setupMock:      func(m *mocks.AwardService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_REQUEST_BODY",
		},
		{
			name:           "異常系: action がない",
			userID:         &userID,
			body:           model.AwardXPRequest{},
			setupMock:      func(m *mocks.AwardService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
		{
			name:           "異常系: 読書時間が負",
			userID:         &userID,
			body:           model.AwardXPRequest{Action: model.ActionReadingSession, Metadata: &model.AwardMetadata{DurationMinutes: float64Ptr(-5)}},
			setupMock:      func(m *mocks.AwardService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
		{
			name:   "異常系: 未知の行動",
			userID: &userID,
			body:   model.AwardXPRequest{Action: "teleport"},
			setupMock: func(m *mocks.AwardService) {
				m.On("Award", mock.Anything, userID, mock.Anything).
					Return(nil, model.NewAppError("UNKNOWN_ACTION", "不明な行動の種類です: teleport", "action", model.ErrInvalidInput)).Once()
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "UNKNOWN_ACTION",
		},
		{
			name:   "異常系: 他人へのXP付与",
			userID: &userID,
			body:   model.AwardXPRequest{Action: model.ActionDailyLogin},
			setupMock: func(m *mocks.AwardService) {
				m.On("Award", mock.Anything, userID, mock.Anything).
					Return(nil, model.NewAppError("FORBIDDEN", "他のユーザーにXPを付与することはできません。", "userId", model.ErrForbidden)).Once()
			},
			expectedStatus: http.StatusForbidden,
			expectedCode:   "FORBIDDEN",
		},
		{
			name:   "異常系: 部分失敗は503と途中結果",
			userID: &userID,
			body:   validReq,
			setupMock: func(m *mocks.AwardService) {
				partial := &model.AwardResult{XPAwarded: 60, NewTotalXP: 60, NewLevel: 1, BadgesEarned: []model.BadgeResponse{}, CompletedSteps: []string{model.StepXP}}
				m.On("Award", mock.Anything, userID, mock.Anything).
					Return(partial, model.NewAppError("REPOSITORY_UNAVAILABLE", "XPは付与されましたが、ストリークの更新に失敗しました。", "", dbDown)).Once()
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedCode:   "REPOSITORY_UNAVAILABLE",
			verify: func(t *testing.T, body []byte) {
				var raw struct {
					PartialResult model.AwardResult `json:"partial_result"`
				}
				require.NoError(t, json.Unmarshal(body, &raw))
				assert.Equal(t, []string{model.StepXP}, raw.PartialResult.CompletedSteps)
				assert.Equal(t, 60, raw.PartialResult.NewTotalXP)
			},
		},
		{
			name:   "異常系: XPの記録自体に失敗",
			userID: &userID,
			body:   validReq,
			setupMock: func(m *mocks.AwardService) {
				m.On("Award", mock.Anything, userID, mock.Anything).Return(nil, dbDown).Once()
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedCode:   "REPOSITORY_UNAVAILABLE",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mockService := mocks.NewAwardService(t)
			tc.setupMock(mockService)
			router := newDevRouter()
			router.Post("/api/v1/xp/award", handlers.NewAwardHandler(mockService, newTestLogger()).PostAward)

			rr := serve(router, createRequest(t, http.MethodPost, "/api/v1/xp/award", tc.body, tc.userID))

			assert.Equal(t, tc.expectedStatus, rr.Code, "body: %s", rr.Body.String())
			if tc.expectedCode != "" {
				assert.Equal(t, tc.expectedCode, decodeErrorResponse(t, rr).Error.Code)
			}
			if tc.verify != nil {
				tc.verify(t, rr.Body.Bytes())
			}
		})
	}
}
