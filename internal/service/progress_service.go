//go:generate mockery --name ProgressService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"readquest/internal/gamification"
	"readquest/internal/middleware"
	"readquest/internal/model"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// xpHistorySheet はエクスポートするシート名
const xpHistorySheet = "XP History"

// ProgressService はユーザー自身の進捗 (レベル・ストリーク・バッジ・台帳・通知・フィード) を読むためのサービス
type ProgressService interface {
	GetLevel(ctx context.Context, userID uuid.UUID) (*model.LevelResponse, error)
	GetStreak(ctx context.Context, userID uuid.UUID) (*model.StreakResponse, error)
	ListBadges(ctx context.Context, userID uuid.UUID) ([]model.BadgeStatusResponse, error)
	ListXPHistory(ctx context.Context, userID uuid.UUID, limit int) ([]*model.XPEvent, error)
	ExportXPHistory(ctx context.Context, userID uuid.UUID) ([]byte, error)
	ListNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]*model.Notification, error)
	MarkNotificationRead(ctx context.Context, userID, notificationID uuid.UUID) error
	ListFeed(ctx context.Context, userID uuid.UUID, limit int) ([]*model.FeedItem, error)
}

type progressService struct {
	db    *gorm.DB
	repos Repositories
	clock gamification.Clock
}

func NewProgressService(db *gorm.DB, repos Repositories, clock gamification.Clock) ProgressService {
	if clock == nil {
		clock = gamification.SystemClock{Location: time.UTC}
	}
	return &progressService{db: db, repos: repos, clock: clock}
}

func (s *progressService) GetLevel(ctx context.Context, userID uuid.UUID) (*model.LevelResponse, error) {
	total := 0
	lvl, err := s.repos.Level.FindByUserID(ctx, s.db, userID)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}
	// まだXPがないユーザーはレベル1・0XP
	if lvl != nil {
		total = lvl.TotalXP
	}
	info := gamification.CalculateLevel(total)
	return &model.LevelResponse{
		TotalXP:          total,
		CurrentLevel:     info.Level,
		CurrentXPInLevel: info.CurrentXPInLevel,
		XPForNextLevel:   gamification.XPForLevel(info.Level),
		XPToNextLevel:    gamification.XPToNextLevel(info),
	}, nil
}

func (s *progressService) GetStreak(ctx context.Context, userID uuid.UUID) (*model.StreakResponse, error) {
	streak, err := s.repos.Streak.FindByUserID(ctx, s.db, userID)
	if errors.Is(err, model.ErrNotFound) {
		return &model.StreakResponse{StreakFreezeAvailable: gamification.DefaultStreakFreezes}, nil
	}
	if err != nil {
		return nil, err
	}

	resp := &model.StreakResponse{
		CurrentStreak:         streak.CurrentStreak,
		LongestStreak:         streak.LongestStreak,
		StreakFreezeAvailable: streak.StreakFreezeAvailable,
	}
	if streak.LastReadDate != nil {
		last := gamification.DateOf(streak.LastReadDate.UTC())
		formatted := last.Format(time.DateOnly)
		resp.LastReadDate = &formatted
		resp.ReadToday = !last.Before(gamification.Today(s.clock))
	}
	return resp, nil
}

func (s *progressService) ListBadges(ctx context.Context, userID uuid.UUID) ([]model.BadgeStatusResponse, error) {
	catalog, err := s.repos.Badge.ListCatalog(ctx, s.db)
	if err != nil {
		return nil, err
	}
	earned, err := s.repos.Badge.ListEarned(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	earnedAt := make(map[uuid.UUID]time.Time, len(earned))
	for _, ub := range earned {
		earnedAt[ub.BadgeID] = ub.EarnedAt
	}

	statuses := make([]model.BadgeStatusResponse, 0, len(catalog))
	for _, b := range catalog {
		st := model.BadgeStatusResponse{
			ID:            b.ID,
			Name:          b.Name,
			Description:   b.Description,
			Icon:          b.Icon,
			Rarity:        b.Rarity,
			Category:      b.Category,
			CriteriaType:  b.CriteriaType,
			CriteriaCount: b.CriteriaCount,
			XPReward:      b.XPReward,
		}
		if at, ok := earnedAt[b.ID]; ok {
			at := at
			st.Earned = true
			st.EarnedAt = &at
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}

func (s *progressService) ListXPHistory(ctx context.Context, userID uuid.UUID, limit int) ([]*model.XPEvent, error) {
	return s.repos.XPEvent.ListByUser(ctx, s.db, userID, limit)
}

// ExportXPHistory は台帳の全件をXLSXにして返します
func (s *progressService) ExportXPHistory(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	logger := middleware.GetLogger(ctx)
	events, err := s.repos.XPEvent.ListByUser(ctx, s.db, userID, 0)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn("Failed to close xlsx file", slog.Any("error", err))
		}
	}()

	if err := f.SetSheetName("Sheet1", xpHistorySheet); err != nil {
		return nil, fmt.Errorf("ExportXPHistory: %w", err)
	}
	header := []interface{}{"Date", "Action", "XP", "Source Type", "Source ID", "Description"}
	if err := f.SetSheetRow(xpHistorySheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("ExportXPHistory: %w", err)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(xpHistorySheet, "A1", "F1", style)
	}
	_ = f.SetColWidth(xpHistorySheet, "A", "A", 22)
	_ = f.SetColWidth(xpHistorySheet, "F", "F", 40)

	total := 0
	for i, ev := range events {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("ExportXPHistory: %w", err)
		}
		row := []interface{}{
			ev.CreatedAt.UTC().Format(time.RFC3339),
			string(ev.Action),
			ev.Amount,
			derefOr(ev.SourceType, ""),
			derefOr(ev.SourceID, ""),
			ev.Description,
		}
		if err := f.SetSheetRow(xpHistorySheet, cell, &row); err != nil {
			return nil, fmt.Errorf("ExportXPHistory: %w", err)
		}
		total += ev.Amount
	}

	totalCell, _ := excelize.CoordinatesToCellName(1, len(events)+3)
	totalRow := []interface{}{"Total", "", total}
	if err := f.SetSheetRow(xpHistorySheet, totalCell, &totalRow); err != nil {
		return nil, fmt.Errorf("ExportXPHistory: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		logger.Error("Failed to write xlsx", slog.Any("error", err))
		return nil, fmt.Errorf("ExportXPHistory: %w", err)
	}
	logger.Info("XP history exported", slog.Int("rows", len(events)))
	return buf.Bytes(), nil
}

func (s *progressService) ListNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]*model.Notification, error) {
	return s.repos.Notification.ListByUser(ctx, s.db, userID, unreadOnly, limit)
}

func (s *progressService) MarkNotificationRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	err := s.repos.Notification.MarkRead(ctx, s.db, userID, notificationID)
	if errors.Is(err, model.ErrNotFound) {
		return model.NewAppError("NOTIFICATION_NOT_FOUND", "通知が見つかりません。", "notification_id", err)
	}
	return err
}

func (s *progressService) ListFeed(ctx context.Context, userID uuid.UUID, limit int) ([]*model.FeedItem, error) {
	return s.repos.Feed.ListForUser(ctx, s.db, userID, limit)
}

func derefOr(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}
