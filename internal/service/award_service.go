//go:generate mockery --name AwardService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"readquest/internal/gamification"
	"readquest/internal/middleware"
	"readquest/internal/model"
	"readquest/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AwardService はユーザー行動に対するXP付与の一連の処理 (台帳・レベル・ストリーク・バッジ・通知) を行います
type AwardService interface {
	// Award は userID に req の行動分のXPを付与します。
	// XPの記録後に失敗した場合は、途中までの結果 (CompletedSteps つき) とエラーの両方を返します。
	Award(ctx context.Context, userID uuid.UUID, req *model.AwardXPRequest) (*model.AwardResult, error)
}

// Repositories はサービスが使うリポジトリ一式
type Repositories struct {
	Level        repository.LevelRepository
	XPEvent      repository.XPEventRepository
	Streak       repository.StreakRepository
	Badge        repository.BadgeRepository
	Notification repository.NotificationRepository
	Feed         repository.FeedRepository
	Stats        repository.StatsRepository
	Profile      repository.ProfileRepository
}

// NewGormRepositories は gorm 実装のリポジトリ一式を返します
func NewGormRepositories() Repositories {
	return Repositories{
		Level:        repository.NewGormLevelRepository(),
		XPEvent:      repository.NewGormXPEventRepository(),
		Streak:       repository.NewGormStreakRepository(),
		Badge:        repository.NewGormBadgeRepository(),
		Notification: repository.NewGormNotificationRepository(),
		Feed:         repository.NewGormFeedRepository(),
		Stats:        repository.NewGormStatsRepository(),
		Profile:      repository.NewGormProfileRepository(),
	}
}

type awardService struct {
	db         *gorm.DB
	repos      Repositories
	dispatcher NotificationDispatcher
	clock      gamification.Clock
}

func NewAwardService(db *gorm.DB, repos Repositories, dispatcher NotificationDispatcher, clock gamification.Clock) AwardService {
	if clock == nil {
		clock = gamification.SystemClock{Location: time.UTC}
	}
	return &awardService{
		db:         db,
		repos:      repos,
		dispatcher: dispatcher,
		clock:      clock,
	}
}

// awardProgress は付与処理の途中経過
type awardProgress struct {
	result      *model.AwardResult
	levelBefore int
	totalXP     int
	earned      []model.Badge
}

func (p *awardProgress) observeTotal(total int) {
	p.totalXP = total
}

func (p *awardProgress) finish() *model.AwardResult {
	info := gamification.CalculateLevel(p.totalXP)
	p.result.NewTotalXP = p.totalXP
	p.result.NewLevel = info.Level
	p.result.NewCurrentXPInLevel = info.CurrentXPInLevel
	p.result.XPToNextLevel = gamification.XPToNextLevel(info)
	p.result.LeveledUp = info.Level > p.levelBefore
	return p.result
}

func (s *awardService) Award(ctx context.Context, userID uuid.UUID, req *model.AwardXPRequest) (*model.AwardResult, error) {
	logger := middleware.GetLogger(ctx).With(slog.String("user_id", userID.String()))

	amount, err := s.validate(userID, req)
	if err != nil {
		logger.Warn("Rejected xp award request", slog.Any("error", err))
		return nil, err
	}
	logger = logger.With(slog.String("action", string(req.Action)))
	ctx = middleware.WithLogger(ctx, logger)

	now := s.clock.Now()
	today := gamification.DateOf(now)

	p := &awardProgress{
		result: &model.AwardResult{
			XPAwarded:    amount,
			BadgesEarned: []model.BadgeResponse{},
		},
	}

	// 台帳への追記と累積XPの加算は同じトランザクションで行う
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		event := &model.XPEvent{
			UserID:      userID,
			Action:      req.Action,
			Amount:      amount,
			SourceID:    req.SourceID,
			SourceType:  req.SourceType,
			Description: describeAction(req.Action, req.Metadata),
			CreatedAt:   now,
		}
		total, err := s.appendXP(ctx, tx, event)
		if err != nil {
			return err
		}
		p.levelBefore = gamification.CalculateLevel(total - amount).Level
		p.observeTotal(total)
		return nil
	})
	if err != nil {
		logger.Error("Failed to record xp", slog.Any("error", err))
		return nil, repositoryError("XPの記録に失敗しました。", err)
	}
	p.result.CompletedSteps = append(p.result.CompletedSteps, model.StepXP)

	if gamification.AffectsStreak(req.Action) {
		if err := s.updateStreak(ctx, userID, today, now, p); err != nil {
			logger.Error("Failed to update reading streak", slog.Any("error", err))
			return p.finish(), repositoryError("XPは付与されましたが、ストリークの更新に失敗しました。", err)
		}
		p.result.CompletedSteps = append(p.result.CompletedSteps, model.StepStreak)
	}

	if err := s.awardBadges(ctx, userID, now, p); err != nil {
		logger.Error("Failed to evaluate badges", slog.Any("error", err))
		return p.finish(), repositoryError("XPは付与されましたが、バッジの判定に失敗しました。", err)
	}
	p.result.CompletedSteps = append(p.result.CompletedSteps, model.StepBadges)

	result := p.finish()
	notifications, err := s.recordNotifications(ctx, userID, now, p)
	if err != nil {
		logger.Error("Failed to record notifications", slog.Any("error", err))
		return result, repositoryError("XPは付与されましたが、通知の作成に失敗しました。", err)
	}
	result.CompletedSteps = append(result.CompletedSteps, model.StepNotifications)

	if s.dispatcher != nil && len(notifications) > 0 {
		s.dispatcher.Dispatch(ctx, userID, notifications)
	}

	logger.Info("XP awarded",
		slog.Int("xp", result.XPAwarded),
		slog.Int("bonus_xp", result.BonusXP),
		slog.Int("total_xp", result.NewTotalXP),
		slog.Int("level", result.NewLevel),
		slog.Bool("leveled_up", result.LeveledUp),
		slog.Int("badges", len(result.BadgesEarned)),
	)
	return result, nil
}

func (s *awardService) validate(userID uuid.UUID, req *model.AwardXPRequest) (int, error) {
	if userID == uuid.Nil {
		return 0, model.NewAppError("INVALID_USER_ID", "ユーザーIDが指定されていません。", "userId", model.ErrInvalidInput)
	}
	if req == nil {
		return 0, model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディが空です。", "", model.ErrInvalidInput)
	}
	if req.UserID != nil && *req.UserID != userID {
		return 0, model.NewAppError("FORBIDDEN", "他のユーザーにXPを付与することはできません。", "userId", model.ErrForbidden)
	}
	amount, err := gamification.ComputeXP(req.Action, req.Metadata)
	if err != nil {
		return 0, model.NewAppError("UNKNOWN_ACTION", fmt.Sprintf("不明な行動の種類です: %s", req.Action), "action", fmt.Errorf("%w: %w", model.ErrInvalidInput, err))
	}
	return amount, nil
}

// appendXP は台帳に1行追記し、その分を累積XPに加算してレベルを再計算します。加算後の累積XPを返します
func (s *awardService) appendXP(ctx context.Context, tx *gorm.DB, event *model.XPEvent) (int, error) {
	if err := s.repos.XPEvent.Create(ctx, tx, event); err != nil {
		return 0, err
	}
	lvl, err := s.repos.Level.AddXP(ctx, tx, event.UserID, event.Amount)
	if err != nil {
		return 0, err
	}
	info := gamification.CalculateLevel(lvl.TotalXP)
	if info.Level != lvl.CurrentLevel || info.CurrentXPInLevel != lvl.CurrentXPInLevel {
		if err := s.repos.Level.UpdateLevel(ctx, tx, event.UserID, info.Level, info.CurrentXPInLevel); err != nil {
			return 0, err
		}
	}
	return lvl.TotalXP, nil
}

func (s *awardService) updateStreak(ctx context.Context, userID uuid.UUID, today, now time.Time, p *awardProgress) error {
	logger := middleware.GetLogger(ctx)
	var summary model.StreakSummary
	bonus := 0

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.repos.Streak.FindForUpdate(ctx, tx, userID)
		if err != nil && !errors.Is(err, model.ErrNotFound) {
			return err
		}
		next, res := gamification.AdvanceStreak(current, userID, today, now)
		summary = model.StreakSummary{
			CurrentStreak: next.CurrentStreak,
			LongestStreak: next.LongestStreak,
			IsNewDay:      res.IsNewDay,
			FreezeUsed:    res.FreezeUsed(),
		}
		if !res.IsNewDay {
			return nil
		}
		if err := s.repos.Streak.Save(ctx, tx, next); err != nil {
			return err
		}
		logger.Debug("Reading streak advanced",
			slog.String("transition", string(res.Transition)),
			slog.Int("current_streak", next.CurrentStreak),
		)

		if next.CurrentStreak <= 1 {
			return nil
		}
		days := next.CurrentStreak
		bonus = gamification.StreakBonusXP(days)
		total, err := s.appendXP(ctx, tx, &model.XPEvent{
			UserID:      userID,
			Action:      model.ActionStreakBonus,
			Amount:      bonus,
			Description: fmt.Sprintf("%d-day reading streak bonus", days),
			CreatedAt:   now,
		})
		if err != nil {
			return err
		}
		p.observeTotal(total)
		return nil
	})
	if err != nil {
		return err
	}

	p.result.Streak = &summary
	p.result.BonusXP += bonus
	return nil
}

// awardBadges は条件を満たした未獲得バッジを1件ずつ別トランザクションで付与します。
// 集計は並行クエリで読むため、トランザクションの外 (s.db) で行います。
func (s *awardService) awardBadges(ctx context.Context, userID uuid.UUID, now time.Time, p *awardProgress) error {
	logger := middleware.GetLogger(ctx)

	stats, err := s.repos.Stats.GetUserStats(ctx, s.db, userID)
	if err != nil {
		return err
	}
	catalog, err := s.repos.Badge.ListCatalog(ctx, s.db)
	if err != nil {
		return err
	}
	earnedIDs, err := s.repos.Badge.EarnedIDs(ctx, s.db, userID)
	if err != nil {
		return err
	}

	for _, badge := range gamification.EvaluateBadges(catalog, earnedIDs, stats) {
		badge := badge
		total := -1
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := s.repos.Badge.Award(ctx, tx, &model.UserBadge{UserID: userID, BadgeID: badge.ID, EarnedAt: now}); err != nil {
				return err
			}
			if badge.XPReward <= 0 {
				return nil
			}
			badgeID := badge.ID.String()
			sourceType := "badge"
			t, err := s.appendXP(ctx, tx, &model.XPEvent{
				UserID:      userID,
				Action:      model.ActionBadgeEarned,
				Amount:      badge.XPReward,
				SourceID:    &badgeID,
				SourceType:  &sourceType,
				Description: fmt.Sprintf("Earned badge: %s", badge.Name),
				CreatedAt:   now,
			})
			total = t
			return err
		})
		if errors.Is(err, model.ErrConflict) {
			// 並行リクエストが先に付与した
			logger.Info("Badge already awarded concurrently, skipping", slog.String("badge_id", badge.ID.String()))
			continue
		}
		if err != nil {
			return err
		}

		if total >= 0 {
			p.observeTotal(total)
		}
		p.result.BonusXP += badge.XPReward
		p.earned = append(p.earned, badge)
		p.result.BadgesEarned = append(p.result.BadgesEarned, model.NewBadgeResponse(badge))
	}
	return nil
}

// recordNotifications はレベルアップと獲得バッジの通知・フィードをまとめて1トランザクションで作成します
func (s *awardService) recordNotifications(ctx context.Context, userID uuid.UUID, now time.Time, p *awardProgress) ([]*model.Notification, error) {
	var pending []*model.Notification
	var feed []*model.FeedItem

	if p.result.LeveledUp {
		data, err := json.Marshal(model.LevelUpData{Level: p.result.NewLevel, TotalXP: p.result.NewTotalXP})
		if err != nil {
			return nil, err
		}
		pending = append(pending, &model.Notification{
			UserID:    userID,
			Type:      model.NotificationLevelUp,
			Title:     "Level Up!",
			Message:   fmt.Sprintf("Congratulations! You reached level %d.", p.result.NewLevel),
			Data:      data,
			CreatedAt: now,
		})
		feed = append(feed, &model.FeedItem{UserID: userID, ActivityType: model.NotificationLevelUp, Data: data, CreatedAt: now})
	}

	for _, badge := range p.earned {
		data, err := json.Marshal(model.BadgeEarnedData{
			BadgeID:   badge.ID,
			BadgeName: badge.Name,
			BadgeIcon: badge.Icon,
			Rarity:    badge.Rarity,
			XPReward:  badge.XPReward,
		})
		if err != nil {
			return nil, err
		}
		pending = append(pending, &model.Notification{
			UserID:    userID,
			Type:      model.NotificationBadgeEarned,
			Title:     "Badge Earned!",
			Message:   fmt.Sprintf("You earned the %s badge %s", badge.Name, badge.Icon),
			Data:      data,
			CreatedAt: now,
		})
		feed = append(feed, &model.FeedItem{UserID: userID, ActivityType: model.NotificationBadgeEarned, Data: data, CreatedAt: now})
	}

	if len(pending) == 0 {
		return nil, nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, n := range pending {
			if err := s.repos.Notification.Create(ctx, tx, n); err != nil {
				return err
			}
		}
		for _, item := range feed {
			if err := s.repos.Feed.Create(ctx, tx, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pending, nil
}

// repositoryError は永続化層の失敗をクライアント向けの AppError に変換します
func repositoryError(message string, err error) error {
	var appErr *model.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if !errors.Is(err, model.ErrRepositoryUnavailable) {
		err = fmt.Errorf("%w: %w", model.ErrRepositoryUnavailable, err)
	}
	return model.NewAppError("REPOSITORY_UNAVAILABLE", message, "", err)
}

// describeAction は台帳に残す説明文
func describeAction(action model.ActionKind, md *model.AwardMetadata) string {
	switch action {
	case model.ActionReadingSession:
		if md != nil && md.DurationMinutes != nil {
			return fmt.Sprintf("Reading session (%.0f min)", *md.DurationMinutes)
		}
		return "Reading session"
	case model.ActionBookCompleted:
		return "Completed a book"
	case model.ActionReviewWritten:
		return "Wrote a review"
	case model.ActionBookAdded:
		return "Added a book to the shelf"
	case model.ActionSocialInteraction:
		return "Social interaction"
	case model.ActionStreakBonus:
		return "Reading streak bonus"
	case model.ActionDailyQuest:
		return "Completed a daily quest"
	case model.ActionChallengeCompleted:
		return "Completed a challenge"
	case model.ActionDailyLogin:
		return "Daily login"
	default:
		return string(action)
	}
}
