//go:generate mockery --name StatsRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"

	"readquest/internal/gamification"
	"readquest/internal/middleware"
	"readquest/internal/model"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// StatsRepository はバッジ判定用の集計値を読みます
type StatsRepository interface {
	GetUserStats(ctx context.Context, db *gorm.DB, userID uuid.UUID) (model.UserStats, error)
}

type gormStatsRepository struct{}

func NewGormStatsRepository() StatsRepository {
	return &gormStatsRepository{}
}

// GetUserStats は独立した集計クエリを並行に発行します。
// 同じ接続を共有するため、db にトランザクションを渡してはいけません。
func (r *gormStatsRepository) GetUserStats(ctx context.Context, db *gorm.DB, userID uuid.UUID) (model.UserStats, error) {
	logger := middleware.GetLogger(ctx)
	var (
		stats          model.UserStats
		booksCompleted int64
		pagesRead      int64
		reviewsWritten int64
		friendsMade    int64
	)

	g, gctx := errgroup.WithContext(ctx)
	q := func() *gorm.DB { return db.WithContext(gctx) }

	g.Go(func() error {
		return q().Model(&model.UserBook{}).
			Where("user_id = ? AND status = ?", userID, model.BookStatusCompleted).
			Count(&booksCompleted).Error
	})
	g.Go(func() error {
		return q().Model(&model.UserBook{}).
			Where("user_id = ?", userID).
			Select("COALESCE(SUM(pages_read), 0)").
			Scan(&pagesRead).Error
	})
	g.Go(func() error {
		return q().Model(&model.BookReview{}).
			Where("user_id = ?", userID).
			Count(&reviewsWritten).Error
	})
	g.Go(func() error {
		return q().Model(&model.Friendship{}).
			Where("status = ? AND (requester_id = ? OR addressee_id = ?)", model.FriendshipAccepted, userID, userID).
			Count(&friendsMade).Error
	})
	g.Go(func() error {
		var streak model.ReadingStreak
		result := q().Where("user_id = ?", userID).Limit(1).Find(&streak)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			stats.StreakDays = gamification.StreakDays(&streak)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Error aggregating user stats in DB", "error", err, "user_id", userID.String())
		return model.UserStats{}, wrapDBError("gormStatsRepository.GetUserStats", err)
	}

	stats.BooksCompleted = int(booksCompleted)
	stats.PagesRead = int(pagesRead)
	stats.ReviewsWritten = int(reviewsWritten)
	stats.FriendsMade = int(friendsMade)
	return stats, nil
}
