//go:generate mockery --name StreakRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"

	"readquest/internal/middleware"
	"readquest/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StreakRepository interface {
	FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.ReadingStreak, error)
	// FindForUpdate は SELECT ... FOR UPDATE で行ロックを取って読みます。行がなければ ErrNotFound
	FindForUpdate(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*model.ReadingStreak, error)
	// Save は user_id をキーに作成または全カラム更新します
	Save(ctx context.Context, tx *gorm.DB, streak *model.ReadingStreak) error
}

type gormStreakRepository struct{}

func NewGormStreakRepository() StreakRepository {
	return &gormStreakRepository{}
}

func (r *gormStreakRepository) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.ReadingStreak, error) {
	return r.find(ctx, db.WithContext(ctx), userID, "gormStreakRepository.FindByUserID")
}

func (r *gormStreakRepository) FindForUpdate(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*model.ReadingStreak, error) {
	// SQLiteドライバでは FOR UPDATE は出力されない (DB全体が直列)
	locked := tx.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
	return r.find(ctx, locked, userID, "gormStreakRepository.FindForUpdate")
}

func (r *gormStreakRepository) find(ctx context.Context, db *gorm.DB, userID uuid.UUID, op string) (*model.ReadingStreak, error) {
	logger := middleware.GetLogger(ctx)
	var streak model.ReadingStreak
	result := db.Where("user_id = ?", userID).First(&streak)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding reading streak in DB", "error", result.Error, "user_id", userID.String())
		return nil, wrapDBError(op, result.Error)
	}
	return &streak, nil
}

func (r *gormStreakRepository) Save(ctx context.Context, tx *gorm.DB, streak *model.ReadingStreak) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"current_streak", "longest_streak", "last_read_date", "streak_freeze_available", "streak_freeze_used_at", "updated_at"}),
	}).Create(streak)
	if result.Error != nil {
		logger.Error("Error saving reading streak in DB",
			"error", result.Error,
			"user_id", streak.UserID.String(),
			"current_streak", streak.CurrentStreak,
		)
		return wrapDBError("gormStreakRepository.Save", result.Error)
	}
	return nil
}
