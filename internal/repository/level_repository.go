//go:generate mockery --name LevelRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"time"

	"readquest/internal/middleware"
	"readquest/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LevelRepository interface {
	FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.UserLevel, error)
	// AddXP は累積XPに amount を加算し、加算後の行を返します (行がなければ作成)。
	// 加算は UPDATE ... SET total_xp = total_xp + ? で行うため、tx が終わるまで行ロックを保持します。
	AddXP(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount int) (*model.UserLevel, error)
	UpdateLevel(ctx context.Context, tx *gorm.DB, userID uuid.UUID, level, xpInLevel int) error
}

type gormLevelRepository struct{}

func NewGormLevelRepository() LevelRepository {
	return &gormLevelRepository{}
}

func (r *gormLevelRepository) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.UserLevel, error) {
	logger := middleware.GetLogger(ctx)
	var lvl model.UserLevel
	result := db.WithContext(ctx).Where("user_id = ?", userID).First(&lvl)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding user level in DB", "error", result.Error, "user_id", userID.String())
		return nil, wrapDBError("gormLevelRepository.FindByUserID", result.Error)
	}
	return &lvl, nil
}

func (r *gormLevelRepository) AddXP(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount int) (*model.UserLevel, error) {
	logger := middleware.GetLogger(ctx)
	tx = tx.WithContext(ctx)

	// 初回付与ならレベル1・0XPの行を作る
	initial := model.UserLevel{UserID: userID, TotalXP: 0, CurrentLevel: 1, CurrentXPInLevel: 0}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&initial).Error; err != nil {
		logger.Error("Error ensuring user level row", "error", err, "user_id", userID.String())
		return nil, wrapDBError("gormLevelRepository.AddXP", err)
	}

	result := tx.Model(&model.UserLevel{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"total_xp":   gorm.Expr("total_xp + ?", amount),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		logger.Error("Error adding xp in DB", "error", result.Error, "user_id", userID.String(), "amount", amount)
		return nil, wrapDBError("gormLevelRepository.AddXP", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, wrapDBError("gormLevelRepository.AddXP", errors.New("user level row vanished"))
	}

	var lvl model.UserLevel
	if err := tx.Where("user_id = ?", userID).First(&lvl).Error; err != nil {
		logger.Error("Error reloading user level", "error", err, "user_id", userID.String())
		return nil, wrapDBError("gormLevelRepository.AddXP", err)
	}
	return &lvl, nil
}

func (r *gormLevelRepository) UpdateLevel(ctx context.Context, tx *gorm.DB, userID uuid.UUID, level, xpInLevel int) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Model(&model.UserLevel{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"current_level":       level,
			"current_xp_in_level": xpInLevel,
		})
	if result.Error != nil {
		logger.Error("Error updating level in DB", "error", result.Error, "user_id", userID.String())
		return wrapDBError("gormLevelRepository.UpdateLevel", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
