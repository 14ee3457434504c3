//go:generate mockery --name BadgeRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"

	"readquest/internal/middleware"
	"readquest/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BadgeRepository interface {
	// ListCatalog はバッジカタログを評価順 (条件の小さい順) に返します
	ListCatalog(ctx context.Context, db *gorm.DB) ([]model.Badge, error)
	ListEarned(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]model.UserBadge, error)
	EarnedIDs(ctx context.Context, db *gorm.DB, userID uuid.UUID) (map[uuid.UUID]bool, error)
	// Award は獲得記録を追加します。既に獲得済みなら model.ErrConflict
	Award(ctx context.Context, tx *gorm.DB, userBadge *model.UserBadge) error
	UpsertCatalog(ctx context.Context, db *gorm.DB, badges []model.Badge) error
}

type gormBadgeRepository struct{}

func NewGormBadgeRepository() BadgeRepository {
	return &gormBadgeRepository{}
}

func (r *gormBadgeRepository) ListCatalog(ctx context.Context, db *gorm.DB) ([]model.Badge, error) {
	logger := middleware.GetLogger(ctx)
	var badges []model.Badge
	if err := db.WithContext(ctx).Order("criteria_type, criteria_count, name").Find(&badges).Error; err != nil {
		logger.Error("Error listing badge catalog in DB", "error", err)
		return nil, wrapDBError("gormBadgeRepository.ListCatalog", err)
	}
	return badges, nil
}

func (r *gormBadgeRepository) ListEarned(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]model.UserBadge, error) {
	logger := middleware.GetLogger(ctx)
	var earned []model.UserBadge
	result := db.WithContext(ctx).Preload("Badge").Where("user_id = ?", userID).Order("earned_at").Find(&earned)
	if result.Error != nil {
		logger.Error("Error listing earned badges in DB", "error", result.Error, "user_id", userID.String())
		return nil, wrapDBError("gormBadgeRepository.ListEarned", result.Error)
	}
	return earned, nil
}

func (r *gormBadgeRepository) EarnedIDs(ctx context.Context, db *gorm.DB, userID uuid.UUID) (map[uuid.UUID]bool, error) {
	logger := middleware.GetLogger(ctx)
	var ids []uuid.UUID
	result := db.WithContext(ctx).Model(&model.UserBadge{}).Where("user_id = ?", userID).Pluck("badge_id", &ids)
	if result.Error != nil {
		logger.Error("Error plucking earned badge ids in DB", "error", result.Error, "user_id", userID.String())
		return nil, wrapDBError("gormBadgeRepository.EarnedIDs", result.Error)
	}
	earned := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		earned[id] = true
	}
	return earned, nil
}

func (r *gormBadgeRepository) Award(ctx context.Context, tx *gorm.DB, userBadge *model.UserBadge) error {
	logger := middleware.GetLogger(ctx)
	if userBadge.ID == uuid.Nil {
		userBadge.ID = uuid.New()
	}
	if err := tx.WithContext(ctx).Omit(clause.Associations).Create(userBadge).Error; err != nil {
		if isUniqueViolation(err) {
			logger.Warn("Badge already awarded",
				"user_id", userBadge.UserID.String(),
				"badge_id", userBadge.BadgeID.String(),
			)
			return model.ErrConflict
		}
		logger.Error("Error awarding badge in DB",
			"error", err,
			"user_id", userBadge.UserID.String(),
			"badge_id", userBadge.BadgeID.String(),
		)
		return wrapDBError("gormBadgeRepository.Award", err)
	}
	return nil
}

// UpsertCatalog は id をキーにカタログを投入・更新します (cmd/seed 用)
func (r *gormBadgeRepository) UpsertCatalog(ctx context.Context, db *gorm.DB, badges []model.Badge) error {
	logger := middleware.GetLogger(ctx)
	if len(badges) == 0 {
		return nil
	}
	result := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "description", "icon", "rarity", "category", "criteria_type", "criteria_count", "xp_reward"}),
	}).Create(&badges)
	if result.Error != nil {
		logger.Error("Error upserting badge catalog in DB", "error", result.Error, "count", len(badges))
		return wrapDBError("gormBadgeRepository.UpsertCatalog", result.Error)
	}
	return nil
}
