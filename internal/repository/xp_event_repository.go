//go:generate mockery --name XPEventRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"

	"readquest/internal/middleware"
	"readquest/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// XPEventRepository はXP台帳 (追記のみ) へのアクセス
type XPEventRepository interface {
	Create(ctx context.Context, tx *gorm.DB, event *model.XPEvent) error
	ListByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID, limit int) ([]*model.XPEvent, error)
}

type gormXPEventRepository struct{}

func NewGormXPEventRepository() XPEventRepository {
	return &gormXPEventRepository{}
}

func (r *gormXPEventRepository) Create(ctx context.Context, tx *gorm.DB, event *model.XPEvent) error {
	logger := middleware.GetLogger(ctx)
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if err := tx.WithContext(ctx).Create(event).Error; err != nil {
		logger.Error("Error creating xp event in DB",
			"error", err,
			"user_id", event.UserID.String(),
			"action", string(event.Action),
			"amount", event.Amount,
		)
		return wrapDBError("gormXPEventRepository.Create", err)
	}
	return nil
}

// ListByUser は新しい順に最大 limit 件返します。limit <= 0 なら全件
func (r *gormXPEventRepository) ListByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID, limit int) ([]*model.XPEvent, error) {
	logger := middleware.GetLogger(ctx)
	var events []*model.XPEvent
	query := db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC, id")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&events).Error; err != nil {
		logger.Error("Error listing xp events in DB", "error", err, "user_id", userID.String())
		return nil, wrapDBError("gormXPEventRepository.ListByUser", err)
	}
	return events, nil
}
