//go:generate mockery --name FeedRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"

	"readquest/internal/middleware"
	"readquest/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FeedRepository interface {
	Create(ctx context.Context, tx *gorm.DB, item *model.FeedItem) error
	// ListForUser は本人と承認済みフレンドのアクティビティを新しい順に返します
	ListForUser(ctx context.Context, db *gorm.DB, userID uuid.UUID, limit int) ([]*model.FeedItem, error)
}

type gormFeedRepository struct{}

func NewGormFeedRepository() FeedRepository {
	return &gormFeedRepository{}
}

func (r *gormFeedRepository) Create(ctx context.Context, tx *gorm.DB, item *model.FeedItem) error {
	logger := middleware.GetLogger(ctx)
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if err := tx.WithContext(ctx).Create(item).Error; err != nil {
		logger.Error("Error creating feed item in DB",
			"error", err,
			"user_id", item.UserID.String(),
			"activity_type", item.ActivityType,
		)
		return wrapDBError("gormFeedRepository.Create", err)
	}
	return nil
}

func (r *gormFeedRepository) ListForUser(ctx context.Context, db *gorm.DB, userID uuid.UUID, limit int) ([]*model.FeedItem, error) {
	logger := middleware.GetLogger(ctx)
	db = db.WithContext(ctx)

	friendIDs := db.Model(&model.Friendship{}).
		Select("CASE WHEN requester_id = ? THEN addressee_id ELSE requester_id END", userID).
		Where("status = ? AND (requester_id = ? OR addressee_id = ?)", model.FriendshipAccepted, userID, userID)

	var items []*model.FeedItem
	query := db.Where("user_id = ? OR user_id IN (?)", userID, friendIDs).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&items).Error; err != nil {
		logger.Error("Error listing feed in DB", "error", err, "user_id", userID.String())
		return nil, wrapDBError("gormFeedRepository.ListForUser", err)
	}
	return items, nil
}
