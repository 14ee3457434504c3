//go:generate mockery --name NotificationRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"

	"readquest/internal/middleware"
	"readquest/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, notification *model.Notification) error
	ListByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID, unreadOnly bool, limit int) ([]*model.Notification, error)
	// MarkRead は本人の通知だけを既読にします。該当がなければ model.ErrNotFound
	MarkRead(ctx context.Context, db *gorm.DB, userID, notificationID uuid.UUID) error
}

type gormNotificationRepository struct{}

func NewGormNotificationRepository() NotificationRepository {
	return &gormNotificationRepository{}
}

func (r *gormNotificationRepository) Create(ctx context.Context, tx *gorm.DB, notification *model.Notification) error {
	logger := middleware.GetLogger(ctx)
	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}
	if err := tx.WithContext(ctx).Create(notification).Error; err != nil {
		logger.Error("Error creating notification in DB",
			"error", err,
			"user_id", notification.UserID.String(),
			"type", notification.Type,
		)
		return wrapDBError("gormNotificationRepository.Create", err)
	}
	return nil
}

func (r *gormNotificationRepository) ListByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID, unreadOnly bool, limit int) ([]*model.Notification, error) {
	logger := middleware.GetLogger(ctx)
	var notifications []*model.Notification
	query := db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Order("created_at DESC").Find(&notifications).Error; err != nil {
		logger.Error("Error listing notifications in DB", "error", err, "user_id", userID.String())
		return nil, wrapDBError("gormNotificationRepository.ListByUser", err)
	}
	return notifications, nil
}

func (r *gormNotificationRepository) MarkRead(ctx context.Context, db *gorm.DB, userID, notificationID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)
	result := db.WithContext(ctx).Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	if result.Error != nil {
		logger.Error("Error marking notification read in DB",
			"error", result.Error,
			"user_id", userID.String(),
			"notification_id", notificationID.String(),
		)
		return wrapDBError("gormNotificationRepository.MarkRead", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
