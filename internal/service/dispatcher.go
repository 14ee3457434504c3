//go:generate mockery --name NotificationDispatcher --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"errors"
	"log/slog"

	"readquest/internal/middleware"
	"readquest/internal/model"
	"readquest/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RealtimeEventNotification は WebSocket で通知を送るときのイベント名
const RealtimeEventNotification = "notification"

// Publisher は接続中のクライアントへイベントを送ります (realtime.Hub が実装)
type Publisher interface {
	Publish(userID uuid.UUID, event string, payload interface{}) int
}

// NotificationDispatcher は保存済みの通知をユーザーへ届けます。
// 配信の失敗はログに残すだけで、呼び出し元には返しません。
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, userID uuid.UUID, notifications []*model.Notification)
}

type notificationDispatcher struct {
	db          *gorm.DB
	profileRepo repository.ProfileRepository
	publisher   Publisher
	mailer      Mailer
}

// NewNotificationDispatcher は publisher / mailer が nil ならその経路を使いません
func NewNotificationDispatcher(db *gorm.DB, profileRepo repository.ProfileRepository, publisher Publisher, mailer Mailer) NotificationDispatcher {
	return &notificationDispatcher{
		db:          db,
		profileRepo: profileRepo,
		publisher:   publisher,
		mailer:      mailer,
	}
}

func (d *notificationDispatcher) Dispatch(ctx context.Context, userID uuid.UUID, notifications []*model.Notification) {
	if len(notifications) == 0 {
		return
	}
	logger := middleware.GetLogger(ctx).With(slog.String("user_id", userID.String()))

	if d.publisher != nil {
		delivered := 0
		for _, n := range notifications {
			delivered += d.publisher.Publish(userID, RealtimeEventNotification, n)
		}
		logger.Debug("Notifications pushed to realtime clients", slog.Int("count", len(notifications)), slog.Int("deliveries", delivered))
	}

	if d.mailer == nil {
		return
	}
	profile, err := d.profileRepo.FindByID(ctx, d.db, userID)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			logger.Warn("Could not load profile for email notification", slog.Any("error", err))
		}
		return
	}
	if !profile.EmailNotifications || profile.Email == "" {
		return
	}
	for _, n := range notifications {
		if err := d.mailer.Send(ctx, profile.Email, n.Title, n.Message); err != nil {
			logger.Warn("Failed to send notification email",
				slog.Any("error", err),
				slog.String("notification_id", n.ID.String()),
			)
		}
	}
}
