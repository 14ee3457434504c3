// internal/model/notification.go
package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	NotificationLevelUp     = "level_up"
	NotificationBadgeEarned = "badge_earned"
)

// Notification はユーザーに表示する通知 (エンジンは作成のみ行う)
type Notification struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Type      string          `gorm:"type:varchar(50);not null" json:"type"`
	Title     string          `gorm:"not null" json:"title"`
	Message   string          `json:"message"`
	Data      json.RawMessage `gorm:"type:jsonb" json:"data,omitempty"`
	IsRead    bool            `gorm:"not null;default:false" json:"is_read"`
	CreatedAt time.Time       `gorm:"index" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// FeedItem はソーシャルフィードの1件
type FeedItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	ActivityType string          `gorm:"type:varchar(50);not null" json:"activity_type"`
	Data         json.RawMessage `gorm:"type:jsonb" json:"data,omitempty"`
	CreatedAt    time.Time       `gorm:"index" json:"created_at"`
}

func (FeedItem) TableName() string {
	return "activity_feed"
}

// LevelUpData は level_up 通知・フィードの data
type LevelUpData struct {
	Level   int `json:"level"`
	TotalXP int `json:"totalXp"`
}

// BadgeEarnedData は badge_earned 通知・フィードの data
type BadgeEarnedData struct {
	BadgeID   uuid.UUID `json:"badgeId"`
	BadgeName string    `json:"badgeName"`
	BadgeIcon string    `json:"badgeIcon"`
	Rarity    Rarity    `json:"rarity"`
	XPReward  int       `json:"xpReward"`
}
