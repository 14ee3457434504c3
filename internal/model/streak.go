// internal/model/streak.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// ReadingStreak はユーザーごとの連続読書日数
type ReadingStreak struct {
	UserID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"user_id"`
	CurrentStreak         int        `gorm:"not null;default:0" json:"current_streak"`
	LongestStreak         int        `gorm:"not null;default:0" json:"longest_streak"`
	LastReadDate          *time.Time `gorm:"type:date" json:"last_read_date"`
	StreakFreezeAvailable int        `gorm:"not null;default:0" json:"streak_freeze_available"`
	StreakFreezeUsedAt    *time.Time `json:"streak_freeze_used_at,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

func (ReadingStreak) TableName() string {
	return "reading_streaks"
}

// StreakResponse はストリーク取得APIのレスポンス
type StreakResponse struct {
	CurrentStreak         int     `json:"currentStreak"`
	LongestStreak         int     `json:"longestStreak"`
	LastReadDate          *string `json:"lastReadDate"` // YYYY-MM-DD
	StreakFreezeAvailable int     `json:"streakFreezeAvailable"`
	ReadToday             bool    `json:"readToday"`
}
