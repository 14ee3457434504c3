// internal/model/xp.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// ActionKind はXPが付与されるユーザー行動の種類
type ActionKind string

const (
	ActionReadingSession     ActionKind = "reading_session"
	ActionBookCompleted      ActionKind = "book_completed"
	ActionReviewWritten      ActionKind = "review_written"
	ActionBookAdded          ActionKind = "book_added"
	ActionSocialInteraction  ActionKind = "social_interaction"
	ActionStreakBonus        ActionKind = "streak_bonus"
	ActionDailyQuest         ActionKind = "daily_quest"
	ActionChallengeCompleted ActionKind = "challenge_completed"
	ActionDailyLogin         ActionKind = "daily_login"

	// バッジ報酬の台帳行にだけ使う (レート表には存在しない)
	ActionBadgeEarned ActionKind = "badge_earned"
)

// UserLevel はユーザーの累積XPとレベル
// CurrentLevel / CurrentXPInLevel は常に TotalXP から再計算する
type UserLevel struct {
	UserID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	TotalXP          int       `gorm:"not null;default:0" json:"total_xp"`
	CurrentLevel     int       `gorm:"not null;default:1" json:"current_level"`
	CurrentXPInLevel int       `gorm:"not null;default:0" json:"current_xp_in_level"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (UserLevel) TableName() string {
	return "user_levels"
}

// XPEvent はXP付与1件分の台帳行 (追記のみ)
type XPEvent struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Action      ActionKind `gorm:"type:varchar(50);not null" json:"action"`
	Amount      int        `gorm:"not null" json:"amount"`
	SourceID    *string    `json:"source_id,omitempty"`
	SourceType  *string    `gorm:"type:varchar(50)" json:"source_type,omitempty"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
}

func (XPEvent) TableName() string {
	return "xp_events"
}

// AwardMetadata は行動ごとの付加情報
type AwardMetadata struct {
	DurationMinutes *float64 `json:"durationMinutes,omitempty" validate:"omitempty,gte=0"`
	PagesRead       *int     `json:"pagesRead,omitempty" validate:"omitempty,gte=0"`
	BookID          *string  `json:"bookId,omitempty"`
	StreakDays      *int     `json:"streakDays,omitempty" validate:"omitempty,gte=0"`
}

// AwardXPRequest はXP付与APIのリクエストボディ
type AwardXPRequest struct {
	UserID     *uuid.UUID     `json:"userId,omitempty"`
	Action     ActionKind     `json:"action" validate:"required"`
	SourceID   *string        `json:"sourceId,omitempty" validate:"omitempty,max=255"`
	SourceType *string        `json:"sourceType,omitempty" validate:"omitempty,max=50"`
	Metadata   *AwardMetadata `json:"metadata,omitempty"`
}

// StreakSummary は付与レスポンスに含めるストリーク情報
type StreakSummary struct {
	CurrentStreak int  `json:"currentStreak"`
	LongestStreak int  `json:"longestStreak"`
	IsNewDay      bool `json:"isNewDay"`
	FreezeUsed    bool `json:"freezeUsed"`
}

// 付与処理の各ステップ名 (部分失敗時にどこまで反映済みかを示す)
const (
	StepXP            = "xp"
	StepStreak        = "streak"
	StepBadges        = "badges"
	StepNotifications = "notifications"
)

// AwardResult はXP付与APIのレスポンス
type AwardResult struct {
	XPAwarded           int             `json:"xpAwarded"`
	BonusXP             int             `json:"bonusXp"`
	NewTotalXP          int             `json:"newTotalXp"`
	NewLevel            int             `json:"newLevel"`
	NewCurrentXPInLevel int             `json:"newCurrentXpInLevel"`
	XPToNextLevel       int             `json:"xpToNextLevel"`
	LeveledUp           bool            `json:"leveledUp"`
	Streak              *StreakSummary  `json:"streak"`
	BadgesEarned        []BadgeResponse `json:"badgesEarned"`
	CompletedSteps      []string        `json:"completedSteps,omitempty"`
}

// LevelResponse はレベル取得APIのレスポンス
type LevelResponse struct {
	TotalXP          int `json:"totalXp"`
	CurrentLevel     int `json:"currentLevel"`
	CurrentXPInLevel int `json:"currentXpInLevel"`
	XPForNextLevel   int `json:"xpForNextLevel"`
	XPToNextLevel    int `json:"xpToNextLevel"`
}
