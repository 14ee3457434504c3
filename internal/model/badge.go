// internal/model/badge.go
package model

import (
	"time"

	"github.com/google/uuid"
)

type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// CriteriaType はバッジの獲得条件の種類
type CriteriaType string

const (
	CriteriaBooksCompleted CriteriaType = "books_completed"
	CriteriaPagesRead      CriteriaType = "pages_read"
	CriteriaReviewsWritten CriteriaType = "reviews_written"
	CriteriaStreakDays     CriteriaType = "streak_days"
	CriteriaFriendsMade    CriteriaType = "friends_made"
	CriteriaAccountCreated CriteriaType = "account_created"
)

// Badge はバッジのカタログ定義 (実行時は読み取り専用)
type Badge struct {
	ID            uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string       `gorm:"not null;uniqueIndex" json:"name"`
	Description   string       `json:"description"`
	Icon          string       `json:"icon"`
	Rarity        Rarity       `gorm:"type:varchar(20);not null;default:common" json:"rarity"`
	Category      string       `gorm:"type:varchar(50);not null" json:"category"`
	CriteriaType  CriteriaType `gorm:"type:varchar(50);not null" json:"criteria_type"`
	CriteriaCount int          `gorm:"not null;default:0" json:"criteria_count"`
	XPReward      int          `gorm:"not null;default:0" json:"xp_reward"`
	CreatedAt     time.Time    `json:"created_at"`
}

func (Badge) TableName() string {
	return "badges"
}

// UserBadge はユーザーが獲得したバッジ ((user_id, badge_id) で一意)
type UserBadge struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_user_badge"`
	BadgeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_user_badge"`
	EarnedAt time.Time `gorm:"not null"`

	// 関連 (Preload用)
	Badge *Badge `gorm:"foreignKey:BadgeID;references:ID" json:"-"`
}

func (UserBadge) TableName() string {
	return "user_badges"
}

// BadgeResponse は付与レスポンスに含める獲得バッジ
type BadgeResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Icon     string    `json:"icon"`
	Rarity   Rarity    `json:"rarity"`
	XPReward int       `json:"xpReward"`
}

// BadgeStatusResponse はカタログ一覧 (獲得状況つき)
type BadgeStatusResponse struct {
	ID            uuid.UUID    `json:"id"`
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	Icon          string       `json:"icon"`
	Rarity        Rarity       `json:"rarity"`
	Category      string       `json:"category"`
	CriteriaType  CriteriaType `json:"criteriaType"`
	CriteriaCount int          `json:"criteriaCount"`
	XPReward      int          `json:"xpReward"`
	Earned        bool         `json:"earned"`
	EarnedAt      *time.Time   `json:"earnedAt,omitempty"`
}

// NewBadgeResponse は Badge からレスポンスDTOを作ります
func NewBadgeResponse(b Badge) BadgeResponse {
	return BadgeResponse{
		ID:       b.ID,
		Name:     b.Name,
		Icon:     b.Icon,
		Rarity:   b.Rarity,
		XPReward: b.XPReward,
	}
}
