// internal/model/library.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// 以下は集計・表示のためだけに読むテーブル (書き込みはフロントエンド側)

const (
	BookStatusWantToRead = "want_to_read"
	BookStatusReading    = "reading"
	BookStatusCompleted  = "completed"

	FriendshipPending  = "pending"
	FriendshipAccepted = "accepted"
)

// Profile はユーザープロフィール
type Profile struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DisplayName        string    `json:"display_name"`
	Email              string    `json:"-"`
	Role               string    `gorm:"type:varchar(20);default:student" json:"role"`
	EmailNotifications bool      `gorm:"not null;default:false" json:"-"`
	CreatedAt          time.Time `json:"created_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

// UserBook はユーザーの本棚の1冊
type UserBook struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	BookID      string    `gorm:"not null"`
	Status      string    `gorm:"type:varchar(20);not null"`
	PagesRead   int       `gorm:"not null;default:0"`
	CompletedAt *time.Time
	CreatedAt   time.Time
}

func (UserBook) TableName() string {
	return "user_books"
}

type BookReview struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	BookID    string    `gorm:"not null"`
	Rating    int
	Content   string
	CreatedAt time.Time
}

func (BookReview) TableName() string {
	return "book_reviews"
}

type Friendship struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	RequesterID uuid.UUID `gorm:"type:uuid;not null;index"`
	AddresseeID uuid.UUID `gorm:"type:uuid;not null;index"`
	Status      string    `gorm:"type:varchar(20);not null"`
	CreatedAt   time.Time
}

func (Friendship) TableName() string {
	return "friendships"
}
