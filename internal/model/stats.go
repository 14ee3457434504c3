// internal/model/stats.go
package model

// UserStats はバッジ判定に使う集計値
type UserStats struct {
	BooksCompleted int
	PagesRead      int
	ReviewsWritten int
	FriendsMade    int
	// max(current_streak, longest_streak)
	StreakDays int
}
