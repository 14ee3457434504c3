// internal/gamification/badges.go
package gamification

import (
	"readquest/internal/model"

	"github.com/google/uuid"
)

// Qualifies は stats がバッジの獲得条件を満たすかどうか。
// 未知の criteria_type は常に false (カタログ追加への前方互換)
func Qualifies(badge model.Badge, stats model.UserStats) bool {
	switch badge.CriteriaType {
	case model.CriteriaBooksCompleted:
		return stats.BooksCompleted >= badge.CriteriaCount
	case model.CriteriaPagesRead:
		return stats.PagesRead >= badge.CriteriaCount
	case model.CriteriaReviewsWritten:
		return stats.ReviewsWritten >= badge.CriteriaCount
	case model.CriteriaStreakDays:
		return stats.StreakDays >= badge.CriteriaCount
	case model.CriteriaFriendsMade:
		return stats.FriendsMade >= badge.CriteriaCount
	case model.CriteriaAccountCreated:
		return true
	default:
		return false
	}
}

// EvaluateBadges は未獲得のバッジのうち条件を満たすものをカタログ順に返します
func EvaluateBadges(catalog []model.Badge, alreadyEarned map[uuid.UUID]bool, stats model.UserStats) []model.Badge {
	var qualified []model.Badge
	for _, b := range catalog {
		if alreadyEarned[b.ID] {
			continue
		}
		if Qualifies(b, stats) {
			qualified = append(qualified, b)
		}
	}
	return qualified
}

// StreakDays はバッジ判定用のストリーク日数 max(current, longest)
func StreakDays(s *model.ReadingStreak) int {
	if s == nil {
		return 0
	}
	if s.LongestStreak > s.CurrentStreak {
		return s.LongestStreak
	}
	return s.CurrentStreak
}
