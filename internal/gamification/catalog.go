// internal/gamification/catalog.go
package gamification

import (
	"readquest/internal/model"

	"github.com/google/uuid"
)

// badgeNamespace はカタログのバッジIDを名前から決定的に生成するための名前空間
var badgeNamespace = uuid.MustParse("6f1c1e52-6a43-4d0b-9a1e-3f0c5d1b7a10")

// BadgeID はバッジ名から決定的なIDを返します (seed の再実行で同じIDになる)
func BadgeID(name string) uuid.UUID {
	return uuid.NewSHA1(badgeNamespace, []byte(name))
}

func badge(name, desc, icon string, rarity model.Rarity, category string, ct model.CriteriaType, count, xp int) model.Badge {
	return model.Badge{
		ID:            BadgeID(name),
		Name:          name,
		Description:   desc,
		Icon:          icon,
		Rarity:        rarity,
		Category:      category,
		CriteriaType:  ct,
		CriteriaCount: count,
		XPReward:      xp,
	}
}

// DefaultCatalog は初期投入するバッジ一覧
func DefaultCatalog() []model.Badge {
	return []model.Badge{
		badge("Welcome Reader", "Create your ReadQuest account", "👋", model.RarityCommon, "milestone", model.CriteriaAccountCreated, 0, 10),

		badge("First Chapter", "Finish your first book", "📖", model.RarityCommon, "reading", model.CriteriaBooksCompleted, 1, 25),
		badge("Bookworm", "Finish 5 books", "🐛", model.RarityRare, "reading", model.CriteriaBooksCompleted, 5, 50),
		badge("Shelf Master", "Finish 25 books", "📚", model.RarityEpic, "reading", model.CriteriaBooksCompleted, 25, 150),
		badge("Library Legend", "Finish 100 books", "🏛️", model.RarityLegendary, "reading", model.CriteriaBooksCompleted, 100, 500),

		badge("Page Turner", "Read 500 pages", "📄", model.RarityCommon, "pages", model.CriteriaPagesRead, 500, 25),
		badge("Marathon Reader", "Read 5,000 pages", "🏃", model.RarityEpic, "pages", model.CriteriaPagesRead, 5000, 150),

		badge("Critic", "Write your first review", "✍️", model.RarityCommon, "reviews", model.CriteriaReviewsWritten, 1, 15),
		badge("Top Reviewer", "Write 10 reviews", "⭐", model.RarityRare, "reviews", model.CriteriaReviewsWritten, 10, 75),

		badge("On a Roll", "Read 3 days in a row", "🔥", model.RarityCommon, "streaks", model.CriteriaStreakDays, 3, 15),
		badge("Week Warrior", "Read 7 days in a row", "🗓️", model.RarityRare, "streaks", model.CriteriaStreakDays, 7, 50),
		badge("Unstoppable", "Read 30 days in a row", "⚡", model.RarityLegendary, "streaks", model.CriteriaStreakDays, 30, 300),

		badge("Book Buddy", "Make your first friend", "🤝", model.RarityCommon, "social", model.CriteriaFriendsMade, 1, 10),
		badge("Book Club", "Make 10 friends", "👥", model.RarityRare, "social", model.CriteriaFriendsMade, 10, 50),
	}
}
