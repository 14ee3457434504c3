package repository

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"readquest/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupTestDB はテストごとに独立したインメモリSQLiteを用意します
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := NewDB("file::memory:", logger)
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	return db
}

func TestLevelRepository(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormLevelRepository()
	userID := uuid.New()

	t.Run("異常系: 行がなければ NotFound", func(t *testing.T) {
		_, err := repo.FindByUserID(ctx, db, userID)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("正常系: 初回の加算で行を作成し、以降は加算される", func(t *testing.T) {
		lvl, err := repo.AddXP(ctx, db, userID, 95)
		require.NoError(t, err)
		assert.Equal(t, 95, lvl.TotalXP)
		assert.Equal(t, 1, lvl.CurrentLevel)

		lvl, err = repo.AddXP(ctx, db, userID, 50)
		require.NoError(t, err)
		assert.Equal(t, 145, lvl.TotalXP)
	})

	t.Run("正常系: レベルの更新", func(t *testing.T) {
		require.NoError(t, repo.UpdateLevel(ctx, db, userID, 2, 45))
		lvl, err := repo.FindByUserID(ctx, db, userID)
		require.NoError(t, err)
		assert.Equal(t, 2, lvl.CurrentLevel)
		assert.Equal(t, 45, lvl.CurrentXPInLevel)
	})

	t.Run("異常系: 存在しないユーザーのレベル更新", func(t *testing.T) {
		err := repo.UpdateLevel(ctx, db, uuid.New(), 2, 0)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("正常系: トランザクションのロールバックで加算も取り消される", func(t *testing.T) {
		other := uuid.New()
		err := db.Transaction(func(tx *gorm.DB) error {
			if _, err := repo.AddXP(ctx, tx, other, 10); err != nil {
				return err
			}
			return assert.AnError
		})
		require.ErrorIs(t, err, assert.AnError)
		_, err = repo.FindByUserID(ctx, db, other)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestXPEventRepository(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormXPEventRepository()
	userID := uuid.New()
	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	for i, action := range []model.ActionKind{model.ActionBookAdded, model.ActionReadingSession, model.ActionBookCompleted} {
		ev := &model.XPEvent{UserID: userID, Action: action, Amount: 10 * (i + 1), CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, repo.Create(ctx, db, ev))
		assert.NotEqual(t, uuid.Nil, ev.ID)
	}
	require.NoError(t, repo.Create(ctx, db, &model.XPEvent{UserID: uuid.New(), Action: model.ActionDailyLogin, Amount: 5}))

	events, err := repo.ListByUser(ctx, db, userID, 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, model.ActionBookCompleted, events[0].Action)
	assert.Equal(t, model.ActionReadingSession, events[1].Action)

	all, err := repo.ListByUser(ctx, db, userID, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestStreakRepository(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormStreakRepository()
	userID := uuid.New()
	day := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)

	_, err := repo.FindForUpdate(ctx, db, userID)
	require.ErrorIs(t, err, model.ErrNotFound)

	streak := &model.ReadingStreak{UserID: userID, CurrentStreak: 1, LongestStreak: 1, LastReadDate: &day, StreakFreezeAvailable: 1}
	require.NoError(t, repo.Save(ctx, db, streak))

	next := day.AddDate(0, 0, 1)
	err = db.Transaction(func(tx *gorm.DB) error {
		s, err := repo.FindForUpdate(ctx, tx, userID)
		if err != nil {
			return err
		}
		s.CurrentStreak = 2
		s.LongestStreak = 2
		s.LastReadDate = &next
		return repo.Save(ctx, tx, s)
	})
	require.NoError(t, err)

	got, err := repo.FindByUserID(ctx, db, userID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.CurrentStreak)
	assert.Equal(t, 2, got.LongestStreak)
	assert.Equal(t, 1, got.StreakFreezeAvailable)
	require.NotNil(t, got.LastReadDate)
	assert.True(t, next.Equal(got.LastReadDate.UTC()))
}

func TestBadgeRepository(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormBadgeRepository()
	userID := uuid.New()

	catalog := []model.Badge{
		{ID: uuid.New(), Name: "Bookworm", Category: "reading", CriteriaType: model.CriteriaBooksCompleted, CriteriaCount: 5, XPReward: 50, Rarity: model.RarityRare},
		{ID: uuid.New(), Name: "First Chapter", Category: "reading", CriteriaType: model.CriteriaBooksCompleted, CriteriaCount: 1, XPReward: 25, Rarity: model.RarityCommon},
	}
	require.NoError(t, repo.UpsertCatalog(ctx, db, catalog))

	// 再投入は更新になる
	catalog[0].XPReward = 60
	require.NoError(t, repo.UpsertCatalog(ctx, db, catalog))

	listed, err := repo.ListCatalog(ctx, db)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "First Chapter", listed[0].Name)
	assert.Equal(t, 60, listed[1].XPReward)

	t.Run("正常系: 獲得記録", func(t *testing.T) {
		require.NoError(t, repo.Award(ctx, db, &model.UserBadge{UserID: userID, BadgeID: catalog[1].ID, EarnedAt: time.Now()}))

		ids, err := repo.EarnedIDs(ctx, db, userID)
		require.NoError(t, err)
		assert.Equal(t, map[uuid.UUID]bool{catalog[1].ID: true}, ids)

		earned, err := repo.ListEarned(ctx, db, userID)
		require.NoError(t, err)
		require.Len(t, earned, 1)
		require.NotNil(t, earned[0].Badge)
		assert.Equal(t, "First Chapter", earned[0].Badge.Name)
	})

	t.Run("異常系: 同じバッジの二重獲得は Conflict", func(t *testing.T) {
		err := repo.Award(ctx, db, &model.UserBadge{UserID: userID, BadgeID: catalog[1].ID, EarnedAt: time.Now()})
		assert.ErrorIs(t, err, model.ErrConflict)

		ids, err := repo.EarnedIDs(ctx, db, userID)
		require.NoError(t, err)
		assert.Len(t, ids, 1)
	})
}

func TestNotificationRepository(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormNotificationRepository()
	userID := uuid.New()

	data, _ := json.Marshal(model.LevelUpData{Level: 2, TotalXP: 145})
	n1 := &model.Notification{UserID: userID, Type: model.NotificationLevelUp, Title: "Level Up!", Data: data}
	n2 := &model.Notification{UserID: userID, Type: model.NotificationBadgeEarned, Title: "Badge Earned!"}
	require.NoError(t, repo.Create(ctx, db, n1))
	require.NoError(t, repo.Create(ctx, db, n2))

	t.Run("異常系: 他人の通知は既読にできない", func(t *testing.T) {
		err := repo.MarkRead(ctx, db, uuid.New(), n1.ID)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("正常系: 既読にすると未読一覧から消える", func(t *testing.T) {
		require.NoError(t, repo.MarkRead(ctx, db, userID, n1.ID))

		unread, err := repo.ListByUser(ctx, db, userID, true, 10)
		require.NoError(t, err)
		require.Len(t, unread, 1)
		assert.Equal(t, n2.ID, unread[0].ID)

		all, err := repo.ListByUser(ctx, db, userID, false, 10)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("正常系: data のJSONが保持される", func(t *testing.T) {
		all, err := repo.ListByUser(ctx, db, userID, false, 10)
		require.NoError(t, err)
		for _, n := range all {
			if n.ID == n1.ID {
				var got model.LevelUpData
				require.NoError(t, json.Unmarshal(n.Data, &got))
				assert.Equal(t, 2, got.Level)
			}
		}
	})
}

func TestFeedRepository(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormFeedRepository()
	me, friend, pending, stranger := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	require.NoError(t, db.Create(&[]model.Friendship{
		{ID: uuid.New(), RequesterID: friend, AddresseeID: me, Status: model.FriendshipAccepted},
		{ID: uuid.New(), RequesterID: me, AddresseeID: pending, Status: model.FriendshipPending},
	}).Error)

	base := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	for i, uid := range []uuid.UUID{me, friend, pending, stranger} {
		require.NoError(t, repo.Create(ctx, db, &model.FeedItem{UserID: uid, ActivityType: model.NotificationLevelUp, CreatedAt: base.Add(time.Duration(i) * time.Minute)}))
	}

	items, err := repo.ListForUser(ctx, db, me, 10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, friend, items[0].UserID)
	assert.Equal(t, me, items[1].UserID)
}

func TestStatsRepository(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormStatsRepository()
	userID := uuid.New()

	t.Run("正常系: 何もなければすべて0", func(t *testing.T) {
		stats, err := repo.GetUserStats(ctx, db, userID)
		require.NoError(t, err)
		assert.Equal(t, model.UserStats{}, stats)
	})

	require.NoError(t, db.Create(&[]model.UserBook{
		{ID: uuid.New(), UserID: userID, BookID: "b1", Status: model.BookStatusCompleted, PagesRead: 300},
		{ID: uuid.New(), UserID: userID, BookID: "b2", Status: model.BookStatusCompleted, PagesRead: 200},
		{ID: uuid.New(), UserID: userID, BookID: "b3", Status: model.BookStatusReading, PagesRead: 40},
		{ID: uuid.New(), UserID: uuid.New(), BookID: "b1", Status: model.BookStatusCompleted, PagesRead: 999},
	}).Error)
	require.NoError(t, db.Create(&model.BookReview{ID: uuid.New(), UserID: userID, BookID: "b1", Rating: 5}).Error)
	require.NoError(t, db.Create(&[]model.Friendship{
		{ID: uuid.New(), RequesterID: userID, AddresseeID: uuid.New(), Status: model.FriendshipAccepted},
		{ID: uuid.New(), RequesterID: uuid.New(), AddresseeID: userID, Status: model.FriendshipAccepted},
		{ID: uuid.New(), RequesterID: uuid.New(), AddresseeID: userID, Status: model.FriendshipPending},
	}).Error)
	require.NoError(t, NewGormStreakRepository().Save(ctx, db, &model.ReadingStreak{UserID: userID, CurrentStreak: 2, LongestStreak: 8}))

	t.Run("正常系: 集計", func(t *testing.T) {
		stats, err := repo.GetUserStats(ctx, db, userID)
		require.NoError(t, err)
		assert.Equal(t, model.UserStats{BooksCompleted: 2, PagesRead: 540, ReviewsWritten: 1, FriendsMade: 2, StreakDays: 8}, stats)
	})
}

func TestProfileRepository(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormProfileRepository()
	p := model.Profile{ID: uuid.New(), DisplayName: "Hanako", Email: "hanako@example.com", EmailNotifications: true}
	require.NoError(t, db.Create(&p).Error)

	got, err := repo.FindByID(ctx, db, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "hanako@example.com", got.Email)
	assert.True(t, got.EmailNotifications)

	_, err = repo.FindByID(ctx, db, uuid.New())
	assert.ErrorIs(t, err, model.ErrNotFound)
}
