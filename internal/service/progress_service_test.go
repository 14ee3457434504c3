package service

import (
	"bytes"
	"strconv"
	"testing"
	"time"

	"readquest/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestProgressService_GetLevel(t *testing.T) {
	t.Run("正常系: XPのないユーザーはレベル1", func(t *testing.T) {
		svc := NewProgressService(setupTestDB(t), NewGormRepositories(), newFakeClock(testNow))

		got, err := svc.GetLevel(testContext(), uuid.New())

		require.NoError(t, err)
		assert.Equal(t, &model.LevelResponse{TotalXP: 0, CurrentLevel: 1, CurrentXPInLevel: 0, XPForNextLevel: 100, XPToNextLevel: 100}, got)
	})

	t.Run("正常系: 累積XPからレベルを返す", func(t *testing.T) {
		db := setupTestDB(t)
		repos := NewGormRepositories()
		userID := uuid.New()
		_, err := repos.Level.AddXP(testContext(), db, userID, 350)
		require.NoError(t, err)
		svc := NewProgressService(db, repos, newFakeClock(testNow))

		got, err := svc.GetLevel(testContext(), userID)

		require.NoError(t, err)
		assert.Equal(t, 350, got.TotalXP)
		assert.Equal(t, 3, got.CurrentLevel)
		assert.Equal(t, 50, got.CurrentXPInLevel)
		assert.Equal(t, 250, got.XPToNextLevel)
	})
}

func TestProgressService_GetStreak(t *testing.T) {
	t.Run("正常系: ストリークのないユーザー", func(t *testing.T) {
		svc := NewProgressService(setupTestDB(t), NewGormRepositories(), newFakeClock(testNow))

		got, err := svc.GetStreak(testContext(), uuid.New())

		require.NoError(t, err)
		assert.Equal(t, 0, got.CurrentStreak)
		assert.Nil(t, got.LastReadDate)
		assert.Equal(t, 1, got.StreakFreezeAvailable)
		assert.False(t, got.ReadToday)
	})

	t.Run("正常系: 今日読んだかどうかを返す", func(t *testing.T) {
		db := setupTestDB(t)
		repos := NewGormRepositories()
		userID := uuid.New()
		today := time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)
		require.NoError(t, repos.Streak.Save(testContext(), db, &model.ReadingStreak{
			UserID: userID, CurrentStreak: 3, LongestStreak: 7, LastReadDate: &today, StreakFreezeAvailable: 2,
		}))
		clock := newFakeClock(testNow)
		svc := NewProgressService(db, repos, clock)

		got, err := svc.GetStreak(testContext(), userID)
		require.NoError(t, err)
		require.NotNil(t, got.LastReadDate)
		assert.Equal(t, "2026-10-19", *got.LastReadDate)
		assert.Equal(t, 3, got.CurrentStreak)
		assert.Equal(t, 7, got.LongestStreak)
		assert.Equal(t, 2, got.StreakFreezeAvailable)
		assert.True(t, got.ReadToday)

		clock.AddDays(1)
		got, err = svc.GetStreak(testContext(), userID)
		require.NoError(t, err)
		assert.False(t, got.ReadToday)
	})
}

func TestProgressService_ListBadges(t *testing.T) {
	db := setupTestDB(t)
	repos := NewGormRepositories()
	ctx := testContext()
	userID := uuid.New()

	welcome := model.Badge{ID: uuid.New(), Name: "Welcome Reader", Rarity: model.RarityCommon, Category: "milestone", CriteriaType: model.CriteriaAccountCreated, XPReward: 10}
	critic := model.Badge{ID: uuid.New(), Name: "Critic", Rarity: model.RarityRare, Category: "social", CriteriaType: model.CriteriaReviewsWritten, CriteriaCount: 1, XPReward: 20}
	require.NoError(t, repos.Badge.UpsertCatalog(ctx, db, []model.Badge{welcome, critic}))
	require.NoError(t, repos.Badge.Award(ctx, db, &model.UserBadge{UserID: userID, BadgeID: welcome.ID, EarnedAt: testNow}))

	svc := NewProgressService(db, repos, newFakeClock(testNow))
	got, err := svc.ListBadges(ctx, userID)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Welcome Reader", got[0].Name)
	assert.True(t, got[0].Earned)
	require.NotNil(t, got[0].EarnedAt)
	assert.True(t, got[0].EarnedAt.Equal(testNow))
	assert.Equal(t, "Critic", got[1].Name)
	assert.False(t, got[1].Earned)
	assert.Nil(t, got[1].EarnedAt)
}

func TestProgressService_ExportXPHistory(t *testing.T) {
	t.Run("正常系: 台帳をxlsxに書き出し、合計行をつける", func(t *testing.T) {
		db := setupTestDB(t)
		repos := NewGormRepositories()
		ctx := testContext()
		userID := uuid.New()
		bookID := "book-42"
		sourceType := "book"
		events := []*model.XPEvent{
			{UserID: userID, Action: model.ActionBookAdded, Amount: 10, Description: "Added a book to the shelf", CreatedAt: testNow.Add(-2 * time.Hour)},
			{UserID: userID, Action: model.ActionBookCompleted, Amount: 50, SourceID: &bookID, SourceType: &sourceType, Description: "Completed a book", CreatedAt: testNow.Add(-time.Hour)},
		}
		for _, ev := range events {
			require.NoError(t, repos.XPEvent.Create(ctx, db, ev))
		}
		// 他人の台帳は含まない
		require.NoError(t, repos.XPEvent.Create(ctx, db, &model.XPEvent{UserID: uuid.New(), Action: model.ActionDailyLogin, Amount: 5, CreatedAt: testNow}))

		svc := NewProgressService(db, repos, newFakeClock(testNow))
		data, err := svc.ExportXPHistory(ctx, userID)
		require.NoError(t, err)

		f, err := excelize.OpenReader(bytes.NewReader(data))
		require.NoError(t, err)
		defer f.Close()

		rows, err := f.GetRows(xpHistorySheet)
		require.NoError(t, err)
		require.Len(t, rows, 5)
		assert.Equal(t, []string{"Date", "Action", "XP", "Source Type", "Source ID", "Description"}, rows[0])
		// 新しい順
		assert.Equal(t, "book_completed", rows[1][1])
		assert.Equal(t, "50", rows[1][2])
		assert.Equal(t, "book", rows[1][3])
		assert.Equal(t, "book-42", rows[1][4])
		assert.Equal(t, "book_added", rows[2][1])
		assert.Empty(t, rows[3])
		assert.Equal(t, "Total", rows[4][0])
		assert.Equal(t, strconv.Itoa(60), rows[4][2])
	})

	t.Run("正常系: 台帳が空でもヘッダーと合計行は出す", func(t *testing.T) {
		svc := NewProgressService(setupTestDB(t), NewGormRepositories(), newFakeClock(testNow))

		data, err := svc.ExportXPHistory(testContext(), uuid.New())
		require.NoError(t, err)

		f, err := excelize.OpenReader(bytes.NewReader(data))
		require.NoError(t, err)
		defer f.Close()
		total, err := f.GetCellValue(xpHistorySheet, "C3")
		require.NoError(t, err)
		assert.Equal(t, "0", total)
	})
}

func TestProgressService_Notifications(t *testing.T) {
	db := setupTestDB(t)
	repos := NewGormRepositories()
	ctx := testContext()
	userID := uuid.New()

	n := &model.Notification{UserID: userID, Type: model.NotificationLevelUp, Title: "Level Up!", Message: "Congratulations! You reached level 2.", CreatedAt: testNow}
	require.NoError(t, repos.Notification.Create(ctx, db, n))
	svc := NewProgressService(db, repos, newFakeClock(testNow))

	t.Run("正常系: 未読の通知を既読にする", func(t *testing.T) {
		unread, err := svc.ListNotifications(ctx, userID, true, 10)
		require.NoError(t, err)
		require.Len(t, unread, 1)

		require.NoError(t, svc.MarkNotificationRead(ctx, userID, n.ID))

		unread, err = svc.ListNotifications(ctx, userID, true, 10)
		require.NoError(t, err)
		assert.Empty(t, unread)
	})

	t.Run("異常系: 他人の通知は既読にできない", func(t *testing.T) {
		err := svc.MarkNotificationRead(ctx, uuid.New(), n.ID)

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrNotFound)
		var appErr *model.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "NOTIFICATION_NOT_FOUND", appErr.Detail.Code)
	})
}

func TestProgressService_ListFeed(t *testing.T) {
	db := setupTestDB(t)
	repos := NewGormRepositories()
	ctx := testContext()
	userID := uuid.New()
	friendID := uuid.New()
	strangerID := uuid.New()

	require.NoError(t, db.Create(&model.Friendship{ID: uuid.New(), RequesterID: userID, AddresseeID: friendID, Status: model.FriendshipAccepted}).Error)
	for i, owner := range []uuid.UUID{userID, friendID, strangerID} {
		require.NoError(t, repos.Feed.Create(ctx, db, &model.FeedItem{UserID: owner, ActivityType: model.NotificationLevelUp, CreatedAt: testNow.Add(time.Duration(i) * time.Minute)}))
	}
	svc := NewProgressService(db, repos, newFakeClock(testNow))

	got, err := svc.ListFeed(ctx, userID, 10)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, friendID, got[0].UserID)
	assert.Equal(t, userID, got[1].UserID)
}
