package gamification

import (
	"testing"
	"time"

	"readquest/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAdvanceStreak(t *testing.T) {
	userID := uuid.New()
	today := date(2026, time.October, 19)
	now := today.Add(15 * time.Hour)

	tests := []struct {
		name           string
		current        *model.ReadingStreak
		wantTransition StreakTransition
		wantNewDay     bool
		wantCurrent    int
		wantLongest    int
		wantFreezes    int
		wantFreezeUsed bool
	}{
		{
			name:           "正常系: 記録なしは新規作成",
			current:        nil,
			wantTransition: StreakInitialized, wantNewDay: true,
			wantCurrent: 1, wantLongest: 1, wantFreezes: DefaultStreakFreezes,
		},
		{
			name:           "正常系: 同じ日は何もしない",
			current:        &model.ReadingStreak{CurrentStreak: 4, LongestStreak: 9, LastReadDate: ptrTime(today), StreakFreezeAvailable: 1},
			wantTransition: StreakUnchanged, wantNewDay: false,
			wantCurrent: 4, wantLongest: 9, wantFreezes: 1,
		},
		{
			name:           "正常系: 前日から継続",
			current:        &model.ReadingStreak{CurrentStreak: 4, LongestStreak: 4, LastReadDate: ptrTime(today.AddDate(0, 0, -1)), StreakFreezeAvailable: 1},
			wantTransition: StreakContinued, wantNewDay: true,
			wantCurrent: 5, wantLongest: 5, wantFreezes: 1,
		},
		{
			name:           "正常系: 継続しても最長記録未満なら最長は据え置き",
			current:        &model.ReadingStreak{CurrentStreak: 2, LongestStreak: 10, LastReadDate: ptrTime(today.AddDate(0, 0, -1))},
			wantTransition: StreakContinued, wantNewDay: true,
			wantCurrent: 3, wantLongest: 10, wantFreezes: 0,
		},
		{
			name:           "正常系: 3日空いたがフリーズを消費して継続",
			current:        &model.ReadingStreak{CurrentStreak: 5, LongestStreak: 5, LastReadDate: ptrTime(today.AddDate(0, 0, -3)), StreakFreezeAvailable: 1},
			wantTransition: StreakFreezeConsumed, wantNewDay: true,
			wantCurrent: 6, wantLongest: 6, wantFreezes: 0, wantFreezeUsed: true,
		},
		{
			name:           "正常系: フリーズがなければリセット",
			current:        &model.ReadingStreak{CurrentStreak: 5, LongestStreak: 5, LastReadDate: ptrTime(today.AddDate(0, 0, -3)), StreakFreezeAvailable: 0},
			wantTransition: StreakReset, wantNewDay: true,
			wantCurrent: 1, wantLongest: 5, wantFreezes: 0,
		},
		{
			name:           "正常系: 最終読書日なしでフリーズがあれば消費",
			current:        &model.ReadingStreak{CurrentStreak: 0, LongestStreak: 0, StreakFreezeAvailable: 2},
			wantTransition: StreakFreezeConsumed, wantNewDay: true,
			wantCurrent: 1, wantLongest: 1, wantFreezes: 1, wantFreezeUsed: true,
		},
		{
			name:           "境界値: 未来日付 (時計のずれ) は同じ日と同様に扱う",
			current:        &model.ReadingStreak{CurrentStreak: 3, LongestStreak: 3, LastReadDate: ptrTime(today.AddDate(0, 0, 1)), StreakFreezeAvailable: 1},
			wantTransition: StreakUnchanged, wantNewDay: false,
			wantCurrent: 3, wantLongest: 3, wantFreezes: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var before model.ReadingStreak
			if tt.current != nil {
				before = *tt.current
			}

			next, res := AdvanceStreak(tt.current, userID, today, now)
			require.NotNil(t, next)

			assert.Equal(t, tt.wantTransition, res.Transition)
			assert.Equal(t, tt.wantNewDay, res.IsNewDay)
			assert.Equal(t, tt.wantFreezeUsed, res.FreezeUsed())
			assert.Equal(t, tt.wantCurrent, next.CurrentStreak)
			assert.Equal(t, tt.wantLongest, next.LongestStreak)
			assert.Equal(t, tt.wantFreezes, next.StreakFreezeAvailable)
			assert.GreaterOrEqual(t, next.LongestStreak, next.CurrentStreak)

			if res.IsNewDay {
				require.NotNil(t, next.LastReadDate)
				assert.True(t, today.Equal(*next.LastReadDate))
			}
			if tt.wantFreezeUsed {
				require.NotNil(t, next.StreakFreezeUsedAt)
				assert.True(t, now.Equal(*next.StreakFreezeUsedAt))
			}
			if tt.current == nil {
				assert.Equal(t, userID, next.UserID)
			} else {
				// 入力は変更しない
				assert.Equal(t, before, *tt.current)
			}
		})
	}
}

func TestAdvanceStreak_SameDayTwice(t *testing.T) {
	userID := uuid.New()
	today := date(2026, time.March, 1)

	first, res1 := AdvanceStreak(&model.ReadingStreak{UserID: userID, CurrentStreak: 2, LongestStreak: 2, LastReadDate: ptrTime(date(2026, time.February, 28))}, userID, today, today)
	second, res2 := AdvanceStreak(first, userID, today, today)

	assert.True(t, res1.IsNewDay)
	assert.False(t, res2.IsNewDay)
	assert.Equal(t, 3, first.CurrentStreak)
	assert.Equal(t, first.CurrentStreak, second.CurrentStreak)
}

func TestAdvanceStreak_IgnoresTimeOfDay(t *testing.T) {
	userID := uuid.New()
	lastRead := time.Date(2026, time.October, 18, 23, 59, 0, 0, time.UTC)
	today := time.Date(2026, time.October, 19, 0, 1, 0, 0, time.UTC)

	next, res := AdvanceStreak(&model.ReadingStreak{CurrentStreak: 1, LongestStreak: 1, LastReadDate: &lastRead}, userID, today, today)

	assert.Equal(t, StreakContinued, res.Transition)
	assert.Equal(t, 2, next.CurrentStreak)
}

func ptrTime(t time.Time) *time.Time { return &t }
