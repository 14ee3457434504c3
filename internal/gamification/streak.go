// internal/gamification/streak.go
package gamification

import (
	"time"

	"readquest/internal/model"

	"github.com/google/uuid"
)

const (
	// DefaultStreakFreezes は新規ストリーク作成時に与えるフリーズ数
	DefaultStreakFreezes = 1
	// MaxStreakFreezes はフリーズの保持上限
	MaxStreakFreezes = 3
)

// StreakTransition はストリーク更新でどの遷移が起きたか
type StreakTransition string

const (
	StreakInitialized    StreakTransition = "initialized"
	StreakUnchanged      StreakTransition = "unchanged"
	StreakContinued      StreakTransition = "continued"
	StreakFreezeConsumed StreakTransition = "freeze_consumed"
	StreakReset          StreakTransition = "reset"
)

// StreakResult はストリーク更新の結果
type StreakResult struct {
	Transition StreakTransition
	IsNewDay   bool
}

// FreezeUsed はフリーズを消費したかどうか
func (r StreakResult) FreezeUsed() bool {
	return r.Transition == StreakFreezeConsumed
}

// AdvanceStreak は today (暦日) に読書したものとしてストリークを進めます。
// current が nil の場合は新規作成します。current は変更せず、更新後の値を返します。
// now はフリーズ使用時刻の記録に使います。
func AdvanceStreak(current *model.ReadingStreak, userID uuid.UUID, today, now time.Time) (*model.ReadingStreak, StreakResult) {
	today = DateOf(today)

	if current == nil {
		return &model.ReadingStreak{
			UserID:                userID,
			CurrentStreak:         1,
			LongestStreak:         1,
			LastReadDate:          &today,
			StreakFreezeAvailable: DefaultStreakFreezes,
		}, StreakResult{Transition: StreakInitialized, IsNewDay: true}
	}

	next := *current
	if next.LastReadDate != nil {
		last := DateOf(*next.LastReadDate)
		// 同じ日 (または時計のずれで未来日付) は何もしない
		if !last.Before(today) {
			return &next, StreakResult{Transition: StreakUnchanged, IsNewDay: false}
		}
		if last.AddDate(0, 0, 1).Equal(today) {
			next.CurrentStreak++
			return finishStreak(&next, today, StreakContinued)
		}
	}

	// 2日以上空いた、または最終読書日が未記録
	if next.StreakFreezeAvailable > 0 {
		next.CurrentStreak++
		next.StreakFreezeAvailable--
		usedAt := now
		next.StreakFreezeUsedAt = &usedAt
		return finishStreak(&next, today, StreakFreezeConsumed)
	}

	next.CurrentStreak = 1
	return finishStreak(&next, today, StreakReset)
}

func finishStreak(s *model.ReadingStreak, today time.Time, transition StreakTransition) (*model.ReadingStreak, StreakResult) {
	s.LastReadDate = &today
	if s.CurrentStreak > s.LongestStreak {
		s.LongestStreak = s.CurrentStreak
	}
	return s, StreakResult{Transition: transition, IsNewDay: true}
}
