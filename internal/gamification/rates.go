// internal/gamification/rates.go
package gamification

import (
	"errors"
	"fmt"
	"math"

	"readquest/internal/model"
)

// ErrUnknownAction はレート表にない行動が渡されたときのエラー (呼び出し側の誤り)
var ErrUnknownAction = errors.New("unknown xp action")

const (
	readingSessionMaxMinutes = 120
	readingSessionXPPerMin   = 2
	readingSessionMinXP      = 5

	streakBonusPerDay = 5
	streakBonusMax    = 50
)

var fixedRates = map[model.ActionKind]int{
	model.ActionBookCompleted:      50,
	model.ActionReviewWritten:      25,
	model.ActionBookAdded:          10,
	model.ActionSocialInteraction:  5,
	model.ActionDailyQuest:         25,
	model.ActionChallengeCompleted: 100,
	model.ActionDailyLogin:         5,
}

// IsKnownAction はレート表に存在する行動かどうか
func IsKnownAction(action model.ActionKind) bool {
	switch action {
	case model.ActionReadingSession, model.ActionStreakBonus:
		return true
	}
	_, ok := fixedRates[action]
	return ok
}

// ComputeXP は行動とメタデータから付与XPを計算します
func ComputeXP(action model.ActionKind, md *model.AwardMetadata) (int, error) {
	switch action {
	case model.ActionReadingSession:
		var minutes float64
		if md != nil && md.DurationMinutes != nil {
			minutes = *md.DurationMinutes
		}
		return ReadingSessionXP(minutes), nil
	case model.ActionStreakBonus:
		days := 0
		if md != nil && md.StreakDays != nil {
			days = *md.StreakDays
		}
		return StreakBonusXP(days), nil
	}

	xp, ok := fixedRates[action]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	return xp, nil
}

// ReadingSessionXP は読書時間 (分) からXPを計算します。120分で頭打ち、最低5XP
func ReadingSessionXP(minutes float64) int {
	if minutes < 0 || math.IsNaN(minutes) {
		minutes = 0
	}
	minutes = math.Min(minutes, readingSessionMaxMinutes)
	xp := int(math.Floor(minutes * readingSessionXPPerMin))
	if xp < readingSessionMinXP {
		return readingSessionMinXP
	}
	return xp
}

// StreakBonusXP は連続日数に応じたボーナスXP (最大50)
func StreakBonusXP(streakDays int) int {
	if streakDays < 0 {
		streakDays = 0
	}
	bonus := streakDays * streakBonusPerDay
	if bonus > streakBonusMax {
		return streakBonusMax
	}
	return bonus
}

// AffectsStreak はストリーク更新の対象となる行動かどうか
func AffectsStreak(action model.ActionKind) bool {
	return action == model.ActionReadingSession || action == model.ActionBookCompleted
}
