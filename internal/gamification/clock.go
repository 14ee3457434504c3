// internal/gamification/clock.go
package gamification

import "time"

// Clock は現在時刻の供給元。ストリークの日付判定はこれを通して行う
type Clock interface {
	Now() time.Time
}

// SystemClock はシステム時刻を指定タイムゾーンで返します
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now().UTC()
	}
	return time.Now().In(c.Location)
}

// ClockFunc は関数を Clock として使うためのアダプタ (テスト用)
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

// DateOf は t の暦日 (t 自身のタイムゾーンでの年月日) を UTC の0時として返します
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today は clock の現在時刻の暦日
func Today(clock Clock) time.Time {
	return DateOf(clock.Now())
}
