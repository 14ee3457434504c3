// internal/gamification/level.go
package gamification

// MaxLevel はレベルの上限。上限到達後のXPは CurrentXPInLevel に積み上がるだけ
const MaxLevel = 100

// LevelInfo は累積XPから求めたレベルとレベル内XP
type LevelInfo struct {
	Level            int
	CurrentXPInLevel int
}

// XPForLevel は level から level+1 に上がるのに必要なXP
func XPForLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return 100 * level
}

// CalculateLevel は累積XPをレベル1から順に消費してレベルを求めます。負の値は0として扱います。
func CalculateLevel(totalXP int) LevelInfo {
	remaining := totalXP
	if remaining < 0 {
		remaining = 0
	}
	level := 1
	for level < MaxLevel && remaining >= XPForLevel(level) {
		remaining -= XPForLevel(level)
		level++
	}
	return LevelInfo{Level: level, CurrentXPInLevel: remaining}
}

// TotalXPForLevel は level に到達するまでに必要な累積XP
func TotalXPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	// 100 * (1 + 2 + ... + level-1)
	return 50 * (level - 1) * level
}

// XPToNextLevel は次のレベルまでの残りXP。上限レベルでは0
func XPToNextLevel(info LevelInfo) int {
	if info.Level >= MaxLevel {
		return 0
	}
	return XPForLevel(info.Level) - info.CurrentXPInLevel
}
