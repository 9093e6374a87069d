// Package progression holds the pure gamification arithmetic: XP rewards per
// difficulty, level thresholds and the UTC day window used for completions.
// No I/O happens here; clamping helpers report whether they fired so callers
// can log the anomaly.
package progression

import (
	"time"

	"github.com/limbo/habitrpg/pkg/entity"
)

const (
	XPPerLevel = 100
	MaxLevel   = 1000
	// MaxTotalXP caps lifetime XP. A completion that would exceed it fails
	// whole, XP is never partially applied.
	MaxTotalXP = MaxLevel * XPPerLevel
	MaxStreak  = 10000
)

// XPForDifficulty maps habit difficulty to its reward. Unknown values fall
// back to the medium reward instead of failing.
func XPForDifficulty(d entity.HabitDifficulty) int {
	switch d {
	case entity.DifficultyEasy:
		return 5
	case entity.DifficultyMedium:
		return 10
	case entity.DifficultyHard:
		return 20
	default:
		return 10
	}
}

// XPRequiredForLevel returns the total XP threshold at which level starts.
// Level 1 starts at 0. Out-of-range levels are clamped; clamped reports it.
func XPRequiredForLevel(level int) (xp int, clamped bool) {
	level, clamped = clampLevel(level)
	return (level - 1) * XPPerLevel, clamped
}

// LevelFromTotalXP derives the level a given lifetime XP amounts to.
// Negative input is treated as 0; the result stays within [1, MaxLevel].
func LevelFromTotalXP(totalXP int) (level int, clamped bool) {
	if totalXP < 0 {
		totalXP = 0
		clamped = true
	}
	level = totalXP/XPPerLevel + 1
	if level > MaxLevel {
		level = MaxLevel
		clamped = true
	}
	return level, clamped
}

// XPWithinLevel is the in-level remainder, always derived fresh from totalXP.
func XPWithinLevel(totalXP, level int) int {
	threshold, _ := XPRequiredForLevel(level)
	return totalXP - threshold
}

// ClampStreak keeps streak values within [0, MaxStreak].
func ClampStreak(streak int) (clampedStreak int, clamped bool) {
	if streak < 0 {
		return 0, true
	}
	if streak > MaxStreak {
		return MaxStreak, true
	}
	return streak, false
}

func clampLevel(level int) (int, bool) {
	if level < 1 {
		return 1, true
	}
	if level > MaxLevel {
		return MaxLevel, true
	}
	return level, false
}

// DayUTC truncates a moment to the UTC midnight that opens its completion
// window [midnight, next midnight).
func DayUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
