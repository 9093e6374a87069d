package entity

import (
	"time"

	"github.com/google/uuid"
)

type HabitFrequency string

const (
	FrequencyDaily  HabitFrequency = "daily"
	FrequencyWeekly HabitFrequency = "weekly"
)

type HabitDifficulty string

const (
	DifficultyEasy   HabitDifficulty = "easy"
	DifficultyMedium HabitDifficulty = "medium"
	DifficultyHard   HabitDifficulty = "hard"
)

type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	Level        int
	XP           int
	TotalXP      int
	CreatedAt    time.Time
}

type Habit struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"uid"`
	Title           string          `json:"title"`
	Description     string          `json:"desc"`
	Frequency       HabitFrequency  `json:"frequency"`
	Difficulty      HabitDifficulty `json:"difficulty"`
	CurrentStreak   int             `json:"current_streak"`
	BestStreak      int             `json:"best_streak"`
	LastCompletedAt *time.Time      `json:"last_completed_at,omitempty"`
	IsActive        bool            `json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type CompletionLog struct {
	ID          int64
	HabitID     uuid.UUID
	CompletedAt time.Time
}

// HabitView is a habit enriched with the eligibility flag for today.
type HabitView struct {
	Habit
	CanCompleteToday bool `json:"can_complete_today"`
}

// GameReward describes the outcome of one habit completion.
type GameReward struct {
	Success    bool       `json:"success"`
	Message    string     `json:"message"`
	XPGained   int        `json:"xp_gained"`
	LeveledUp  bool       `json:"leveled_up"`
	NewLevel   int        `json:"new_level"`
	NewXP      int        `json:"new_xp"`
	NewTotalXP int        `json:"new_total_xp"`
	NewStreak  int        `json:"new_streak"`
	Habit      *HabitView `json:"habit"`
}

// UserProfile is the reconciled profile view served by GET /user/profile.
type UserProfile struct {
	ID                     uuid.UUID `json:"id"`
	Username               string    `json:"username"`
	Email                  string    `json:"email"`
	Level                  int       `json:"level"`
	XP                     int       `json:"xp"`
	TotalXP                int       `json:"total_xp"`
	XPToNextLevel          int       `json:"xp_to_next_level"`
	XPProgress             int       `json:"xp_progress"`
	XPRequiredForNextLevel int       `json:"xp_required_for_next_level"`
	ActiveHabitsCount      int       `json:"active_habits_count"`
	TotalCompletions       int       `json:"total_completions"`
	LongestStreak          int       `json:"longest_streak"`
	CurrentActiveStreaks   int       `json:"current_active_streaks"`
	CreatedAt              time.Time `json:"created_at"`
}

// UserStats aggregates completions over a trailing period of days.
type UserStats struct {
	TotalCompletions         int            `json:"total_completions"`
	CompletionRate           float64        `json:"completion_rate"`
	CurrentStreak            int            `json:"current_streak"`
	LongestStreakInPeriod    int            `json:"longest_streak_in_period"`
	AverageCompletionsPerDay float64        `json:"average_completions_per_day"`
	DailyCompletions         map[string]int `json:"daily_completions"`
	PeriodStart              time.Time      `json:"period_start"`
	PeriodEnd                time.Time      `json:"period_end"`
}
