package service

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/habitrpg/internal/error_values"
	"github.com/limbo/habitrpg/internal/progression"
	"github.com/limbo/habitrpg/internal/repository"
	"github.com/limbo/habitrpg/pkg/entity"
)

// ProfileService serves reconciled profile reads. The stored level and
// in-level xp are caches of values always re-derivable from totalXP; on every
// read they are recomputed and, when drifted, persisted back.
type ProfileService struct {
	usersRepo  repository.UsersRepositoryI
	habitsRepo repository.HabitsRepositoryI
	logsRepo   repository.CompletionLogsRepositoryI
}

func NewProfileService(usersRepo repository.UsersRepositoryI, habitsRepo repository.HabitsRepositoryI, logsRepo repository.CompletionLogsRepositoryI) *ProfileService {
	if usersRepo == nil || habitsRepo == nil || logsRepo == nil {
		log.Fatal("provided nil repos to profileService")
	}
	return &ProfileService{
		usersRepo:  usersRepo,
		habitsRepo: habitsRepo,
		logsRepo:   logsRepo,
	}
}

func (ps *ProfileService) GetProfile(ctx context.Context, uid uuid.UUID) (*entity.UserProfile, error) {
	user, err := ps.usersRepo.FindByID(ctx, uid)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, errors.New("users repository error: " + err.Error())
	}

	totalXP := user.TotalXP
	if totalXP < 0 {
		// Indicates a prior bug or bad migration, never an expected path
		slog.Warn("user has negative total xp, clamping to 0",
			slog.String("uid", uid.String()), slog.Int("total_xp", totalXP))
		totalXP = 0
	}
	level, clamped := progression.LevelFromTotalXP(totalXP)
	if clamped {
		slog.Warn("level clamped during reconciliation", slog.String("uid", uid.String()))
	}
	xp := progression.XPWithinLevel(totalXP, level)
	if level != user.Level || xp != user.XP || totalXP != user.TotalXP {
		slog.Warn("profile drifted from total xp, reconciling",
			slog.String("uid", uid.String()),
			slog.Int("stored_level", user.Level), slog.Int("level", level),
			slog.Int("stored_xp", user.XP), slog.Int("xp", xp))
		if err := ps.usersRepo.UpdateProgress(ctx, uid, level, xp, totalXP); err != nil {
			return nil, errors.New("persisting reconciled progress error: " + err.Error())
		}
	}

	habits, err := ps.habitsRepo.GetActiveByUserID(ctx, uid, MaxActiveHabits, 0)
	if err != nil {
		return nil, errors.New("habits repository error: " + err.Error())
	}
	totalCompletions, err := ps.logsRepo.CountByUserID(ctx, uid)
	if err != nil {
		return nil, errors.New("completion logs repository error: " + err.Error())
	}

	longestStreak := 0
	currentActiveStreaks := 0
	for _, habit := range habits {
		if habit.BestStreak > longestStreak {
			longestStreak = habit.BestStreak
		}
		if habit.CurrentStreak > 0 {
			currentActiveStreaks++
		}
	}

	currentThreshold, _ := progression.XPRequiredForLevel(level)
	nextThreshold, _ := progression.XPRequiredForLevel(level + 1)
	return &entity.UserProfile{
		ID:                     user.ID,
		Username:               user.Username,
		Email:                  user.Email,
		Level:                  level,
		XP:                     xp,
		TotalXP:                totalXP,
		XPToNextLevel:          max(0, nextThreshold-totalXP),
		XPProgress:             max(0, totalXP-currentThreshold),
		XPRequiredForNextLevel: nextThreshold - currentThreshold,
		ActiveHabitsCount:      len(habits),
		TotalCompletions:       totalCompletions,
		LongestStreak:          longestStreak,
		CurrentActiveStreaks:   currentActiveStreaks,
		CreatedAt:              user.CreatedAt,
	}, nil
}

func (ps *ProfileService) GetStats(ctx context.Context, uid uuid.UUID, days int) (*entity.UserStats, error) {
	if days < 1 || days > 365 {
		return nil, errorvalues.ErrInvalidInput
	}
	if _, err := ps.usersRepo.FindByID(ctx, uid); err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, errors.New("users repository error: " + err.Error())
	}

	today := progression.DayUTC(time.Now())
	from := today.AddDate(0, 0, -(days - 1))
	completions, err := ps.logsRepo.GetDaysByUserAndRange(ctx, uid, from, today)
	if err != nil {
		return nil, errors.New("completion logs repository error: " + err.Error())
	}
	activeHabits, err := ps.habitsRepo.CountActiveByUserID(ctx, uid)
	if err != nil {
		return nil, errors.New("habits repository error: " + err.Error())
	}

	byDay := make(map[string]int, days)
	for day := from; !day.After(today); day = day.AddDate(0, 0, 1) {
		byDay[day.Format("2006-01-02")] = 0
	}
	for _, day := range completions {
		byDay[progression.DayUTC(day).Format("2006-01-02")]++
	}

	currentStreak := 0
	// A streak is current if it reaches today or ended yesterday
	for day := today; !day.Before(from); day = day.AddDate(0, 0, -1) {
		if byDay[day.Format("2006-01-02")] > 0 {
			currentStreak++
			continue
		}
		if day.Equal(today) {
			continue
		}
		break
	}

	longest := 0
	run := 0
	for day := from; !day.After(today); day = day.AddDate(0, 0, 1) {
		if byDay[day.Format("2006-01-02")] > 0 {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}

	rate := 0.0
	if activeHabits > 0 {
		rate = math.Round(float64(len(completions))/float64(days*activeHabits)*1000) / 10
	}
	return &entity.UserStats{
		TotalCompletions:         len(completions),
		CompletionRate:           rate,
		CurrentStreak:            currentStreak,
		LongestStreakInPeriod:    longest,
		AverageCompletionsPerDay: math.Round(float64(len(completions))/float64(days)*10) / 10,
		DailyCompletions:         byDay,
		PeriodStart:              from,
		PeriodEnd:                today,
	}, nil
}
