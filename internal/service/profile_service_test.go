package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/habitrpg/internal/error_values"
	"github.com/limbo/habitrpg/internal/progression"
	"github.com/limbo/habitrpg/internal/service"
	"github.com/limbo/habitrpg/pkg/entity"
	"github.com/stretchr/testify/assert"
)

func profileUser(level, xp, totalXP int) *entity.User {
	return &entity.User{
		ID:        uuid.New(),
		Username:  "test_user",
		Email:     "test@example.com",
		Level:     level,
		XP:        xp,
		TotalXP:   totalXP,
		CreatedAt: time.Now(),
	}
}

func TestGetProfileReconciliation(t *testing.T) {
	ctx := context.Background()
	t.Run("stale level is recomputed and persisted", func(t *testing.T) {
		usersRepo := &usersRepoMock{user: profileUser(5, 0, 1050)}
		ps := service.NewProfileService(usersRepo, &habitsRepoMock{}, &logsRepoMock{})
		profile, err := ps.GetProfile(ctx, usersRepo.user.ID)
		assert.NoError(t, err)
		assert.Equal(t, 11, profile.Level)
		assert.Equal(t, 50, profile.XP)
		assert.Equal(t, 1050, profile.TotalXP)
		assert.True(t, usersRepo.progressCalled)
		assert.Equal(t, 11, usersRepo.savedLevel)
		assert.Equal(t, 50, usersRepo.savedXP)
		assert.Equal(t, 1050, usersRepo.savedTotalXP)
	})
	t.Run("negative total xp is clamped and persisted", func(t *testing.T) {
		usersRepo := &usersRepoMock{user: profileUser(3, 20, -40)}
		ps := service.NewProfileService(usersRepo, &habitsRepoMock{}, &logsRepoMock{})
		profile, err := ps.GetProfile(ctx, usersRepo.user.ID)
		assert.NoError(t, err)
		assert.Equal(t, 1, profile.Level)
		assert.Equal(t, 0, profile.XP)
		assert.Equal(t, 0, profile.TotalXP)
		assert.True(t, usersRepo.progressCalled)
		assert.Equal(t, 1, usersRepo.savedLevel)
		assert.Equal(t, 0, usersRepo.savedTotalXP)
	})
	t.Run("consistent profile is left alone", func(t *testing.T) {
		usersRepo := &usersRepoMock{user: profileUser(2, 50, 150)}
		ps := service.NewProfileService(usersRepo, &habitsRepoMock{}, &logsRepoMock{})
		profile, err := ps.GetProfile(ctx, usersRepo.user.ID)
		assert.NoError(t, err)
		assert.Equal(t, 2, profile.Level)
		assert.False(t, usersRepo.progressCalled)
	})
	t.Run("unknown user", func(t *testing.T) {
		usersRepo := &usersRepoMock{findErr: errorvalues.ErrUserNotFound}
		ps := service.NewProfileService(usersRepo, &habitsRepoMock{}, &logsRepoMock{})
		_, err := ps.GetProfile(ctx, uuid.New())
		assert.ErrorIs(t, err, errorvalues.ErrUserNotFound)
	})
}

func TestGetProfileAggregates(t *testing.T) {
	ctx := context.Background()
	usersRepo := &usersRepoMock{user: profileUser(2, 50, 150)}
	habits := []*entity.Habit{
		{ID: uuid.New(), CurrentStreak: 3, BestStreak: 9, IsActive: true},
		{ID: uuid.New(), CurrentStreak: 0, BestStreak: 4, IsActive: true},
	}
	ps := service.NewProfileService(usersRepo, &habitsRepoMock{habits: habits}, &logsRepoMock{count: 25})
	profile, err := ps.GetProfile(ctx, usersRepo.user.ID)
	assert.NoError(t, err)
	assert.Equal(t, 2, profile.ActiveHabitsCount)
	assert.Equal(t, 25, profile.TotalCompletions)
	assert.Equal(t, 9, profile.LongestStreak)
	assert.Equal(t, 1, profile.CurrentActiveStreaks)
	assert.Equal(t, 50, profile.XPProgress)
	assert.Equal(t, 50, profile.XPToNextLevel)
	assert.Equal(t, progression.XPPerLevel, profile.XPRequiredForNextLevel)
}

func TestGetStats(t *testing.T) {
	ctx := context.Background()
	usersRepo := &usersRepoMock{user: profileUser(1, 0, 0)}
	today := progression.DayUTC(time.Now())
	t.Run("days bounds", func(t *testing.T) {
		ps := service.NewProfileService(usersRepo, &habitsRepoMock{}, &logsRepoMock{})
		_, err := ps.GetStats(ctx, usersRepo.user.ID, 0)
		assert.ErrorIs(t, err, errorvalues.ErrInvalidInput)
		_, err = ps.GetStats(ctx, usersRepo.user.ID, 366)
		assert.ErrorIs(t, err, errorvalues.ErrInvalidInput)
	})
	t.Run("aggregates over the period", func(t *testing.T) {
		logs := &logsRepoMock{days: []time.Time{
			today,
			today.AddDate(0, 0, -1),
			today.AddDate(0, 0, -1),
			today.AddDate(0, 0, -4),
		}}
		ps := service.NewProfileService(usersRepo, &habitsRepoMock{count: 2}, logs)
		stats, err := ps.GetStats(ctx, usersRepo.user.ID, 7)
		assert.NoError(t, err)
		assert.Equal(t, 4, stats.TotalCompletions)
		assert.Equal(t, 2, stats.CurrentStreak)
		assert.Equal(t, 2, stats.LongestStreakInPeriod)
		assert.Equal(t, 2, stats.DailyCompletions[today.AddDate(0, 0, -1).Format("2006-01-02")])
		assert.Equal(t, 0, stats.DailyCompletions[today.AddDate(0, 0, -2).Format("2006-01-02")])
		assert.Len(t, stats.DailyCompletions, 7)
		assert.InDelta(t, 28.6, stats.CompletionRate, 0.01)
		assert.InDelta(t, 0.6, stats.AverageCompletionsPerDay, 0.01)
	})
	t.Run("streak that ended yesterday still counts", func(t *testing.T) {
		logs := &logsRepoMock{days: []time.Time{
			today.AddDate(0, 0, -1),
			today.AddDate(0, 0, -2),
		}}
		ps := service.NewProfileService(usersRepo, &habitsRepoMock{count: 1}, logs)
		stats, err := ps.GetStats(ctx, usersRepo.user.ID, 7)
		assert.NoError(t, err)
		assert.Equal(t, 2, stats.CurrentStreak)
	})
}
