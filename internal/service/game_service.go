package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/habitrpg/internal/error_values"
	"github.com/limbo/habitrpg/internal/progression"
	"github.com/limbo/habitrpg/internal/repository"
	"github.com/limbo/habitrpg/pkg/entity"
)

type GameService struct {
	gameRepo repository.GameRepositoryI
	logsRepo repository.CompletionLogsRepositoryI
}

func NewGameService(gameRepo repository.GameRepositoryI, logsRepo repository.CompletionLogsRepositoryI) *GameService {
	if gameRepo == nil || logsRepo == nil {
		log.Fatal("provided nil repos to gameService")
	}
	return &GameService{
		gameRepo: gameRepo,
		logsRepo: logsRepo,
	}
}

func (gs *GameService) CompleteHabit(ctx context.Context, userID, habitID uuid.UUID) (*entity.GameReward, error) {
	reward, err := gs.gameRepo.CompleteHabit(ctx, userID, habitID, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrHabitNotFound),
			errors.Is(err, errorvalues.ErrUserNotFound),
			errors.Is(err, errorvalues.ErrAlreadyCompleted),
			errors.Is(err, errorvalues.ErrXPLimitReached):
			return nil, err
		}
		return nil, errors.New("game repository error: " + err.Error())
	}
	if reward.LeveledUp {
		reward.Message = fmt.Sprintf("Great job! You gained %d XP and leveled up!", reward.XPGained)
	} else {
		reward.Message = fmt.Sprintf("Well done! You gained %d XP!", reward.XPGained)
	}
	return reward, nil
}

func (gs *GameService) CanCompleteToday(ctx context.Context, habitID uuid.UUID, now time.Time) bool {
	return canCompleteToday(ctx, gs.logsRepo, habitID, now)
}

// canCompleteToday reports whether no completion exists within today's UTC
// window. Fails closed: a query error reads as "cannot complete", since
// wrongly allowing a second completion is the worse failure mode.
func canCompleteToday(ctx context.Context, logsRepo repository.CompletionLogsRepositoryI, habitID uuid.UUID, now time.Time) bool {
	exists, err := logsRepo.ExistsOnDay(ctx, habitID, progression.DayUTC(now))
	if err != nil {
		slog.Error("eligibility check failed, treating as not eligible",
			slog.String("habit_id", habitID.String()),
			slog.String("error", err.Error()))
		return false
	}
	return !exists
}
