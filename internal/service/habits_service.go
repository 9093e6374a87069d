package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	errorvalues "github.com/limbo/habitrpg/internal/error_values"
	"github.com/limbo/habitrpg/internal/repository"
	"github.com/limbo/habitrpg/pkg/entity"
)

type HabitsService struct {
	repo     repository.HabitsRepositoryI
	logsRepo repository.CompletionLogsRepositoryI
}

func NewHabitsService(habitsRepo repository.HabitsRepositoryI, logsRepo repository.CompletionLogsRepositoryI) *HabitsService {
	if habitsRepo == nil || logsRepo == nil {
		log.Fatal("provided nil repos to habitsService")
	}
	return &HabitsService{
		repo:     habitsRepo,
		logsRepo: logsRepo,
	}
}

func (hs *HabitsService) CreateHabit(ctx context.Context, uid uuid.UUID, req *CreateHabitRequest) (*entity.HabitView, error) {
	if req.Frequency == "" {
		req.Frequency = entity.FrequencyDaily
	}
	if req.Difficulty == "" {
		req.Difficulty = entity.DifficultyMedium
	}
	err := validate.Struct(*req)
	if err != nil {
		if validationError, ok := err.(validator.ValidationErrors); ok {
			err = errorvalues.ErrInvalidInput
			for _, fieldErr := range validationError {
				err = errors.Join(err, fieldErr)
			}
			return nil, err
		}
		return nil, errors.New("validation unexpected error: " + err.Error())
	}
	h := entity.Habit{
		UserID:      uid,
		Title:       req.Title,
		Description: req.Description,
		Frequency:   req.Frequency,
		Difficulty:  req.Difficulty,
	}
	id, err := hs.repo.Create(ctx, &h, MaxActiveHabits)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) || errors.Is(err, errorvalues.ErrHabitLimitReached) {
			return nil, err
		}
		return nil, errors.New("habits repository error: " + err.Error())
	}
	habit, err := hs.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return nil, err
		}
		return nil, errors.New("habits repository error: " + err.Error())
	}
	return &entity.HabitView{
		Habit:            *habit,
		CanCompleteToday: canCompleteToday(ctx, hs.logsRepo, habit.ID, time.Now()),
	}, nil
}

func (hs *HabitsService) GetUserHabits(ctx context.Context, uid uuid.UUID, pagination PaginationOpts) ([]*entity.HabitView, error) {
	habits, err := hs.repo.GetActiveByUserID(ctx, uid, pagination.Limit, pagination.Offset)
	if err != nil {
		return nil, errors.New("habits repository error: " + err.Error())
	}
	now := time.Now()
	views := make([]*entity.HabitView, 0, len(habits))
	for _, habit := range habits {
		views = append(views, &entity.HabitView{
			Habit:            *habit,
			CanCompleteToday: canCompleteToday(ctx, hs.logsRepo, habit.ID, now),
		})
	}
	return views, nil
}

func (hs *HabitsService) GetHabit(ctx context.Context, habitID, userID uuid.UUID) (*entity.HabitView, error) {
	habit, err := hs.ownedHabit(ctx, habitID, userID)
	if err != nil {
		return nil, err
	}
	return &entity.HabitView{
		Habit:            *habit,
		CanCompleteToday: habit.IsActive && canCompleteToday(ctx, hs.logsRepo, habit.ID, time.Now()),
	}, nil
}

func (hs *HabitsService) UpdateHabit(ctx context.Context, habitID, userID uuid.UUID, req *UpdateHabitRequest) error {
	habit, err := hs.ownedHabit(ctx, habitID, userID)
	if err != nil {
		return err
	}
	if req.Title != nil {
		habit.Title = *req.Title
	}
	if req.Description != nil {
		habit.Description = *req.Description
	}
	if req.Frequency != nil {
		habit.Frequency = *req.Frequency
	}
	if req.Difficulty != nil {
		habit.Difficulty = *req.Difficulty
	}
	err = validate.Struct(CreateHabitRequest{
		Title:       habit.Title,
		Description: habit.Description,
		Frequency:   habit.Frequency,
		Difficulty:  habit.Difficulty,
	})
	if err != nil {
		return errors.Join(errorvalues.ErrInvalidInput, err)
	}
	err = hs.repo.Update(ctx, habit)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return err
		}
		return errors.New("habits repository error: " + err.Error())
	}
	return nil
}

func (hs *HabitsService) SoftDeleteHabit(ctx context.Context, habitID, userID uuid.UUID) error {
	_, err := hs.ownedHabit(ctx, habitID, userID)
	if err != nil {
		return err
	}
	err = hs.repo.SetActive(ctx, habitID, false)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return err
		}
		return errors.New("habits repository error: " + err.Error())
	}
	return nil
}

func (hs *HabitsService) RestoreHabit(ctx context.Context, habitID, userID uuid.UUID) error {
	habit, err := hs.ownedHabit(ctx, habitID, userID)
	if err != nil {
		return err
	}
	if habit.IsActive {
		return nil
	}
	err = hs.repo.Restore(ctx, habitID, MaxActiveHabits)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) || errors.Is(err, errorvalues.ErrHabitLimitReached) {
			return err
		}
		return errors.New("habits repository error: " + err.Error())
	}
	return nil
}

func (hs *HabitsService) HardDeleteHabit(ctx context.Context, habitID, userID uuid.UUID) error {
	_, err := hs.ownedHabit(ctx, habitID, userID)
	if err != nil {
		return err
	}
	err = hs.repo.HardDelete(ctx, habitID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return err
		}
		return errors.New("habits repository error: " + err.Error())
	}
	return nil
}

func (hs *HabitsService) ownedHabit(ctx context.Context, habitID, userID uuid.UUID) (*entity.Habit, error) {
	habit, err := hs.repo.GetByID(ctx, habitID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return nil, err
		}
		return nil, errors.New("habits repository error: " + err.Error())
	}
	if habit.UserID != userID {
		return nil, errorvalues.ErrWrongOwner
	}
	return habit, nil
}
