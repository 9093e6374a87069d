package service_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/habitrpg/internal/error_values"
	"github.com/limbo/habitrpg/pkg/entity"
)

type usersRepoMock struct {
	user           *entity.User
	findErr        error
	createID       uuid.UUID
	createErr      error
	created        *entity.User
	progressErr    error
	savedLevel     int
	savedXP        int
	savedTotalXP   int
	progressCalled bool
	renameErr      error
	deleteErr      error
}

func (m *usersRepoMock) Create(ctx context.Context, user *entity.User) (uuid.UUID, error) {
	if m.createErr != nil {
		return uuid.UUID{}, m.createErr
	}
	m.created = user
	return m.createID, nil
}

func (m *usersRepoMock) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.user, nil
}

func (m *usersRepoMock) FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	if m.created != nil {
		u := *m.created
		u.ID = m.createID
		return &u, nil
	}
	return m.user, nil
}

func (m *usersRepoMock) UpdateProgress(ctx context.Context, uid uuid.UUID, level, xp, totalXP int) error {
	if m.progressErr != nil {
		return m.progressErr
	}
	m.progressCalled = true
	m.savedLevel = level
	m.savedXP = xp
	m.savedTotalXP = totalXP
	return nil
}

func (m *usersRepoMock) UpdateUsername(ctx context.Context, uid uuid.UUID, username string) error {
	return m.renameErr
}

func (m *usersRepoMock) Delete(ctx context.Context, uid uuid.UUID) error {
	return m.deleteErr
}

type habitsRepoMock struct {
	habit         *entity.Habit
	getErr        error
	habits        []*entity.Habit
	listErr       error
	count         int
	countErr      error
	createID      uuid.UUID
	createErr     error
	updateErr     error
	updated       *entity.Habit
	setActiveErr  error
	lastSetActive *bool
	restoreErr    error
	hardDeleteErr error
}

func (m *habitsRepoMock) Create(ctx context.Context, habit *entity.Habit, maxActive int) (uuid.UUID, error) {
	if m.createErr != nil {
		return uuid.UUID{}, m.createErr
	}
	if m.count >= maxActive {
		return uuid.UUID{}, errorvalues.ErrHabitLimitReached
	}
	created := *habit
	created.ID = m.createID
	created.IsActive = true
	m.habit = &created
	return m.createID, nil
}

func (m *habitsRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*entity.Habit, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.habit, nil
}

func (m *habitsRepoMock) GetActiveByUserID(ctx context.Context, uid uuid.UUID, limit, offset int) ([]*entity.Habit, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.habits, nil
}

func (m *habitsRepoMock) CountActiveByUserID(ctx context.Context, uid uuid.UUID) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	return m.count, nil
}

func (m *habitsRepoMock) Update(ctx context.Context, habit *entity.Habit) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updated = habit
	return nil
}

func (m *habitsRepoMock) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	if m.setActiveErr != nil {
		return m.setActiveErr
	}
	m.lastSetActive = &active
	return nil
}

func (m *habitsRepoMock) Restore(ctx context.Context, id uuid.UUID, maxActive int) error {
	if m.restoreErr != nil {
		return m.restoreErr
	}
	if m.count >= maxActive {
		return errorvalues.ErrHabitLimitReached
	}
	active := true
	m.lastSetActive = &active
	return nil
}

func (m *habitsRepoMock) HardDelete(ctx context.Context, id uuid.UUID) error {
	return m.hardDeleteErr
}

type logsRepoMock struct {
	exists    bool
	existsErr error
	count     int
	countErr  error
	days      []time.Time
	daysErr   error
}

func (m *logsRepoMock) ExistsOnDay(ctx context.Context, habitID uuid.UUID, day time.Time) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	return m.exists, nil
}

func (m *logsRepoMock) CountByUserID(ctx context.Context, uid uuid.UUID) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	return m.count, nil
}

func (m *logsRepoMock) GetDaysByUserAndRange(ctx context.Context, uid uuid.UUID, from, to time.Time) ([]time.Time, error) {
	if m.daysErr != nil {
		return nil, m.daysErr
	}
	return m.days, nil
}

type gameRepoMock struct {
	reward *entity.GameReward
	err    error
}

func (m *gameRepoMock) CompleteHabit(ctx context.Context, userID, habitID uuid.UUID, now time.Time) (*entity.GameReward, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.reward, nil
}
