package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/limbo/habitrpg/pkg/entity"
)

// MaxActiveHabits bounds active habits per user, enforced on create and restore.
const MaxActiveHabits = 100

type RegisterRequest struct {
	Username string `validate:"required,username_chars,min=3,max=50"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8,max=72"`
}

type CreateHabitRequest struct {
	Title       string                 `validate:"required,min=1,max=200"`
	Description string                 `validate:"max=1000"`
	Frequency   entity.HabitFrequency  `validate:"omitempty,oneof=daily weekly"`
	Difficulty  entity.HabitDifficulty `validate:"omitempty,oneof=easy medium hard"`
}

// UpdateHabitRequest carries a partial update, nil fields stay untouched.
type UpdateHabitRequest struct {
	Title       *string
	Description *string
	Frequency   *entity.HabitFrequency
	Difficulty  *entity.HabitDifficulty
}

type PaginationOpts struct {
	Limit  int
	Offset int
}

type UserServiceI interface {
	// Validates user's credentials, creates new row in database. Returns user's data with ID
	Register(ctx context.Context, req *RegisterRequest) (*entity.User, error)
	// Compares given credentials. If ok, give back user's data with ID.
	Login(ctx context.Context, username, password string) (*entity.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	// Renames user after validating the new username
	ChangeUsername(ctx context.Context, id uuid.UUID, username string) error
	DeleteAccount(ctx context.Context, id uuid.UUID, password string) error
}

type HabitsServiceI interface {
	// Validates and creates a habit, enforcing the per-user active-habit cap
	CreateHabit(ctx context.Context, uid uuid.UUID, req *CreateHabitRequest) (*entity.HabitView, error)
	// Lists active habits with today's eligibility flag resolved per habit
	GetUserHabits(ctx context.Context, uid uuid.UUID, pagination PaginationOpts) ([]*entity.HabitView, error)
	GetHabit(ctx context.Context, habitID, userID uuid.UUID) (*entity.HabitView, error)
	UpdateHabit(ctx context.Context, habitID, userID uuid.UUID, req *UpdateHabitRequest) error
	// Soft delete: flips the habit inactive, reversible via RestoreHabit
	SoftDeleteHabit(ctx context.Context, habitID, userID uuid.UUID) error
	// Brings a soft-deleted habit back, subject to the active-habit cap
	RestoreHabit(ctx context.Context, habitID, userID uuid.UUID) error
	// Irreversibly removes the habit and its completion logs
	HardDeleteHabit(ctx context.Context, habitID, userID uuid.UUID) error
}

type GameServiceI interface {
	// Records one completion and applies XP/level/streak rewards atomically
	CompleteHabit(ctx context.Context, userID, habitID uuid.UUID) (*entity.GameReward, error)
	// Reports if the habit can still be completed within today's UTC window.
	// Fails closed: any storage error reads as "cannot complete"
	CanCompleteToday(ctx context.Context, habitID uuid.UUID, now time.Time) bool
}

type ProfileServiceI interface {
	// Returns the profile with derived fields reconciled against totalXP
	GetProfile(ctx context.Context, uid uuid.UUID) (*entity.UserProfile, error)
	// Aggregates completion activity over the trailing days period
	GetStats(ctx context.Context, uid uuid.UUID, days int) (*entity.UserStats, error)
}
