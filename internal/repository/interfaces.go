package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/limbo/habitrpg/pkg/entity"
)

type UsersRepositoryI interface {
	// Creates new user in database. Returns id of the inserted row
	Create(ctx context.Context, user *entity.User) (uuid.UUID, error)
	// Looks up user by username. Can be used for login
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	// Looks up user by uid. Can be used for authorization middleware
	FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error)
	// Rewrites the derived progression fields of a user
	UpdateProgress(ctx context.Context, uid uuid.UUID, level, xp, totalXP int) error
	// Renames user, keeping username uniqueness
	UpdateUsername(ctx context.Context, uid uuid.UUID, username string) error
	// Deletes user with all owned habits and logs
	Delete(ctx context.Context, uid uuid.UUID) error
}

type HabitsRepositoryI interface {
	// Creates new habit. In habit UserID, Title, Description, Frequency and Difficulty are necessary.
	// The per-user active-habit cap is checked while holding a lock on the owner's user row
	Create(ctx context.Context, habit *entity.Habit, maxActive int) (uuid.UUID, error)
	// Searches habit with given id, active or not
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Habit, error)
	// Lists active habits owned by user with uid. Requires pagination params provided
	GetActiveByUserID(ctx context.Context, uid uuid.UUID, limit, offset int) ([]*entity.Habit, error)
	// Counts active habits of a user, for the per-user cap
	CountActiveByUserID(ctx context.Context, uid uuid.UUID) (int, error)
	// Updates editable habit fields by ID (ID in habit is necessary)
	Update(ctx context.Context, habit *entity.Habit) error
	// Flips the soft-delete flag
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	// Reactivates a soft-deleted habit, re-checking the active-habit cap
	// under the owner-row lock
	Restore(ctx context.Context, id uuid.UUID, maxActive int) error
	// Irreversibly removes habit together with its completion logs
	HardDelete(ctx context.Context, id uuid.UUID) error
}

type CompletionLogsRepositoryI interface {
	// Inspects if a completion exists for the habit on the given UTC day
	ExistsOnDay(ctx context.Context, habitID uuid.UUID, day time.Time) (bool, error)
	// Counts completions across all habits of a user
	CountByUserID(ctx context.Context, uid uuid.UUID) (int, error)
	// Provides completion days of all user's habits within [from, to]
	GetDaysByUserAndRange(ctx context.Context, uid uuid.UUID, from, to time.Time) ([]time.Time, error)
}

type GameRepositoryI interface {
	// Records one completion of a habit and applies XP/level/streak rewards
	// as a single transaction
	CompleteHabit(ctx context.Context, userID, habitID uuid.UUID, now time.Time) (*entity.GameReward, error)
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGCfg struct {
	Address  string
	Username string
	Password string
	DB       string
}

func (pgcfg *PGCfg) ConnString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s/%s", pgcfg.Username, pgcfg.Password, pgcfg.Address, pgcfg.DB)
}
