package repository

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	errorvalues "github.com/limbo/habitrpg/internal/error_values"
	"github.com/limbo/habitrpg/pkg/cleanup"
	"github.com/limbo/habitrpg/pkg/entity"
)

type HabitsRepository struct {
	conn PgConnection
}

func NewHabitsRepo(cfg DBConfig) *HabitsRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for habitsRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for habitsRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &HabitsRepository{
		conn: pool,
	}
}

func NewHabitsRepoWithConn(conn PgConnection) *HabitsRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for habitsRepo: " + err.Error())
	}
	return &HabitsRepository{
		conn: conn,
	}
}

// Create inserts a habit inside a transaction that locks the owner's user
// row, so concurrent creates serialize and the active-habit cap cannot be
// oversubscribed.
func (hr *HabitsRepository) Create(ctx context.Context, habit *entity.Habit, maxActive int) (uuid.UUID, error) {
	tx, err := hr.conn.Begin(ctx)
	if err != nil {
		return uuid.UUID{}, errors.New("opening habit creation tx error: " + err.Error())
	}
	// No-op after a successful commit
	defer tx.Rollback(ctx)

	var ownerID uuid.UUID
	if err := tx.QueryRow(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE;`, habit.UserID).Scan(&ownerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.UUID{}, errorvalues.ErrUserNotFound
		}
		return uuid.UUID{}, errors.New("locking habit owner error: " + err.Error())
	}
	var count int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM habits WHERE user_id = $1 AND is_active = TRUE;`, habit.UserID).Scan(&count); err != nil {
		return uuid.UUID{}, errors.New("counting active habits error: " + err.Error())
	}
	if count >= maxActive {
		return uuid.UUID{}, errorvalues.ErrHabitLimitReached
	}
	var id uuid.UUID
	row := tx.QueryRow(ctx, `INSERT INTO habits (user_id, title, description, frequency, difficulty) VALUES ($1, $2, $3, $4, $5) RETURNING id;`,
		habit.UserID,
		habit.Title,
		habit.Description,
		habit.Frequency,
		habit.Difficulty,
	)
	if err := row.Scan(&id); err != nil {
		return uuid.UUID{}, errors.New("creating habit db error: " + err.Error())
	}
	if err := tx.Commit(ctx); err != nil {
		return uuid.UUID{}, errors.New("committing habit creation error: " + err.Error())
	}
	return id, nil
}

func (hr *HabitsRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Habit, error) {
	var habit entity.Habit
	habit.ID = id
	row := hr.conn.QueryRow(ctx, `SELECT user_id, title, description, frequency, difficulty, current_streak, best_streak, last_completed_at, is_active, created_at, updated_at FROM habits WHERE id = $1;`, id)
	if err := row.Scan(&habit.UserID, &habit.Title, &habit.Description, &habit.Frequency, &habit.Difficulty,
		&habit.CurrentStreak, &habit.BestStreak, &habit.LastCompletedAt, &habit.IsActive, &habit.CreatedAt, &habit.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrHabitNotFound
		}
		return nil, errors.New("getting habit by id error: " + err.Error())
	}
	return &habit, nil
}

func (hr *HabitsRepository) GetActiveByUserID(ctx context.Context, uid uuid.UUID, limit, offset int) ([]*entity.Habit, error) {
	habits := make([]*entity.Habit, 0)
	rows, err := hr.conn.Query(ctx, `SELECT id, user_id, title, description, frequency, difficulty, current_streak, best_streak, last_completed_at, is_active, created_at, updated_at 
		FROM habits WHERE user_id = $1 AND is_active = TRUE ORDER BY created_at DESC LIMIT $2 OFFSET $3;`, uid, limit, offset)
	if err != nil {
		return nil, errors.New("getting habits by uid error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		h := entity.Habit{}
		err = rows.Scan(&h.ID, &h.UserID, &h.Title, &h.Description, &h.Frequency, &h.Difficulty,
			&h.CurrentStreak, &h.BestStreak, &h.LastCompletedAt, &h.IsActive, &h.CreatedAt, &h.UpdatedAt)
		if err != nil {
			return nil, errors.New("unmarhalling habit error: " + err.Error())
		}
		habits = append(habits, &h)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return habits, nil
}

func (hr *HabitsRepository) CountActiveByUserID(ctx context.Context, uid uuid.UUID) (int, error) {
	var count int
	row := hr.conn.QueryRow(ctx, `SELECT COUNT(*) FROM habits WHERE user_id = $1 AND is_active = TRUE;`, uid)
	if err := row.Scan(&count); err != nil {
		return 0, errors.New("counting active habits error: " + err.Error())
	}
	return count, nil
}

func (hr *HabitsRepository) Update(ctx context.Context, habit *entity.Habit) error {
	ct, err := hr.conn.Exec(ctx, `UPDATE habits SET title = $1, description = $2, frequency = $3, difficulty = $4, updated_at = NOW() WHERE id = $5;`,
		habit.Title, habit.Description, habit.Frequency, habit.Difficulty, habit.ID,
	)
	if err != nil {
		return errors.New("error updating habit: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrHabitNotFound
	}
	return nil
}

func (hr *HabitsRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	ct, err := hr.conn.Exec(ctx, `UPDATE habits SET is_active = $1, updated_at = NOW() WHERE id = $2;`, active, id)
	if err != nil {
		return errors.New("error switching habit lifecycle state: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrHabitNotFound
	}
	return nil
}

// Restore reactivates a soft-deleted habit under the same owner-row lock as
// Create, re-checking the cap against the count seen inside the transaction.
// Restoring an already active habit is a no-op.
func (hr *HabitsRepository) Restore(ctx context.Context, id uuid.UUID, maxActive int) error {
	tx, err := hr.conn.Begin(ctx)
	if err != nil {
		return errors.New("opening habit restore tx error: " + err.Error())
	}
	// No-op after a successful commit
	defer tx.Rollback(ctx)

	var ownerID uuid.UUID
	var active bool
	if err := tx.QueryRow(ctx, `SELECT user_id, is_active FROM habits WHERE id = $1 FOR UPDATE;`, id).Scan(&ownerID, &active); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errorvalues.ErrHabitNotFound
		}
		return errors.New("locking habit error: " + err.Error())
	}
	if active {
		return tx.Commit(ctx)
	}
	if err := tx.QueryRow(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE;`, ownerID).Scan(&ownerID); err != nil {
		return errors.New("locking habit owner error: " + err.Error())
	}
	var count int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM habits WHERE user_id = $1 AND is_active = TRUE;`, ownerID).Scan(&count); err != nil {
		return errors.New("counting active habits error: " + err.Error())
	}
	if count >= maxActive {
		return errorvalues.ErrHabitLimitReached
	}
	if _, err := tx.Exec(ctx, `UPDATE habits SET is_active = TRUE, updated_at = NOW() WHERE id = $1;`, id); err != nil {
		return errors.New("restoring habit error: " + err.Error())
	}
	if err := tx.Commit(ctx); err != nil {
		return errors.New("committing habit restore error: " + err.Error())
	}
	return nil
}

func (hr *HabitsRepository) HardDelete(ctx context.Context, id uuid.UUID) error {
	ct, err := hr.conn.Exec(ctx, `DELETE FROM habits WHERE id = $1;`, id)
	if err != nil {
		return errors.New("error deleting habit: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrHabitNotFound
	}
	return nil
}
