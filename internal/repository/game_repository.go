package repository

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	errorvalues "github.com/limbo/habitrpg/internal/error_values"
	"github.com/limbo/habitrpg/internal/progression"
	"github.com/limbo/habitrpg/pkg/cleanup"
	"github.com/limbo/habitrpg/pkg/entity"
)

// GameRepository runs the habit-completion unit of work. The whole
// read-check-write sequence executes inside one transaction: both habit and
// user rows are locked, the completion log is re-checked against today's UTC
// window, and the unique (habit_id, completed_on) index guarantees that of two
// concurrent completions exactly one commits. The loser rolls back and
// observes ErrAlreadyCompleted.
type GameRepository struct {
	conn PgConnection
}

func NewGameRepo(cfg DBConfig) *GameRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for gameRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for gameRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &GameRepository{
		conn: pool,
	}
}

func NewGameRepoWithConn(conn PgConnection) *GameRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for gameRepo: " + err.Error())
	}
	return &GameRepository{
		conn: conn,
	}
}

func (gr *GameRepository) CompleteHabit(ctx context.Context, userID, habitID uuid.UUID, now time.Time) (*entity.GameReward, error) {
	tx, err := gr.conn.Begin(ctx)
	if err != nil {
		return nil, errors.New("beginning completion tx error: " + err.Error())
	}
	// No-op after a successful commit
	defer tx.Rollback(ctx)

	habit := entity.Habit{ID: habitID, UserID: userID, IsActive: true}
	row := tx.QueryRow(ctx, `SELECT title, description, frequency, difficulty, current_streak, best_streak, last_completed_at, created_at, updated_at
		FROM habits WHERE id = $1 AND user_id = $2 AND is_active = TRUE FOR UPDATE;`, habitID, userID)
	if err := row.Scan(&habit.Title, &habit.Description, &habit.Frequency, &habit.Difficulty,
		&habit.CurrentStreak, &habit.BestStreak, &habit.LastCompletedAt, &habit.CreatedAt, &habit.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrHabitNotFound
		}
		return nil, errors.New("locking habit error: " + err.Error())
	}

	var level, xp, totalXP int
	row = tx.QueryRow(ctx, `SELECT level, xp, total_xp FROM users WHERE id = $1 FOR UPDATE;`, userID)
	if err := row.Scan(&level, &xp, &totalXP); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, errors.New("locking user error: " + err.Error())
	}

	today := progression.DayUTC(now)
	var completedToday bool
	row = tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM completion_logs WHERE habit_id = $1 AND completed_on = $2);`, habitID, today)
	if err := row.Scan(&completedToday); err != nil {
		return nil, errors.New("inspecting today's completion error: " + err.Error())
	}
	if completedToday {
		return nil, errorvalues.ErrAlreadyCompleted
	}

	// Streaks are computed from the log, not from last_completed_at
	var lastDay *time.Time
	row = tx.QueryRow(ctx, `SELECT completed_on FROM completion_logs WHERE habit_id = $1 AND completed_on < $2 ORDER BY completed_on DESC LIMIT 1;`, habitID, today)
	var day time.Time
	switch err := row.Scan(&day); {
	case err == nil:
		lastDay = &day
	case errors.Is(err, pgx.ErrNoRows):
	default:
		return nil, errors.New("getting last completion day error: " + err.Error())
	}

	if totalXP < 0 {
		slog.Warn("user has negative total xp", slog.String("uid", userID.String()), slog.Int("total_xp", totalXP))
	}
	gained := progression.XPForDifficulty(habit.Difficulty)
	newTotalXP := totalXP + gained
	if newTotalXP > progression.MaxTotalXP {
		return nil, errorvalues.ErrXPLimitReached
	}
	newLevel, clamped := progression.LevelFromTotalXP(newTotalXP)
	if clamped {
		slog.Warn("level clamped while applying reward", slog.String("uid", userID.String()), slog.Int("total_xp", newTotalXP))
	}
	leveledUp := newLevel > level
	newXP := progression.XPWithinLevel(newTotalXP, newLevel)

	yesterday := today.AddDate(0, 0, -1)
	newStreak := 1
	if lastDay != nil && lastDay.Equal(yesterday) {
		newStreak = habit.CurrentStreak + 1
	}
	newStreak, clamped = progression.ClampStreak(newStreak)
	if clamped {
		slog.Warn("streak clamped", slog.String("habit_id", habitID.String()), slog.Int("streak", habit.CurrentStreak+1))
	}
	bestStreak := habit.BestStreak
	if newStreak > bestStreak {
		bestStreak = newStreak
	}

	_, err = tx.Exec(ctx, `INSERT INTO completion_logs (habit_id, completed_at) VALUES ($1, $2);`, habitID, now)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// Unique violation: a concurrent completion won the race
			case "23505":
				return nil, errorvalues.ErrAlreadyCompleted
			}
		}
		return nil, errors.New("inserting completion log error: " + err.Error())
	}
	_, err = tx.Exec(ctx, `UPDATE users SET level = $1, xp = $2, total_xp = $3 WHERE id = $4;`, newLevel, newXP, newTotalXP, userID)
	if err != nil {
		return nil, errors.New("applying user reward error: " + err.Error())
	}
	_, err = tx.Exec(ctx, `UPDATE habits SET current_streak = $1, best_streak = $2, last_completed_at = $3, updated_at = NOW() WHERE id = $4;`,
		newStreak, bestStreak, now, habitID)
	if err != nil {
		return nil, errors.New("applying habit streak error: " + err.Error())
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, errors.New("committing completion tx error: " + err.Error())
	}

	habit.CurrentStreak = newStreak
	habit.BestStreak = bestStreak
	habit.LastCompletedAt = &now
	return &entity.GameReward{
		Success:    true,
		XPGained:   gained,
		LeveledUp:  leveledUp,
		NewLevel:   newLevel,
		NewXP:      newXP,
		NewTotalXP: newTotalXP,
		NewStreak:  newStreak,
		Habit: &entity.HabitView{
			Habit:            habit,
			CanCompleteToday: false,
		},
	}, nil
}
