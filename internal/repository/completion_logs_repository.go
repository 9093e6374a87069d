package repository

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/limbo/habitrpg/pkg/cleanup"
)

type CompletionLogsRepository struct {
	conn PgConnection
}

func NewCompletionLogsRepo(cfg DBConfig) *CompletionLogsRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for completionLogsRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for completionLogsRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &CompletionLogsRepository{
		conn: pool,
	}
}

func NewCompletionLogsRepoWithConn(conn PgConnection) *CompletionLogsRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for completionLogsRepo: " + err.Error())
	}
	return &CompletionLogsRepository{
		conn: conn,
	}
}

func (logsRepo *CompletionLogsRepository) ExistsOnDay(ctx context.Context, habitID uuid.UUID, day time.Time) (bool, error) {
	var exists bool
	row := logsRepo.conn.QueryRow(
		ctx,
		`SELECT EXISTS(SELECT 1 FROM completion_logs WHERE habit_id = $1 AND completed_on = $2);`,
		habitID,
		day,
	)
	err := row.Scan(&exists)
	if err != nil {
		return false, errors.New("inspecting if completion exists error: " + err.Error())
	}
	return exists, nil
}

func (logsRepo *CompletionLogsRepository) CountByUserID(ctx context.Context, uid uuid.UUID) (int, error) {
	row := logsRepo.conn.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM completion_logs cl JOIN habits h ON h.id = cl.habit_id WHERE h.user_id = $1;`,
		uid,
	)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, errors.New("error counting completions: " + err.Error())
	}
	return count, nil
}

func (logsRepo *CompletionLogsRepository) GetDaysByUserAndRange(ctx context.Context, uid uuid.UUID, from, to time.Time) ([]time.Time, error) {
	rows, err := logsRepo.conn.Query(
		ctx,
		`SELECT cl.completed_on FROM completion_logs cl JOIN habits h ON h.id = cl.habit_id 
		WHERE h.user_id = $1 AND cl.completed_on >= $2 AND cl.completed_on <= $3;`,
		uid,
		from,
		to,
	)
	if err != nil {
		return nil, errors.New("getting completions for period error: " + err.Error())
	}
	defer rows.Close()
	result := make([]time.Time, 0)
	for rows.Next() {
		var day time.Time
		err = rows.Scan(&day)
		if err != nil {
			return nil, errors.New("completion row parsing error: " + err.Error())
		}
		result = append(result, day)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected completion rows error: " + rows.Err().Error())
	}
	return result, nil
}
