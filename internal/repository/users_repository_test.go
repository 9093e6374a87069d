package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	errorvalues "github.com/limbo/habitrpg/internal/error_values"
	"github.com/limbo/habitrpg/internal/repository"
	"github.com/limbo/habitrpg/pkg/entity"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
)

func TestCreateUser(t *testing.T) {
	conn, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	user := entity.User{
		Username:     "test_user",
		Email:        "test@example.com",
		PasswordHash: "test_password_hash",
	}
	uid := uuid.New()
	query := regexp.QuoteMeta(`INSERT INTO users (username, email, password_hash) VALUES ($1, $2, $3) RETURNING id;`)
	ctx := context.Background()
	repo := repository.NewUsersRepoWithConn(conn)
	t.Run("successfully created", func(t *testing.T) {
		conn.ExpectQuery(query).WithArgs(user.Username, user.Email, user.PasswordHash).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(uid))
		id, err := repo.Create(ctx, &user)
		assert.NoError(t, err)
		assert.Equal(t, uid, id)
	})
	t.Run("unique violation error", func(t *testing.T) {
		conn.ExpectQuery(query).WithArgs(user.Username, user.Email, user.PasswordHash).WillReturnError(&pgconn.PgError{
			Code: "23505",
		})
		_, err := repo.Create(ctx, &user)
		assert.ErrorIs(t, err, errorvalues.ErrUserExists)
	})
	t.Run("db error", func(t *testing.T) {
		conn.ExpectQuery(query).WithArgs(user.Username, user.Email, user.PasswordHash).WillReturnError(errors.New("db error"))
		_, err := repo.Create(ctx, &user)
		assert.Error(t, err)
	})
}

func TestFindByUsername(t *testing.T) {
	conn, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	repo := repository.NewUsersRepoWithConn(conn)
	user := entity.User{
		ID:           uuid.New(),
		Username:     "test_user",
		Email:        "test@example.com",
		PasswordHash: "test_password_hash",
		Level:        3,
		XP:           40,
		TotalXP:      240,
		CreatedAt:    time.Now(),
	}
	query := regexp.QuoteMeta(`SELECT id, username, email, password_hash, level, xp, total_xp, created_at FROM users WHERE username = $1;`)
	t.Run("found", func(t *testing.T) {
		conn.ExpectQuery(query).
			WithArgs(user.Username).
			WillReturnRows(pgxmock.NewRows([]string{"id", "username", "email", "password_hash", "level", "xp", "total_xp", "created_at"}).
				AddRow(user.ID, user.Username, user.Email, user.PasswordHash, user.Level, user.XP, user.TotalXP, user.CreatedAt))
		result, err := repo.FindByUsername(ctx, user.Username)
		assert.NoError(t, err)
		assert.Equal(t, user, *result)
	})
	t.Run("not found", func(t *testing.T) {
		conn.ExpectQuery(query).
			WithArgs(user.Username).
			WillReturnError(pgx.ErrNoRows)
		_, err := repo.FindByUsername(ctx, user.Username)
		assert.ErrorIs(t, err, errorvalues.ErrUserNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		conn.ExpectQuery(query).
			WithArgs(user.Username).
			WillReturnError(errors.New("db error"))
		_, err := repo.FindByUsername(ctx, user.Username)
		assert.Error(t, err)
	})
}

func TestFindByID(t *testing.T) {
	conn, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	repo := repository.NewUsersRepoWithConn(conn)
	user := entity.User{
		ID:           uuid.New(),
		Username:     "test_user",
		Email:        "test@example.com",
		PasswordHash: "test_password_hash",
		Level:        1,
		CreatedAt:    time.Now(),
	}
	query := regexp.QuoteMeta(`SELECT id, username, email, password_hash, level, xp, total_xp, created_at FROM users WHERE id = $1;`)
	t.Run("found", func(t *testing.T) {
		conn.ExpectQuery(query).
			WithArgs(user.ID).
			WillReturnRows(pgxmock.NewRows([]string{"id", "username", "email", "password_hash", "level", "xp", "total_xp", "created_at"}).
				AddRow(user.ID, user.Username, user.Email, user.PasswordHash, user.Level, user.XP, user.TotalXP, user.CreatedAt))
		result, err := repo.FindByID(ctx, user.ID)
		assert.NoError(t, err)
		assert.Equal(t, user, *result)
	})
	t.Run("not found", func(t *testing.T) {
		conn.ExpectQuery(query).
			WithArgs(user.ID).
			WillReturnError(pgx.ErrNoRows)
		_, err := repo.FindByID(ctx, user.ID)
		assert.ErrorIs(t, err, errorvalues.ErrUserNotFound)
	})
}

func TestUpdateProgress(t *testing.T) {
	conn, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	repo := repository.NewUsersRepoWithConn(conn)
	uid := uuid.New()
	query := regexp.QuoteMeta(`UPDATE users SET level = $1, xp = $2, total_xp = $3 WHERE id = $4;`)
	t.Run("updated", func(t *testing.T) {
		conn.ExpectExec(query).WithArgs(11, 50, 1050, uid).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		err := repo.UpdateProgress(ctx, uid, 11, 50, 1050)
		assert.NoError(t, err)
	})
	t.Run("user not found", func(t *testing.T) {
		conn.ExpectExec(query).WithArgs(11, 50, 1050, uid).WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		err := repo.UpdateProgress(ctx, uid, 11, 50, 1050)
		assert.ErrorIs(t, err, errorvalues.ErrUserNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		conn.ExpectExec(query).WithArgs(11, 50, 1050, uid).WillReturnError(errors.New("db error"))
		err := repo.UpdateProgress(ctx, uid, 11, 50, 1050)
		assert.Error(t, err)
	})
}

func TestUpdateUsername(t *testing.T) {
	conn, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	repo := repository.NewUsersRepoWithConn(conn)
	uid := uuid.New()
	query := regexp.QuoteMeta(`UPDATE users SET username = $1 WHERE id = $2;`)
	t.Run("renamed", func(t *testing.T) {
		conn.ExpectExec(query).WithArgs("new_name", uid).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		err := repo.UpdateUsername(ctx, uid, "new_name")
		assert.NoError(t, err)
	})
	t.Run("username taken", func(t *testing.T) {
		conn.ExpectExec(query).WithArgs("new_name", uid).WillReturnError(&pgconn.PgError{
			Code: "23505",
		})
		err := repo.UpdateUsername(ctx, uid, "new_name")
		assert.ErrorIs(t, err, errorvalues.ErrUsernameTaken)
	})
	t.Run("user not found", func(t *testing.T) {
		conn.ExpectExec(query).WithArgs("new_name", uid).WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		err := repo.UpdateUsername(ctx, uid, "new_name")
		assert.ErrorIs(t, err, errorvalues.ErrUserNotFound)
	})
}

func TestDeleteUser(t *testing.T) {
	conn, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	repo := repository.NewUsersRepoWithConn(conn)
	uid := uuid.New()
	query := regexp.QuoteMeta(`DELETE FROM users WHERE id = $1;`)
	t.Run("deleted", func(t *testing.T) {
		conn.ExpectExec(query).WithArgs(uid).WillReturnResult(pgxmock.NewResult("DELETE", 1))
		err := repo.Delete(ctx, uid)
		assert.NoError(t, err)
	})
	t.Run("not found", func(t *testing.T) {
		conn.ExpectExec(query).WithArgs(uid).WillReturnResult(pgxmock.NewResult("DELETE", 0))
		err := repo.Delete(ctx, uid)
		assert.ErrorIs(t, err, errorvalues.ErrUserNotFound)
	})
}
