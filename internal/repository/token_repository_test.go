package repository_test

import (
	"auth-token-server/config"
	"auth-token-server/internal/model"
	"auth-token-server/internal/repository"
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenRepo(t *testing.T) (*repository.TokenRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := repository.NewTokenRepository(&config.Database{DB: sqlxDB})

	return repo, mock
}

var pairColumns = []string{"id", "user_uuid", "access_token", "refresh_token", "access_revoked", "refresh_revoked", "created_at"}

func TestSave(t *testing.T) {
	repo, mock := newTestTokenRepo(t)
	ctx := context.Background()

	createdAt := time.Now()
	mock.ExpectQuery(`INSERT INTO token_pairs`).
		WithArgs("u1", "acc", "ref").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), createdAt))

	pair := &model.TokenPair{UserUUID: "u1", AccessToken: "acc", RefreshToken: "ref"}
	err := repo.Save(ctx, pair)

	assert.NoError(t, err)
	assert.Equal(t, int64(7), pair.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_StorageError(t *testing.T) {
	repo, mock := newTestTokenRepo(t)
	ctx := context.Background()

	mock.ExpectQuery(`INSERT INTO token_pairs`).
		WithArgs("u1", "acc", "ref").
		WillReturnError(sql.ErrConnDone)

	err := repo.Save(ctx, &model.TokenPair{UserUUID: "u1", AccessToken: "acc", RefreshToken: "ref"})

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByAccessToken_Found(t *testing.T) {
	repo, mock := newTestTokenRepo(t)
	ctx := context.Background()

	mock.ExpectQuery(`FROM token_pairs WHERE access_token`).
		WithArgs("acc").
		WillReturnRows(sqlmock.NewRows(pairColumns).
			AddRow(int64(1), "u1", "acc", "ref", false, false, time.Now()))

	pair, err := repo.FindByAccessToken(ctx, "acc")

	assert.NoError(t, err)
	require.NotNil(t, pair)
	assert.Equal(t, "u1", pair.UserUUID)
	assert.Equal(t, "acc", pair.AccessToken)
	assert.False(t, pair.AccessRevoked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// отсутствие записи — корректный результат, а не ошибка
func TestFindByAccessToken_NotFound(t *testing.T) {
	repo, mock := newTestTokenRepo(t)
	ctx := context.Background()

	mock.ExpectQuery(`FROM token_pairs WHERE access_token`).
		WithArgs("unknown").
		WillReturnError(sql.ErrNoRows)

	pair, err := repo.FindByAccessToken(ctx, "unknown")

	assert.NoError(t, err)
	assert.Nil(t, pair)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// refresh-токен может встречаться в нескольких строках, возвращается свежайшая
func TestFindByRefreshToken_ReturnsLatest(t *testing.T) {
	repo, mock := newTestTokenRepo(t)
	ctx := context.Background()

	mock.ExpectQuery(`FROM token_pairs WHERE refresh_token`).
		WithArgs("ref").
		WillReturnRows(sqlmock.NewRows(pairColumns).
			AddRow(int64(5), "u1", "acc-5", "ref", false, false, time.Now()))

	pair, err := repo.FindByRefreshToken(ctx, "ref")

	assert.NoError(t, err)
	require.NotNil(t, pair)
	assert.Equal(t, int64(5), pair.ID)
	assert.Equal(t, "acc-5", pair.AccessToken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRevokeByAccessToken_Found(t *testing.T) {
	repo, mock := newTestTokenRepo(t)
	ctx := context.Background()

	mock.ExpectExec(`UPDATE token_pairs SET access_revoked = TRUE WHERE access_token`).
		WithArgs("acc").
		WillReturnResult(sqlmock.NewResult(0, 1))

	found, err := repo.RevokeByAccessToken(ctx, "acc")

	assert.NoError(t, err)
	assert.True(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRevokeByAccessToken_NotFound(t *testing.T) {
	repo, mock := newTestTokenRepo(t)
	ctx := context.Background()

	mock.ExpectExec(`UPDATE token_pairs SET access_revoked = TRUE WHERE access_token`).
		WithArgs("unknown").
		WillReturnResult(sqlmock.NewResult(0, 0))

	found, err := repo.RevokeByAccessToken(ctx, "unknown")

	assert.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// отзыв refresh-токена задевает все строки, несущие эту строку токена
func TestRevokeByRefreshToken_AllRows(t *testing.T) {
	repo, mock := newTestTokenRepo(t)
	ctx := context.Background()

	mock.ExpectExec(`UPDATE token_pairs SET refresh_revoked = TRUE WHERE refresh_token`).
		WithArgs("ref").
		WillReturnResult(sqlmock.NewResult(0, 3))

	found, err := repo.RevokeByRefreshToken(ctx, "ref")

	assert.NoError(t, err)
	assert.True(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}
