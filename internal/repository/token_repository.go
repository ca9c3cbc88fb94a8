package repository

import (
	"auth-token-server/config"
	"auth-token-server/internal/model"
	"auth-token-server/internal/util"
	"context"
	"database/sql"
	"errors"
)

type TokenRepository struct {
	*config.Database
}

func NewTokenRepository(database *config.Database) *TokenRepository {
	return &TokenRepository{database}
}

// Save сохраняет новую пару токенов в реестре с невыставленными флагами отзыва.
// Уникальность access-токена обеспечивает индекс в БД: коллизия строк означала бы
// сломанный источник подписи и возвращается как ошибка вставки
func (r *TokenRepository) Save(ctx context.Context, pair *model.TokenPair) error {
	query := `INSERT INTO token_pairs (user_uuid, access_token, refresh_token)
				VALUES ($1, $2, $3)
				RETURNING id, created_at
	`

	err := r.DB.QueryRowContext(ctx, query,
		pair.UserUUID,
		pair.AccessToken,
		pair.RefreshToken,
	).Scan(&pair.ID, &pair.CreatedAt)

	if err != nil {
		return util.LogError("ошибка вставки данных в БД", err)
	}

	return nil
}

// FindByAccessToken ищет пару по точному совпадению access-токена.
// Отсутствие записи — корректный результат (nil, nil)
func (r *TokenRepository) FindByAccessToken(ctx context.Context, accessToken string) (*model.TokenPair, error) {
	return r.findByColumn(ctx, "access_token", accessToken)
}

// FindByRefreshToken ищет пару по точному совпадению refresh-токена.
// Refresh-токен не ротируется и может встречаться в нескольких строках,
// поэтому возвращается самая свежая
func (r *TokenRepository) FindByRefreshToken(ctx context.Context, refreshToken string) (*model.TokenPair, error) {
	return r.findByColumn(ctx, "refresh_token", refreshToken)
}

func (r *TokenRepository) findByColumn(ctx context.Context, column string, token string) (*model.TokenPair, error) {
	query := `SELECT id, user_uuid, access_token, refresh_token, access_revoked, refresh_revoked, created_at
				FROM token_pairs WHERE ` + column + ` = $1
				ORDER BY id DESC LIMIT 1`

	pair := &model.TokenPair{}

	err := r.DB.QueryRowContext(ctx, query, token).Scan(
		&pair.ID,
		&pair.UserUUID,
		&pair.AccessToken,
		&pair.RefreshToken,
		&pair.AccessRevoked,
		&pair.RefreshRevoked,
		&pair.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, util.LogError("ошибка при выполнении запроса", err)
	}

	return pair, nil
}

// RevokeByAccessToken выставляет access_revoked = TRUE.
// Один атомарный UPDATE без условия на старое значение: повторный отзыв
// уже отозванного токена — no-op, флаг монотонно сходится к TRUE при любых гонках.
// Возвращает false, если токен не найден
func (r *TokenRepository) RevokeByAccessToken(ctx context.Context, accessToken string) (bool, error) {
	return r.revoke(ctx, `UPDATE token_pairs SET access_revoked = TRUE WHERE access_token = $1`, accessToken)
}

// RevokeByRefreshToken выставляет refresh_revoked = TRUE во ВСЕХ строках,
// несущих этот refresh-токен: из-за отсутствия ротации их может быть несколько
func (r *TokenRepository) RevokeByRefreshToken(ctx context.Context, refreshToken string) (bool, error) {
	return r.revoke(ctx, `UPDATE token_pairs SET refresh_revoked = TRUE WHERE refresh_token = $1`, refreshToken)
}

func (r *TokenRepository) revoke(ctx context.Context, query string, token string) (bool, error) {
	result, err := r.DB.ExecContext(ctx, query, token)
	if err != nil {
		return false, util.LogError("не удалось отозвать токен", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, util.LogError("не удалось проверить, отозван ли токен", err)
	}

	return rowsAffected > 0, nil
}
