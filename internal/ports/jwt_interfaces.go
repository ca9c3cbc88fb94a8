package ports

import (
	"auth-token-server/internal/model"
	"auth-token-server/internal/security"
	"context"
)

type JWTServiceInterface interface {
	IssueAccessToken(userUUID string) (string, error)
	IssueRefreshToken(userUUID string) (string, error)
	VerifyToken(tokenStr string) (*security.Claims, error)
}

// TokenRepositoryInterface : реестр выданных пар токенов.
// Отсутствие записи — корректный результат поиска (nil, nil), а не ошибка.
// Revoke-методы возвращают false, если токен не найден; повторный отзыв уже
// отозванного токена — no-op с результатом true
type TokenRepositoryInterface interface {
	Save(ctx context.Context, pair *model.TokenPair) error
	FindByAccessToken(ctx context.Context, accessToken string) (*model.TokenPair, error)
	FindByRefreshToken(ctx context.Context, refreshToken string) (*model.TokenPair, error)
	RevokeByAccessToken(ctx context.Context, accessToken string) (bool, error)
	RevokeByRefreshToken(ctx context.Context, refreshToken string) (bool, error)
}
