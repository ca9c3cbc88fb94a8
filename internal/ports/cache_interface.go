package ports

import (
	"auth-token-server/internal/model"
	"context"
)

// TokenCacheRepository : Redis слой поверх реестра токенов. Записи монотонны:
// отзыв перезаписывает пару отозванной строкой, ключи никогда не удаляются
type TokenCacheRepository interface {
	SetTokenPair(ctx context.Context, pair *model.TokenPair) error
	GetByAccessToken(ctx context.Context, accessToken string) (*model.TokenPair, error)
	GetByRefreshToken(ctx context.Context, refreshToken string) (*model.TokenPair, error)
}
