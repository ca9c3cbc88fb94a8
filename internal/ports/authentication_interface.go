package ports

import (
	"auth-token-server/internal/model"
	"auth-token-server/internal/security"
	"context"
)

type AuthenticationService interface {
	Register(ctx context.Context, login, password string) (*model.TokensPair, error)
	Login(ctx context.Context, login, password string) (*model.TokensPair, error)
	Refresh(ctx context.Context, refreshToken string) (*model.TokensPair, error)
	Logout(ctx context.Context, accessToken string) error
}

// TokenValidatorInterface объединяет проверку подписи, subject, срока действия
// и статуса отзыва в реестре в одно решение "можно ли использовать токен"
type TokenValidatorInterface interface {
	Validate(ctx context.Context, tokenStr, expectedSubject string, kind model.TokenKind) (*security.Claims, error)
	ValidateToken(ctx context.Context, tokenStr string, kind model.TokenKind) (*security.Claims, error)
	IsUsable(ctx context.Context, tokenStr, expectedSubject string, kind model.TokenKind) bool
}
