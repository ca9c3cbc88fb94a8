package service

import (
	"auth-token-server/internal/model"
	"auth-token-server/internal/ports"
	"auth-token-server/internal/security"
	"context"
	"fmt"
	"log"
	"time"
)

// TokenValidator принимает решение "можно ли использовать токен" как
// конъюнкцию четырех проверок, строго в этом порядке:
//  1. подпись и структура токена корректны;
//  2. subject совпадает с ожидаемым;
//  3. срок действия строго не истек;
//  4. реестр содержит пару с невыставленным флагом отзыва нужного вида.
//
// Порядок важен: криптографически невалидный или просроченный токен
// отбрасывается без похода в реестр
type TokenValidator struct {
	jwtService      ports.JWTServiceInterface
	tokenRepository ports.TokenRepositoryInterface
	cache           ports.TokenCacheRepository
}

func NewTokenValidator(
	jwtService ports.JWTServiceInterface,
	tokenRepository ports.TokenRepositoryInterface,
	cache ports.TokenCacheRepository,
) *TokenValidator {
	return &TokenValidator{
		jwtService:      jwtService,
		tokenRepository: tokenRepository,
		cache:           cache,
	}
}

func (v *TokenValidator) Validate(ctx context.Context, tokenStr, expectedSubject string, kind model.TokenKind) (*security.Claims, error) {
	claims, err := v.jwtService.VerifyToken(tokenStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return v.validateClaims(ctx, claims, tokenStr, expectedSubject, kind)
}

// ValidateToken проверяет токен относительно subject, который он сам несет
func (v *TokenValidator) ValidateToken(ctx context.Context, tokenStr string, kind model.TokenKind) (*security.Claims, error) {
	claims, err := v.jwtService.VerifyToken(tokenStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return v.validateClaims(ctx, claims, tokenStr, claims.Subject, kind)
}

func (v *TokenValidator) validateClaims(ctx context.Context, claims *security.Claims, tokenStr, expectedSubject string, kind model.TokenKind) (*security.Claims, error) {
	if claims.Subject != expectedSubject {
		// чужой токен не принимается, даже если подпись корректна
		return nil, ErrInvalidToken
	}

	if claims.ExpiresAt == nil || !claims.ExpiresAt.Time.After(time.Now()) {
		return nil, ErrTokenExpired
	}

	pair, err := v.lookup(ctx, tokenStr, kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if pair == nil {
		return nil, ErrTokenNotFound
	}
	if pair.RevokedFor(kind) {
		return nil, ErrTokenRevoked
	}

	return claims, nil
}

func (v *TokenValidator) IsUsable(ctx context.Context, tokenStr, expectedSubject string, kind model.TokenKind) bool {
	_, err := v.Validate(ctx, tokenStr, expectedSubject, kind)
	return err == nil
}

// lookup читает пару из кэша, при промахе идет в реестр. Путь чтения
// НИКОГДА не пишет в кэш: строка, прочитанная из БД до отзыва, иначе могла
// бы перезаписать отозванную запись, положенную туда logout-ом. Кэш
// наполняют только выпуск пары и отзыв
func (v *TokenValidator) lookup(ctx context.Context, tokenStr string, kind model.TokenKind) (*model.TokenPair, error) {
	if v.cache != nil {
		var pair *model.TokenPair
		var err error
		if kind == model.TokenKindRefresh {
			pair, err = v.cache.GetByRefreshToken(ctx, tokenStr)
		} else {
			pair, err = v.cache.GetByAccessToken(ctx, tokenStr)
		}
		if err != nil {
			log.Printf("кэш недоступен, чтение из БД: %v", err)
		} else if pair != nil {
			return pair, nil
		}
	}

	var pair *model.TokenPair
	var err error
	if kind == model.TokenKindRefresh {
		pair, err = v.tokenRepository.FindByRefreshToken(ctx, tokenStr)
	} else {
		pair, err = v.tokenRepository.FindByAccessToken(ctx, tokenStr)
	}
	if err != nil {
		return nil, err
	}

	return pair, nil
}
