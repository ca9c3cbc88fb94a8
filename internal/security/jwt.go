package security

import (
	"auth-token-server/config"
	"auth-token-server/internal/model"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const (
	UserContextKey contextKey = "user"
)

var (
	// ErrTokenMalformed : строка не является корректной структурой подписанного токена
	ErrTokenMalformed = errors.New("токен имеет неверный формат")
	// ErrInvalidSignature : структура корректна, но подпись не совпадает с ключом
	ErrInvalidSignature = errors.New("неверная подпись токена")
)

type Claims struct {
	jwt.RegisteredClaims
}

// JWTService подписывает и проверяет токены симметричным ключом.
// Состояния кроме декодированного ключа и двух TTL не имеет, поэтому новый
// экземпляр можно атомарно подменить на границе процесса
type JWTService struct {
	secretKey  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewJWTService(cfg *config.JWTConfig) (*JWTService, error) {
	secretKey, err := base64.RawURLEncoding.DecodeString(cfg.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("секретный ключ не является корректной base64url строкой: %w", err)
	}

	accessTTL, err := time.ParseDuration(cfg.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга access_token_ttl: %w", err)
	}
	refreshTTL, err := time.ParseDuration(cfg.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга refresh_token_ttl: %w", err)
	}
	if refreshTTL <= accessTTL {
		return nil, fmt.Errorf("refresh_token_ttl (%s) должен быть строго больше access_token_ttl (%s)", refreshTTL, accessTTL)
	}

	return &JWTService{
		secretKey:  secretKey,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

// Sign выпускает подписанный токен с заданным subject и временем жизни
func (service *JWTService) Sign(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    "auth-token-server",
		},
	}

	jwtToken := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := jwtToken.SignedString(service.secretKey)
	if err != nil {
		return "", fmt.Errorf("ошибка подписи токена: %w", err)
	}

	return signed, nil
}

func (service *JWTService) IssueAccessToken(userUUID string) (string, error) {
	return service.Sign(userUUID, service.accessTTL)
}

func (service *JWTService) IssueRefreshToken(userUUID string) (string, error) {
	return service.Sign(userUUID, service.refreshTTL)
}

// VerifyToken проверяет структуру и подпись токена и возвращает claims.
// Срок действия здесь НЕ проверяется: это зона ответственности вызывающего,
// чтобы он мог отличить "плохая подпись" от "подписан верно, но протух"
func (service *JWTService) VerifyToken(jwtTokenStr string) (*Claims, error) {
	var claims = &Claims{}

	jwtToken, err := jwt.ParseWithClaims(jwtTokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Header["alg"] != jwt.SigningMethodHS512.Alg() {
			return nil, fmt.Errorf("неверный способ подписи токена: %v", token.Header["alg"])
		}
		return service.secretKey, nil
	}, jwt.WithoutClaimsValidation())

	switch {
	case err == nil && jwtToken.Valid:
		return claims, nil
	case errors.Is(err, jwt.ErrTokenMalformed):
		return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	default:
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
}

// AccessTokenChecker нужен middleware, чтобы не зависеть от пакета service
type AccessTokenChecker interface {
	ValidateToken(ctx context.Context, tokenStr string, kind model.TokenKind) (*Claims, error)
}

func JWTMiddleware(checker AccessTokenChecker) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(handleAuthentication(checker, next))
	}
}

func handleAuthentication(checker AccessTokenChecker, next http.Handler) func(writer http.ResponseWriter, request *http.Request) {
	return func(writer http.ResponseWriter, request *http.Request) {
		authorizationHeader := request.Header.Get("Authorization")
		if !strings.HasPrefix(authorizationHeader, "Bearer ") {
			http.Error(writer, "unauthorized", http.StatusUnauthorized)
			return
		}

		token := strings.TrimPrefix(authorizationHeader, "Bearer ")

		claims, err := checker.ValidateToken(request.Context(), token, model.TokenKindAccess)
		if err != nil {
			log.Printf("невалидный токен: %v", err)
			http.Error(writer, "unauthorized", http.StatusUnauthorized)
			return
		}

		req := request.WithContext(context.WithValue(request.Context(), UserContextKey, claims))
		next.ServeHTTP(writer, req)
	}
}

func GetClaimsFromContext(ctx context.Context) (*Claims, error) {
	claims, ok := ctx.Value(UserContextKey).(*Claims)
	if !ok || claims == nil {
		return nil, fmt.Errorf("пользователь не авторизован")
	}
	return claims, nil
}
