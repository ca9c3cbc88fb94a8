package security_test

import (
	"auth-token-server/config"
	"auth-token-server/internal/security"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		SecretKey:       base64.RawURLEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef")),
		AccessTokenTTL:  "15m",
		RefreshTokenTTL: "720h",
	}
}

func newTestJWTService(t *testing.T) *security.JWTService {
	t.Helper()
	svc, err := security.NewJWTService(testJWTConfig())
	require.NoError(t, err)
	return svc
}

// секрет не в base64url — сервис не создается
func TestNewJWTService_InvalidSecret(t *testing.T) {
	cfg := testJWTConfig()
	cfg.SecretKey = "$$$не base64url$$$"

	_, err := security.NewJWTService(cfg)
	assert.Error(t, err)
}

// refresh TTL обязан быть строго больше access TTL
func TestNewJWTService_RefreshTTLNotLonger(t *testing.T) {
	cfg := testJWTConfig()
	cfg.AccessTokenTTL = "1h"
	cfg.RefreshTokenTTL = "30m"

	_, err := security.NewJWTService(cfg)
	assert.Error(t, err)

	cfg.RefreshTokenTTL = "1h"
	_, err = security.NewJWTService(cfg)
	assert.Error(t, err)
}

func TestSignAndVerify(t *testing.T) {
	svc := newTestJWTService(t)

	before := time.Now()
	token, err := svc.Sign("alice", time.Hour)
	require.NoError(t, err)

	claims, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.WithinDuration(t, before.Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
	assert.False(t, claims.IssuedAt.Time.After(time.Now()))
}

// VerifyToken не проверяет срок действия: просроченный, но корректно
// подписанный токен парсится успешно, истечение — забота вызывающего
func TestVerify_ExpiredTokenStillParses(t *testing.T) {
	svc := newTestJWTService(t)

	token, err := svc.Sign("alice", -time.Minute)
	require.NoError(t, err)

	claims, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.True(t, claims.ExpiresAt.Time.Before(time.Now()))
}

func TestVerify_Malformed(t *testing.T) {
	svc := newTestJWTService(t)

	claims, err := svc.VerifyToken("совсем не токен")
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, security.ErrTokenMalformed)
}

func TestVerify_WrongKey(t *testing.T) {
	svc := newTestJWTService(t)

	otherCfg := testJWTConfig()
	otherCfg.SecretKey = base64.RawURLEncoding.EncodeToString([]byte("ffffffffffffffffffffffffffffffff"))
	otherSvc, err := security.NewJWTService(otherCfg)
	require.NoError(t, err)

	token, err := svc.Sign("alice", time.Hour)
	require.NoError(t, err)

	claims, err := otherSvc.VerifyToken(token)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, security.ErrInvalidSignature)
}

// порча любого символа токена ломает проверку: либо подпись, либо структура,
// но никогда не другой subject
func TestVerify_TamperedToken(t *testing.T) {
	svc := newTestJWTService(t)

	token, err := svc.Sign("alice", time.Hour)
	require.NoError(t, err)

	positions := []int{0, len(token) / 3, len(token) / 2, len(token) - 1}
	for _, pos := range positions {
		if token[pos] == '.' {
			pos++
		}

		replacement := byte('A')
		if token[pos] == 'A' {
			replacement = 'B'
		}
		tampered := token[:pos] + string(replacement) + token[pos+1:]
		if tampered == token {
			continue
		}

		claims, err := svc.VerifyToken(tampered)
		assert.Error(t, err, "позиция %d", pos)
		assert.Nil(t, claims, "позиция %d", pos)
		assert.True(t,
			errors.Is(err, security.ErrInvalidSignature) || errors.Is(err, security.ErrTokenMalformed),
			"позиция %d: %v", pos, err)
	}
}

// access и refresh токены выпускаются с разными сроками жизни из конфига
func TestIssueTokens_DistinctLifetimes(t *testing.T) {
	svc := newTestJWTService(t)

	accessToken, err := svc.IssueAccessToken("u1")
	require.NoError(t, err)
	refreshToken, err := svc.IssueRefreshToken("u1")
	require.NoError(t, err)

	assert.NotEqual(t, accessToken, refreshToken)

	accessClaims, err := svc.VerifyToken(accessToken)
	require.NoError(t, err)
	refreshClaims, err := svc.VerifyToken(refreshToken)
	require.NoError(t, err)

	assert.Equal(t, "u1", accessClaims.Subject)
	assert.Equal(t, "u1", refreshClaims.Subject)
	assert.True(t, refreshClaims.ExpiresAt.Time.After(accessClaims.ExpiresAt.Time))
}

func TestSign_CompactStructure(t *testing.T) {
	svc := newTestJWTService(t)

	token, err := svc.Sign("alice", time.Hour)
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)
}
