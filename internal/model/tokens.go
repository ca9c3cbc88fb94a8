package model

import "time"

// TokenKind различает access и refresh сторону пары при валидации
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// TokenPair : строка реестра выданных токенов.
// Флаги отзыва монотонны: однажды выставленный TRUE никогда не снимается.
// Флага два, по одному на каждый вид токена: logout отзывает access-сторону,
// не задевая refresh-сторону той же пары
type TokenPair struct {
	ID             int64     `db:"id" json:"-"`
	UserUUID       string    `db:"user_uuid" json:"user_uuid"`
	AccessToken    string    `db:"access_token" json:"access_token"`
	RefreshToken   string    `db:"refresh_token" json:"refresh_token"`
	AccessRevoked  bool      `db:"access_revoked" json:"access_revoked"`
	RefreshRevoked bool      `db:"refresh_revoked" json:"refresh_revoked"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// RevokedFor возвращает флаг отзыва для запрошенного вида токена
func (p *TokenPair) RevokedFor(kind TokenKind) bool {
	if kind == TokenKindRefresh {
		return p.RefreshRevoked
	}
	return p.AccessRevoked
}

// TokensPair содержит пару access и refresh токенов
// swagger:model
type TokensPair struct {
	// Access токен (JWT, короткое время жизни)
	// example: eyJhbGciOiJIUzUxMiIsInR5cCI6IkpXVCJ9...
	AccessToken string `json:"accessToken"`

	// Refresh токен (JWT, длинное время жизни)
	// example: eyJhbGciOiJIUzUxMiIsInR5cCI6IkpXVCJ9...
	RefreshToken string `json:"refreshToken"`
}
