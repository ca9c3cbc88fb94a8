package service

import "errors"

// Внешняя таксономия ошибок операций. Malformed и InvalidSignature наружу
// не различаются и оба схлопываются в ErrInvalidToken, чтобы не раскрывать
// криптографические детали
var (
	ErrInvalidToken       = errors.New("невалидный токен")
	ErrTokenExpired       = errors.New("токен просрочен")
	ErrTokenRevoked       = errors.New("токен отозван")
	ErrTokenNotFound      = errors.New("токен не найден")
	ErrInvalidCredentials = errors.New("неверный логин или пароль")
	ErrAccountExists      = errors.New("пользователь уже существует")
	ErrStorage            = errors.New("ошибка хранилища")
)
