package service

import (
	"auth-token-server/internal/model"
	"auth-token-server/internal/ports"
	"auth-token-server/internal/security"
	"context"
	"errors"
	"fmt"
	"log"
	"unicode"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type AuthenticationService struct {
	userRepository  ports.UserRepository
	tokenRepository ports.TokenRepositoryInterface
	jwtService      ports.JWTServiceInterface
	tokenValidator  ports.TokenValidatorInterface
	cache           ports.TokenCacheRepository
}

func NewAuthenticationService(
	userRepository ports.UserRepository,
	tokenRepository ports.TokenRepositoryInterface,
	jwtService ports.JWTServiceInterface,
	tokenValidator ports.TokenValidatorInterface,
	cache ports.TokenCacheRepository,
) *AuthenticationService {
	return &AuthenticationService{
		userRepository:  userRepository,
		tokenRepository: tokenRepository,
		jwtService:      jwtService,
		tokenValidator:  tokenValidator,
		cache:           cache,
	}
}

// Register создает пользователя и ведет себя как Login: выпускает пару
// токенов, записывает ее в реестр и возвращает обе строки
func (s *AuthenticationService) Register(ctx context.Context, login string, password string) (*model.TokensPair, error) {
	if len(login) < 8 {
		return nil, fmt.Errorf("логин должен быть не меньше 8 символов")
	}
	for _, c := range login {
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) {
			return nil, fmt.Errorf("логин должен содержать только латинские буквы и цифры")
		}
	}

	if err := validatePassword(password); err != nil {
		return nil, err
	}

	exists, err := s.userRepository.Exists(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if exists {
		return nil, ErrAccountExists
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("не удалось создать хэш пароля: %w", err)
	}

	user := &model.User{
		UUID:         uuid.New().String(),
		Login:        login,
		PasswordHash: hash,
	}

	created, err := s.userRepository.CreateUser(ctx, user)
	if err != nil {
		// конкурентная регистрация того же логина проходит проверку Exists,
		// но упирается в уникальный индекс — это занятый логин, а не сбой БД
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrAccountExists
		}
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	return s.issueAndRecord(ctx, created.UUID)
}

// Login проверяет учетные данные и выпускает новую пару токенов.
// Неверный логин и неверный пароль наружу не различаются
func (s *AuthenticationService) Login(ctx context.Context, login string, password string) (*model.TokensPair, error) {
	user, err := s.userRepository.FindByLogin(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if !security.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.issueAndRecord(ctx, user.UUID)
}

// Refresh выпускает новый access-токен по действующему refresh-токену.
// Refresh-токен НЕ ротируется: новая пара записывается в реестр с тем же
// refresh-токеном и свежим access-токеном. При любой ошибке валидации
// реестр не мутируется
func (s *AuthenticationService) Refresh(ctx context.Context, refreshToken string) (*model.TokensPair, error) {
	claims, err := s.tokenValidator.ValidateToken(ctx, refreshToken, model.TokenKindRefresh)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.jwtService.IssueAccessToken(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("ошибка генерации токенов: %w", err)
	}

	pair := &model.TokenPair{
		UserUUID:     claims.Subject,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}
	if err := s.tokenRepository.Save(ctx, pair); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	s.warmCache(ctx, pair)

	return &model.TokensPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Logout отзывает access-сторону пары по точному совпадению access-токена.
// Операция идемпотентна: повторный logout того же токена — успешный no-op
func (s *AuthenticationService) Logout(ctx context.Context, accessToken string) error {
	pair, err := s.tokenRepository.FindByAccessToken(ctx, accessToken)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if pair == nil {
		return ErrTokenNotFound
	}

	if _, err := s.tokenRepository.RevokeByAccessToken(ctx, accessToken); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}

	// в кэш записывается сама отозванная строка, а не удаляются ключи:
	// перезапись монотонна и не оставляет окна, в котором промах кэша
	// можно было бы закрыть строкой, прочитанной из БД до отзыва
	pair.AccessRevoked = true
	s.warmCache(ctx, pair)

	return nil
}

func (s *AuthenticationService) issueAndRecord(ctx context.Context, userUUID string) (*model.TokensPair, error) {
	accessToken, err := s.jwtService.IssueAccessToken(userUUID)
	if err != nil {
		return nil, fmt.Errorf("ошибка генерации токенов: %w", err)
	}
	refreshToken, err := s.jwtService.IssueRefreshToken(userUUID)
	if err != nil {
		return nil, fmt.Errorf("ошибка генерации токенов: %w", err)
	}

	pair := &model.TokenPair{
		UserUUID:     userUUID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}
	if err := s.tokenRepository.Save(ctx, pair); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	s.warmCache(ctx, pair)

	return &model.TokensPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *AuthenticationService) warmCache(ctx context.Context, pair *model.TokenPair) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetTokenPair(ctx, pair); err != nil {
		log.Printf("не удалось прогреть кэш: %v", err)
	}
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("пароль должен содержать минимум 8 символов")
	}

	var upperCount, lowerCount, digitCount, specialCount int

	for _, c := range password {
		switch {
		case unicode.IsUpper(c):
			upperCount++
		case unicode.IsLower(c):
			lowerCount++
		case unicode.IsDigit(c):
			digitCount++
		case unicode.IsPunct(c) || unicode.IsSymbol(c):
			specialCount++
		}
	}

	if upperCount == 0 || lowerCount == 0 || (upperCount+lowerCount) < 2 {
		return fmt.Errorf("пароль должен содержать минимум 2 буквы в разных регистрах")
	}
	if digitCount < 1 {
		return fmt.Errorf("пароль должен содержать хотя бы одну цифру")
	}
	if specialCount < 1 {
		return fmt.Errorf("пароль должен содержать хотя бы один специальный символ")
	}

	return nil
}
