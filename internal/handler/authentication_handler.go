package handler

import (
	"auth-token-server/internal/model/requestresponse"
	"auth-token-server/internal/ports"
	"auth-token-server/internal/security"
	"auth-token-server/internal/service"
	"auth-token-server/internal/util"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

type AuthenticationHandler struct {
	ports.AuthenticationService
}

func NewAuthenticationHandler(authenticationService ports.AuthenticationService) *AuthenticationHandler {
	return &AuthenticationHandler{authenticationService}
}

// Register godoc
// @Summary Регистрация пользователя
// @Description Создает пользователя и сразу аутентифицирует его: возвращает пару access и refresh токенов
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.RegisterRequest true "Тело запроса"
// @Success 200 {object} requestresponse.TokensResponse "Пара токенов"
// @Failure 400 {object} requestresponse.ErrorResponse "Некорректный JSON или слабый пароль"
// @Failure 409 {object} requestresponse.ErrorResponse "Пользователь уже существует"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/auth/register [post]
func (h *AuthenticationHandler) Register(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	var req requestresponse.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "некорректный JSON", http.StatusBadRequest)
		return
	}

	if req.Login == "" || req.Password == "" {
		util.HandleError(w, "login и password обязательны", http.StatusBadRequest)
		return
	}

	tokens, err := h.AuthenticationService.Register(ctx, req.Login, req.Password)
	if err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, service.ErrAccountExists):
			util.HandleError(w, "пользователь уже существует", http.StatusConflict)
		case errors.Is(err, service.ErrStorage):
			util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		default:
			util.HandleError(w, err.Error(), http.StatusBadRequest)
		}
		return
	}

	writeTokens(w, tokens.AccessToken, tokens.RefreshToken)
}

// Login godoc
// @Summary Аутентификация пользователя
// @Description Получение пары access и refresh токенов по логину и паролю
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.LoginRequest true "Тело запроса"
// @Success 200 {object} requestresponse.TokensResponse "Пара токенов"
// @Failure 400 {object} requestresponse.ErrorResponse "Некорректный JSON или пустые поля"
// @Failure 401 {object} requestresponse.ErrorResponse "Неверный логин или пароль"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/auth/login [post]
func (h *AuthenticationHandler) Login(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	var req requestresponse.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "некорректный JSON", http.StatusBadRequest)
		return
	}

	if req.Login == "" || req.Password == "" {
		util.HandleError(w, "login и password обязательны", http.StatusBadRequest)
		return
	}

	tokens, err := h.AuthenticationService.Login(ctx, req.Login, req.Password)
	if err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			util.HandleError(w, "неверный логин или пароль", http.StatusUnauthorized)
		case errors.Is(err, service.ErrStorage):
			util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		default:
			util.HandleError(w, "неизвестная ошибка", http.StatusInternalServerError)
		}
		return
	}

	writeTokens(w, tokens.AccessToken, tokens.RefreshToken)
}

// RefreshToken godoc
// @Summary Обновление access-токена
// @Description Выпускает новый access-токен по действующему refresh-токену из заголовка Authorization. Refresh-токен не ротируется и возвращается без изменений
// @Tags Authentication
// @Produce json
// @Param Authorization header string true "Bearer refresh-токен" default(Bearer <refresh_token>)
// @Success 200 {object} requestresponse.TokensResponse "Новый access и прежний refresh токен"
// @Failure 401 {object} requestresponse.ErrorResponse "Невалидный, просроченный или отозванный токен"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/auth/refresh [post]
func (h *AuthenticationHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		util.HandleError(w, "пустой или неверный заголовок Authorization", http.StatusUnauthorized)
		return
	}

	refreshToken := strings.TrimPrefix(authHeader, "Bearer ")

	tokens, err := h.AuthenticationService.Refresh(ctx, refreshToken)
	if err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, service.ErrInvalidToken),
			errors.Is(err, service.ErrTokenExpired),
			errors.Is(err, service.ErrTokenRevoked),
			errors.Is(err, service.ErrTokenNotFound):
			util.HandleError(w, "не удалось обновить токены", http.StatusUnauthorized)
		case errors.Is(err, service.ErrStorage):
			util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		default:
			util.HandleError(w, "неизвестная ошибка", http.StatusInternalServerError)
		}
		return
	}

	writeTokens(w, tokens.AccessToken, tokens.RefreshToken)
}

// Logout godoc
// @Summary Завершение авторизованной сессии
// @Description Отзывает access-токен, переданный в URL. Повторный вызов для того же токена — успешный no-op
// @Tags Authentication
// @Produce json
// @Param token path string true "Access-токен пользователя (JWT)"
// @Success 200 {object} requestresponse.LogoutResponse
// @Failure 400 {object} requestresponse.ErrorResponse "Токен не указан"
// @Failure 404 {object} requestresponse.ErrorResponse "Токен не найден"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/auth/{token} [delete]
func (h *AuthenticationHandler) Logout(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	accessToken := chi.URLParam(r, "token")
	if accessToken == "" {
		util.HandleError(w, "токен не указан", http.StatusBadRequest)
		return
	}

	if err := h.AuthenticationService.Logout(ctx, accessToken); err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, service.ErrTokenNotFound):
			util.HandleError(w, "токен не найден", http.StatusNotFound)
		default:
			util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		}
		return
	}

	resp := requestresponse.LogoutResponse{}
	resp.Response.Revoked = true

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Println("ошибка кодирования ответа:", err)
	}
}

// GetCurrentUsersUUID godoc
// @Summary Получение UUID текущего пользователя
// @Description Возвращает UUID пользователя, который авторизован в системе
// @Tags Authentication
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.CurrentUserResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Router /api/auth/me [get]
func (h *AuthenticationHandler) GetCurrentUsersUUID(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "не авторизован", http.StatusUnauthorized)
		return
	}

	resp := requestresponse.CurrentUserResponse{}
	resp.Response.UserUUID = claims.Subject

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

func writeTokens(w http.ResponseWriter, accessToken, refreshToken string) {
	resp := requestresponse.TokensResponse{}
	resp.Response.AccessToken = accessToken
	resp.Response.RefreshToken = refreshToken

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Println("ошибка кодирования ответа:", err)
	}
}
