package requestresponse

// RegisterRequest : тело запроса на регистрацию
type RegisterRequest struct {
	Login    string `json:"login" example:"newuser1"`
	Password string `json:"password" example:"P@ssw0rd123"`
}

// LoginRequest : тело запроса на аутентификацию
type LoginRequest struct {
	Login    string `json:"login" example:"user1"`
	Password string `json:"password" example:"P@ssw0rd123"`
}

// TokensResponse : ответ с парой токенов (регистрация, логин, refresh)
type TokensResponse struct {
	Response struct {
		AccessToken  string `json:"access_token" example:"eyJhbGciOiJIUzUxMiIsInR5cCI6IkpXVCJ9..."`
		RefreshToken string `json:"refresh_token" example:"eyJhbGciOiJIUzUxMiIsInR5cCI6IkpXVCJ9..."`
	} `json:"response"`
}

// CurrentUserResponse : информация о текущем пользователе
type CurrentUserResponse struct {
	Response struct {
		UserUUID string `json:"user_uuid" example:"b6a1e1c4-4b1d-4f1e-8b29-1234567890ab"`
	} `json:"response"`
}

// LogoutResponse : ответ на завершение сессии
type LogoutResponse struct {
	Response struct {
		Revoked bool `json:"revoked" example:"true"`
	} `json:"response"`
}

// ErrorResponse : тело ответа с ошибкой
type ErrorResponse struct {
	Error string `json:"error" example:"невалидный токен"`
}
