package model

import "time"

// TokenResponse — ответ OAuth сервера на запрос client_credentials.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	Scope       string `json:"scope"`
}

// EnrollResponse содержит токен сессии регистрации.
type EnrollResponse struct {
	EnrollmentToken string `json:"enrollmentToken"`
}

// AddFaceResponse содержит регистрационный код после добавления лица.
type AddFaceResponse struct {
	RegistrationCode string `json:"registrationCode"`
}

// AuthenticateResponse содержит токен сессии аутентификации.
type AuthenticateResponse struct {
	AuthToken string `json:"authToken"`
}

// VerifyResponse — результат биометрической проверки.
type VerifyResponse struct {
	Verified bool    `json:"verified"`
	Score    float64 `json:"score"`
}

// TestResult — нормализованный итог прогона одного эндпоинта.
type TestResult struct {
	Name       string
	Endpoint   string
	Success    bool
	StatusCode int
	Errors     []string
	Warnings   []string
	DurationMs int64
	RanAt      time.Time
}

// AddError добавляет ошибку и помечает результат как провальный.
func (r *TestResult) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Success = false
}

// AddWarning добавляет предупреждение, не влияя на успешность.
func (r *TestResult) AddWarning(warning string) {
	r.Warnings = append(r.Warnings, warning)
}
