package api

import (
	"context"

	"awareid-qa/client"
	"awareid-qa/payload"
)

const authenticationBasePath = "/onboarding/authentication"

// authTokenHeader — заголовок сессии аутентификации для verify/cancel вызовов.
const authTokenHeader = "AUTHTOKEN"

// Authentication оборачивает эндпоинты аутентификации.
type Authentication struct {
	client *client.Client
}

// NewAuthentication создаёт обёртку над эндпоинтами аутентификации.
func NewAuthentication(c *client.Client) *Authentication {
	return &Authentication{client: c}
}

// Authenticate инициирует сессию аутентификации; ответ содержит authToken.
func (a *Authentication) Authenticate(ctx context.Context, username string) (*client.Response, error) {
	body := struct {
		Username string `json:"username"`
	}{username}

	return a.client.Post(ctx, authenticationBasePath+"/authenticate", body, nil)
}

// VerifyFace проверяет живость лица в рамках сессии аутентификации.
func (a *Authentication) VerifyFace(ctx context.Context, authToken string, liveness payload.FaceLiveness) (*client.Response, error) {
	return a.client.Post(ctx, authenticationBasePath+"/verifyFace", liveness, a.sessionHeaders(authToken))
}

// VerifyFaceSpoof проверяет лицо с детекцией подделки.
func (a *Authentication) VerifyFaceSpoof(ctx context.Context, authToken string, liveness payload.FaceLiveness) (*client.Response, error) {
	return a.client.Post(ctx, authenticationBasePath+"/verifyFaceSpoof", liveness, a.sessionHeaders(authToken))
}

// VerifyVoice проверяет голосовую биометрию.
func (a *Authentication) VerifyVoice(ctx context.Context, authToken string, voice payload.Voice) (*client.Response, error) {
	return a.client.Post(ctx, authenticationBasePath+"/verifyVoice", voice, a.sessionHeaders(authToken))
}

// VerifyDevice проверяет отпечаток устройства.
func (a *Authentication) VerifyDevice(ctx context.Context, authToken string, device payload.DeviceFingerprint) (*client.Response, error) {
	return a.client.Post(ctx, authenticationBasePath+"/verifyDevice", device, a.sessionHeaders(authToken))
}

// Cancel отменяет незавершённую сессию аутентификации.
func (a *Authentication) Cancel(ctx context.Context, authToken, reason string) (*client.Response, error) {
	body := payload.CancelRequest{Reason: reason}
	return a.client.Post(ctx, authenticationBasePath+"/cancel", body, a.sessionHeaders(authToken))
}

// RetrieveToken запрашивает токен аутентификации по регистрационному коду.
func (a *Authentication) RetrieveToken(ctx context.Context, registrationCode string) (*client.Response, error) {
	body := struct {
		RegistrationCode string `json:"registrationCode"`
	}{registrationCode}

	return a.client.Post(ctx, authenticationBasePath+"/retrieveToken", body, nil)
}

func (a *Authentication) sessionHeaders(authToken string) map[string]string {
	return map[string]string{authTokenHeader: authToken}
}
