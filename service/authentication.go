package service

import (
	"context"
	"fmt"
	"log"

	"awareid-qa/api"
	"awareid-qa/envstore"
	"awareid-qa/model"
	"awareid-qa/payload"
)

const AUTH_TOKEN_KEY = "AUTH_TOKEN"

// Authentication управляет жизненным циклом одной сессии аутентификации.
type Authentication struct {
	api *api.Authentication
	env envstore.Store

	authToken string
}

// NewAuthentication создаёт сервис аутентификации.
func NewAuthentication(authAPI *api.Authentication, env envstore.Store) *Authentication {
	return &Authentication{api: authAPI, env: env}
}

// Initiate начинает аутентификацию пользователя и сохраняет токен сессии.
func (s *Authentication) Initiate(ctx context.Context, username string) (string, error) {
	resp, err := s.api.Authenticate(ctx, username)
	if err != nil {
		return "", fmt.Errorf("authentication: initiate: %w", err)
	}
	if !resp.OK() {
		return "", resp.APIError("authentication: initiate")
	}

	token, err := resp.Field("authToken")
	if err != nil {
		return "", err
	}

	s.authToken = token
	if err := s.env.Set(AUTH_TOKEN_KEY, token); err != nil {
		return "", fmt.Errorf("authentication: persist token: %w", err)
	}

	log.Printf("аутентификация: сессия открыта для %s", username)
	return token, nil
}

// VerifyFace проверяет живость лица в рамках открытой сессии.
func (s *Authentication) VerifyFace(ctx context.Context, liveness payload.FaceLiveness) (model.VerifyResponse, error) {
	if s.authToken == "" {
		return model.VerifyResponse{}, fmt.Errorf("authentication: сессия не открыта, сначала вызовите Initiate")
	}

	resp, err := s.api.VerifyFace(ctx, s.authToken, liveness)
	if err != nil {
		return model.VerifyResponse{}, fmt.Errorf("authentication: verify face: %w", err)
	}
	if !resp.OK() {
		return model.VerifyResponse{}, resp.APIError("authentication: verify face")
	}

	var result model.VerifyResponse
	if err := resp.Decode(&result); err != nil {
		return model.VerifyResponse{}, err
	}

	return result, nil
}

// VerifyDevice проверяет отпечаток устройства в рамках открытой сессии.
func (s *Authentication) VerifyDevice(ctx context.Context, device payload.DeviceFingerprint) (model.VerifyResponse, error) {
	if s.authToken == "" {
		return model.VerifyResponse{}, fmt.Errorf("authentication: сессия не открыта, сначала вызовите Initiate")
	}

	resp, err := s.api.VerifyDevice(ctx, s.authToken, device)
	if err != nil {
		return model.VerifyResponse{}, fmt.Errorf("authentication: verify device: %w", err)
	}
	if !resp.OK() {
		return model.VerifyResponse{}, resp.APIError("authentication: verify device")
	}

	var result model.VerifyResponse
	if err := resp.Decode(&result); err != nil {
		return model.VerifyResponse{}, err
	}

	return result, nil
}

// Cancel отменяет открытую сессию аутентификации.
func (s *Authentication) Cancel(ctx context.Context, reason string) error {
	if s.authToken == "" {
		return nil
	}

	resp, err := s.api.Cancel(ctx, s.authToken, reason)
	if err != nil {
		return fmt.Errorf("authentication: cancel: %w", err)
	}
	if !resp.OK() {
		return resp.APIError("authentication: cancel")
	}

	s.authToken = ""
	log.Printf("аутентификация: сессия отменена (%s)", reason)
	return nil
}

// AuthToken возвращает токен текущей сессии (пустой, если сессии нет).
func (s *Authentication) AuthToken() string {
	return s.authToken
}
