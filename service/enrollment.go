// Package service реализует сценарии поверх обёрток эндпоинтов: регистрацию,
// аутентификацию и сквозной онбординг пользователя.
package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"awareid-qa/api"
	"awareid-qa/envstore"
	"awareid-qa/payload"
)

const (
	ENROLLMENT_TOKEN_KEY  = "ENROLLMENT_TOKEN"
	REGISTRATION_CODE_KEY = "REGISTRATION_CODE"
)

// Enrollment управляет жизненным циклом одной сессии регистрации.
type Enrollment struct {
	api *api.Enrollment
	env envstore.Store

	enrollmentToken  string
	registrationCode string
}

// NewEnrollment создаёт сервис регистрации; токены сессии сохраняются в .env.
func NewEnrollment(enrollmentAPI *api.Enrollment, env envstore.Store) *Enrollment {
	return &Enrollment{api: enrollmentAPI, env: env}
}

// Initiate начинает регистрацию. Пустой username генерируется автоматически.
func (s *Enrollment) Initiate(ctx context.Context, req payload.EnrollRequest) (string, error) {
	if req.Username == "" {
		req.Username = UniqueUsername("dantest")
	}
	if req.Email == "" {
		req.Email = req.Username + "@example.com"
	}

	resp, err := s.api.Enroll(ctx, req)
	if err != nil {
		return "", fmt.Errorf("enrollment: initiate: %w", err)
	}
	if !resp.OK() {
		return "", resp.APIError("enrollment: initiate")
	}

	token, err := resp.Field("enrollmentToken")
	if err != nil {
		return "", err
	}

	s.enrollmentToken = token
	if err := s.env.Set(ENROLLMENT_TOKEN_KEY, token); err != nil {
		return "", fmt.Errorf("enrollment: persist token: %w", err)
	}

	log.Printf("регистрация: сессия открыта для %s", req.Username)
	return token, nil
}

// AddFace отправляет данные живости лица и сохраняет регистрационный код.
func (s *Enrollment) AddFace(ctx context.Context, liveness payload.FaceLiveness) (string, error) {
	if s.enrollmentToken == "" {
		return "", fmt.Errorf("enrollment: сессия не открыта, сначала вызовите Initiate")
	}

	resp, err := s.api.AddFace(ctx, payload.Enrollment{
		EnrollmentToken:  s.enrollmentToken,
		FaceLivenessData: &liveness,
	})
	if err != nil {
		return "", fmt.Errorf("enrollment: add face: %w", err)
	}
	if !resp.OK() {
		return "", resp.APIError("enrollment: add face")
	}

	code, err := resp.Field("registrationCode")
	if err != nil {
		return "", err
	}

	s.registrationCode = code
	if err := s.env.Set(REGISTRATION_CODE_KEY, code); err != nil {
		return "", fmt.Errorf("enrollment: persist registration code: %w", err)
	}

	return code, nil
}

// AddDevice отправляет отпечаток устройства в рамках открытой сессии.
func (s *Enrollment) AddDevice(ctx context.Context, device payload.DeviceFingerprint) error {
	if s.enrollmentToken == "" {
		return fmt.Errorf("enrollment: сессия не открыта, сначала вызовите Initiate")
	}

	resp, err := s.api.AddDevice(ctx, payload.Enrollment{
		EnrollmentToken:   s.enrollmentToken,
		DeviceFingerprint: &device,
	})
	if err != nil {
		return fmt.Errorf("enrollment: add device: %w", err)
	}
	if !resp.OK() {
		return resp.APIError("enrollment: add device")
	}

	return nil
}

// AddVoice отправляет голосовую биометрию в рамках открытой сессии.
func (s *Enrollment) AddVoice(ctx context.Context, voice payload.Voice) error {
	if s.enrollmentToken == "" {
		return fmt.Errorf("enrollment: сессия не открыта, сначала вызовите Initiate")
	}

	resp, err := s.api.AddVoice(ctx, payload.Enrollment{
		EnrollmentToken: s.enrollmentToken,
		VoiceData:       &voice,
	})
	if err != nil {
		return fmt.Errorf("enrollment: add voice: %w", err)
	}
	if !resp.OK() {
		return resp.APIError("enrollment: add voice")
	}

	return nil
}

// AddDocument отправляет изображения документа в рамках открытой сессии.
func (s *Enrollment) AddDocument(ctx context.Context, doc payload.Document) error {
	if s.enrollmentToken == "" {
		return fmt.Errorf("enrollment: сессия не открыта, сначала вызовите Initiate")
	}

	resp, err := s.api.AddDocument(ctx, s.enrollmentToken, doc)
	if err != nil {
		return fmt.Errorf("enrollment: add document: %w", err)
	}
	if !resp.OK() {
		return resp.APIError("enrollment: add document")
	}

	return nil
}

// Cancel отменяет открытую сессию и сбрасывает сохранённые токены.
func (s *Enrollment) Cancel(ctx context.Context, reason string) error {
	if s.enrollmentToken == "" {
		return nil
	}

	resp, err := s.api.Cancel(ctx, s.enrollmentToken, reason)
	if err != nil {
		return fmt.Errorf("enrollment: cancel: %w", err)
	}
	if !resp.OK() {
		return resp.APIError("enrollment: cancel")
	}

	s.ClearTokens()
	log.Printf("регистрация: сессия отменена (%s)", reason)
	return nil
}

// EnrollmentToken возвращает токен текущей сессии (пустой, если сессии нет).
func (s *Enrollment) EnrollmentToken() string {
	return s.enrollmentToken
}

// RegistrationCode возвращает код регистрации текущей сессии.
func (s *Enrollment) RegistrationCode() string {
	return s.registrationCode
}

// ClearTokens сбрасывает токены сессии в памяти.
func (s *Enrollment) ClearTokens() {
	s.enrollmentToken = ""
	s.registrationCode = ""
}

// UniqueUsername генерирует уникальное имя вида base_YYYYMMDD_HHMMSS_xxxxxx,
// не длиннее 50 символов.
func UniqueUsername(base string) string {
	suffix := make([]byte, 3)
	_, _ = rand.Read(suffix)

	username := fmt.Sprintf("%s_%s_%s", base, time.Now().Format("20060102_150405"), hex.EncodeToString(suffix))
	if len(username) > 50 {
		username = username[:50]
	}
	return username
}
