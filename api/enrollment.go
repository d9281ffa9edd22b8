// Package api содержит по одному методу на каждый REST эндпоинт AwareID.
// Никакой работы с окружением здесь нет: только пути и заголовки.
package api

import (
	"context"

	"awareid-qa/client"
	"awareid-qa/payload"
)

const enrollmentBasePath = "/onboarding/enrollment"

// Enrollment оборачивает эндпоинты регистрации.
type Enrollment struct {
	client *client.Client
}

// NewEnrollment создаёт обёртку над эндпоинтами регистрации.
func NewEnrollment(c *client.Client) *Enrollment {
	return &Enrollment{client: c}
}

// Enroll инициирует новую сессию регистрации; ответ содержит enrollmentToken.
func (e *Enrollment) Enroll(ctx context.Context, req payload.EnrollRequest) (*client.Response, error) {
	return e.client.Post(ctx, enrollmentBasePath+"/enroll", req, nil)
}

// AddDevice добавляет данные устройства к сессии регистрации.
func (e *Enrollment) AddDevice(ctx context.Context, body payload.Enrollment) (*client.Response, error) {
	return e.client.Post(ctx, enrollmentBasePath+"/addDevice", body, nil)
}

// AddFace добавляет данные живости лица; ответ содержит registrationCode.
func (e *Enrollment) AddFace(ctx context.Context, body payload.Enrollment) (*client.Response, error) {
	return e.client.Post(ctx, enrollmentBasePath+"/addFace", body, nil)
}

// AddFaceSpoof добавляет данные для детекции подделки лица.
func (e *Enrollment) AddFaceSpoof(ctx context.Context, body payload.Enrollment) (*client.Response, error) {
	return e.client.Post(ctx, enrollmentBasePath+"/addFaceSpoof", body, nil)
}

// AddVoice добавляет голосовую биометрию к сессии регистрации.
func (e *Enrollment) AddVoice(ctx context.Context, body payload.Enrollment) (*client.Response, error) {
	return e.client.Post(ctx, enrollmentBasePath+"/addVoice", body, nil)
}

// AddDocument добавляет изображения документа к сессии регистрации.
func (e *Enrollment) AddDocument(ctx context.Context, enrollmentToken string, doc payload.Document) (*client.Response, error) {
	body := struct {
		EnrollmentToken string `json:"enrollmentToken"`
		payload.Document
	}{enrollmentToken, doc}

	return e.client.Post(ctx, enrollmentBasePath+"/addDocument", body, nil)
}

// ValidateDocumentType проверяет тип документа перед обработкой.
func (e *Enrollment) ValidateDocumentType(ctx context.Context, doc payload.Document) (*client.Response, error) {
	return e.client.Post(ctx, enrollmentBasePath+"/validateDocumentType", doc, nil)
}

// AddDocumentOCR отправляет документ на OCR распознавание.
func (e *Enrollment) AddDocumentOCR(ctx context.Context, enrollmentToken string, doc payload.Document) (*client.Response, error) {
	body := struct {
		EnrollmentToken string `json:"enrollmentToken"`
		payload.Document
	}{enrollmentToken, doc}

	return e.client.Post(ctx, enrollmentBasePath+"/addDocumentOCR", body, nil)
}

// Cancel отменяет незавершённую сессию регистрации.
func (e *Enrollment) Cancel(ctx context.Context, enrollmentToken, reason string) (*client.Response, error) {
	body := payload.CancelRequest{EnrollmentToken: enrollmentToken, Reason: reason}
	return e.client.Post(ctx, enrollmentBasePath+"/cancel", body, nil)
}
