package service

import (
	"context"
	"fmt"
	"log"

	"awareid-qa/model"
	"awareid-qa/payload"
)

// Onboarding прогоняет пользователя через регистрацию и аутентификацию целиком.
type Onboarding struct {
	enrollment     *Enrollment
	authentication *Authentication
}

// NewOnboarding собирает сквозной сценарий онбординга.
func NewOnboarding(enrollment *Enrollment, authentication *Authentication) *Onboarding {
	return &Onboarding{enrollment: enrollment, authentication: authentication}
}

// OnboardResult — итог сквозного онбординга одного пользователя.
type OnboardResult struct {
	Username         string
	EnrollmentToken  string
	RegistrationCode string
	AuthToken        string
	FaceVerified     bool
}

// WithFace регистрирует пользователя по лицу и сразу проверяет аутентификацию
// тем же набором кадров.
func (o *Onboarding) WithFace(ctx context.Context, username string, frames []payload.FaceFrame) (OnboardResult, error) {
	if username == "" {
		username = UniqueUsername("dantest")
	}

	result := OnboardResult{Username: username}

	enrollmentToken, err := o.enrollment.Initiate(ctx, payload.EnrollRequest{Username: username})
	if err != nil {
		return result, err
	}
	result.EnrollmentToken = enrollmentToken

	liveness := payload.NewFaceLiveness(frames, "", username)

	code, err := o.enrollment.AddFace(ctx, liveness)
	if err != nil {
		return result, err
	}
	result.RegistrationCode = code

	authToken, err := o.authentication.Initiate(ctx, username)
	if err != nil {
		return result, err
	}
	result.AuthToken = authToken

	verify, err := o.authentication.VerifyFace(ctx, liveness)
	if err != nil {
		return result, err
	}
	result.FaceVerified = verify.Verified

	log.Printf("онбординг: пользователь %s, лицо подтверждено = %v", username, verify.Verified)
	return result, nil
}

// VerifyComplete убеждается, что онбординг действительно завершён: повторная
// аутентификация по лицу должна проходить.
func (o *Onboarding) VerifyComplete(ctx context.Context, username string, frames []payload.FaceFrame) (model.VerifyResponse, error) {
	if _, err := o.authentication.Initiate(ctx, username); err != nil {
		return model.VerifyResponse{}, err
	}

	verify, err := o.authentication.VerifyFace(ctx, payload.NewFaceLiveness(frames, "", username))
	if err != nil {
		return model.VerifyResponse{}, err
	}
	if !verify.Verified {
		return verify, fmt.Errorf("onboarding: пользователь %s не прошёл повторную проверку лица", username)
	}

	return verify, nil
}
