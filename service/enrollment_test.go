package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"awareid-qa/api"
	"awareid-qa/client"
	"awareid-qa/config"
	"awareid-qa/envstore"
	"awareid-qa/payload"
)

func newEnrollmentService(t *testing.T, handler http.HandlerFunc) (*Enrollment, envstore.Store) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := client.New(
		config.APIConfig{BaseURL: server.URL},
		config.HTTPConfig{Timeout: 5 * time.Second},
		nil,
	)
	store := envstore.Store{Path: filepath.Join(t.TempDir(), ".env")}

	return NewEnrollment(api.NewEnrollment(c), store), store
}

func TestInitiatePersistsEnrollmentToken(t *testing.T) {
	enrollment, store := newEnrollmentService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/onboarding/enrollment/enroll" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"enrollmentToken":"et-1"}`))
	})

	token, err := enrollment.Initiate(context.Background(), payload.EnrollRequest{Username: "dan"})
	if err != nil {
		t.Fatalf("Initiate returned error: %v", err)
	}

	if token != "et-1" {
		t.Fatalf("unexpected token: %s", token)
	}
	if enrollment.EnrollmentToken() != "et-1" {
		t.Fatalf("token not kept in service")
	}
	if store.Get(ENROLLMENT_TOKEN_KEY) != "et-1" {
		t.Fatalf("token not persisted to .env")
	}
}

func TestInitiateFailsOnMissingToken(t *testing.T) {
	enrollment, _ := newEnrollmentService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	if _, err := enrollment.Initiate(context.Background(), payload.EnrollRequest{Username: "dan"}); err == nil {
		t.Fatalf("expected error for response without enrollmentToken")
	}
}

func TestAddFaceRequiresOpenSession(t *testing.T) {
	enrollment, _ := newEnrollmentService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("запрос не должен отправляться без открытой сессии")
	})

	liveness := payload.NewFaceLiveness(nil, "", "dan")
	if _, err := enrollment.AddFace(context.Background(), liveness); err == nil {
		t.Fatalf("expected error without Initiate")
	}
}

func TestAddFacePersistsRegistrationCode(t *testing.T) {
	enrollment, store := newEnrollmentService(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/onboarding/enrollment/enroll":
			w.Write([]byte(`{"enrollmentToken":"et-1"}`))
		case "/onboarding/enrollment/addFace":
			w.Write([]byte(`{"registrationCode":"rc-1"}`))
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
	})

	ctx := context.Background()
	if _, err := enrollment.Initiate(ctx, payload.EnrollRequest{Username: "dan"}); err != nil {
		t.Fatalf("Initiate returned error: %v", err)
	}

	code, err := enrollment.AddFace(ctx, payload.NewFaceLiveness(nil, "", "dan"))
	if err != nil {
		t.Fatalf("AddFace returned error: %v", err)
	}

	if code != "rc-1" {
		t.Fatalf("unexpected code: %s", code)
	}
	if store.Get(REGISTRATION_CODE_KEY) != "rc-1" {
		t.Fatalf("code not persisted to .env")
	}
}

func TestUniqueUsername(t *testing.T) {
	a := UniqueUsername("dantest")
	b := UniqueUsername("dantest")

	if a == b {
		t.Fatalf("usernames must be unique: %s", a)
	}
	if !strings.HasPrefix(a, "dantest_") {
		t.Fatalf("unexpected prefix: %s", a)
	}
	if len(a) > 50 {
		t.Fatalf("username too long: %d", len(a))
	}

	long := UniqueUsername(strings.Repeat("x", 60))
	if len(long) != 50 {
		t.Fatalf("expected truncation to 50, got %d", len(long))
	}
}
