package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"awareid-qa/api"
	"awareid-qa/client"
	"awareid-qa/config"
	"awareid-qa/envstore"
	"awareid-qa/payload"
)

func newOnboarding(t *testing.T, handler http.HandlerFunc) *Onboarding {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := client.New(
		config.APIConfig{BaseURL: server.URL},
		config.HTTPConfig{Timeout: 5 * time.Second},
		nil,
	)
	store := envstore.Store{Path: filepath.Join(t.TempDir(), ".env")}

	return NewOnboarding(
		NewEnrollment(api.NewEnrollment(c), store),
		NewAuthentication(api.NewAuthentication(c), store),
	)
}

func TestWithFaceRunsFullFlow(t *testing.T) {
	var paths []string
	onboarding := newOnboarding(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		switch r.URL.Path {
		case "/onboarding/enrollment/enroll":
			w.Write([]byte(`{"enrollmentToken":"et-1"}`))
		case "/onboarding/enrollment/addFace":
			w.Write([]byte(`{"registrationCode":"rc-1"}`))
		case "/onboarding/authentication/authenticate":
			w.Write([]byte(`{"authToken":"at-1"}`))
		case "/onboarding/authentication/verifyFace":
			w.Write([]byte(`{"verified":true,"score":0.91}`))
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
	})

	frames := []payload.FaceFrame{payload.NewFaceFrame("data")}
	result, err := onboarding.WithFace(context.Background(), "dan", frames)
	if err != nil {
		t.Fatalf("WithFace returned error: %v", err)
	}

	want := []string{
		"/onboarding/enrollment/enroll",
		"/onboarding/enrollment/addFace",
		"/onboarding/authentication/authenticate",
		"/onboarding/authentication/verifyFace",
	}
	if len(paths) != len(want) {
		t.Fatalf("expected %d requests, got %v", len(want), paths)
	}
	for i, path := range want {
		if paths[i] != path {
			t.Fatalf("request %d: got %s, want %s", i, paths[i], path)
		}
	}

	if result.Username != "dan" || result.EnrollmentToken != "et-1" ||
		result.RegistrationCode != "rc-1" || result.AuthToken != "at-1" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if !result.FaceVerified {
		t.Fatalf("expected FaceVerified")
	}
}

func TestWithFaceGeneratesUsernameWhenEmpty(t *testing.T) {
	onboarding := newOnboarding(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/onboarding/enrollment/enroll":
			w.Write([]byte(`{"enrollmentToken":"et-1"}`))
		case "/onboarding/enrollment/addFace":
			w.Write([]byte(`{"registrationCode":"rc-1"}`))
		case "/onboarding/authentication/authenticate":
			w.Write([]byte(`{"authToken":"at-1"}`))
		case "/onboarding/authentication/verifyFace":
			w.Write([]byte(`{"verified":true}`))
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
	})

	result, err := onboarding.WithFace(context.Background(), "", nil)
	if err != nil {
		t.Fatalf("WithFace returned error: %v", err)
	}
	if result.Username == "" || len(result.Username) > 50 {
		t.Fatalf("unexpected generated username: %q", result.Username)
	}
}

func TestWithFaceStopsOnEnrollmentFailure(t *testing.T) {
	requests := 0
	onboarding := newOnboarding(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"bad request"}`))
	})

	if _, err := onboarding.WithFace(context.Background(), "dan", nil); err == nil {
		t.Fatalf("expected error from failed enrollment")
	}
	if requests != 1 {
		t.Fatalf("flow must stop after first failure, got %d requests", requests)
	}
}

func TestVerifyCompleteFailsWhenNotVerified(t *testing.T) {
	onboarding := newOnboarding(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/onboarding/authentication/authenticate":
			w.Write([]byte(`{"authToken":"at-1"}`))
		case "/onboarding/authentication/verifyFace":
			w.Write([]byte(`{"verified":false,"score":0.12}`))
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
	})

	verify, err := onboarding.VerifyComplete(context.Background(), "dan", nil)
	if err == nil {
		t.Fatalf("expected error for unverified face")
	}
	if verify.Verified {
		t.Fatalf("unexpected verified flag")
	}
}
