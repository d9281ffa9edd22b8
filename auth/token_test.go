package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"awareid-qa/errs"
)

func TestFetchAccessTokenSuccess(t *testing.T) {
	var gotPath, gotGrant, gotScope string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotGrant = r.PostForm.Get("grant_type")
		gotScope = r.PostForm.Get("scope")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok-1","token_type":"Bearer","expires_in":300}`))
	}))
	defer server.Close()

	token, expiresIn, err := FetchAccessToken(context.Background(), server.Client(), server.URL, "myrealm", "client", "secret")
	if err != nil {
		t.Fatalf("FetchAccessToken returned error: %v", err)
	}

	if token != "tok-1" {
		t.Fatalf("unexpected token: %s", token)
	}
	if expiresIn != 300*time.Second {
		t.Fatalf("unexpected expiresIn: %s", expiresIn)
	}
	if gotPath != "/auth/realms/myrealm/protocol/openid-connect/token" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotGrant != "client_credentials" || gotScope != "openid" {
		t.Fatalf("unexpected form: grant=%s scope=%s", gotGrant, gotScope)
	}
}

func TestFetchAccessTokenZeroExpiresInWhenAbsent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token":"tok-1"}`))
	}))
	defer server.Close()

	_, expiresIn, err := FetchAccessToken(context.Background(), server.Client(), server.URL, "realm", "client", "secret")
	if err != nil {
		t.Fatalf("FetchAccessToken returned error: %v", err)
	}
	if expiresIn != 0 {
		t.Fatalf("expected zero expiresIn, got %s", expiresIn)
	}
}

func TestFetchAccessTokenAPIErrorOnBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid_client"}`))
	}))
	defer server.Close()

	_, _, err := FetchAccessToken(context.Background(), server.Client(), server.URL, "realm", "client", "bad")
	if err == nil {
		t.Fatalf("expected error")
	}

	var apiErr *errs.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unexpected status: %d", apiErr.StatusCode)
	}
	if apiErr.Body == "" {
		t.Fatalf("body must be attached")
	}
}

func TestFetchAccessTokenValidationErrorWithoutAccessToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token_type":"Bearer","expires_in":300}`))
	}))
	defer server.Close()

	_, _, err := FetchAccessToken(context.Background(), server.Client(), server.URL, "realm", "client", "secret")
	if err == nil {
		t.Fatalf("expected error")
	}

	var validationErr *errs.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	if validationErr.Field != "access_token" {
		t.Fatalf("unexpected field: %s", validationErr.Field)
	}
}
