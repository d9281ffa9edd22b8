package runner

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"awareid-qa/client"
	"awareid-qa/config"
	"awareid-qa/model"
)

type memorySink struct {
	results []model.TestResult
}

func (s *memorySink) Enqueue(result model.TestResult) bool {
	s.results = append(s.results, result)
	return true
}

func newTestClient(serverURL string) *client.Client {
	return client.New(
		config.APIConfig{BaseURL: serverURL},
		config.HTTPConfig{Timeout: 5 * time.Second},
		nil,
	)
}

func TestRunPassesWithExpectedStatusAndFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"enrollmentToken":"et-1"}`))
	}))
	defer server.Close()

	sink := &memorySink{}
	run := New(sink)
	c := newTestClient(server.URL)

	result := run.Run(context.Background(), Check{
		Name:     "enroll",
		Endpoint: "/onboarding/enrollment/enroll",
		Call: func(ctx context.Context) (*client.Response, error) {
			return c.Post(ctx, "/onboarding/enrollment/enroll", nil, nil)
		},
		Validators: []Validator{ValidateEnrollmentToken},
	})

	if !result.Success {
		t.Fatalf("expected success, errors: %v", result.Errors)
	}
	if result.StatusCode != 200 {
		t.Fatalf("unexpected status: %d", result.StatusCode)
	}
	if len(sink.results) != 1 {
		t.Fatalf("sink must receive the result")
	}
}

func TestRunFailsOnUnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"bad request"}`))
	}))
	defer server.Close()

	run := New(nil)
	c := newTestClient(server.URL)

	result := run.Run(context.Background(), Check{
		Name:     "enroll",
		Endpoint: "/onboarding/enrollment/enroll",
		Call: func(ctx context.Context) (*client.Response, error) {
			return c.Post(ctx, "/onboarding/enrollment/enroll", nil, nil)
		},
	})

	if result.Success {
		t.Fatalf("expected failure")
	}
	if len(result.Errors) == 0 {
		t.Fatalf("expected status mismatch error")
	}
}

func TestRunFailsOnMissingField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	run := New(nil)
	c := newTestClient(server.URL)

	result := run.Run(context.Background(), Check{
		Name:     "add face",
		Endpoint: "/onboarding/enrollment/addFace",
		Call: func(ctx context.Context) (*client.Response, error) {
			return c.Post(ctx, "/onboarding/enrollment/addFace", nil, nil)
		},
		Validators: []Validator{ValidateRegistrationCode},
	})

	if result.Success {
		t.Fatalf("expected failure for missing registrationCode")
	}
}

func TestRunWarnsOnSlowCallWithoutFailing(t *testing.T) {
	run := New(nil)

	result := run.Run(context.Background(), Check{
		Name:     "slow",
		WarnOver: time.Nanosecond,
		Call: func(ctx context.Context) (*client.Response, error) {
			time.Sleep(2 * time.Millisecond)
			return &client.Response{StatusCode: 200, Body: []byte(`{}`)}, nil
		},
	})

	if !result.Success {
		t.Fatalf("slow call must stay successful, errors: %v", result.Errors)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", result.Warnings)
	}
}

func TestRequireFieldLen(t *testing.T) {
	resp := &client.Response{StatusCode: 200, Body: []byte(`{"registrationCode":"123456"}`)}

	if problems := RequireFieldLen("registrationCode", 6)(resp); len(problems) != 0 {
		t.Fatalf("expected no problems, got %v", problems)
	}
	if problems := RequireFieldLen("registrationCode", 8)(resp); len(problems) != 1 {
		t.Fatalf("expected length mismatch, got %v", problems)
	}
	if problems := RequireFieldLen("missing", 6)(resp); len(problems) != 1 {
		t.Fatalf("expected missing field problem, got %v", problems)
	}
}

func TestSummaryCountsPassedAndFailed(t *testing.T) {
	run := New(nil)

	ok := func(ctx context.Context) (*client.Response, error) {
		return &client.Response{StatusCode: 200, Body: []byte(`{}`)}, nil
	}
	fail := func(ctx context.Context) (*client.Response, error) {
		return &client.Response{StatusCode: 500, Body: []byte(`{}`)}, nil
	}

	run.Run(context.Background(), Check{Name: "a", Call: ok})
	run.Run(context.Background(), Check{Name: "b", Call: fail})
	run.Run(context.Background(), Check{Name: "c", Call: ok})

	summary := run.Summary()
	if summary.Total != 3 || summary.Passed != 2 || summary.Failed != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestPollUntilSucceedsBeforeTimeout(t *testing.T) {
	attempts := 0
	err := PollUntil(context.Background(), time.Second, 10*time.Millisecond, func(_ context.Context) (bool, error) {
		attempts++
		return attempts >= 3, nil
	})
	if err != nil {
		t.Fatalf("PollUntil returned error: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestPollUntilTimesOut(t *testing.T) {
	err := PollUntil(context.Background(), 50*time.Millisecond, 10*time.Millisecond, func(_ context.Context) (bool, error) {
		return false, nil
	})
	if err == nil {
		t.Fatalf("expected timeout error")
	}
}
