package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"awareid-qa/api"
	"awareid-qa/auth"
	"awareid-qa/client"
	"awareid-qa/config"
	"awareid-qa/envstore"
	"awareid-qa/payload"
	"awareid-qa/results"
	"awareid-qa/runner"
	"awareid-qa/service"
	"awareid-qa/tokens"
)

func main() {
	envPath := flag.String("env", ".env", "путь к .env файлу")
	username := flag.String("username", "", "имя пользователя (пустое — сгенерировать)")
	flag.Parse()

	store := envstore.Store{Path: *envPath}

	cfg, err := config.LoadFromStore(store)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if !cfg.Postgres.Complete() {
		log.Fatalf("требуются POSTGRES_HOST, POSTGRES_PORT, POSTGRES_DB, POSTGRES_USER и POSTGRES_PASSWORD")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Postgres.DSN())
	if err != nil {
		log.Fatalf("pgxpool.New: %v", err)
	}
	defer pool.Close()

	httpClient := &http.Client{Timeout: cfg.HTTP.Timeout}
	cache := tokens.NewCache(
		tokens.EnvTokenStore{Env: store},
		cfg.OAuth,
		cfg.Token,
		func(ctx context.Context) (string, time.Duration, error) {
			return auth.FetchAccessToken(ctx, httpClient, cfg.API.BaseURL, cfg.OAuth.Realm, cfg.OAuth.ClientID, cfg.OAuth.ClientSecret)
		},
	)

	c := client.New(cfg.API, cfg.HTTP, cache)
	enrollmentAPI := api.NewEnrollment(c)
	authenticationAPI := api.NewAuthentication(c)

	enrollment := service.NewEnrollment(enrollmentAPI, store)

	batcher := results.NewBatcher(ctx, pool, cfg.Batch)
	run := runner.New(batcher)

	startedAt := time.Now()

	user := *username
	if user == "" {
		user = service.UniqueUsername("dantest")
	}

	frames := []payload.FaceFrame{payload.NewFaceFrame("", "enroll")}
	liveness := payload.NewFaceLiveness(frames, "", user)

	const slowCheck = 5 * time.Second

	run.Run(ctx, runner.Check{
		Name:     "инициация регистрации",
		Endpoint: "/onboarding/enrollment/enroll",
		WarnOver: slowCheck,
		Call: func(ctx context.Context) (*client.Response, error) {
			return enrollmentAPI.Enroll(ctx, payload.EnrollRequest{Username: user})
		},
		Validators: []runner.Validator{runner.ValidateEnrollmentToken},
	})

	enrollmentToken, err := enrollment.Initiate(ctx, payload.EnrollRequest{Username: user + "_flow"})
	if err != nil {
		log.Printf("поток онбординга прерван: %v", err)
	} else {
		run.Run(ctx, runner.Check{
			Name:     "добавление лица",
			Endpoint: "/onboarding/enrollment/addFace",
			WarnOver: slowCheck,
			Call: func(ctx context.Context) (*client.Response, error) {
				return enrollmentAPI.AddFace(ctx, payload.Enrollment{
					EnrollmentToken:  enrollmentToken,
					FaceLivenessData: &liveness,
				})
			},
			// регистрационный код — UUID, 36 символов
			Validators: []runner.Validator{runner.RequireFieldLen("registrationCode", 36)},
		})

		var authResp *client.Response
		run.Run(ctx, runner.Check{
			Name:     "инициация аутентификации",
			Endpoint: "/onboarding/authentication/authenticate",
			WarnOver: slowCheck,
			Call: func(ctx context.Context) (*client.Response, error) {
				resp, err := authenticationAPI.Authenticate(ctx, user+"_flow")
				authResp = resp
				return resp, err
			},
			Validators: []runner.Validator{runner.ValidateAuthToken},
		})

		token := ""
		if authResp != nil {
			if value, err := authResp.Field("authToken"); err == nil {
				token = value
			}
		}

		if token != "" {
			run.Run(ctx, runner.Check{
				Name:     "проверка лица",
				Endpoint: "/onboarding/authentication/verifyFace",
				WarnOver: slowCheck,
				Call: func(ctx context.Context) (*client.Response, error) {
					return authenticationAPI.VerifyFace(ctx, token, liveness)
				},
			})
		}
	}

	summary := run.Summary()
	err = results.SaveRunSummary(ctx, pool, results.RunSummary{
		Suite:      "onboarding-flow",
		Total:      summary.Total,
		Passed:     summary.Passed,
		Failed:     summary.Failed,
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
	}, cfg.Batch.FlushTimeout)
	if err != nil {
		log.Printf("ошибка сохранения итога прогона: %v", err)
	}

	// останавливаем батчер и дожидаемся финального флаша
	cancel()
	batcher.Wait()

	log.Printf("прогон завершён: всего %d, успешно %d, провалено %d (отброшено %d)",
		summary.Total, summary.Passed, summary.Failed, batcher.Dropped())
}
