package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"awareid-qa/auth"
	"awareid-qa/config"
	"awareid-qa/envstore"
	"awareid-qa/tokens"
)

func main() {
	envPath := flag.String("env", ".env", "путь к .env файлу")
	force := flag.Bool("force", false, "запросить новый токен даже при наличии сохранённого")
	flag.Parse()

	store := envstore.Store{Path: *envPath}

	cfg, err := config.LoadFromStore(store)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	httpClient := &http.Client{Timeout: cfg.HTTP.Timeout}
	cache := tokens.NewCache(
		tokens.EnvTokenStore{Env: store},
		cfg.OAuth,
		cfg.Token,
		func(ctx context.Context) (string, time.Duration, error) {
			return auth.FetchAccessToken(ctx, httpClient, cfg.API.BaseURL, cfg.OAuth.Realm, cfg.OAuth.ClientID, cfg.OAuth.ClientSecret)
		},
	)

	ctx := context.Background()

	var token string
	if *force {
		token, err = cache.Get(ctx, true)
	} else {
		token, err = cache.Ensure(ctx)
	}
	if err != nil {
		log.Fatalf("get access token: %v", err)
	}

	display := token
	if len(display) > 24 {
		display = display[:12] + "..." + display[len(display)-12:]
	}
	fmt.Printf("ok, токен сохранён в %s: %s\n", *envPath, display)
}
