package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"awareid-qa/errs"
	"awareid-qa/model"
)

// tokenPath — стандартный путь выдачи токена для realm-based OAuth серверов.
const tokenPath = "/auth/realms/%s/protocol/openid-connect/token"

// FetchAccessToken запрашивает OAuth токен по потоку client_credentials.
// Нулевой expiresIn означает, что сервер не вернул expires_in.
func FetchAccessToken(ctx context.Context, httpClient *http.Client, baseURL, realm, clientID, clientSecret string) (accessToken string, expiresIn time.Duration, err error) {
	endpoint := strings.TrimRight(baseURL, "/") + fmt.Sprintf(tokenPath, url.PathEscape(strings.TrimSpace(realm)))

	form := url.Values{}
	form.Set("client_id", strings.TrimSpace(clientID))
	form.Set("client_secret", strings.TrimSpace(clientSecret))
	form.Set("scope", "openid")
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, fmt.Errorf("oauth: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("oauth: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		return "", 0, &errs.APIError{
			Op:         "oauth: retrieve token",
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	var payload model.TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", 0, fmt.Errorf("oauth: decode response: %w", err)
	}

	if strings.TrimSpace(payload.AccessToken) == "" {
		return "", 0, &errs.ValidationError{Field: "access_token"}
	}

	return payload.AccessToken, time.Duration(payload.ExpiresIn) * time.Second, nil
}
