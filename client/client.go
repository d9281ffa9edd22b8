// Package client содержит тонкую HTTP обёртку над AwareID REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"awareid-qa/config"
	"awareid-qa/errs"
	"awareid-qa/tokens"
)

// Client выполняет запросы к AwareID стенду, добавляя ключ API и
// Bearer токен из кэша токенов.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	tokens  *tokens.Cache
}

// New создаёт клиент с таймаутом из конфигурации.
// Кэш токенов может быть nil: тогда заголовок Authorization не добавляется.
func New(api config.APIConfig, httpCfg config.HTTPConfig, cache *tokens.Cache) *Client {
	return &Client{
		baseURL: strings.TrimRight(api.BaseURL, "/"),
		apiKey:  api.APIKey,
		http:    &http.Client{Timeout: httpCfg.Timeout},
		tokens:  cache,
	}
}

// Response — разобранный ответ стенда: статус и тело целиком.
type Response struct {
	StatusCode int
	Body       []byte
}

// Decode десериализует тело ответа в указанную структуру.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("client: decode response: %w", err)
	}
	return nil
}

// Field возвращает строковое значение поля верхнего уровня; отсутствие или
// пустое значение считается нарушением контракта ответа.
func (r *Response) Field(name string) (string, error) {
	var body map[string]any
	if err := json.Unmarshal(r.Body, &body); err != nil {
		return "", fmt.Errorf("client: decode response: %w", err)
	}

	raw, ok := body[name]
	if !ok {
		return "", &errs.ValidationError{Field: name}
	}
	value, ok := raw.(string)
	if !ok || strings.TrimSpace(value) == "" {
		return "", &errs.ValidationError{Field: name}
	}

	return value, nil
}

// OK сообщает, является ли статус ответа успешным (2xx).
func (r *Response) OK() bool {
	return r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices
}

// APIError строит типизированную ошибку из неуспешного ответа.
func (r *Response) APIError(op string) error {
	return &errs.APIError{
		Op:         op,
		StatusCode: r.StatusCode,
		Body:       strings.TrimSpace(string(r.Body)),
	}
}

// Get выполняет GET запрос к относительному пути стенда.
func (c *Client) Get(ctx context.Context, path string, query url.Values, headers map[string]string) (*Response, error) {
	endpoint := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("client: create request: %w", err)
	}

	return c.do(ctx, req, headers)
}

// Post выполняет POST запрос с JSON телом.
func (c *Client) Post(ctx context.Context, path string, payload any, headers map[string]string) (*Response, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("client: encode payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	endpoint := c.baseURL + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("client: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(ctx, req, headers)
}

// Put выполняет PUT запрос с JSON телом.
func (c *Client) Put(ctx context.Context, path string, payload any, headers map[string]string) (*Response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("client: encode payload: %w", err)
	}

	endpoint := c.baseURL + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("client: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(ctx, req, headers)
}

// Delete выполняет DELETE запрос к относительному пути стенда.
func (c *Client) Delete(ctx context.Context, path string, headers map[string]string) (*Response, error) {
	endpoint := c.baseURL + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("client: create request: %w", err)
	}

	return c.do(ctx, req, headers)
}

func (c *Client) do(ctx context.Context, req *http.Request, headers map[string]string) (*Response, error) {
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}

	if c.tokens != nil {
		access, err := c.tokens.Ensure(ctx)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+access)
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("client: read response: %w", err)
	}

	if elapsed := time.Since(started); elapsed > slowRequestThreshold {
		log.Printf("клиент: медленный запрос %s %s (%s)", req.Method, req.URL.Path, elapsed.Round(time.Millisecond))
	}

	return &Response{StatusCode: resp.StatusCode, Body: data}, nil
}

const slowRequestThreshold = 10 * time.Second
