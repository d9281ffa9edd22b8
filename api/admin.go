package api

import (
	"context"
	"net/url"

	"awareid-qa/client"
)

const adminBasePath = "/onboarding/admin"

// Admin оборачивает административные эндпоинты стенда.
type Admin struct {
	client *client.Client
}

// NewAdmin создаёт обёртку над административными эндпоинтами.
func NewAdmin(c *client.Client) *Admin {
	return &Admin{client: c}
}

// GetCustomerConfig возвращает текущую конфигурацию клиента.
func (a *Admin) GetCustomerConfig(ctx context.Context) (*client.Response, error) {
	return a.client.Get(ctx, adminBasePath+"/customerConfig", nil, nil)
}

// UpdateCustomerConfig обновляет конфигурацию клиента целиком.
func (a *Admin) UpdateCustomerConfig(ctx context.Context, cfg map[string]any) (*client.Response, error) {
	return a.client.Put(ctx, adminBasePath+"/customerConfig", cfg, nil)
}

// ListRegistrations возвращает список регистраций.
func (a *Admin) ListRegistrations(ctx context.Context, query url.Values) (*client.Response, error) {
	return a.client.Get(ctx, adminBasePath+"/registration", query, nil)
}

// GetRegistration возвращает регистрацию по её коду.
func (a *Admin) GetRegistration(ctx context.Context, registrationCode string) (*client.Response, error) {
	return a.client.Get(ctx, adminBasePath+"/registration/"+url.PathEscape(registrationCode), nil, nil)
}

// DeleteRegistration удаляет регистрацию по её коду.
func (a *Admin) DeleteRegistration(ctx context.Context, registrationCode string) (*client.Response, error) {
	return a.client.Delete(ctx, adminBasePath+"/registration/"+url.PathEscape(registrationCode), nil)
}
