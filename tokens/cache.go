package tokens

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"awareid-qa/config"
	"awareid-qa/errs"
)

// Fetcher запрашивает новый токен доступа у OAuth сервера.
// Нулевой expiresIn означает, что сервер не сообщил срок жизни.
type Fetcher func(ctx context.Context) (accessToken string, expiresIn time.Duration, err error)

// Cache управляет токеном доступа: держит его в памяти, обновляет заранее
// с учётом запаса RefreshMargin и сохраняет новые токены во внешнем хранилище.
type Cache struct {
	store  Store
	fetch  Fetcher
	oauth  config.OAuthConfig
	policy config.TokenConfig

	mu     sync.Mutex
	cached *Token
	now    func() time.Time
}

// NewCache создаёт кэш токенов с заданной политикой свежести.
func NewCache(store Store, oauth config.OAuthConfig, policy config.TokenConfig, fetch Fetcher) *Cache {
	return &Cache{
		store:  store,
		fetch:  fetch,
		oauth:  oauth,
		policy: policy,
		now:    time.Now,
	}
}

// Get возвращает токен, валидный ещё как минимум RefreshMargin с момента
// возврата. При forceRefresh или устаревшем кэше запрашивается новый токен;
// при ошибке обновления кэш остаётся прежним.
func (c *Cache) Get(ctx context.Context, forceRefresh bool) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !forceRefresh && c.fresh() {
		return c.cached.Access, nil
	}

	return c.acquire(ctx)
}

// Acquire безусловно запрашивает новый токен у OAuth сервера.
func (c *Cache) Acquire(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.acquire(ctx)
}

// Ensure возвращает валидный токен, предпочитая кэш в памяти, затем токен из
// внешнего хранилища (с предполагаемым сроком жизни AssumedLifetime) и лишь
// затем полный запрос нового токена. Используется при старте процесса, чтобы
// не обновлять токен безусловно, когда годный уже сохранён.
func (c *Cache) Ensure(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.fresh() {
		return c.cached.Access, nil
	}

	if c.store != nil {
		access, err := c.store.LoadToken()
		if err != nil {
			return "", fmt.Errorf("token cache: load stored token: %w", err)
		}
		if access != "" {
			c.cached = &Token{
				Access:    access,
				ExpiresAt: c.now().Add(c.policy.AssumedLifetime),
			}
			return access, nil
		}
	}

	log.Printf("кэш токенов: годного токена нет, запрашиваем новый")
	return c.acquire(ctx)
}

// Clear безусловно сбрасывает токен в памяти; сетевых эффектов нет.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cached = nil
}

// Expired сообщает, истёк ли токен в памяти (или отсутствует вовсе).
func (c *Cache) Expired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cached == nil {
		return true
	}
	return !c.now().Before(c.cached.ExpiresAt)
}

// fresh проверяет, останется ли кэшированный токен валидным ещё RefreshMargin.
func (c *Cache) fresh() bool {
	if c.cached == nil {
		return false
	}
	return c.now().Before(c.cached.ExpiresAt.Add(-c.policy.RefreshMargin))
}

func (c *Cache) acquire(ctx context.Context) (string, error) {
	if !c.oauth.Complete() {
		return "", errs.NewConfigError("не заданы CLIENT_ID, CLIENT_SECRET и REALM_NAME")
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	access, expiresIn, err := c.fetch(ctx)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(access) == "" {
		return "", &errs.ValidationError{Field: "access_token"}
	}
	if expiresIn <= 0 {
		expiresIn = c.policy.DefaultLifetime
	}

	if c.store != nil {
		if err := c.store.SaveToken(access); err != nil {
			return "", fmt.Errorf("token cache: persist token: %w", err)
		}
	}

	c.cached = &Token{
		Access:    access,
		ExpiresAt: c.now().Add(expiresIn),
	}

	return access, nil
}
