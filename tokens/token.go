package tokens

import "time"

// Token описывает выданный OAuth токен доступа.
type Token struct {
	Access    string
	ExpiresAt time.Time
}

// Store описывает внешнее хранилище токена. Хранилище знает только само
// значение: реальный срок жизни персистентного токена восстановить нельзя.
type Store interface {
	LoadToken() (string, error)
	SaveToken(token string) error
}
