// Package errs содержит типизированные ошибки для работы с AwareID API.
package errs

import "fmt"

// ConfigError сигнализирует об отсутствующей или неполной конфигурации.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "ошибка конфигурации: " + e.Reason
}

// NewConfigError создаёт ConfigError с заданной причиной.
func NewConfigError(reason string) *ConfigError {
	return &ConfigError{Reason: reason}
}

// APIError описывает неуспешный вызов удалённого API.
type APIError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200]
	}
	if body == "" {
		return fmt.Sprintf("%s: статус %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: статус %d: %s", e.Op, e.StatusCode, body)
}

// ValidationError означает, что ответ API не содержит обязательное поле.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("в ответе отсутствует обязательное поле %q", e.Field)
}
