package tokens

import (
	"strings"

	"awareid-qa/envstore"
)

const TOKEN_KEY = "JWT"

// EnvTokenStore сохраняет токен доступа в .env файле под известным ключом.
type EnvTokenStore struct {
	Env envstore.Store
	Key string
}

func (store EnvTokenStore) tokenKey() string {
	if strings.TrimSpace(store.Key) == "" {
		return TOKEN_KEY
	}
	return store.Key
}

// LoadToken читает сохранённый токен; отсутствие ключа не является ошибкой.
func (store EnvTokenStore) LoadToken() (string, error) {
	return store.Env.Get(store.tokenKey()), nil
}

// SaveToken записывает токен в .env файл.
func (store EnvTokenStore) SaveToken(token string) error {
	return store.Env.Set(store.tokenKey(), token)
}
