package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"awareid-qa/envstore"
)

// Config агрегирует значения конфигурации для QA прогонов.
type Config struct {
	API      APIConfig
	OAuth    OAuthConfig
	Token    TokenConfig
	HTTP     HTTPConfig
	Postgres PostgresConfig
	Batch    BatchConfig
}

// APIConfig содержит адрес и ключ тестируемого AwareID стенда.
type APIConfig struct {
	BaseURL string
	APIKey  string
}

// OAuthConfig содержит учётные данные client_credentials потока.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	Realm        string
}

// Complete сообщает, заданы ли все три OAuth параметра.
func (o OAuthConfig) Complete() bool {
	return o.ClientID != "" && o.ClientSecret != "" && o.Realm != ""
}

// TokenConfig задаёт политику свежести кэша токенов.
type TokenConfig struct {
	// RefreshMargin — запас до истечения, при котором токен обновляется заранее.
	RefreshMargin time.Duration
	// AssumedLifetime — предполагаемый срок жизни токена, прочитанного из .env.
	AssumedLifetime time.Duration
	// DefaultLifetime — срок жизни, если сервер не вернул expires_in.
	DefaultLifetime time.Duration
}

// HTTPConfig задаёт параметры исходящих HTTP запросов.
type HTTPConfig struct {
	Timeout time.Duration
}

// PostgresConfig хранит параметры подключения к пулу базы данных.
type PostgresConfig struct {
	Host     string
	Port     string
	DB       string
	User     string
	Password string
}

// Complete сообщает, заданы ли все параметры подключения.
func (p PostgresConfig) Complete() bool {
	return p.Host != "" && p.Port != "" && p.DB != "" && p.User != "" && p.Password != ""
}

// DSN собирает строку подключения для pgx/pgxpool.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", p.User, p.Password, p.Host, p.Port, p.DB)
}

// BatchConfig задаёт параметры батчинга при записи результатов прогонов.
type BatchConfig struct {
	MaxBatch      int
	FlushEvery    time.Duration
	ChanBuffer    int
	StatsLogEvery time.Duration
	FlushTimeout  time.Duration
}

// Load читает переменные окружения и возвращает валидированную Config.
func Load() (Config, error) {
	return load(func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	})
}

// LoadFromStore читает конфигурацию из .env файла; переменные окружения
// процесса имеют приоритет над значениями файла.
func LoadFromStore(store envstore.Store) (Config, error) {
	values, err := store.Read()
	if err != nil {
		return Config{}, err
	}

	return load(func(key string) string {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
		return strings.TrimSpace(values[key])
	})
}

func load(getenv func(string) string) (Config, error) {
	cfg := Config{
		API: APIConfig{
			BaseURL: strings.TrimRight(getenv("BASEURL"), "/"),
			APIKey:  getenv("APIKEY"),
		},
		OAuth: OAuthConfig{
			ClientID:     getenv("CLIENT_ID"),
			ClientSecret: getenv("CLIENT_SECRET"),
			Realm:        getenv("REALM_NAME"),
		},
		Token: TokenConfig{
			RefreshMargin:   60 * time.Second,
			AssumedLifetime: 300 * time.Second,
			DefaultLifetime: 300 * time.Second,
		},
		HTTP: HTTPConfig{
			Timeout: 30 * time.Second,
		},
		Postgres: PostgresConfig{
			Host:     getenv("POSTGRES_HOST"),
			Port:     getenv("POSTGRES_PORT"),
			DB:       getenv("POSTGRES_DB"),
			User:     getenv("POSTGRES_USER"),
			Password: getenv("POSTGRES_PASSWORD"),
		},
		Batch: BatchConfig{
			MaxBatch:      100,
			FlushEvery:    1500 * time.Millisecond,
			ChanBuffer:    4096,
			StatsLogEvery: 5 * time.Minute,
			FlushTimeout:  5 * time.Second,
		},
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("требуется BASEURL")
	}

	if c.Token.RefreshMargin <= 0 {
		return fmt.Errorf("Token.RefreshMargin должен быть больше нуля")
	}
	if c.Token.AssumedLifetime <= 0 {
		return fmt.Errorf("Token.AssumedLifetime должен быть больше нуля")
	}
	if c.Token.DefaultLifetime <= 0 {
		return fmt.Errorf("Token.DefaultLifetime должен быть больше нуля")
	}
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("HTTP.Timeout должен быть больше нуля")
	}

	if c.Batch.MaxBatch <= 0 {
		return fmt.Errorf("Batch.MaxBatch должен быть больше нуля")
	}
	if c.Batch.FlushEvery <= 0 {
		return fmt.Errorf("Batch.FlushEvery должен быть больше нуля")
	}
	if c.Batch.ChanBuffer <= 0 {
		return fmt.Errorf("Batch.ChanBuffer должен быть больше нуля")
	}
	if c.Batch.StatsLogEvery <= 0 {
		return fmt.Errorf("Batch.StatsLogEvery должен быть больше нуля")
	}
	if c.Batch.FlushTimeout <= 0 {
		return fmt.Errorf("Batch.FlushTimeout должен быть больше нуля")
	}

	return nil
}
