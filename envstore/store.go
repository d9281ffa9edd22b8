// Package envstore читает и пишет пары ключ-значение в .env файле.
package envstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const ENV_FILE = ".env"

// Store сохраняет пары ключ-значение в .env файле, не трогая окружение процесса.
// Комментарии и порядок строк при записи сохраняются.
type Store struct {
	Path string
}

func (store Store) envPath() string {
	if strings.TrimSpace(store.Path) == "" {
		return ENV_FILE
	}
	return store.Path
}

// Read возвращает все пары ключ-значение из .env файла.
// Отсутствующий файл не является ошибкой: возвращается пустая карта.
func (store Store) Read() (map[string]string, error) {
	data, err := os.ReadFile(store.envPath())
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("env store: read file: %w", err)
	}

	values := map[string]string{}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		values[key] = strings.Trim(strings.TrimSpace(value), `"`)
	}

	return values, nil
}

// Get возвращает значение ключа или пустую строку, если ключ не найден.
func (store Store) Get(key string) string {
	values, err := store.Read()
	if err != nil {
		return ""
	}
	return values[strings.TrimSpace(key)]
}

// Set записывает или обновляет ключ в .env файле, создавая файл при необходимости.
func (store Store) Set(key, value string) error {
	return store.SetMany(map[string]string{key: value})
}

// SetMany записывает несколько ключей за одну перезапись файла.
func (store Store) SetMany(values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	for key, value := range values {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("env store: пустой ключ недопустим")
		}
		if strings.ContainsAny(value, "\n\r") {
			return fmt.Errorf("env store: значение ключа %s содержит перевод строки", key)
		}
	}

	path := store.envPath()
	lines, err := store.readLines()
	if err != nil {
		return err
	}

	updated := map[string]bool{}
	out := make([]string, 0, len(lines)+len(values))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			out = append(out, line)
			continue
		}

		replaced := false
		for key, value := range values {
			if strings.HasPrefix(line, key+"=") {
				out = append(out, key+"="+encodeValue(value))
				updated[key] = true
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, line)
		}
	}

	for key, value := range values {
		if !updated[key] {
			out = append(out, key+"="+encodeValue(value))
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("env store: create dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(strings.Join(out, "\n")+"\n"), 0o600); err != nil {
		return fmt.Errorf("env store: write file: %w", err)
	}

	return nil
}

// encodeValue берёт значение в кавычки, если без них строка прочиталась бы
// как комментарий.
func encodeValue(value string) string {
	value = strings.TrimSpace(value)
	if strings.HasPrefix(value, "#") {
		return `"` + value + `"`
	}
	return value
}

// Delete удаляет ключ из .env файла; возвращает true, если ключ был найден.
func (store Store) Delete(key string) (bool, error) {
	lines, err := store.readLines()
	if err != nil {
		return false, err
	}

	found := false
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.HasPrefix(line, key+"=") {
			found = true
			continue
		}
		out = append(out, line)
	}

	if !found {
		return false, nil
	}

	if err := os.WriteFile(store.envPath(), []byte(strings.Join(out, "\n")+"\n"), 0o600); err != nil {
		return false, fmt.Errorf("env store: write file: %w", err)
	}

	return true, nil
}

// Has сообщает, присутствует ли ключ в .env файле.
func (store Store) Has(key string) bool {
	values, err := store.Read()
	if err != nil {
		return false
	}
	_, ok := values[key]
	return ok
}

// Keys возвращает список всех ключей из .env файла.
func (store Store) Keys() []string {
	values, err := store.Read()
	if err != nil {
		return nil
	}
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	return keys
}

func (store Store) readLines() ([]string, error) {
	data, err := os.ReadFile(store.envPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("env store: read file: %w", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	return lines, nil
}
