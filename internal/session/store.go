// Package session содержит хранение и жизненный цикл учётных данных сессии магазина.
package session

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

const (
	tokenKey = "session:token"
	nameKey  = "session:name"

	// DefaultDisplayName используется, когда имя пользователя не сохранено.
	DefaultDisplayName = "Cliente"
)

// Store хранит токен сессии и отображаемое имя пользователя во встроенной БД badger.
type Store struct {
	db *badger.DB
}

// Open открывает хранилище сессии по указанному пути.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	opts.SyncWrites = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}

	return &Store{db: db}, nil
}

// OpenInMemory открывает хранилище без персистентности. Используется в тестах.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open in-memory session db: %w", err)
	}

	return &Store{db: db}, nil
}

// Save сохраняет токен и имя одной транзакцией.
func (s *Store) Save(token, name string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(tokenKey), []byte(token)); err != nil {
			return err
		}
		return txn.Set([]byte(nameKey), []byte(name))
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Token возвращает сохранённый токен сессии или пустую строку, если его нет.
func (s *Store) Token() (string, error) {
	return s.get(tokenKey)
}

// DisplayName возвращает сохранённое имя пользователя либо имя по умолчанию.
func (s *Store) DisplayName() (string, error) {
	name, err := s.get(nameKey)
	if err != nil {
		return "", err
	}
	if name == "" {
		return DefaultDisplayName, nil
	}
	return name, nil
}

// Clear удаляет токен и имя одной транзакцией. Обе записи всегда очищаются вместе.
func (s *Store) Clear() error {
	err := s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(tokenKey)); err != nil {
			return err
		}
		return txn.Delete([]byte(nameKey))
	})
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Close закрывает встроенную БД.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) get(key string) (string, error) {
	var value string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}
