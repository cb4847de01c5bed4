package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const (
	KeyTasks        = "tasks"
	KeyTransactions = "transactions"
	KeyShopping     = "shopping"
	KeyNotes        = "notes"
	KeyContacts     = "contacts"
	KeySettings     = "app_settings"
	KeyDailyQuote   = "daily_quote_data"
)

var ErrNotFound = errors.New("not found")

const kvSchema = `CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at INTEGER NOT NULL
)`

// Store is a key-value store of JSON documents. Every save replaces the whole
// value for its key.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewStore(ctx context.Context, db *sql.DB, logger *zap.Logger) (*Store, error) {
	if _, err := db.ExecContext(ctx, kvSchema); err != nil {
		return nil, fmt.Errorf("failed to create kv table: %w", err)
	}
	return &Store{db: db, logger: logger.Named("store")}, nil
}

func (s *Store) Save(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(data), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// Raw returns the stored JSON for key, or ErrNotFound.
func (s *Store) Raw(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", key, err)
	}
	return []byte(value), nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Clear removes every key.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv`); err != nil {
		return fmt.Errorf("failed to clear store: %w", err)
	}
	return nil
}

// LoadFromStore decodes the value stored under key. A missing or corrupt entry
// yields def.
func LoadFromStore[T any](ctx context.Context, s *Store, key string, def T) T {
	data, err := s.Raw(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("load failed, using default", zap.String("key", key), zap.Error(err))
		}
		return def
	}
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		s.logger.Warn("corrupt entry, using default", zap.String("key", key), zap.Error(err))
		return def
	}
	return value
}
