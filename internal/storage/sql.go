package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// SQLStore keeps records in the kv_records table of a database/sql handle (SQLite dialect).
type SQLStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLStore wraps an already migrated database.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, now: time.Now}
}

func (s *SQLStore) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	const query = `SELECT value FROM kv_records WHERE namespace = ? AND key = ?`
	var value []byte
	if err := s.db.QueryRowContext(ctx, query, namespace, key).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}
	return value, nil
}

func (s *SQLStore) Set(ctx context.Context, namespace, key string, value []byte) error {
	if err := validate(namespace, key); err != nil {
		return err
	}
	const query = `
        INSERT INTO kv_records (namespace, key, value, updated_at) VALUES (?, ?, ?, ?)
        ON CONFLICT(namespace, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	_, err := s.db.ExecContext(ctx, query, namespace, key, value, s.now().UTC())
	return err
}

func (s *SQLStore) Delete(ctx context.Context, namespace, key string) error {
	const query = `DELETE FROM kv_records WHERE namespace = ? AND key = ?`
	_, err := s.db.ExecContext(ctx, query, namespace, key)
	return err
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
