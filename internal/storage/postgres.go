package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps records in the kv_records table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps a migrated pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (p *PostgresStore) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	const query = `SELECT value FROM kv_records WHERE namespace=$1 AND key=$2`
	var value []byte
	if err := p.pool.QueryRow(ctx, query, namespace, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}
	return value, nil
}

func (p *PostgresStore) Set(ctx context.Context, namespace, key string, value []byte) error {
	if err := validate(namespace, key); err != nil {
		return err
	}
	const query = `
        INSERT INTO kv_records (namespace, key, value, updated_at) VALUES ($1, $2, $3, NOW())
        ON CONFLICT (namespace, key) DO UPDATE SET value=EXCLUDED.value, updated_at=NOW()`
	_, err := p.pool.Exec(ctx, query, namespace, key, value)
	return err
}

func (p *PostgresStore) Delete(ctx context.Context, namespace, key string) error {
	const query = `DELETE FROM kv_records WHERE namespace=$1 AND key=$2`
	_, err := p.pool.Exec(ctx, query, namespace, key)
	return err
}

func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}
