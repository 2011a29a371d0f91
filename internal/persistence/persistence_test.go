package persistence

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ticketdesk/internal/config"
)

func TestNewSQLite_AppliesMigrations(t *testing.T) {
	ctx := context.Background()
	db, err := NewSQLite(ctx, filepath.Join(t.TempDir(), "nested", "desk.db"), zap.NewNop())
	require.NoError(t, err)
	defer db.Close()

	var name string
	err = db.DB.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type='table' AND name='kv_records'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "kv_records", name)
}

func TestNewSQLite_MigrationsAreIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := NewSQLite(ctx, ":memory:", zap.NewNop())
	require.NoError(t, err)
	defer db.Close()

	assert.NoError(t, RunSQLiteMigrations(ctx, db.DB, zap.NewNop()))
}

func TestNewPostgres_RequiresDSN(t *testing.T) {
	_, err := NewPostgres(context.Background(), config.PostgresConfig{}, zap.NewNop())
	assert.Error(t, err)
}

func TestNewRedis_Ping(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	r, err := NewRedis(context.Background(), config.RedisConfig{Addr: s.Addr()}, zap.NewNop())
	require.NoError(t, err)
	defer r.Close()

	assert.NoError(t, r.Ping(context.Background()))
}

func TestNewRedis_UnreachableServer(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	addr := s.Addr()
	s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err = NewRedis(ctx, config.RedisConfig{Addr: addr}, zap.NewNop())
	assert.Error(t, err)
}

func TestRedis_PingWithoutClient(t *testing.T) {
	var r *Redis
	assert.Error(t, r.Ping(context.Background()))
}
