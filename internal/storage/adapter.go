package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Adapter serializes values to JSON on top of a Store.
type Adapter struct {
	store  Store
	logger *zap.Logger
}

// NewAdapter wraps a store.
func NewAdapter(store Store, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{store: store, logger: logger}
}

// Store exposes the underlying backend.
func (a *Adapter) Store() Store {
	return a.store
}

// Read decodes the value under key into T. A missing key, a backend failure or a decode failure
// yields def; failures are logged and never returned.
func Read[T any](ctx context.Context, a *Adapter, namespace, key string, def T) T {
	out, err := Load(ctx, a, namespace, key, def)
	if err != nil {
		a.logger.Warn("storage read failed",
			zap.String("namespace", namespace), zap.String("key", key), zap.Error(err))
		return def
	}
	return out
}

// Load is Read for callers that rewrite what they read. A missing key or a decode failure still
// yields def, but a backend failure is returned so the caller does not overwrite data it never saw.
func Load[T any](ctx context.Context, a *Adapter, namespace, key string, def T) (T, error) {
	raw, err := a.store.Get(ctx, namespace, key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return def, nil
		}
		return def, fmt.Errorf("read %s: %w", key, err)
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return def, nil
	}

	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		a.logger.Warn("failed to parse stored JSON",
			zap.String("namespace", namespace), zap.String("key", key), zap.Error(err))
		return def, nil
	}
	return out, nil
}

// Write persists the entire value under key.
func (a *Adapter) Write(ctx context.Context, namespace, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := a.store.Set(ctx, namespace, key, data); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Remove deletes key. Removing a missing key is not an error.
func (a *Adapter) Remove(ctx context.Context, namespace, key string) error {
	if err := a.store.Delete(ctx, namespace, key); err != nil && !errors.Is(err, ErrKeyNotFound) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}
