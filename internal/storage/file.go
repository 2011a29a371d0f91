package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
)

const (
	dirPerms = 0o750
)

// FileStore keeps one JSON file per namespace/key under a root directory.
// Writes go through a temp file and rename, so readers never see partial values.
type FileStore struct {
	root string
}

// NewFileStore creates root if needed.
func NewFileStore(root string) (*FileStore, error) {
	if err := os.MkdirAll(root, dirPerms); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileStore{root: root}, nil
}

func (f *FileStore) path(namespace, key string) (string, error) {
	if err := validate(namespace, key); err != nil {
		return "", err
	}
	return filepath.Join(f.root, namespace, key+".json"), nil
}

func (f *FileStore) Get(_ context.Context, namespace, key string) ([]byte, error) {
	path, err := f.path(namespace, key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrKeyNotFound
	}
	return data, err
}

func (f *FileStore) Set(_ context.Context, namespace, key string, value []byte) error {
	path, err := f.path(namespace, key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), dirPerms); err != nil {
		return err
	}
	return atomic.WriteFile(path, bytes.NewReader(value))
}

func (f *FileStore) Delete(_ context.Context, namespace, key string) error {
	path, err := f.path(namespace, key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (f *FileStore) Ping(context.Context) error {
	_, err := os.Stat(f.root)
	return err
}

func (f *FileStore) Close() error { return nil }
