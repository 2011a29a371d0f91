// Package storage persists JSON-serializable records under fixed keys, scoped by client namespace.
package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// Fixed record keys.
const (
	KeyUsers   = "ticketapp_users"
	KeySession = "ticketapp_session"
	KeyTickets = "ticketapp_tickets_v1"
)

// ErrKeyNotFound is returned by a Store when nothing is stored under a key.
var ErrKeyNotFound = errors.New("storage: key not found")

// Store is a raw byte key-value backend. Every Set replaces the whole value.
type Store interface {
	Get(ctx context.Context, namespace, key string) ([]byte, error)
	Set(ctx context.Context, namespace, key string, value []byte) error
	Delete(ctx context.Context, namespace, key string) error
	Ping(ctx context.Context) error
	Close() error
}

var segmentPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,128}$`)

// ValidateSegment rejects namespaces and keys that are unsafe as path or key segments.
func ValidateSegment(kind, value string) error {
	if !segmentPattern.MatchString(value) || value == "." || value == ".." {
		return fmt.Errorf("storage: invalid %s %q", kind, value)
	}
	return nil
}

func validate(namespace, key string) error {
	if err := ValidateSegment("namespace", namespace); err != nil {
		return err
	}
	return ValidateSegment("key", key)
}
