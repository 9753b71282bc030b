package storage

import (
	"context"
	"errors"
)

var (
	ErrNotFound       = errors.New("storage: not found")
	ErrUnknownBackend = errors.New("storage: unknown backend")
)

// Backend is a string key-value store. The task store keeps its whole state
// under a single key, so implementations only need point reads and writes.
type Backend interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}
