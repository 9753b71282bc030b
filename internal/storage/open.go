package storage

import (
	"context"
	"fmt"

	"github.com/sandeepkv93/todonest/internal/config"
)

func Open(ctx context.Context, cfg config.Storage) (Backend, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		return OpenSQLite(cfg.SQLitePath)
	case config.BackendRedis:
		backend, err := OpenRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisPrefix)
		if err != nil {
			return nil, fmt.Errorf("open redis %s: %w", cfg.RedisAddr, err)
		}
		return backend, nil
	case config.BackendFile:
		return NewFileBackend(cfg.FilePath)
	case config.BackendMemory:
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
