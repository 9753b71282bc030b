package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileBackend keeps all keys in one JSON object on disk. Writes go through a
// temp file and rename.
type FileBackend struct {
	mu   sync.Mutex
	path string
}

func NewFileBackend(path string) (*FileBackend, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, fmt.Errorf("storage: empty file path")
	}
	return &FileBackend{path: trimmed}, nil
}

func (b *FileBackend) Close() error { return nil }

func (b *FileBackend) Get(_ context.Context, key string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	entries, err := b.read()
	if err != nil {
		return "", err
	}
	value, ok := entries[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (b *FileBackend) Set(_ context.Context, key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	entries, err := b.read()
	if err != nil {
		return err
	}
	entries[key] = value
	return b.write(entries)
}

func (b *FileBackend) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	entries, err := b.read()
	if err != nil {
		return err
	}
	if _, ok := entries[key]; !ok {
		return ErrNotFound
	}
	delete(entries, key)
	return b.write(entries)
}

func (b *FileBackend) read() (map[string]string, error) {
	out := make(map[string]string)
	raw, err := os.ReadFile(b.path)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return nil, err
	}
	if strings.TrimSpace(string(raw)) == "" {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", b.path, err)
	}
	return out, nil
}

func (b *FileBackend) write(entries map[string]string) error {
	dir := filepath.Dir(b.path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	payload, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	tmp := b.path + ".tmp"
	if err := os.WriteFile(tmp, append(payload, '\n'), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, b.path)
}
