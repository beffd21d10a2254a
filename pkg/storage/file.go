package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore keeps one JSON file per key inside a directory.
type FileStore struct {
	basePath string
	maxSize  int64
}

// NewFileStore creates the base directory when it does not exist.
func NewFileStore(basePath string, maxSize int64) (*FileStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileStore{basePath: basePath, maxSize: maxSize}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.basePath, key+".json")
}

func (s *FileStore) Load(_ context.Context, key string, dst interface{}) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}
	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

// Save writes to a temporary file first so a crash never leaves a truncated value.
func (s *FileStore) Save(_ context.Context, key string, value interface{}) error {
	if err := validateKey(key); err != nil {
		return err
	}
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if s.maxSize > 0 && int64(len(data)) > s.maxSize {
		return fmt.Errorf("value size exceeds maximum allowed size")
	}

	tmp, err := os.CreateTemp(s.basePath, key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		return fmt.Errorf("failed to replace %s: %w", key, err)
	}
	return nil
}
