package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalStore writes blobs under a base directory and returns paths
// relative to the /uploads static route.
type LocalStore struct {
	baseDir string
}

func NewLocalStore(baseDir string) *LocalStore {
	return &LocalStore{baseDir: baseDir}
}

func (s *LocalStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	path := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("create blob directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write blob: %w", err)
	}
	return "/uploads/" + key, nil
}
