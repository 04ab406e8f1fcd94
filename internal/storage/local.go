package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore keeps assets on the local filesystem under a single uploads
// directory. Keys are relative paths ("qrcodes/event-7.png"); path escapes
// are rejected.
type LocalStore struct {
	dir     string
	baseURL string
}

func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *LocalStore) path(key string) (string, error) {
	cleaned := filepath.Clean(key)
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(s.dir, cleaned), nil
}

func (s *LocalStore) Save(ctx context.Context, key string, r io.Reader) (string, error) {
	p, err := s.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory for %q: %w", key, err)
	}

	f, err := os.Create(p)
	if err != nil {
		return "", fmt.Errorf("failed to create %q: %w", key, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(p)
		return "", fmt.Errorf("failed to write %q: %w", key, err)
	}
	return s.URL(key), nil
}

func (s *LocalStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	return os.Open(p)
}

func (s *LocalStore) Exists(ctx context.Context, key string) (bool, int64, error) {
	p, err := s.path(key)
	if err != nil {
		return false, 0, err
	}
	info, err := os.Stat(p)
	if os.IsNotExist(err) {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, err
	}
	return true, info.Size(), nil
}

func (s *LocalStore) Delete(ctx context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	err = os.Remove(p)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *LocalStore) URL(key string) string {
	return s.baseURL + "/uploads/" + filepath.ToSlash(filepath.Clean(key))
}
