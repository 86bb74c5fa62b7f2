package filesystem

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Storage persists punch evidence images and fuel invoices. Keys are
// uuid-based file names generated by the handlers.
type Storage interface {
	Save(ctx context.Context, key string, r io.Reader) (string, error)
	Open(ctx context.Context, key string, w io.Writer) error
}

// LocalStorage keeps files under a single directory on disk. Used in
// development and on single-node deployments.
type LocalStorage struct {
	Dir string
}

func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &LocalStorage{Dir: dir}, nil
}

func (s *LocalStorage) Save(_ context.Context, key string, r io.Reader) (string, error) {
	path := filepath.Join(s.Dir, key)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create file %s: %w", path, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write file %s: %w", path, err)
	}

	return path, nil
}

func (s *LocalStorage) Open(_ context.Context, key string, w io.Writer) error {
	path := filepath.Join(s.Dir, key)

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open file %s: %w", path, err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("read file %s: %w", path, err)
	}

	return nil
}
