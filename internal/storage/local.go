package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore grava no diretório de uploads servido pelo próprio router.
type LocalStore struct {
	baseDir string
}

func NewLocalStore(baseDir string) *LocalStore {
	return &LocalStore{baseDir: baseDir}
}

func (s *LocalStore) Save(ctx context.Context, dir, filename string, data []byte) (string, error) {
	target := filepath.Join(s.baseDir, dir)
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	if err := os.WriteFile(filepath.Join(target, filename), data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}

	return "/uploads/" + dir + "/" + filename, nil
}

func (s *LocalStore) Remove(ctx context.Context, url string) error {
	rel, ok := strings.CutPrefix(url, "/uploads/")
	if !ok {
		// URL de outro backend (ex: S3 antigo) — nada a remover aqui
		return nil
	}

	// O nome vem do banco, mas não custa barrar path traversal
	rel = filepath.Clean(rel)
	if strings.HasPrefix(rel, "..") {
		return fmt.Errorf("invalid upload path: %s", url)
	}

	err := os.Remove(filepath.Join(s.baseDir, rel))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

var _ Store = (*LocalStore)(nil)
