package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type localStorage struct {
	root    string
	baseURL string
}

// NewLocalStorage writes files under root; links are baseURL + "/" + objectKey.
func NewLocalStorage(root, baseURL string) Storage {
	return &localStorage{root: root, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *localStorage) UploadFile(_ context.Context, name, ext string, data []byte, folder string, allowed ...string) (string, error) {
	key, err := objectKey(name, ext, folder, allowed)
	if err != nil {
		return "", err
	}

	dst := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("create media directory: %w", err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", key, err)
	}
	return key, nil
}

func (s *localStorage) GetPublicLinkKey(objectKey string) string {
	return s.baseURL + "/" + objectKey
}

func (s *localStorage) DeleteFile(_ context.Context, objectKey string) error {
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(objectKey)))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
