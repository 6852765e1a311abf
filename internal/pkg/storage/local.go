package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Local 把对象写到本地目录，通过静态路由对外提供
type Local struct {
	root      string
	publicURL string
}

func NewLocal(root, publicURL string) (*Local, error) {
	if root == "" {
		return nil, errors.New("local storage root is empty")
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	if publicURL == "" {
		publicURL = "/uploads"
	}
	return &Local{root: root, publicURL: publicURL}, nil
}

func (l *Local) Root() string {
	return l.root
}

func (l *Local) Put(_ context.Context, key string, data []byte, _ string) (*Object, error) {
	key, err := CleanKey(key)
	if err != nil {
		return nil, err
	}

	fullPath := filepath.Join(l.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	return &Object{Key: key, URL: l.URL(key)}, nil
}

func (l *Local) Delete(_ context.Context, key string) error {
	key, err := CleanKey(key)
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(l.root, filepath.FromSlash(key)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (l *Local) URL(key string) string {
	return joinURL(l.publicURL, key)
}

// List 返回 prefix 下的全部对象 key（斜杠分隔）
func (l *Local) List(_ context.Context, prefix string) ([]string, error) {
	dir := l.root
	if prefix != "" {
		cleaned, err := CleanKey(prefix)
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(l.root, filepath.FromSlash(cleaned))
	}

	var keys []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(l.root, p)
		if err != nil {
			return err
		}
		keys = append(keys, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return keys, nil
}

// KeyFromURL 把本地 URL 还原为对象 key，不属于本后端时返回 false
func (l *Local) KeyFromURL(url string) (string, bool) {
	prefix := strings.TrimRight(l.publicURL, "/") + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}
