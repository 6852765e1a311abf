package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/editur/editur_server/config"
)

const (
	ProviderLocal = "local"
	ProviderS3    = "s3"
	ProviderOSS   = "oss"
)

var (
	ErrInvalidKey          = errors.New("invalid object key")
	ErrUnsupportedProvider = errors.New("unsupported storage provider")
)

// Object 写入后的对象：Key 为后端内部路径，URL 为对外访问地址
type Object struct {
	Key string
	URL string
}

// Storage 资源文件存储后端
type Storage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (*Object, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// Lister 可以列出对象的后端（目前只有本地磁盘）
type Lister interface {
	List(ctx context.Context, prefix string) ([]string, error)
}

// New 按配置创建存储后端
func New(ctx context.Context, cfg config.StorageConfig) (Storage, error) {
	switch cfg.Provider {
	case "", ProviderLocal:
		return NewLocal(cfg.Local.Root, cfg.Local.PublicURL)
	case ProviderS3:
		return NewS3(ctx, cfg.S3)
	case ProviderOSS:
		return NewOSS(cfg.OSS)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, cfg.Provider)
	}
}

// CleanKey 规范化对象 key，拒绝绝对路径和越级路径
func CleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}

// ContentTypeByExt 根据扩展名获取 Content-Type
func ContentTypeByExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	case ".ico":
		return "image/x-icon"
	case ".json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}
