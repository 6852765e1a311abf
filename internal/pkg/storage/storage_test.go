package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/editur/editur_server/config"
)

func TestCleanKey(t *testing.T) {
	tests := []struct {
		key     string
		want    string
		wantErr bool
	}{
		{key: "branding/logo/a.png", want: "branding/logo/a.png"},
		{key: "branding//logo/./a.png", want: "branding/logo/a.png"},
		{key: "", wantErr: true},
		{key: "/etc/passwd", wantErr: true},
		{key: "../secret", wantErr: true},
		{key: "branding/../../secret", wantErr: true},
		{key: "a\\b", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := CleanKey(tt.key)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidKey)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocal_PutDeleteList(t *testing.T) {
	root := t.TempDir()
	local, err := NewLocal(root, "/uploads/")
	require.NoError(t, err)
	ctx := context.Background()

	obj, err := local.Put(ctx, "branding/logo/a.png", []byte("png-bytes"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "branding/logo/a.png", obj.Key)
	assert.Equal(t, "/uploads/branding/logo/a.png", obj.URL)

	data, err := os.ReadFile(filepath.Join(root, "branding", "logo", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	_, err = local.Put(ctx, "branding/favicon/b.ico", []byte("ico"), "image/x-icon")
	require.NoError(t, err)

	keys, err := local.List(ctx, "branding")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"branding/logo/a.png", "branding/favicon/b.ico"}, keys)

	require.NoError(t, local.Delete(ctx, "branding/logo/a.png"))
	_, err = os.Stat(filepath.Join(root, "branding", "logo", "a.png"))
	assert.True(t, os.IsNotExist(err))

	// 删除不存在的对象不报错
	assert.NoError(t, local.Delete(ctx, "branding/logo/a.png"))
}

func TestLocal_ListMissingPrefix(t *testing.T) {
	local, err := NewLocal(t.TempDir(), "")
	require.NoError(t, err)

	keys, err := local.List(context.Background(), "nothing-here")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestLocal_RejectsTraversal(t *testing.T) {
	local, err := NewLocal(t.TempDir(), "/uploads")
	require.NoError(t, err)

	_, err = local.Put(context.Background(), "../escape.txt", []byte("x"), "text/plain")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestLocal_KeyFromURL(t *testing.T) {
	local, err := NewLocal(t.TempDir(), "/uploads")
	require.NoError(t, err)

	key, ok := local.KeyFromURL("/uploads/branding/logo/a.png")
	assert.True(t, ok)
	assert.Equal(t, "branding/logo/a.png", key)

	_, ok = local.KeyFromURL("/logo.png")
	assert.False(t, ok)
}

func TestNew(t *testing.T) {
	t.Run("local", func(t *testing.T) {
		s, err := New(context.Background(), config.StorageConfig{
			Provider: ProviderLocal,
			Local:    config.LocalStorageConfig{Root: t.TempDir()},
		})
		require.NoError(t, err)
		assert.IsType(t, &Local{}, s)
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := New(context.Background(), config.StorageConfig{Provider: "azure"})
		assert.ErrorIs(t, err, ErrUnsupportedProvider)
	})
}

func TestS3URL(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com/a.png",
		s3URL(config.S3StorageConfig{PublicURL: "https://cdn.example.com/", Bucket: "b"}, "a.png"))
	assert.Equal(t, "http://localhost:9000/assets/a.png",
		s3URL(config.S3StorageConfig{Endpoint: "http://localhost:9000", Bucket: "assets"}, "a.png"))
	assert.Equal(t, "https://assets.s3.us-east-1.amazonaws.com/a.png",
		s3URL(config.S3StorageConfig{Bucket: "assets", Region: "us-east-1"}, "a.png"))
}

func TestOSSURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com/a.png", ossURL("cdn.example.com", "bucket", "oss-cn-hangzhou.aliyuncs.com", "a.png"))
	assert.Equal(t, "https://bucket.oss-cn-hangzhou.aliyuncs.com/a.png", ossURL("", "bucket", "oss-cn-hangzhou.aliyuncs.com", "a.png"))
}

func TestContentTypeByExt(t *testing.T) {
	assert.Equal(t, "image/png", ContentTypeByExt(".PNG"))
	assert.Equal(t, "image/svg+xml", ContentTypeByExt(".svg"))
	assert.Equal(t, "image/x-icon", ContentTypeByExt(".ico"))
	assert.Equal(t, "application/octet-stream", ContentTypeByExt(".exe"))
}
