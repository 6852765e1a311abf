package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/editur/editur_server/config"
	"github.com/editur/editur_server/internal/model/dto"
	"github.com/editur/editur_server/internal/pkg/cache"
	"github.com/editur/editur_server/internal/pkg/logger"
	"github.com/editur/editur_server/internal/pkg/storage"
	"github.com/editur/editur_server/internal/repository"
	"github.com/editur/editur_server/internal/testutil"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func testUploadConfig() config.UploadConfig {
	return config.UploadConfig{
		MaxAssetSize:        1024,
		AllowedContentTypes: []string{"image/png", "image/x-icon", "image/svg+xml"},
	}
}

func setupBrandingService(t *testing.T, db *gorm.DB, brandingCache *cache.BrandingCache) (*BrandingService, string) {
	t.Helper()

	root := t.TempDir()
	store, err := storage.NewLocal(root, "/uploads")
	require.NoError(t, err)

	service := NewBrandingService(
		repository.NewBrandingRepository(db),
		store,
		brandingCache,
		testUploadConfig(),
		logger.Nop(),
	)
	return service, root
}

func TestBrandingService_Get_Defaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	service, _ := setupBrandingService(t, db, nil)

	branding, err := service.Get(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, "Editur", branding.SiteName)
	assert.Equal(t, "#3B82F6", branding.PrimaryColor)
	assert.Equal(t, "#10B981", branding.AccentColor)
	assert.Equal(t, "Inter", branding.DefaultFont)
	assert.Equal(t, "/logo.png", *branding.LogoURL)
	assert.Equal(t, "/favicon.ico", *branding.FaviconURL)
}

func TestBrandingService_Update_TextFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	service, _ := setupBrandingService(t, db, nil)

	branding, err := service.Update(context.Background(), &dto.BrandingUpdate{
		SiteName:     "  Reels  ",
		PrimaryColor: "#000000",
	}, nil, nil)
	require.NoError(t, err)
	assert.NotZero(t, branding.ID)
	assert.Equal(t, "Reels", branding.SiteName)
	assert.Equal(t, "#000000", branding.PrimaryColor)
	assert.Equal(t, DefaultAccentColor, branding.AccentColor)

	stored, err := repository.NewBrandingRepository(db).Get()
	require.NoError(t, err)
	assert.Equal(t, "Reels", stored.SiteName)
}

func TestBrandingService_Update_LogoOnlyKeepsFavicon(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	service, root := setupBrandingService(t, db, nil)
	ctx := context.Background()

	first, err := service.Update(ctx, nil,
		&dto.BrandingAsset{Filename: "logo.png", Data: pngHeader},
		&dto.BrandingAsset{Filename: "favicon.ico", Data: []byte("\x00\x00\x01\x00icon")},
	)
	require.NoError(t, err)
	require.NotNil(t, first.FaviconPath)
	faviconURL, faviconPath := *first.FaviconURL, *first.FaviconPath
	assert.True(t, strings.HasPrefix(faviconPath, "branding/favicon/"))
	assert.True(t, strings.HasSuffix(faviconPath, ".ico"))
	assert.Equal(t, "/uploads/"+faviconPath, faviconURL)

	second, err := service.Update(ctx, nil, &dto.BrandingAsset{Filename: "new-logo.png", Data: pngHeader}, nil)
	require.NoError(t, err)

	assert.NotEqual(t, *first.LogoPath, *second.LogoPath)
	assert.Equal(t, faviconURL, *second.FaviconURL)
	assert.Equal(t, faviconPath, *second.FaviconPath)

	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(*second.LogoPath)))
	assert.NoError(t, err)
}

func TestBrandingService_Update_NoFilesKeepsAssets(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	service, _ := setupBrandingService(t, db, nil)
	ctx := context.Background()

	first, err := service.Update(ctx, nil,
		&dto.BrandingAsset{Filename: "logo.png", Data: pngHeader},
		&dto.BrandingAsset{Filename: "favicon.png", Data: pngHeader},
	)
	require.NoError(t, err)

	second, err := service.Update(ctx, &dto.BrandingUpdate{DefaultFont: "Roboto"}, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "Roboto", second.DefaultFont)
	assert.Equal(t, *first.LogoURL, *second.LogoURL)
	assert.Equal(t, *first.LogoPath, *second.LogoPath)
	assert.Equal(t, *first.FaviconURL, *second.FaviconURL)
	assert.Equal(t, *first.FaviconPath, *second.FaviconPath)
}

func TestBrandingService_Update_RejectsBadAssets(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	service, root := setupBrandingService(t, db, nil)
	ctx := context.Background()

	_, err := service.Update(ctx, nil, &dto.BrandingAsset{Filename: "big.png", Data: make([]byte, 2048)}, nil)
	assert.ErrorIs(t, err, ErrAssetTooLarge)

	_, err = service.Update(ctx, nil, &dto.BrandingAsset{Filename: "logo.gif", Data: []byte("GIF89a")}, nil)
	assert.ErrorIs(t, err, ErrAssetType)

	_, err = service.Update(ctx, nil, &dto.BrandingAsset{Filename: "empty.png"}, nil)
	assert.ErrorIs(t, err, ErrAssetEmpty)

	// 第二个文件不合法时第一个也不写入
	_, err = service.Update(ctx, nil,
		&dto.BrandingAsset{Filename: "logo.png", Data: pngHeader},
		&dto.BrandingAsset{Filename: "favicon.exe", ContentType: "application/x-msdownload", Data: []byte("MZ")},
	)
	assert.ErrorIs(t, err, ErrAssetType)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestBrandingService_Reset(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	service, root := setupBrandingService(t, db, nil)
	ctx := context.Background()

	updated, err := service.Update(ctx, &dto.BrandingUpdate{
		SiteName:     "Custom",
		PrimaryColor: "#111111",
		AccentColor:  "#222222",
		DefaultFont:  "Mono",
	}, &dto.BrandingAsset{Filename: "logo.png", Data: pngHeader}, nil)
	require.NoError(t, err)
	uploaded := filepath.Join(root, filepath.FromSlash(*updated.LogoPath))

	reset, err := service.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, updated.ID, reset.ID)
	assert.Equal(t, "Editur", reset.SiteName)
	assert.Equal(t, "#3B82F6", reset.PrimaryColor)
	assert.Equal(t, "#10B981", reset.AccentColor)
	assert.Equal(t, "Inter", reset.DefaultFont)
	assert.Equal(t, "/logo.png", *reset.LogoURL)
	assert.Nil(t, reset.LogoPath)
	assert.Equal(t, "/favicon.ico", *reset.FaviconURL)

	// 已上传的文件保留
	_, err = os.Stat(uploaded)
	assert.NoError(t, err)
}

func TestBrandingService_Get_UsesCache(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	rdb, _ := testutil.SetupTestRedis(t)
	brandingCache := cache.NewBrandingCache(rdb, time.Minute)
	service, _ := setupBrandingService(t, db, brandingCache)
	ctx := context.Background()

	_, err := service.Update(ctx, &dto.BrandingUpdate{SiteName: "First"}, nil, nil)
	require.NoError(t, err)

	got, err := service.Get(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, "First", got.SiteName)

	// 绕过 service 直接改库，缓存仍返回旧值
	require.NoError(t, db.Exec("UPDATE branding_settings SET site_name = ?", "Second").Error)

	cached, err := service.Get(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, "First", cached.SiteName)

	fresh, err := service.Get(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, "Second", fresh.SiteName)

	// fresh 读取会刷新缓存
	cached, err = service.Get(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, "Second", cached.SiteName)
}

func TestBrandingService_Update_InvalidatesCache(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	rdb, _ := testutil.SetupTestRedis(t)
	brandingCache := cache.NewBrandingCache(rdb, time.Minute)
	service, _ := setupBrandingService(t, db, brandingCache)
	ctx := context.Background()

	_, err := service.Get(ctx, false)
	require.NoError(t, err)

	_, err = service.Update(ctx, &dto.BrandingUpdate{SiteName: "Updated"}, nil, nil)
	require.NoError(t, err)

	got, err := service.Get(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, "Updated", got.SiteName)
}
