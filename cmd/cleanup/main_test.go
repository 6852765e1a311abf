package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/editur/editur_server/internal/model"
	"github.com/editur/editur_server/internal/pkg/logger"
	"github.com/editur/editur_server/internal/pkg/storage"
	"github.com/editur/editur_server/internal/repository"
	"github.com/editur/editur_server/internal/testutil"
)

func putFile(t *testing.T, local *storage.Local, key string) *storage.Object {
	t.Helper()

	obj, err := local.Put(context.Background(), key, []byte("data"), "image/png")
	require.NoError(t, err)
	return obj
}

func exists(local *storage.Local, key string) bool {
	_, err := os.Stat(filepath.Join(local.Root(), filepath.FromSlash(key)))
	return err == nil
}

func TestOrphans(t *testing.T) {
	keys := []string{"branding/logo/a.png", "branding/logo/b.png", "branding/favicon/c.ico"}
	referenced := map[string]bool{"branding/logo/b.png": true}

	assert.Equal(t, []string{"branding/logo/a.png", "branding/favicon/c.ico"}, orphans(keys, referenced))
	assert.Empty(t, orphans(nil, referenced))
}

func TestSweep_Branding(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	local, err := storage.NewLocal(t.TempDir(), "/uploads")
	require.NoError(t, err)

	current := putFile(t, local, "branding/logo/current.png")
	favicon := putFile(t, local, "branding/favicon/current.ico")
	putFile(t, local, "branding/logo/old.png")

	faviconURL := favicon.URL
	require.NoError(t, db.Create(&model.BrandingSettings{
		SiteName:     "Editur",
		LogoURL:      &current.URL,
		LogoPath:     &current.Key,
		FaviconURL:   &faviconURL,
		PrimaryColor: "#3B82F6",
		AccentColor:  "#10B981",
		DefaultFont:  "Inter",
	}).Error)

	referenced, err := brandingReferences(repository.NewBrandingRepository(db), local)
	require.NoError(t, err)
	assert.True(t, referenced[current.Key])
	assert.True(t, referenced[favicon.Key])

	ctx := context.Background()

	// dry run 只统计不删除
	result := sweep(ctx, logger.Nop(), local, "branding", referenced, true)
	assert.Equal(t, 1, result.files)
	assert.Equal(t, int64(4), result.size)
	assert.True(t, exists(local, "branding/logo/old.png"))

	result = sweep(ctx, logger.Nop(), local, "branding", referenced, false)
	assert.Equal(t, 1, result.files)
	assert.False(t, exists(local, "branding/logo/old.png"))
	assert.True(t, exists(local, current.Key))
	assert.True(t, exists(local, favicon.Key))
}

func TestBrandingReferences_NoRow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	local, err := storage.NewLocal(t.TempDir(), "/uploads")
	require.NoError(t, err)

	referenced, err := brandingReferences(repository.NewBrandingRepository(db), local)
	require.NoError(t, err)
	assert.Empty(t, referenced)
}

func TestAvatarReferences(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	local, err := storage.NewLocal(t.TempDir(), "/uploads")
	require.NoError(t, err)

	kept := putFile(t, local, "avatars/1/kept.png")
	putFile(t, local, "avatars/1/stale.png")

	external := "https://avatars.githubusercontent.com/u/1"
	testutil.TestUser(t, db, func(u *model.User) { u.Image = &kept.URL })
	testutil.TestUser(t, db, func(u *model.User) { u.Image = &external })
	testutil.TestUser(t, db)

	referenced, err := avatarReferences(db, local)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{kept.Key: true}, referenced)

	result := sweep(context.Background(), logger.Nop(), local, "avatars", referenced, false)
	assert.Equal(t, 1, result.files)
	assert.True(t, exists(local, kept.Key))
	assert.False(t, exists(local, "avatars/1/stale.png"))
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "512 B", formatSize(512))
	assert.Equal(t, "1.50 KB", formatSize(1536))
	assert.Equal(t, "2.00 MB", formatSize(2*1024*1024))
}
