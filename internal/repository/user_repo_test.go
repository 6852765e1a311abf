package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/editur/editur_server/internal/testutil"
)

func TestUserRepository_GetByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)
	created := testutil.TestUser(t, db)

	found, err := repo.GetByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Email, found.Email)
	assert.True(t, found.HasPassword())

	_, err = repo.GetByID(99999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_GetByEmailAndGithubID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)
	testutil.TestUser(t, db, testutil.WithEmail("unique@example.com"), testutil.WithGithubID("4242"))

	found, err := repo.GetByEmail("unique@example.com")
	require.NoError(t, err)

	byGithub, err := repo.GetByGithubID("4242")
	require.NoError(t, err)
	assert.Equal(t, found.ID, byGithub.ID)

	_, err = repo.GetByGithubID("0")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_ExistsByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)
	testutil.TestUser(t, db, testutil.WithEmail("exists@example.com"))

	exists, err := repo.ExistsByEmail("exists@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByEmail("missing@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserRepository_UpdatePassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)
	user := testutil.TestUser(t, db, testutil.WithoutPassword())

	require.NoError(t, repo.UpdatePassword(user.ID, "new-hash"))

	updated, err := repo.GetByID(user.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.PasswordHash)
	assert.Equal(t, "new-hash", *updated.PasswordHash)

	assert.ErrorIs(t, repo.UpdatePassword(99999, "hash"), gorm.ErrRecordNotFound)
}

func TestUserRepository_UpdateFieldsAndCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)
	user := testutil.TestUser(t, db)
	testutil.TestUser(t, db)

	require.NoError(t, repo.UpdateFields(user.ID, map[string]interface{}{"name": "Renamed"}))

	updated, err := repo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", *updated.Name)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
