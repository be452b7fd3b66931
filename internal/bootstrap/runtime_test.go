package bootstrap

import (
	"testing"

	"mural/internal/config"
	"mural/internal/database"
	"mural/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestEnsureDevRootModerator_CreatesAccount(t *testing.T) {
	db := setupDB(t)
	cfg := &config.Config{
		Env:                   "development",
		DevBootstrapModerator: true,
		DevModeratorPassword:  "RootSecret90$",
	}

	require.NoError(t, ensureDevRootModerator(cfg, db))

	var root models.User
	require.NoError(t, db.First(&root, 1).Error)
	assert.True(t, root.IsModerator)
	assert.Equal(t, "mural_root", root.Username)
	assert.Equal(t, "root@mural.local", root.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(root.Password), []byte("RootSecret90$")))
}

func TestEnsureDevRootModerator_PromotesExistingUserOne(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.Create(&models.User{
		ID: 1, Username: "existing", Email: "existing@example.com", Password: "pw",
	}).Error)

	cfg := &config.Config{
		Env:                   "development",
		DevBootstrapModerator: true,
		DevModeratorPassword:  "RootSecret90$",
	}
	require.NoError(t, ensureDevRootModerator(cfg, db))

	var root models.User
	require.NoError(t, db.First(&root, 1).Error)
	assert.True(t, root.IsModerator)
	// Existing credentials stay untouched.
	assert.Equal(t, "existing", root.Username)
	assert.Equal(t, "pw", root.Password)
}

func TestEnsureDevRootModerator_SkipsWhenDisabled(t *testing.T) {
	db := setupDB(t)

	for _, cfg := range []*config.Config{
		{Env: "development", DevBootstrapModerator: false},
		{Env: "staging", DevBootstrapModerator: true, DevModeratorPassword: "x"},
	} {
		require.NoError(t, ensureDevRootModerator(cfg, db))
	}

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestEnsureDevRootModerator_RequiresPassword(t *testing.T) {
	db := setupDB(t)
	cfg := &config.Config{
		Env:                   "development",
		DevBootstrapModerator: true,
	}
	assert.Error(t, ensureDevRootModerator(cfg, db))
}
