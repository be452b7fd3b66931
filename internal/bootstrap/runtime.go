// Package bootstrap wires up the runtime dependencies (database, cache) and
// performs one-time startup provisioning.
package bootstrap

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"mural/internal/cache"
	"mural/internal/config"
	"mural/internal/database"
	"mural/internal/models"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// InitRuntime connects to the database and Redis and, in development, ensures
// a root moderator account exists. Redis may come back nil; caching then
// degrades gracefully.
func InitRuntime(cfg *config.Config) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if err := ensureDevRootModerator(cfg, db); err != nil {
		return nil, nil, fmt.Errorf("failed to bootstrap development moderator: %w", err)
	}

	return db, r, nil
}

// ensureDevRootModerator provisions user ID 1 as a moderator in development.
// Moderator privileges otherwise only come from another moderator, so a fresh
// database would have no way to approve its first item.
func ensureDevRootModerator(cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil {
		return nil
	}
	if !strings.EqualFold(cfg.Env, "development") || !cfg.DevBootstrapModerator {
		return nil
	}

	username := strings.TrimSpace(cfg.DevModeratorUsername)
	if username == "" {
		username = "mural_root"
	}
	email := strings.TrimSpace(strings.ToLower(cfg.DevModeratorEmail))
	if email == "" {
		email = "root@mural.local"
	}
	password := cfg.DevModeratorPassword
	if password == "" {
		return fmt.Errorf("DEV_MODERATOR_PASSWORD must be set when DEV_BOOTSTRAP_MODERATOR is enabled")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash moderator password: %w", err)
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		var root models.User
		findErr := tx.First(&root, 1).Error
		switch {
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			root = models.User{
				ID:          1,
				Username:    username,
				Email:       email,
				Password:    string(hashed),
				IsModerator: true,
			}
			if err := tx.Create(&root).Error; err != nil {
				return err
			}
		case findErr != nil:
			return findErr
		default:
			if err := tx.Model(&models.User{}).Where("id = ?", 1).
				Update("is_moderator", true).Error; err != nil {
				return err
			}
		}

		// Keep the users ID sequence ahead of the explicit insert.
		// PostgreSQL-specific.
		if tx.Dialector.Name() == "postgres" {
			if err := tx.Exec(`
				SELECT setval(
					pg_get_serial_sequence('users', 'id'),
					GREATEST((SELECT COALESCE(MAX(id), 1) FROM users), 1),
					true
				)
			`).Error; err != nil {
				return fmt.Errorf("failed to reset users sequence: %w", err)
			}
		}

		return nil
	}); err != nil {
		return err
	}

	log.Printf("development moderator bootstrap ensured for user ID 1 (%s)", email)
	return nil
}
