package repository

import (
	"context"

	"mural/internal/cache"
	"mural/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EngagementRepository persists like/favorite membership rows and keeps the
// denormalized item counters in step with them. Every mutation runs the row
// change and the counter adjustment in one transaction; a conflicting insert
// (concurrent toggle by the same user) is absorbed by the unique index and
// reported as "unchanged" rather than an error.
type EngagementRepository interface {
	SetLiked(ctx context.Context, userID, itemID uint, on bool) (changed bool, err error)
	IsLiked(ctx context.Context, userID, itemID uint) (bool, error)
	SetFavorited(ctx context.Context, userID, itemID uint, on bool) (changed bool, err error)
	IsFavorited(ctx context.Context, userID, itemID uint) (bool, error)
}

type engagementRepository struct {
	db *gorm.DB
}

// NewEngagementRepository creates a new engagement repository
func NewEngagementRepository(db *gorm.DB) EngagementRepository {
	return &engagementRepository{db: db}
}

func (r *engagementRepository) SetLiked(ctx context.Context, userID, itemID uint, on bool) (bool, error) {
	changed, err := r.toggle(ctx, itemID, "like_count", on, func(tx *gorm.DB) *gorm.DB {
		if on {
			return tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&models.Like{UserID: userID, ItemID: itemID})
		}
		return tx.Where("user_id = ? AND item_id = ?", userID, itemID).Delete(&models.Like{})
	})
	if err == nil && changed {
		cache.Invalidate(ctx, cache.ItemKey(itemID))
	}
	return changed, err
}

func (r *engagementRepository) SetFavorited(ctx context.Context, userID, itemID uint, on bool) (bool, error) {
	changed, err := r.toggle(ctx, itemID, "favorite_count", on, func(tx *gorm.DB) *gorm.DB {
		if on {
			return tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&models.Favorite{UserID: userID, ItemID: itemID})
		}
		return tx.Where("user_id = ? AND item_id = ?", userID, itemID).Delete(&models.Favorite{})
	})
	if err == nil && changed {
		cache.Invalidate(ctx, cache.ItemKey(itemID))
	}
	return changed, err
}

// toggle runs the membership mutation and, if it actually changed a row,
// adjusts the named counter inside the same transaction. The decrement is
// clamped at zero so a drifted counter can never go negative.
func (r *engagementRepository) toggle(ctx context.Context, itemID uint, counter string, on bool, mutate func(tx *gorm.DB) *gorm.DB) (bool, error) {
	changed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := mutate(tx)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Already in the desired state; nothing to count.
			return nil
		}
		changed = true

		expr := gorm.Expr(counter + " + 1")
		if !on {
			expr = gorm.Expr("CASE WHEN " + counter + " > 0 THEN " + counter + " - 1 ELSE 0 END")
		}
		return tx.Model(&models.Item{}).
			Where("id = ?", itemID).
			UpdateColumn(counter, expr).Error
	})
	return changed, err
}

func (r *engagementRepository) IsLiked(ctx context.Context, userID, itemID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Count(&count).Error
	return count > 0, err
}

func (r *engagementRepository) IsFavorited(ctx context.Context, userID, itemID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Favorite{}).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Count(&count).Error
	return count > 0, err
}
