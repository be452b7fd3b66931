// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"mural/internal/cache"
	"mural/internal/models"

	"gorm.io/gorm"
)

// ItemFilter narrows and pages an item listing. Status is mandatory for the
// public and moderation views; Category is optional.
type ItemFilter struct {
	Status        models.ItemStatus
	Category      string
	Limit         int
	Offset        int
	CurrentUserID uint
}

// ItemRepository defines the interface for item data operations
type ItemRepository interface {
	Create(ctx context.Context, item *models.Item) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Item, error)
	Exists(ctx context.Context, id uint) (bool, error)
	List(ctx context.Context, f ItemFilter) ([]*models.Item, error)
	ListByUploader(ctx context.Context, uploaderID uint, status models.ItemStatus, limit, offset int) ([]*models.Item, error)
	ListFavoritedBy(ctx context.Context, userID uint, limit, offset int) ([]*models.Item, error)
	Update(ctx context.Context, item *models.Item) error
	Delete(ctx context.Context, id uint) error
	IncrementViewCount(ctx context.Context, id uint) error
}

// itemRepository implements ItemRepository
type itemRepository struct {
	db *gorm.DB
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Create(ctx context.Context, item *models.Item) error {
	err := r.db.WithContext(ctx).Create(item).Error
	if err == nil {
		cache.InvalidateItemLists(ctx)
	}
	return err
}

func (r *itemRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Item, error) {
	var item models.Item
	fetch := func() error {
		err := r.applyItemDetails(r.db.WithContext(ctx), currentUserID).
			Preload("Uploader").
			First(&item, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Item", id)
		}
		return err
	}

	var err error
	if currentUserID == 0 {
		err = cache.Aside(ctx, cache.ItemKey(id), &item, cache.ItemTTL, fetch)
	} else {
		// Per-user liked/favorited flags make the row uncacheable.
		err = fetch()
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Item{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *itemRepository) List(ctx context.Context, f ItemFilter) ([]*models.Item, error) {
	var items []*models.Item
	fetch := func() error {
		q := r.applyItemDetails(r.db.WithContext(ctx), f.CurrentUserID).
			Preload("Uploader").
			Where("items.status = ?", f.Status)
		if f.Category != "" {
			q = q.Where("items.category = ?", f.Category)
		}
		return q.Order("items.created_at DESC, items.id DESC").
			Limit(f.Limit).
			Offset(f.Offset).
			Find(&items).Error
	}

	var err error
	if f.CurrentUserID == 0 && f.Status == models.ItemStatusApproved {
		key := cache.ItemsListKey(ctx, string(f.Status), f.Category, f.Limit, f.Offset)
		err = cache.Aside(ctx, key, &items, cache.ItemsListTTL, fetch)
	} else {
		err = fetch()
	}
	return items, err
}

func (r *itemRepository) ListByUploader(ctx context.Context, uploaderID uint, status models.ItemStatus, limit, offset int) ([]*models.Item, error) {
	var items []*models.Item
	q := r.applyItemDetails(r.db.WithContext(ctx), 0).
		Preload("Uploader").
		Where("items.uploader_id = ?", uploaderID)
	if status != "" {
		q = q.Where("items.status = ?", status)
	}
	err := q.Order("items.created_at DESC, items.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	return items, err
}

func (r *itemRepository) ListFavoritedBy(ctx context.Context, userID uint, limit, offset int) ([]*models.Item, error) {
	var items []*models.Item
	err := r.applyItemDetails(r.db.WithContext(ctx), userID).
		Preload("Uploader").
		Joins("JOIN favorites ON favorites.item_id = items.id").
		Where("favorites.user_id = ?", userID).
		Order("favorites.created_at DESC, items.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	return items, err
}

// applyItemDetails adds subqueries to fetch the derived comment count and the
// requesting user's liked/favorited state in a single query.
func (r *itemRepository) applyItemDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "items.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.item_id = items.id AND comments.deleted_at IS NULL) as comment_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+
			", EXISTS(SELECT 1 FROM likes WHERE likes.item_id = items.id AND likes.user_id = ?) as liked"+
			", EXISTS(SELECT 1 FROM favorites WHERE favorites.item_id = items.id AND favorites.user_id = ?) as favorited",
			currentUserID, currentUserID)
	}

	return db.Select(selectQuery + ", false as liked, false as favorited")
}

// Update persists metadata and moderation fields. The engagement counters are
// maintained concurrently by their own atomic adjustments, so writing them
// back from a read snapshot would undo toggles that committed in between.
func (r *itemRepository) Update(ctx context.Context, item *models.Item) error {
	if err := r.db.WithContext(ctx).
		Omit("like_count", "favorite_count", "view_count").
		Save(item).Error; err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.ItemKey(item.ID))
	cache.InvalidateItemLists(ctx)
	return nil
}

// Delete removes the item together with its comments, likes, and favorites
// in a single transaction, so no orphan engagement rows survive.
func (r *itemRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("item_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("item_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("item_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&models.Item{}, id).Error
	})
	if err == nil {
		cache.Invalidate(ctx, cache.ItemKey(id))
		cache.InvalidateItemLists(ctx)
	}
	return err
}

func (r *itemRepository) IncrementViewCount(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Model(&models.Item{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
	if err == nil {
		cache.Invalidate(ctx, cache.ItemKey(id))
	}
	return err
}
