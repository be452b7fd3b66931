package service

import (
	"context"
	"net/url"

	"mural/internal/models"
	"mural/internal/repository"
	"mural/internal/validation"
)

type ItemService struct {
	itemRepo    repository.ItemRepository
	isModerator func(ctx context.Context, userID uint) (bool, error)
}

type CreateItemInput struct {
	UploaderID   uint
	Title        string
	Description  string
	Category     string
	Tags         string
	ImageURL     string
	ThumbnailURL string
	Width        int
	Height       int
	FileSize     int64
}

type ListItemsInput struct {
	Category      string
	Limit         int
	Offset        int
	CurrentUserID uint
}

type UpdateItemInput struct {
	UserID      uint
	ItemID      uint
	Title       string
	Description string
	Category    string
	Tags        string
}

type DeleteItemInput struct {
	UserID uint
	ItemID uint
}

func NewItemService(
	itemRepo repository.ItemRepository,
	isModerator func(ctx context.Context, userID uint) (bool, error),
) *ItemService {
	return &ItemService{
		itemRepo:    itemRepo,
		isModerator: isModerator,
	}
}

// CreateItem registers an upload. New items always enter the pending state
// regardless of who uploads them; moderators go through review like anyone
// else.
func (s *ItemService) CreateItem(ctx context.Context, in CreateItemInput) (*models.Item, error) {
	if err := validation.ValidateItemTitle(in.Title); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateItemDescription(in.Description); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if in.ImageURL == "" {
		return nil, models.NewValidationError("image_url is required")
	}
	if _, err := url.ParseRequestURI(in.ImageURL); err != nil {
		return nil, models.NewValidationError("image_url must be a valid URL")
	}

	thumbnail := in.ThumbnailURL
	if thumbnail == "" {
		thumbnail = in.ImageURL
	}

	item := &models.Item{
		Title:        in.Title,
		Description:  in.Description,
		Category:     in.Category,
		Tags:         in.Tags,
		ImageURL:     in.ImageURL,
		ThumbnailURL: thumbnail,
		Width:        in.Width,
		Height:       in.Height,
		FileSize:     in.FileSize,
		UploaderID:   in.UploaderID,
		Status:       models.ItemStatusPending,
	}
	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	return s.itemRepo.GetByID(ctx, item.ID, in.UploaderID)
}

// GetItem fetches a single item by id. Direct lookups are served regardless
// of moderation state; only the feed filters on status. Anyone holding the
// id of a pending or rejected item may still open it.
func (s *ItemService) GetItem(ctx context.Context, id uint, currentUserID uint) (*models.Item, error) {
	item, err := s.itemRepo.GetByID(ctx, id, currentUserID)
	if err != nil {
		return nil, err
	}

	// View counting is best effort; a failed bump never fails the read.
	_ = s.itemRepo.IncrementViewCount(ctx, id)
	item.ViewCount++

	return item, nil
}

// ListItems is the public feed: approved items only, newest first.
func (s *ItemService) ListItems(ctx context.Context, in ListItemsInput) ([]*models.Item, error) {
	return s.itemRepo.List(ctx, repository.ItemFilter{
		Status:        models.ItemStatusApproved,
		Category:      in.Category,
		Limit:         in.Limit,
		Offset:        in.Offset,
		CurrentUserID: in.CurrentUserID,
	})
}

// ListUserItems lists a user's uploads. The uploader and moderators see all
// states; other viewers only see approved items.
func (s *ItemService) ListUserItems(ctx context.Context, uploaderID uint, limit, offset int, currentUserID uint) ([]*models.Item, error) {
	status := models.ItemStatusApproved
	if currentUserID == uploaderID {
		status = ""
	} else if currentUserID != 0 && s.isModerator != nil {
		mod, err := s.isModerator(ctx, currentUserID)
		if err != nil {
			return nil, err
		}
		if mod {
			status = ""
		}
	}
	return s.itemRepo.ListByUploader(ctx, uploaderID, status, limit, offset)
}

// ListFavorites lists the items the user has favorited, most recently
// favorited first.
func (s *ItemService) ListFavorites(ctx context.Context, userID uint, limit, offset int) ([]*models.Item, error) {
	return s.itemRepo.ListFavoritedBy(ctx, userID, limit, offset)
}

// UpdateItem edits item metadata. Strictly uploader-only: moderators decide
// visibility through review, they do not rewrite other people's metadata.
func (s *ItemService) UpdateItem(ctx context.Context, in UpdateItemInput) (*models.Item, error) {
	item, err := s.itemRepo.GetByID(ctx, in.ItemID, in.UserID)
	if err != nil {
		return nil, err
	}

	if err := ownerOnly(in.UserID, item.UploaderID, "You can only update your own items"); err != nil {
		return nil, err
	}

	if in.Title != "" {
		if err := validation.ValidateItemTitle(in.Title); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		item.Title = in.Title
	}
	if in.Description != "" {
		if err := validation.ValidateItemDescription(in.Description); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		item.Description = in.Description
	}
	if in.Category != "" {
		item.Category = in.Category
	}
	if in.Tags != "" {
		item.Tags = in.Tags
	}

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	return s.itemRepo.GetByID(ctx, in.ItemID, in.UserID)
}

// DeleteItem removes an item and all of its engagement. The uploader or a
// moderator may delete.
func (s *ItemService) DeleteItem(ctx context.Context, in DeleteItemInput) error {
	item, err := s.itemRepo.GetByID(ctx, in.ItemID, in.UserID)
	if err != nil {
		return err
	}

	if err := ownerOrModerator(ctx, s.isModerator, in.UserID, item.UploaderID, "You can only delete your own items"); err != nil {
		return err
	}

	return s.itemRepo.Delete(ctx, in.ItemID)
}
