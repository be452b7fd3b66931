package service

import (
	"context"

	"mural/internal/middleware"
	"mural/internal/models"
	"mural/internal/repository"
)

// EngagementService drives the like and favorite toggles. Both operations
// are idempotent: setting a state that already holds succeeds without
// touching the counters.
type EngagementService struct {
	engagementRepo repository.EngagementRepository
	itemRepo       repository.ItemRepository
}

type SetEngagementInput struct {
	UserID uint
	ItemID uint
	On     bool
}

func NewEngagementService(
	engagementRepo repository.EngagementRepository,
	itemRepo repository.ItemRepository,
) *EngagementService {
	return &EngagementService{
		engagementRepo: engagementRepo,
		itemRepo:       itemRepo,
	}
}

// SetLike moves the user's like on an item to the requested state and
// returns the item with counters reflecting the outcome.
func (s *EngagementService) SetLike(ctx context.Context, in SetEngagementInput) (*models.Item, error) {
	if err := s.ensureItemExists(ctx, in.ItemID); err != nil {
		return nil, err
	}

	changed, err := s.engagementRepo.SetLiked(ctx, in.UserID, in.ItemID, in.On)
	if err != nil {
		return nil, err
	}
	if changed {
		middleware.EngagementToggles.WithLabelValues("like", direction(in.On)).Inc()
	}

	return s.itemRepo.GetByID(ctx, in.ItemID, in.UserID)
}

// SetFavorite moves the user's favorite on an item to the requested state
// and returns the item with counters reflecting the outcome.
func (s *EngagementService) SetFavorite(ctx context.Context, in SetEngagementInput) (*models.Item, error) {
	if err := s.ensureItemExists(ctx, in.ItemID); err != nil {
		return nil, err
	}

	changed, err := s.engagementRepo.SetFavorited(ctx, in.UserID, in.ItemID, in.On)
	if err != nil {
		return nil, err
	}
	if changed {
		middleware.EngagementToggles.WithLabelValues("favorite", direction(in.On)).Inc()
	}

	return s.itemRepo.GetByID(ctx, in.ItemID, in.UserID)
}

// IsLiked reports whether the user currently likes the item.
func (s *EngagementService) IsLiked(ctx context.Context, userID, itemID uint) (bool, error) {
	if err := s.ensureItemExists(ctx, itemID); err != nil {
		return false, err
	}
	return s.engagementRepo.IsLiked(ctx, userID, itemID)
}

// IsFavorited reports whether the user currently has the item favorited.
func (s *EngagementService) IsFavorited(ctx context.Context, userID, itemID uint) (bool, error) {
	if err := s.ensureItemExists(ctx, itemID); err != nil {
		return false, err
	}
	return s.engagementRepo.IsFavorited(ctx, userID, itemID)
}

func (s *EngagementService) ensureItemExists(ctx context.Context, itemID uint) error {
	exists, err := s.itemRepo.Exists(ctx, itemID)
	if err != nil {
		return err
	}
	if !exists {
		return models.NewNotFoundError("Item", itemID)
	}
	return nil
}

func direction(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
