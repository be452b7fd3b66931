package service

import (
	"context"

	"mural/internal/middleware"
	"mural/internal/models"
	"mural/internal/repository"
	"mural/internal/validation"
)

// ModerationService applies review decisions to uploaded items. Every item
// starts pending and stays invisible to the public feed until a moderator
// approves it.
type ModerationService struct {
	itemRepo    repository.ItemRepository
	isModerator func(ctx context.Context, userID uint) (bool, error)
}

type DecideInput struct {
	ModeratorID uint
	ItemID      uint
	Approve     bool
	// Reason is optional context for a rejection. Ignored on approval.
	Reason string
}

func NewModerationService(
	itemRepo repository.ItemRepository,
	isModerator func(ctx context.Context, userID uint) (bool, error),
) *ModerationService {
	return &ModerationService{
		itemRepo:    itemRepo,
		isModerator: isModerator,
	}
}

// Decide approves or rejects an item. Decisions may be revised: rejecting an
// approved item pulls it from the public feed, and approving a rejected item
// clears the stored rejection reason.
func (s *ModerationService) Decide(ctx context.Context, in DecideInput) (*models.Item, error) {
	if err := s.requireModerator(ctx, in.ModeratorID); err != nil {
		return nil, err
	}

	// Read as the moderator so the lookup hits the database, not a possibly
	// stale anonymous cache entry.
	item, err := s.itemRepo.GetByID(ctx, in.ItemID, in.ModeratorID)
	if err != nil {
		return nil, err
	}

	if in.Approve {
		item.Status = models.ItemStatusApproved
		item.RejectionReason = ""
		moderatorID := in.ModeratorID
		item.ApprovedByID = &moderatorID
	} else {
		if err := validation.ValidateRejectionReason(in.Reason); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		item.Status = models.ItemStatusRejected
		item.RejectionReason = in.Reason
		item.ApprovedByID = nil
	}

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	middleware.ModerationDecisions.WithLabelValues(string(item.Status)).Inc()

	return s.itemRepo.GetByID(ctx, in.ItemID, in.ModeratorID)
}

// PendingQueue lists items awaiting review, newest first.
func (s *ModerationService) PendingQueue(ctx context.Context, moderatorID uint, limit, offset int) ([]*models.Item, error) {
	if err := s.requireModerator(ctx, moderatorID); err != nil {
		return nil, err
	}

	return s.itemRepo.List(ctx, repository.ItemFilter{
		Status:        models.ItemStatusPending,
		Limit:         limit,
		Offset:        offset,
		CurrentUserID: moderatorID,
	})
}

func (s *ModerationService) requireModerator(ctx context.Context, userID uint) error {
	if s.isModerator == nil {
		return models.NewUnauthorizedError("Moderator access required")
	}
	mod, err := s.isModerator(ctx, userID)
	if err != nil {
		return err
	}
	if !mod {
		return models.NewUnauthorizedError("Moderator access required")
	}
	return nil
}
