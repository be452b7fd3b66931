package service

import (
	"context"

	"mural/internal/models"
	"mural/internal/repository"
	"mural/internal/validation"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	itemRepo    repository.ItemRepository
	isModerator func(ctx context.Context, userID uint) (bool, error)
}

type CreateCommentInput struct {
	UserID  uint
	ItemID  uint
	Content string
}

type UpdateCommentInput struct {
	UserID    uint
	CommentID uint
	Content   string
}

type DeleteCommentInput struct {
	UserID    uint
	CommentID uint
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	itemRepo repository.ItemRepository,
	isModerator func(ctx context.Context, userID uint) (bool, error),
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		itemRepo:    itemRepo,
		isModerator: isModerator,
	}
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	exists, err := s.itemRepo.Exists(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NewNotFoundError("Item", in.ItemID)
	}

	if err := validation.ValidateComment(in.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	comment := &models.Comment{
		Content:  in.Content,
		AuthorID: in.UserID,
		ItemID:   in.ItemID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return s.commentRepo.GetByID(ctx, comment.ID)
}

func (s *CommentService) ListComments(ctx context.Context, itemID uint) ([]*models.Comment, error) {
	exists, err := s.itemRepo.Exists(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NewNotFoundError("Item", itemID)
	}
	return s.commentRepo.ListByItem(ctx, itemID)
}

// ListUserComments returns a user's comment history, newest first.
func (s *CommentService) ListUserComments(ctx context.Context, authorID uint, limit, offset int) ([]*models.Comment, error) {
	return s.commentRepo.ListByAuthor(ctx, authorID, limit, offset)
}

// UpdateComment edits a comment's content. Only the author may edit;
// moderators get no bypass here.
func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}

	if err := ownerOnly(in.UserID, comment.AuthorID, "You can only update your own comments"); err != nil {
		return nil, err
	}
	if err := validation.ValidateComment(in.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	comment.Content = in.Content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}

	return s.commentRepo.GetByID(ctx, comment.ID)
}

// DeleteComment removes a comment. The author or a moderator may delete.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}

	if err := ownerOrModerator(ctx, s.isModerator, in.UserID, comment.AuthorID, "You can only delete your own comments"); err != nil {
		return nil, err
	}

	if err := s.commentRepo.Delete(ctx, in.CommentID); err != nil {
		return nil, err
	}

	return comment, nil
}
