package server

import (
	"mural/internal/models"
	"mural/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetComments handles GET /api/items/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	ctx := c.Context()
	itemID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, svcErr := s.commentService.ListComments(ctx, itemID)
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}

	return c.JSON(comments)
}

// CreateComment handles POST /api/items/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	itemID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, svcErr := s.commentService.CreateComment(ctx, service.CreateCommentInput{
		UserID:  userID,
		ItemID:  itemID,
		Content: req.Content,
	})
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetUserComments handles GET /api/users/:id/comments
func (s *Server) GetUserComments(c *fiber.Ctx) error {
	ctx := c.Context()
	authorID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)

	comments, svcErr := s.commentService.ListUserComments(ctx, authorID, page.Limit, page.Offset)
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}

	return c.JSON(comments)
}

// UpdateComment handles PUT /api/items/:id/comments/:commentId
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, svcErr := s.commentService.UpdateComment(ctx, service.UpdateCommentInput{
		UserID:    userID,
		CommentID: commentID,
		Content:   req.Content,
	})
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}

	return c.JSON(comment)
}

// DeleteComment handles DELETE /api/items/:id/comments/:commentId
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	if _, svcErr := s.commentService.DeleteComment(ctx, service.DeleteCommentInput{
		UserID:    userID,
		CommentID: commentID,
	}); svcErr != nil {
		return respondServiceError(c, svcErr)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
