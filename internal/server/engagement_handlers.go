package server

import (
	"context"

	"mural/internal/models"
	"mural/internal/service"

	"github.com/gofiber/fiber/v2"
)

// LikeItem handles POST /api/items/:id/like
func (s *Server) LikeItem(c *fiber.Ctx) error {
	return s.setEngagement(c, s.engagementService.SetLike, true)
}

// UnlikeItem handles DELETE /api/items/:id/like
func (s *Server) UnlikeItem(c *fiber.Ctx) error {
	return s.setEngagement(c, s.engagementService.SetLike, false)
}

// FavoriteItem handles POST /api/items/:id/favorite
func (s *Server) FavoriteItem(c *fiber.Ctx) error {
	return s.setEngagement(c, s.engagementService.SetFavorite, true)
}

// UnfavoriteItem handles DELETE /api/items/:id/favorite
func (s *Server) UnfavoriteItem(c *fiber.Ctx) error {
	return s.setEngagement(c, s.engagementService.SetFavorite, false)
}

// GetLikeState handles GET /api/items/:id/like
func (s *Server) GetLikeState(c *fiber.Ctx) error {
	return s.engagementState(c, "liked", s.engagementService.IsLiked)
}

// GetFavoriteState handles GET /api/items/:id/favorite
func (s *Server) GetFavoriteState(c *fiber.Ctx) error {
	return s.engagementState(c, "favorited", s.engagementService.IsFavorited)
}

func (s *Server) engagementState(
	c *fiber.Ctx,
	field string,
	check func(ctx context.Context, userID, itemID uint) (bool, error),
) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	on, svcErr := check(c.Context(), userID, id)
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}

	return c.JSON(fiber.Map{field: on})
}

// setEngagement is the shared handler body for the four toggle endpoints.
// POST sets the state on, DELETE sets it off; repeating either is a no-op
// that still returns the current item.
func (s *Server) setEngagement(
	c *fiber.Ctx,
	set func(ctx context.Context, in service.SetEngagementInput) (*models.Item, error),
	on bool,
) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	item, svcErr := set(ctx, service.SetEngagementInput{
		UserID: userID,
		ItemID: id,
		On:     on,
	})
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}

	return c.JSON(item)
}
