package server

import (
	"mural/internal/models"
	"mural/internal/service"

	"github.com/gofiber/fiber/v2"
)

// DecideItem handles POST /api/items/:id/decision
func (s *Server) DecideItem(c *fiber.Ctx) error {
	ctx := c.Context()
	moderatorID := c.Locals("userID").(uint)
	itemID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Decision string `json:"decision"`
		Reason   string `json:"reason,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	var approve bool
	switch req.Decision {
	case "approve":
		approve = true
	case "reject":
		approve = false
	default:
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Decision must be \"approve\" or \"reject\""))
	}

	item, svcErr := s.moderationService.Decide(ctx, service.DecideInput{
		ModeratorID: moderatorID,
		ItemID:      itemID,
		Approve:     approve,
		Reason:      req.Reason,
	})
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}

	return c.JSON(item)
}

// GetPendingItems handles GET /api/items/pending
func (s *Server) GetPendingItems(c *fiber.Ctx) error {
	ctx := c.Context()
	moderatorID := c.Locals("userID").(uint)
	page := parsePagination(c, 20)

	items, err := s.moderationService.PendingQueue(ctx, moderatorID, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(items)
}
