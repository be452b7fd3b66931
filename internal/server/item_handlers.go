package server

import (
	"mural/internal/models"
	"mural/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateItem handles POST /api/items
func (s *Server) CreateItem(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req struct {
		Title        string `json:"title"`
		Description  string `json:"description,omitempty"`
		Category     string `json:"category,omitempty"`
		Tags         string `json:"tags,omitempty"`
		ImageURL     string `json:"image_url"`
		ThumbnailURL string `json:"thumbnail_url,omitempty"`
		Width        int    `json:"width,omitempty"`
		Height       int    `json:"height,omitempty"`
		FileSize     int64  `json:"file_size,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	item, err := s.itemService.CreateItem(ctx, service.CreateItemInput{
		UploaderID:   userID,
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Tags:         req.Tags,
		ImageURL:     req.ImageURL,
		ThumbnailURL: req.ThumbnailURL,
		Width:        req.Width,
		Height:       req.Height,
		FileSize:     req.FileSize,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(item)
}

// GetItems handles GET /api/items
func (s *Server) GetItems(c *fiber.Ctx) error {
	ctx := c.Context()
	page := parsePagination(c, 20)

	items, err := s.itemService.ListItems(ctx, service.ListItemsInput{
		Category:      c.Query("category"),
		Limit:         page.Limit,
		Offset:        page.Offset,
		CurrentUserID: currentUserID(c),
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(items)
}

// GetItem handles GET /api/items/:id
func (s *Server) GetItem(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	item, err := s.itemService.GetItem(ctx, id, currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(item)
}

// GetUserItems handles GET /api/users/:id/items
func (s *Server) GetUserItems(c *fiber.Ctx) error {
	ctx := c.Context()
	uploaderID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)

	items, svcErr := s.itemService.ListUserItems(ctx, uploaderID, page.Limit, page.Offset, currentUserID(c))
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}

	return c.JSON(items)
}

// GetMyFavorites handles GET /api/users/me/favorites
func (s *Server) GetMyFavorites(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	page := parsePagination(c, 20)

	items, err := s.itemService.ListFavorites(ctx, userID, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(items)
}

// UpdateItem handles PUT /api/items/:id
func (s *Server) UpdateItem(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title       string `json:"title,omitempty"`
		Description string `json:"description,omitempty"`
		Category    string `json:"category,omitempty"`
		Tags        string `json:"tags,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	item, svcErr := s.itemService.UpdateItem(ctx, service.UpdateItemInput{
		UserID:      userID,
		ItemID:      id,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Tags:        req.Tags,
	})
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}

	return c.JSON(item)
}

// DeleteItem handles DELETE /api/items/:id
func (s *Server) DeleteItem(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if svcErr := s.itemService.DeleteItem(ctx, service.DeleteItemInput{
		UserID: userID,
		ItemID: id,
	}); svcErr != nil {
		return respondServiceError(c, svcErr)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
