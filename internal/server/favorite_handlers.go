package server

import (
	"skillswap/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AddFavorite handles POST /api/favorites
func (s *Server) AddFavorite(c *fiber.Ctx) error {
	var req struct {
		SkillID        uint `json:"skill_id"`
		SkillRequestID uint `json:"skill_request_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	fav, err := s.favoriteService.Add(c.Context(), currentUserID(c),
		optionalUintBody(req.SkillID), optionalUintBody(req.SkillRequestID))
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fav)
}

// GetFavorites handles GET /api/favorites
func (s *Server) GetFavorites(c *fiber.Ctx) error {
	favs, err := s.favoriteService.List(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{"favorites": favs})
}

// RemoveFavorite handles DELETE /api/favorites/:id
func (s *Server) RemoveFavorite(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.favoriteService.Remove(c.Context(), currentUserID(c), id); err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Favorite removed"})
}
