package server

import (
	"skillswap/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SearchSkillRequests handles GET /api/skill-requests
func (s *Server) SearchSkillRequests(c *fiber.Ctx) error {
	p := parsePagination(c, defaultPageSize)

	requests, err := s.catalogService.SearchSkillRequests(c.Context(), listingFilterFromQuery(c, p))
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{"skill_requests": requests})
}

// GetSkillRequest handles GET /api/skill-requests/:id
func (s *Server) GetSkillRequest(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	request, err := s.catalogService.GetSkillRequest(c.Context(), currentUserID(c), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(request)
}

// GetUserSkillRequests handles GET /api/users/:id/skill-requests. Owners also
// see their inactive listings.
func (s *Server) GetUserSkillRequests(c *fiber.Ctx) error {
	userID := c.Params("id")

	requests, err := s.catalogService.ListUserSkillRequests(c.Context(), currentUserID(c), userID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{"skill_requests": requests})
}

// CreateSkillRequest handles POST /api/skill-requests
func (s *Server) CreateSkillRequest(c *fiber.Ctx) error {
	var req listingRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	request, err := s.catalogService.CreateSkillRequest(c.Context(), currentUserID(c), req.toInput())
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(request)
}

// UpdateSkillRequest handles PUT /api/skill-requests/:id
func (s *Server) UpdateSkillRequest(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req listingUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	request, err := s.catalogService.UpdateSkillRequest(c.Context(), currentUserID(c), id, req.toUpdate())
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(request)
}

// DeleteSkillRequest handles DELETE /api/skill-requests/:id (soft deactivation)
func (s *Server) DeleteSkillRequest(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.catalogService.DeactivateSkillRequest(c.Context(), currentUserID(c), id); err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Skill request deactivated"})
}
