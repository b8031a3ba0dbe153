package server

import (
	"skillswap/internal/models"
	"skillswap/internal/repository"
	"skillswap/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type listingRequest struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Category       string   `json:"category"`
	SkillLevel     string   `json:"skill_level"`
	TimeCommitment string   `json:"time_commitment"`
	Tags           []string `json:"tags"`
}

func (r listingRequest) toInput() validation.ListingInput {
	return validation.ListingInput{
		Title:          r.Title,
		Description:    r.Description,
		Category:       r.Category,
		SkillLevel:     r.SkillLevel,
		TimeCommitment: r.TimeCommitment,
		Tags:           r.Tags,
	}
}

// listingUpdateRequest binds a partial listing update. Absent fields stay nil
// and keep their stored value.
type listingUpdateRequest struct {
	Title          *string   `json:"title"`
	Description    *string   `json:"description"`
	Category       *string   `json:"category"`
	SkillLevel     *string   `json:"skill_level"`
	TimeCommitment *string   `json:"time_commitment"`
	Tags           *[]string `json:"tags"`
}

func (r listingUpdateRequest) toUpdate() validation.ListingUpdate {
	return validation.ListingUpdate{
		Title:          r.Title,
		Description:    r.Description,
		Category:       r.Category,
		SkillLevel:     r.SkillLevel,
		TimeCommitment: r.TimeCommitment,
		Tags:           r.Tags,
	}
}

// listingFilterFromQuery builds the shared catalog search filter.
func listingFilterFromQuery(c *fiber.Ctx, p Pagination) repository.ListingFilter {
	return repository.ListingFilter{
		Category:   c.Query("category"),
		Tag:        c.Query("tag"),
		SkillLevel: c.Query("level"),
		Query:      c.Query("q"),
		Limit:      p.Limit,
		Offset:     p.Offset,
	}
}

// SearchSkills handles GET /api/skills
func (s *Server) SearchSkills(c *fiber.Ctx) error {
	p := parsePagination(c, defaultPageSize)

	skills, err := s.catalogService.SearchSkills(c.Context(), listingFilterFromQuery(c, p))
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{"skills": skills})
}

// GetSkill handles GET /api/skills/:id
func (s *Server) GetSkill(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	skill, err := s.catalogService.GetSkill(c.Context(), currentUserID(c), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(skill)
}

// GetUserSkills handles GET /api/users/:id/skills. Owners also see their
// inactive listings.
func (s *Server) GetUserSkills(c *fiber.Ctx) error {
	userID := c.Params("id")

	skills, err := s.catalogService.ListUserSkills(c.Context(), currentUserID(c), userID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{"skills": skills})
}

// CreateSkill handles POST /api/skills
func (s *Server) CreateSkill(c *fiber.Ctx) error {
	var req listingRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	skill, err := s.catalogService.CreateSkill(c.Context(), currentUserID(c), req.toInput())
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(skill)
}

// UpdateSkill handles PUT /api/skills/:id
func (s *Server) UpdateSkill(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req listingUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	skill, err := s.catalogService.UpdateSkill(c.Context(), currentUserID(c), id, req.toUpdate())
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(skill)
}

// DeleteSkill handles DELETE /api/skills/:id (soft deactivation)
func (s *Server) DeleteSkill(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.catalogService.DeactivateSkill(c.Context(), currentUserID(c), id); err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Skill deactivated"})
}
