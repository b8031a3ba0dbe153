package server

import (
	"skillswap/internal/models"
	"skillswap/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateSwapRequest handles POST /api/swap-requests
func (s *Server) CreateSwapRequest(c *fiber.Ctx) error {
	var req struct {
		ToUserID       string `json:"to_user_id"`
		SkillID        uint   `json:"skill_id"`
		SkillRequestID uint   `json:"skill_request_id"`
		Message        string `json:"message"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}
	if req.ToUserID == "" {
		return models.RespondWithError(c, models.NewValidationError("to_user_id is required"))
	}

	conn, err := s.connectionService.CreateSwapRequest(c.Context(), currentUserID(c), service.CreateSwapInput{
		ToUserID:       req.ToUserID,
		SkillID:        optionalUintBody(req.SkillID),
		SkillRequestID: optionalUintBody(req.SkillRequestID),
		Message:        req.Message,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	s.publishSwapEvent(c, conn.ToUserID, EventSwapRequestReceived, conn)

	return c.Status(fiber.StatusCreated).JSON(conn)
}

// GetMySwapRequests handles GET /api/swap-requests/me
func (s *Server) GetMySwapRequests(c *fiber.Ctx) error {
	p := parsePagination(c, defaultPageSize)

	conns, err := s.connectionService.ListMine(c.Context(), currentUserID(c), c.Query("status"), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{"swap_requests": conns})
}

// AcceptSwapRequest handles PUT /api/swap-requests/:id/accept
func (s *Server) AcceptSwapRequest(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	conn, err := s.connectionService.Accept(c.Context(), currentUserID(c), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	s.publishSwapEvent(c, conn.FromUserID, EventSwapRequestAccepted, conn)

	return c.JSON(conn)
}

// RejectSwapRequest handles PUT /api/swap-requests/:id/reject
func (s *Server) RejectSwapRequest(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	conn, err := s.connectionService.Decline(c.Context(), currentUserID(c), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	s.publishSwapEvent(c, conn.FromUserID, EventSwapRequestDeclined, conn)

	return c.JSON(conn)
}

// SubmitSwapFeedback handles PUT /api/swap-requests/:id/feedback
func (s *Server) SubmitSwapFeedback(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Score int `json:"score"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	conn, err := s.connectionService.SubmitFeedback(c.Context(), currentUserID(c), id, req.Score)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	s.publishSwapEvent(c, conn.Counterpart(currentUserID(c)), EventSwapFeedback, conn)

	return c.JSON(conn)
}

// DeleteSwapRequest handles DELETE /api/swap-requests/:id
func (s *Server) DeleteSwapRequest(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if _, err := s.connectionService.Delete(c.Context(), currentUserID(c), id); err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Swap request deleted"})
}
