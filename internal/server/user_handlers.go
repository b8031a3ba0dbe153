package server

import (
	"io"

	"skillswap/internal/models"
	"skillswap/internal/repository"
	"skillswap/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetDirectory handles GET /api/users
//
// Browse/search the public member directory. Only users with at least one
// active listing are included.
func (s *Server) GetDirectory(c *fiber.Ctx) error {
	page, pageSize, p := parsePage(c)

	filter := repository.DirectoryFilter{
		Search:       c.Query("search"),
		Availability: c.Query("availability"),
		Limit:        p.Limit,
		Offset:       p.Offset,
	}

	useCache := s.featureFlags.Enabled("directory_cache", currentUserID(c))
	result, err := s.userService.Directory(c.Context(), filter, useCache)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{
		"users":     result.Users,
		"total":     result.Total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetUserProfile handles GET /api/users/:id
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	userID := c.Params("id")
	if userID == "" {
		return models.RespondWithError(c, models.NewValidationError("Invalid user ID"))
	}

	user, err := s.userService.GetProfile(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(user)
}

// UpdateUserProfile handles PUT /api/users/:id
func (s *Server) UpdateUserProfile(c *fiber.Ctx) error {
	userID := c.Params("id")

	var req struct {
		FirstName    *string `json:"first_name"`
		LastName     *string `json:"last_name"`
		Bio          *string `json:"bio"`
		Location     *string `json:"location"`
		Availability *string `json:"availability"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), currentUserID(c), userID, service.UpdateProfileInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Bio:          req.Bio,
		Location:     req.Location,
		Availability: req.Availability,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(user)
}

// UploadProfilePhoto handles PUT /api/users/:id/profile-photo
func (s *Server) UploadProfilePhoto(c *fiber.Ctx) error {
	userID := c.Params("id")
	callerID := currentUserID(c)
	if userID != callerID {
		return models.RespondWithError(c,
			models.NewForbiddenError("You can only update your own profile photo"))
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return models.RespondWithError(c, models.NewValidationError("No file uploaded"))
	}

	f, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	defer func() { _ = f.Close() }()

	content, err := io.ReadAll(io.LimitReader(f, service.AvatarMaxUploadBytes+1))
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}

	url, err := s.imageService.ProcessAvatar(service.UploadAvatarInput{
		UserID:      callerID,
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Content:     content,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	user, err := s.userService.SetProfileImage(c.Context(), callerID, url)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(user)
}
