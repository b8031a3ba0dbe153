package service

import (
	"context"

	"skillswap/internal/models"
	"skillswap/internal/repository"
	"skillswap/internal/validation"
)

// CatalogService manages both sides of the listing catalog: skills a user
// offers and skill requests a user is looking for.
type CatalogService struct {
	skillRepo        repository.SkillRepository
	skillRequestRepo repository.SkillRequestRepository
}

// NewCatalogService returns a new CatalogService.
func NewCatalogService(skillRepo repository.SkillRepository, skillRequestRepo repository.SkillRequestRepository) *CatalogService {
	return &CatalogService{skillRepo: skillRepo, skillRequestRepo: skillRequestRepo}
}

// CreateSkill validates and stores a new offered skill for the caller.
func (s *CatalogService) CreateSkill(ctx context.Context, callerID string, in validation.ListingInput) (*models.Skill, error) {
	if err := validation.ValidateListing(&in); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	skill := &models.Skill{
		UserID:         callerID,
		Title:          in.Title,
		Description:    in.Description,
		Category:       in.Category,
		SkillLevel:     in.SkillLevel,
		TimeCommitment: in.TimeCommitment,
		Tags:           in.Tags,
		IsActive:       true,
	}
	if err := s.skillRepo.Create(ctx, skill); err != nil {
		return nil, err
	}
	return s.skillRepo.GetByID(ctx, skill.ID)
}

// GetSkill returns one skill. Inactive skills stay visible to their owner
// only; everyone else gets NotFound so deactivated rows look deleted.
func (s *CatalogService) GetSkill(ctx context.Context, callerID string, id uint) (*models.Skill, error) {
	skill, err := s.skillRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !skill.IsActive && skill.UserID != callerID {
		return nil, models.NewNotFoundError("Skill", id)
	}
	return skill, nil
}

// UpdateSkill applies a partial update to one of the caller's skills. Omitted
// fields keep their stored value.
func (s *CatalogService) UpdateSkill(ctx context.Context, callerID string, id uint, in validation.ListingUpdate) (*models.Skill, error) {
	skill, err := s.skillRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if skill.UserID != callerID {
		return nil, models.NewForbiddenError("You can only update your own skills")
	}

	merged := validation.ListingInput{
		Title:          skill.Title,
		Description:    skill.Description,
		Category:       skill.Category,
		SkillLevel:     skill.SkillLevel,
		TimeCommitment: skill.TimeCommitment,
		Tags:           skill.Tags,
	}
	if err := in.Apply(&merged); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	skill.Title = merged.Title
	skill.Description = merged.Description
	skill.Category = merged.Category
	skill.SkillLevel = merged.SkillLevel
	skill.TimeCommitment = merged.TimeCommitment
	skill.Tags = merged.Tags

	if err := s.skillRepo.Update(ctx, skill); err != nil {
		return nil, err
	}
	return s.skillRepo.GetByID(ctx, id)
}

// DeactivateSkill soft-deletes one of the caller's skills. The row survives
// so existing swap requests keep their listing context.
func (s *CatalogService) DeactivateSkill(ctx context.Context, callerID string, id uint) error {
	skill, err := s.skillRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if skill.UserID != callerID {
		return models.NewForbiddenError("You can only delete your own skills")
	}
	return s.skillRepo.Deactivate(ctx, id)
}

// ListUserSkills returns a user's skills. Owners see inactive rows as well.
func (s *CatalogService) ListUserSkills(ctx context.Context, callerID, userID string) ([]models.Skill, error) {
	return s.skillRepo.ListByUser(ctx, userID, callerID == userID)
}

// SearchSkills returns active skills matching the filter.
func (s *CatalogService) SearchSkills(ctx context.Context, filter repository.ListingFilter) ([]models.Skill, error) {
	if filter.Tag != "" {
		normalized, err := validation.NormalizeTags([]string{filter.Tag})
		if err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		if len(normalized) == 0 {
			filter.Tag = ""
		} else {
			filter.Tag = normalized[0]
		}
	}
	return s.skillRepo.Search(ctx, filter)
}

// CreateSkillRequest validates and stores a new wanted skill for the caller.
func (s *CatalogService) CreateSkillRequest(ctx context.Context, callerID string, in validation.ListingInput) (*models.SkillRequest, error) {
	if err := validation.ValidateListing(&in); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	request := &models.SkillRequest{
		UserID:         callerID,
		Title:          in.Title,
		Description:    in.Description,
		Category:       in.Category,
		SkillLevel:     in.SkillLevel,
		TimeCommitment: in.TimeCommitment,
		Tags:           in.Tags,
		IsActive:       true,
	}
	if err := s.skillRequestRepo.Create(ctx, request); err != nil {
		return nil, err
	}
	return s.skillRequestRepo.GetByID(ctx, request.ID)
}

// GetSkillRequest returns one skill request, hiding inactive rows from
// everyone but the owner.
func (s *CatalogService) GetSkillRequest(ctx context.Context, callerID string, id uint) (*models.SkillRequest, error) {
	request, err := s.skillRequestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !request.IsActive && request.UserID != callerID {
		return nil, models.NewNotFoundError("Skill request", id)
	}
	return request, nil
}

// UpdateSkillRequest applies a partial update to one of the caller's skill
// requests. Omitted fields keep their stored value.
func (s *CatalogService) UpdateSkillRequest(ctx context.Context, callerID string, id uint, in validation.ListingUpdate) (*models.SkillRequest, error) {
	request, err := s.skillRequestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if request.UserID != callerID {
		return nil, models.NewForbiddenError("You can only update your own skill requests")
	}

	merged := validation.ListingInput{
		Title:          request.Title,
		Description:    request.Description,
		Category:       request.Category,
		SkillLevel:     request.SkillLevel,
		TimeCommitment: request.TimeCommitment,
		Tags:           request.Tags,
	}
	if err := in.Apply(&merged); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	request.Title = merged.Title
	request.Description = merged.Description
	request.Category = merged.Category
	request.SkillLevel = merged.SkillLevel
	request.TimeCommitment = merged.TimeCommitment
	request.Tags = merged.Tags

	if err := s.skillRequestRepo.Update(ctx, request); err != nil {
		return nil, err
	}
	return s.skillRequestRepo.GetByID(ctx, id)
}

// DeactivateSkillRequest soft-deletes one of the caller's skill requests.
func (s *CatalogService) DeactivateSkillRequest(ctx context.Context, callerID string, id uint) error {
	request, err := s.skillRequestRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if request.UserID != callerID {
		return models.NewForbiddenError("You can only delete your own skill requests")
	}
	return s.skillRequestRepo.Deactivate(ctx, id)
}

// ListUserSkillRequests returns a user's skill requests. Owners see inactive
// rows as well.
func (s *CatalogService) ListUserSkillRequests(ctx context.Context, callerID, userID string) ([]models.SkillRequest, error) {
	return s.skillRequestRepo.ListByUser(ctx, userID, callerID == userID)
}

// SearchSkillRequests returns active skill requests matching the filter.
func (s *CatalogService) SearchSkillRequests(ctx context.Context, filter repository.ListingFilter) ([]models.SkillRequest, error) {
	if filter.Tag != "" {
		normalized, err := validation.NormalizeTags([]string{filter.Tag})
		if err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		if len(normalized) == 0 {
			filter.Tag = ""
		} else {
			filter.Tag = normalized[0]
		}
	}
	return s.skillRequestRepo.Search(ctx, filter)
}
