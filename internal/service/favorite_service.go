package service

import (
	"context"

	"skillswap/internal/models"
	"skillswap/internal/repository"
)

// FavoriteService manages per-user listing bookmarks.
type FavoriteService struct {
	favRepo          repository.FavoriteRepository
	skillRepo        repository.SkillRepository
	skillRequestRepo repository.SkillRequestRepository
}

// NewFavoriteService returns a new FavoriteService.
func NewFavoriteService(
	favRepo repository.FavoriteRepository,
	skillRepo repository.SkillRepository,
	skillRequestRepo repository.SkillRequestRepository,
) *FavoriteService {
	return &FavoriteService{
		favRepo:          favRepo,
		skillRepo:        skillRepo,
		skillRequestRepo: skillRequestRepo,
	}
}

// Add bookmarks a listing for the caller. Exactly one of skillID and
// skillRequestID must be set and must point at an existing listing. Adding an
// existing bookmark is idempotent and returns the stored row.
func (s *FavoriteService) Add(ctx context.Context, callerID string, skillID, skillRequestID *uint) (*models.Favorite, error) {
	ref, err := models.NewListingRef(skillID, skillRequestID)
	if err != nil {
		return nil, err
	}

	switch ref.Kind {
	case models.ListingKindSkill:
		if _, err := s.skillRepo.GetByID(ctx, ref.ID); err != nil {
			if isNotFound(err) {
				return nil, models.NewInvalidReferenceError("Referenced skill does not exist")
			}
			return nil, err
		}
	case models.ListingKindSkillRequest:
		if _, err := s.skillRequestRepo.GetByID(ctx, ref.ID); err != nil {
			if isNotFound(err) {
				return nil, models.NewInvalidReferenceError("Referenced skill request does not exist")
			}
			return nil, err
		}
	}

	existing, err := s.favRepo.FindByTarget(ctx, callerID, ref)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	fav := &models.Favorite{
		UserID:         callerID,
		SkillID:        skillID,
		SkillRequestID: skillRequestID,
	}
	if err := s.favRepo.Create(ctx, fav); err != nil {
		if isConflict(err) {
			// A concurrent add won the insert race; its row is the
			// idempotent result.
			existing, findErr := s.favRepo.FindByTarget(ctx, callerID, ref)
			if findErr == nil && existing != nil {
				return existing, nil
			}
		}
		return nil, err
	}
	return s.favRepo.GetByID(ctx, fav.ID)
}

// Remove deletes one of the caller's bookmarks. Removing a bookmark that is
// already gone succeeds; absence is the desired end state.
func (s *FavoriteService) Remove(ctx context.Context, callerID string, id uint) error {
	fav, err := s.favRepo.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return err
	}
	if fav.UserID != callerID {
		return models.NewForbiddenError("You can only remove your own favorites")
	}
	return s.favRepo.Delete(ctx, id)
}

// List returns all of the caller's bookmarks, newest first.
func (s *FavoriteService) List(ctx context.Context, callerID string) ([]models.Favorite, error) {
	return s.favRepo.ListByUser(ctx, callerID)
}
