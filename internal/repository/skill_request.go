package repository

import (
	"context"
	"errors"

	"skillswap/internal/models"

	"gorm.io/gorm"
)

// SkillRequestRepository defines persistence operations for wanted skills.
// It mirrors SkillRepository; the two catalog sides live in separate tables.
type SkillRequestRepository interface {
	GetByID(ctx context.Context, id uint) (*models.SkillRequest, error)
	Create(ctx context.Context, request *models.SkillRequest) error
	Update(ctx context.Context, request *models.SkillRequest) error
	Deactivate(ctx context.Context, id uint) error
	ListByUser(ctx context.Context, userID string, includeInactive bool) ([]models.SkillRequest, error)
	Search(ctx context.Context, filter ListingFilter) ([]models.SkillRequest, error)
}

type skillRequestRepository struct {
	db *gorm.DB
}

// NewSkillRequestRepository returns a new SkillRequestRepository implementation.
func NewSkillRequestRepository(db *gorm.DB) SkillRequestRepository {
	return &skillRequestRepository{db: db}
}

func (r *skillRequestRepository) GetByID(ctx context.Context, id uint) (*models.SkillRequest, error) {
	var request models.SkillRequest
	if err := readDB(r.db).WithContext(ctx).Preload("User").First(&request, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Skill request", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &request, nil
}

func (r *skillRequestRepository) Create(ctx context.Context, request *models.SkillRequest) error {
	if err := r.db.WithContext(ctx).Create(request).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *skillRequestRepository) Update(ctx context.Context, request *models.SkillRequest) error {
	if err := r.db.WithContext(ctx).Save(request).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *skillRequestRepository) Deactivate(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).
		Model(&models.SkillRequest{}).
		Where("id = ?", id).
		Update("is_active", false).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *skillRequestRepository) ListByUser(ctx context.Context, userID string, includeInactive bool) ([]models.SkillRequest, error) {
	db := readDB(r.db).WithContext(ctx).Where("user_id = ?", userID)
	if !includeInactive {
		db = db.Where("is_active = ?", true)
	}

	var requests []models.SkillRequest
	if err := db.Order("created_at DESC, id DESC").Find(&requests).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return requests, nil
}

func (r *skillRequestRepository) Search(ctx context.Context, filter ListingFilter) ([]models.SkillRequest, error) {
	db := applyListingFilter(readDB(r.db).WithContext(ctx).Model(&models.SkillRequest{}), filter)

	var requests []models.SkillRequest
	if err := db.
		Preload("User").
		Order("created_at DESC, id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&requests).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return requests, nil
}
