package repository

import (
	"context"
	"errors"
	"strings"

	"skillswap/internal/models"

	"gorm.io/gorm"
)

// ListingFilter holds search parameters shared by both catalog sides.
type ListingFilter struct {
	Category   string
	Tag        string
	SkillLevel string
	Query      string
	Limit      int
	Offset     int
}

// SkillRepository defines persistence operations for offered skills.
type SkillRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Skill, error)
	Create(ctx context.Context, skill *models.Skill) error
	Update(ctx context.Context, skill *models.Skill) error
	Deactivate(ctx context.Context, id uint) error
	ListByUser(ctx context.Context, userID string, includeInactive bool) ([]models.Skill, error)
	Search(ctx context.Context, filter ListingFilter) ([]models.Skill, error)
}

type skillRepository struct {
	db *gorm.DB
}

// NewSkillRepository returns a new SkillRepository implementation.
func NewSkillRepository(db *gorm.DB) SkillRepository {
	return &skillRepository{db: db}
}

func (r *skillRepository) GetByID(ctx context.Context, id uint) (*models.Skill, error) {
	var skill models.Skill
	if err := readDB(r.db).WithContext(ctx).Preload("User").First(&skill, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Skill", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &skill, nil
}

func (r *skillRepository) Create(ctx context.Context, skill *models.Skill) error {
	if err := r.db.WithContext(ctx).Create(skill).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *skillRepository) Update(ctx context.Context, skill *models.Skill) error {
	if err := r.db.WithContext(ctx).Save(skill).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *skillRepository) Deactivate(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).
		Model(&models.Skill{}).
		Where("id = ?", id).
		Update("is_active", false).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *skillRepository) ListByUser(ctx context.Context, userID string, includeInactive bool) ([]models.Skill, error) {
	db := readDB(r.db).WithContext(ctx).Where("user_id = ?", userID)
	if !includeInactive {
		db = db.Where("is_active = ?", true)
	}

	var skills []models.Skill
	if err := db.Order("created_at DESC, id DESC").Find(&skills).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return skills, nil
}

func (r *skillRepository) Search(ctx context.Context, filter ListingFilter) ([]models.Skill, error) {
	db := applyListingFilter(readDB(r.db).WithContext(ctx).Model(&models.Skill{}), filter)

	var skills []models.Skill
	if err := db.
		Preload("User").
		Order("created_at DESC, id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&skills).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return skills, nil
}

// applyListingFilter builds the shared WHERE clauses for catalog search.
// Only active rows are visible through search; owners list their own rows via
// ListByUser. The tag match relies on the JSON-serialized tags column storing
// each tag as a quoted string.
func applyListingFilter(db *gorm.DB, filter ListingFilter) *gorm.DB {
	db = db.Where("is_active = ?", true)

	if filter.Category != "" {
		db = db.Where("category = ?", filter.Category)
	}
	if filter.SkillLevel != "" {
		db = db.Where("skill_level = ?", filter.SkillLevel)
	}
	if filter.Tag != "" {
		db = db.Where(`tags LIKE ? ESCAPE '\'`, `%"`+escapeLike(filter.Tag)+`"%`)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		pattern := "%" + escapeLike(strings.ToLower(q)) + "%"
		db = db.Where(`LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\'`, pattern, pattern)
	}
	return db
}

// escapeLike escapes LIKE wildcards so filter text matches literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
