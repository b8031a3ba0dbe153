package repository

import (
	"context"
	"errors"

	"skillswap/internal/models"

	"gorm.io/gorm"
)

// FavoriteRepository defines persistence operations for bookmarks.
type FavoriteRepository interface {
	Create(ctx context.Context, fav *models.Favorite) error
	GetByID(ctx context.Context, id uint) (*models.Favorite, error)
	FindByTarget(ctx context.Context, userID string, ref models.ListingRef) (*models.Favorite, error)
	ListByUser(ctx context.Context, userID string) ([]models.Favorite, error)
	Delete(ctx context.Context, id uint) error
}

type favoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository returns a new FavoriteRepository implementation.
func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) Create(ctx context.Context, fav *models.Favorite) error {
	if err := r.db.WithContext(ctx).Create(fav).Error; err != nil {
		if isDuplicateKey(err) {
			return models.NewConflictError("Favorite already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *favoriteRepository) GetByID(ctx context.Context, id uint) (*models.Favorite, error) {
	var fav models.Favorite
	if err := readDB(r.db).WithContext(ctx).First(&fav, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Favorite", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &fav, nil
}

func (r *favoriteRepository) FindByTarget(ctx context.Context, userID string, ref models.ListingRef) (*models.Favorite, error) {
	db := readDB(r.db).WithContext(ctx).Where("user_id = ?", userID)
	switch ref.Kind {
	case models.ListingKindSkill:
		db = db.Where("skill_id = ?", ref.ID)
	case models.ListingKindSkillRequest:
		db = db.Where("skill_request_id = ?", ref.ID)
	}

	var fav models.Favorite
	if err := db.First(&fav).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // no bookmark yet
		}
		return nil, models.NewInternalError(err)
	}
	return &fav, nil
}

func (r *favoriteRepository) ListByUser(ctx context.Context, userID string) ([]models.Favorite, error) {
	var favs []models.Favorite
	if err := readDB(r.db).WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Skill").
		Preload("SkillRequest").
		Order("created_at DESC, id DESC").
		Find(&favs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return favs, nil
}

func (r *favoriteRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Favorite{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
