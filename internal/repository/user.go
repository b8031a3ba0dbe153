package repository

import (
	"context"
	"errors"
	"strings"

	"skillswap/internal/cache"
	"skillswap/internal/models"

	"gorm.io/gorm"
)

// DirectoryFilter holds the browse/search parameters for the public user
// directory.
type DirectoryFilter struct {
	Search       string
	Availability string
	Limit        int
	Offset       int
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByIDWithListings(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
	ListPublic(ctx context.Context, filter DirectoryFilter) ([]models.User, int64, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	key := cache.UserKey(id)

	err := cache.Aside(ctx, key, &user, cache.UserTTL, func() error {
		if err := readDB(r.db).WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByIDWithListings(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := readDB(r.db).WithContext(ctx).
		Preload("Skills", "is_active = ?", true).
		Preload("SkillRequests", "is_active = ?", true).
		First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := readDB(r.db).WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // caller treats nil as "no such user"
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, user.ID)
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, id)
	return nil
}

// ListPublic returns a page of the public directory plus the unpaginated
// total. A user is listed when they own at least one active listing or when
// the search text matches their name. Ordering is stable: created_at then id.
func (r *userRepository) ListPublic(ctx context.Context, filter DirectoryFilter) ([]models.User, int64, error) {
	db := readDB(r.db).WithContext(ctx).Model(&models.User{})

	db = db.Where(
		"EXISTS (SELECT 1 FROM skills WHERE skills.user_id = users.id AND skills.is_active = ?)"+
			" OR EXISTS (SELECT 1 FROM skill_requests WHERE skill_requests.user_id = users.id AND skill_requests.is_active = ?)",
		true, true,
	)

	if filter.Availability != "" {
		db = db.Where("availability = ?", filter.Availability)
	}

	if s := strings.TrimSpace(filter.Search); s != "" {
		pattern := "%" + strings.ToLower(s) + "%"
		db = db.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(bio) LIKE ?"+
				" OR EXISTS (SELECT 1 FROM skills WHERE skills.user_id = users.id AND skills.is_active = ? AND LOWER(skills.title) LIKE ?)"+
				" OR EXISTS (SELECT 1 FROM skill_requests WHERE skill_requests.user_id = users.id AND skill_requests.is_active = ? AND LOWER(skill_requests.title) LIKE ?)",
			pattern, pattern, pattern, true, pattern, true, pattern,
		)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var users []models.User
	if err := db.
		Preload("Skills", "is_active = ?", true).
		Preload("SkillRequests", "is_active = ?", true).
		Order("created_at ASC, id ASC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&users).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	return users, total, nil
}
