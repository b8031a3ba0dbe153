package service

import (
	"context"
	"strings"

	"skillswap/internal/cache"
	"skillswap/internal/models"
	"skillswap/internal/observability"
	"skillswap/internal/repository"
)

// DirectoryPage is one page of the public user directory.
type DirectoryPage struct {
	Users []models.User `json:"users"`
	Total int64         `json:"total"`
}

// UpdateProfileInput carries a partial profile update. Nil fields are left
// untouched.
type UpdateProfileInput struct {
	FirstName    *string
	LastName     *string
	Bio          *string
	Location     *string
	Availability *string
}

// UserService provides profile and directory business logic.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Directory returns one page of the public directory. Pages are cached for a
// short window when useCache is set; writes elsewhere tolerate the staleness.
func (s *UserService) Directory(ctx context.Context, filter repository.DirectoryFilter, useCache bool) (*DirectoryPage, error) {
	filter.Search = strings.TrimSpace(filter.Search)

	if !useCache {
		users, total, err := s.userRepo.ListPublic(ctx, filter)
		if err != nil {
			return nil, err
		}
		return &DirectoryPage{Users: users, Total: total}, nil
	}

	var page DirectoryPage
	key := cache.DirectoryKey(filter.Search, filter.Availability, filter.Limit, filter.Offset)

	fetched := false
	err := cache.Aside(ctx, key, &page, cache.DirectoryTTL, func() error {
		fetched = true
		users, total, err := s.userRepo.ListPublic(ctx, filter)
		if err != nil {
			return err
		}
		page = DirectoryPage{Users: users, Total: total}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if fetched {
		observability.DirectoryCacheHits.WithLabelValues("miss").Inc()
	} else {
		observability.DirectoryCacheHits.WithLabelValues("hit").Inc()
	}
	return &page, nil
}

// GetProfile returns a user's profile with their active listings preloaded.
func (s *UserService) GetProfile(ctx context.Context, id string) (*models.User, error) {
	return s.userRepo.GetByIDWithListings(ctx, id)
}

// UpdateProfile applies a partial update to the caller's own profile.
func (s *UserService) UpdateProfile(ctx context.Context, callerID, id string, in UpdateProfileInput) (*models.User, error) {
	if callerID != id {
		return nil, models.NewForbiddenError("You can only update your own profile")
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.FirstName != nil {
		user.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		user.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Bio != nil {
		user.Bio = *in.Bio
	}
	if in.Location != nil {
		user.Location = strings.TrimSpace(*in.Location)
	}
	if in.Availability != nil {
		user.Availability = strings.TrimSpace(*in.Availability)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.userRepo.GetByIDWithListings(ctx, id)
}

// SetProfileImage stores the processed avatar URL on the caller's profile.
func (s *UserService) SetProfileImage(ctx context.Context, callerID string, url string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, callerID)
	if err != nil {
		return nil, err
	}

	user.ProfileImageURL = url
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
