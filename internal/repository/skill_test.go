package repository

import (
	"context"
	"testing"

	"skillswap/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkillRepository_Deactivate(t *testing.T) {
	db := newTestDB(t)
	repo := NewSkillRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	skill := createTestSkill(t, db, alice, "Conversational Spanish", true)

	require.NoError(t, repo.Deactivate(ctx, skill.ID))

	// The row survives deactivation; it is only hidden from search.
	got, err := repo.GetByID(ctx, skill.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	results, err := repo.Search(ctx, ListingFilter{Limit: 20})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSkillRepository_ListByUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewSkillRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	createTestSkill(t, db, alice, "Active Listing", true)
	createTestSkill(t, db, alice, "Retired Listing", false)

	visible, err := repo.ListByUser(ctx, alice.ID, false)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "Active Listing", visible[0].Title)

	all, err := repo.ListByUser(ctx, alice.ID, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSkillRepository_Search(t *testing.T) {
	db := newTestDB(t)
	repo := NewSkillRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	spanish := createTestSkill(t, db, alice, "Conversational Spanish", true)

	bob := createTestUser(t, db, "bob")
	guitar := &models.Skill{
		UserID:         bob.ID,
		Title:          "Acoustic Guitar Basics",
		Description:    "Learn open chords and strumming",
		Category:       "music",
		SkillLevel:     "beginner",
		TimeCommitment: "1 hour/week",
		Tags:           []string{"guitar", "acoustic"},
		IsActive:       true,
	}
	require.NoError(t, db.Create(guitar).Error)

	t.Run("category", func(t *testing.T) {
		results, err := repo.Search(ctx, ListingFilter{Category: "music", Limit: 20})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, guitar.ID, results[0].ID)
	})

	t.Run("tag", func(t *testing.T) {
		results, err := repo.Search(ctx, ListingFilter{Tag: "spanish", Limit: 20})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, spanish.ID, results[0].ID)
	})

	t.Run("text query is case-insensitive", func(t *testing.T) {
		results, err := repo.Search(ctx, ListingFilter{Query: "STRUMMING", Limit: 20})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, guitar.ID, results[0].ID)
	})

	t.Run("skill level", func(t *testing.T) {
		results, err := repo.Search(ctx, ListingFilter{SkillLevel: "beginner", Limit: 20})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, guitar.ID, results[0].ID)
	})

	t.Run("no match", func(t *testing.T) {
		results, err := repo.Search(ctx, ListingFilter{Category: "cooking", Limit: 20})
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestSkillRepository_SearchWildcardsAreLiteral(t *testing.T) {
	db := newTestDB(t)
	repo := NewSkillRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	underscored := &models.Skill{
		UserID:         alice.ID,
		Title:          "Vim Basics",
		Description:    "Modal editing from scratch",
		Category:       "software",
		SkillLevel:     "beginner",
		TimeCommitment: "1 hour/week",
		Tags:           []string{"g_"},
		IsActive:       true,
	}
	require.NoError(t, db.Create(underscored).Error)

	plain := &models.Skill{
		UserID:         alice.ID,
		Title:          "Go Basics",
		Description:    "100% hands-on introduction",
		Category:       "software",
		SkillLevel:     "beginner",
		TimeCommitment: "1 hour/week",
		Tags:           []string{"go"},
		IsActive:       true,
	}
	require.NoError(t, db.Create(plain).Error)

	t.Run("underscore in tag does not match any character", func(t *testing.T) {
		results, err := repo.Search(ctx, ListingFilter{Tag: "g_", Limit: 20})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, underscored.ID, results[0].ID)
	})

	t.Run("wildcards in text query match literally", func(t *testing.T) {
		results, err := repo.Search(ctx, ListingFilter{Query: "100%", Limit: 20})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, plain.ID, results[0].ID)

		// An underscore would match the "%" of "100%" as a wildcard.
		results, err = repo.Search(ctx, ListingFilter{Query: "100_", Limit: 20})
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestSkillRequestRepository_Search(t *testing.T) {
	db := newTestDB(t)
	repo := NewSkillRequestRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	wanted := createTestSkillRequest(t, db, alice, "Acoustic Guitar Basics", true)
	createTestSkillRequest(t, db, alice, "Hidden Request", false)

	results, err := repo.Search(ctx, ListingFilter{Tag: "guitar", Limit: 20})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, wanted.ID, results[0].ID)
}
