package repository

import (
	"fmt"
	"testing"
	"time"

	"skillswap/internal/database"
	"skillswap/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database with the full schema applied.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// Every pooled connection of an in-memory SQLite DSN gets its own
	// database; pin the pool to one connection so the schema is shared.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()

	user := &models.User{
		Email:     fmt.Sprintf("%s_%d@example.com", name, time.Now().UnixNano()),
		Password:  "hashed",
		FirstName: name,
		LastName:  "Tester",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestSkill(t *testing.T, db *gorm.DB, owner *models.User, title string, active bool) *models.Skill {
	t.Helper()

	skill := &models.Skill{
		UserID:         owner.ID,
		Title:          title,
		Description:    "A listing used in tests",
		Category:       "languages",
		SkillLevel:     "intermediate",
		TimeCommitment: "2 hours/week",
		Tags:           []string{"spanish", "conversation"},
		IsActive:       active,
	}
	require.NoError(t, db.Create(skill).Error)
	return skill
}

func createTestSkillRequest(t *testing.T, db *gorm.DB, owner *models.User, title string, active bool) *models.SkillRequest {
	t.Helper()

	request := &models.SkillRequest{
		UserID:         owner.ID,
		Title:          title,
		Description:    "A wanted listing used in tests",
		Category:       "music",
		SkillLevel:     "beginner",
		TimeCommitment: "1 hour/week",
		Tags:           []string{"guitar"},
		IsActive:       active,
	}
	require.NoError(t, db.Create(request).Error)
	return request
}
