// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"skillswap/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	availabilities = []string{"weekdays", "evenings", "weekends", "flexible"}
	skillLevels    = []string{"beginner", "intermediate", "advanced", "expert"}
	commitments    = []string{"1 hour/week", "2 hours/week", "3 hours/week", "occasional"}

	skillPresets = []struct {
		title    string
		category string
		tags     []string
	}{
		{"Conversational Spanish", "languages", []string{"spanish", "conversation"}},
		{"French for Beginners", "languages", []string{"french", "beginner-friendly"}},
		{"Acoustic Guitar Basics", "music", []string{"guitar", "acoustic"}},
		{"Piano Sight-Reading", "music", []string{"piano", "theory"}},
		{"Sourdough Baking", "cooking", []string{"baking", "bread"}},
		{"Thai Home Cooking", "cooking", []string{"thai", "spicy"}},
		{"Yoga for Desk Workers", "fitness", []string{"yoga", "stretching"}},
		{"Trail Running Coaching", "fitness", []string{"running", "outdoors"}},
		{"Watercolor Painting", "arts", []string{"painting", "watercolor"}},
		{"Portrait Photography", "arts", []string{"photography", "portraits"}},
		{"Intro to Python", "technology", []string{"python", "programming"}},
		{"Web Design Fundamentals", "technology", []string{"design", "css"}},
		{"Garden Planning", "home", []string{"gardening", "vegetables"}},
		{"Bike Maintenance", "home", []string{"cycling", "repair"}},
	}
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // weak random is fine for seeding
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Factory{db: db, opts: opts, rng: rng}
}

// CreateUser constructs and persists a sample member profile.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Email:        gofakeit.Email(),
		FirstName:    gofakeit.FirstName(),
		LastName:     gofakeit.LastName(),
		Bio:          gofakeit.Sentence(12),
		Location:     fmt.Sprintf("%s, %s", gofakeit.City(), gofakeit.StateAbr()),
		Availability: availabilities[f.rng.Intn(len(availabilities))],
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateSkill persists an offered skill for the given user.
func (f *Factory) CreateSkill(user *models.User, overrides ...func(*models.Skill)) (*models.Skill, error) {
	preset := skillPresets[f.rng.Intn(len(skillPresets))]
	skill := &models.Skill{
		UserID:         user.ID,
		Title:          preset.title,
		Description:    gofakeit.Paragraph(1, 2, 8, " "),
		Category:       preset.category,
		SkillLevel:     skillLevels[f.rng.Intn(len(skillLevels))],
		TimeCommitment: commitments[f.rng.Intn(len(commitments))],
		Tags:           preset.tags,
		IsActive:       true,
	}
	skill.CreatedAt = f.timestampBack()

	for _, override := range overrides {
		override(skill)
	}

	if err := f.db.Create(skill).Error; err != nil {
		return nil, err
	}
	return skill, nil
}

// CreateSkillRequest persists a wanted skill for the given user.
func (f *Factory) CreateSkillRequest(user *models.User, overrides ...func(*models.SkillRequest)) (*models.SkillRequest, error) {
	preset := skillPresets[f.rng.Intn(len(skillPresets))]
	request := &models.SkillRequest{
		UserID:         user.ID,
		Title:          preset.title,
		Description:    gofakeit.Paragraph(1, 2, 8, " "),
		Category:       preset.category,
		SkillLevel:     skillLevels[f.rng.Intn(len(skillLevels))],
		TimeCommitment: commitments[f.rng.Intn(len(commitments))],
		Tags:           preset.tags,
		IsActive:       true,
	}
	request.CreatedAt = f.timestampBack()

	for _, override := range overrides {
		override(request)
	}

	if err := f.db.Create(request).Error; err != nil {
		return nil, err
	}
	return request, nil
}

// CreateConnection persists a swap request between two users, optionally
// anchored to one of the target's skills.
func (f *Factory) CreateConnection(from, to *models.User, skill *models.Skill, status models.ConnectionStatus) (*models.Connection, error) {
	conn := &models.Connection{
		FromUserID: from.ID,
		ToUserID:   to.ID,
		Status:     status,
		Message:    gofakeit.Sentence(8),
	}
	if skill != nil {
		conn.SkillID = &skill.ID
	}
	conn.CreatedAt = f.timestampBack()

	if err := f.db.Create(conn).Error; err != nil {
		return nil, err
	}
	return conn, nil
}

// CreateFavorite bookmarks a skill for the given user.
func (f *Factory) CreateFavorite(user *models.User, skill *models.Skill) (*models.Favorite, error) {
	fav := &models.Favorite{
		UserID:  user.ID,
		SkillID: &skill.ID,
	}
	if err := f.db.Create(fav).Error; err != nil {
		return nil, err
	}
	return fav, nil
}

// timestampBack spreads created_at over the recent past for realism.
func (f *Factory) timestampBack() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.rng.Intn(maxDays)
	hoursBack := f.rng.Intn(24)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)
}
