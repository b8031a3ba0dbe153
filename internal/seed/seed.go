package seed

import (
	"fmt"
	"log"

	"skillswap/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers        int
	ListingsPerUser int
	NumSwaps        int
	ShouldClean     bool
	SkipBcrypt      bool
	MaxDays         int
}

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Starting database seeding with %d users...", opts.NumUsers)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	f := NewFactory(db, opts)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("%d users created", len(users))

	perUser := opts.ListingsPerUser
	if perUser <= 0 {
		perUser = 2
	}

	var skills []*models.Skill
	for _, user := range users {
		for i := 0; i < perUser; i++ {
			skill, err := f.CreateSkill(user)
			if err != nil {
				return fmt.Errorf("failed to create skill: %w", err)
			}
			skills = append(skills, skill)

			if _, err := f.CreateSkillRequest(user); err != nil {
				return fmt.Errorf("failed to create skill request: %w", err)
			}
		}
	}
	log.Printf("%d skills and %d skill requests created", len(skills), len(skills))

	swaps := opts.NumSwaps
	if swaps <= 0 {
		swaps = opts.NumUsers
	}

	created := 0
	statuses := []models.ConnectionStatus{
		models.ConnectionStatusPending,
		models.ConnectionStatusAccepted,
		models.ConnectionStatusDeclined,
	}
	for i := 0; created < swaps && i < swaps*3 && len(users) > 1; i++ {
		from := users[f.rng.Intn(len(users))]
		to := users[f.rng.Intn(len(users))]
		if from.ID == to.ID {
			continue
		}

		var skill *models.Skill
		for _, s := range skills {
			if s.UserID == to.ID {
				skill = s
				break
			}
		}

		status := statuses[f.rng.Intn(len(statuses))]
		if _, err := f.CreateConnection(from, to, skill, status); err != nil {
			return fmt.Errorf("failed to create swap request: %w", err)
		}
		created++
	}
	log.Printf("%d swap requests created", created)

	favorites := 0
	for _, user := range users {
		for _, s := range skills {
			if s.UserID == user.ID {
				continue
			}
			if f.rng.Intn(4) != 0 {
				continue
			}
			if _, err := f.CreateFavorite(user, s); err != nil {
				return fmt.Errorf("failed to create favorite: %w", err)
			}
			favorites++
			break
		}
	}
	log.Printf("%d favorites created", favorites)

	log.Println("Database seeding completed successfully")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE favorites, connections, skill_requests, skills, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}
