package database

import "skillswap/internal/models"

// AllModels returns every model that participates in schema migration.
// Order matters: referenced tables come before the tables referencing them so
// foreign keys resolve during AutoMigrate.
func AllModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Skill{},
		&models.SkillRequest{},
		&models.Connection{},
		&models.Favorite{},
	}
}
