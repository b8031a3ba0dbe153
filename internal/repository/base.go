// Package repository implements the data access layer for the application.
package repository

import (
	"errors"
	"strings"

	"skillswap/internal/database"

	"gorm.io/gorm"
)

// readDB prefers the read replica when one is configured.
func readDB(primary *gorm.DB) *gorm.DB {
	if db := database.GetReadDB(); db != nil {
		return db
	}
	return primary
}

// isDuplicateKey reports whether err is a unique-constraint violation. The
// string checks cover drivers that do not translate to gorm.ErrDuplicatedKey.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
