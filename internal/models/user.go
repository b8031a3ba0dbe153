// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a member of the skill-swap marketplace.
//
// Rating is a running average over TotalRatings feedback submissions; a user
// with TotalRatings == 0 has no real rating and clients should render "new".
type User struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	Email           string    `gorm:"unique;not null" json:"email"`
	Password        string    `gorm:"not null" json:"-"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Bio             string    `gorm:"type:text" json:"bio"`
	Location        string    `json:"location"`
	Availability    string    `gorm:"index" json:"availability"`
	ProfileImageURL string    `json:"profile_image_url"`
	Rating          float64   `gorm:"type:decimal(3,2);default:0" json:"rating"`
	TotalRatings    int       `gorm:"default:0" json:"total_ratings"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Relationships
	Skills        []Skill        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"skills,omitempty"`
	SkillRequests []SkillRequest `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"skill_requests,omitempty"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a UUID primary key when none was provided (external
// identity providers may supply their own subject IDs).
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// DisplayName returns the user's full name, falling back to the email local
// part when no name is set.
func (u *User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	default:
		return u.Email
	}
}
