package models

import "time"

// ListingKind distinguishes the two catalog sides a reference can point at.
type ListingKind string

const (
	// ListingKindSkill is a skill the owner offers to teach.
	ListingKindSkill ListingKind = "skill"
	// ListingKindSkillRequest is a skill the owner wants to learn.
	ListingKindSkillRequest ListingKind = "skill_request"
)

// ListingRef is a tagged reference to either a Skill or a SkillRequest.
// Exactly one variant is valid; construction goes through NewListingRef.
type ListingRef struct {
	Kind ListingKind `json:"kind"`
	ID   uint        `json:"id"`
}

// NewListingRef builds a ListingRef from the two optional foreign keys used
// on the wire. It fails unless exactly one of them is set.
func NewListingRef(skillID, skillRequestID *uint) (ListingRef, error) {
	switch {
	case skillID != nil && skillRequestID != nil:
		return ListingRef{}, NewInvalidReferenceError("Provide either a skill or a skill request, not both")
	case skillID != nil:
		return ListingRef{Kind: ListingKindSkill, ID: *skillID}, nil
	case skillRequestID != nil:
		return ListingRef{Kind: ListingKindSkillRequest, ID: *skillRequestID}, nil
	default:
		return ListingRef{}, NewInvalidReferenceError("A skill or skill request reference is required")
	}
}

// Skill is a listing a user offers to teach.
type Skill struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         string    `gorm:"size:36;not null;index" json:"user_id"`
	Title          string    `gorm:"not null" json:"title"`
	Description    string    `gorm:"type:text;not null" json:"description"`
	Category       string    `gorm:"not null;index" json:"category"`
	SkillLevel     string    `gorm:"not null" json:"skill_level"`
	TimeCommitment string    `gorm:"not null" json:"time_commitment"`
	Tags           []string  `gorm:"serializer:json" json:"tags"`
	IsActive       bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for GORM
func (Skill) TableName() string {
	return "skills"
}

// SkillRequest is a listing a user wants to learn. It mirrors Skill
// structurally; the two sides of the catalog are kept as separate tables so
// browse/search queries stay symmetric with the original data layout.
type SkillRequest struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         string    `gorm:"size:36;not null;index" json:"user_id"`
	Title          string    `gorm:"not null" json:"title"`
	Description    string    `gorm:"type:text;not null" json:"description"`
	Category       string    `gorm:"not null;index" json:"category"`
	SkillLevel     string    `gorm:"not null" json:"skill_level"`
	TimeCommitment string    `gorm:"not null" json:"time_commitment"`
	Tags           []string  `gorm:"serializer:json" json:"tags"`
	IsActive       bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for GORM
func (SkillRequest) TableName() string {
	return "skill_requests"
}
