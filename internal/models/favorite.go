package models

import "time"

// Favorite is a user's bookmark of a Skill or a SkillRequest. Existence alone
// is the signal; there is no lifecycle. Exactly one of the two listing keys is
// set, validated via NewListingRef before insert.
type Favorite struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         string    `gorm:"size:36;not null;index;uniqueIndex:idx_fav_user_skill;uniqueIndex:idx_fav_user_skill_request" json:"user_id"`
	SkillID        *uint     `gorm:"uniqueIndex:idx_fav_user_skill" json:"skill_id"`
	SkillRequestID *uint     `gorm:"uniqueIndex:idx_fav_user_skill_request" json:"skill_request_id"`
	CreatedAt      time.Time `json:"created_at"`

	// Relationships
	User         *User         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Skill        *Skill        `gorm:"foreignKey:SkillID;constraint:OnDelete:CASCADE" json:"skill,omitempty"`
	SkillRequest *SkillRequest `gorm:"foreignKey:SkillRequestID;constraint:OnDelete:CASCADE" json:"skill_request,omitempty"`
}

// TableName specifies the table name for GORM
func (Favorite) TableName() string {
	return "favorites"
}

// Ref returns the tagged listing reference this favorite points at.
func (f *Favorite) Ref() (ListingRef, error) {
	return NewListingRef(f.SkillID, f.SkillRequestID)
}
