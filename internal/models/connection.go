package models

import "time"

// ConnectionStatus represents the lifecycle state of a swap request.
type ConnectionStatus string

const (
	// ConnectionStatusPending indicates a swap request awaiting a response.
	ConnectionStatusPending ConnectionStatus = "pending"
	// ConnectionStatusAccepted indicates the target user accepted the swap.
	ConnectionStatusAccepted ConnectionStatus = "accepted"
	// ConnectionStatusDeclined indicates the target user declined the swap.
	ConnectionStatusDeclined ConnectionStatus = "declined"
)

// Connection is a swap request between two users, optionally anchored to one
// of the target's offered skills and/or one of their wanted skills.
//
// Status moves pending -> accepted or pending -> declined; both are terminal.
// The listing references are nulled out (not cascaded) when a listing is
// hard-deleted, so accepted swap history survives catalog cleanup.
type Connection struct {
	ID             uint             `gorm:"primaryKey" json:"id"`
	FromUserID     string           `gorm:"size:36;not null;index:idx_connections_from" json:"from_user_id"`
	ToUserID       string           `gorm:"size:36;not null;index:idx_connections_to" json:"to_user_id"`
	SkillID        *uint            `json:"skill_id"`
	SkillRequestID *uint            `json:"skill_request_id"`
	Status         ConnectionStatus `gorm:"type:varchar(20);not null;default:'pending';index:idx_connections_status" json:"status"`
	Message        string           `gorm:"type:text" json:"message"`

	// Feedback scores submitted after acceptance, one slot per side. A nil
	// slot means that side has not rated yet.
	FromRating *int `json:"from_rating"`
	ToRating   *int `json:"to_rating"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	FromUser     *User         `gorm:"foreignKey:FromUserID;constraint:OnDelete:CASCADE" json:"from_user,omitempty"`
	ToUser       *User         `gorm:"foreignKey:ToUserID;constraint:OnDelete:CASCADE" json:"to_user,omitempty"`
	Skill        *Skill        `gorm:"foreignKey:SkillID;constraint:OnDelete:SET NULL" json:"skill,omitempty"`
	SkillRequest *SkillRequest `gorm:"foreignKey:SkillRequestID;constraint:OnDelete:SET NULL" json:"skill_request,omitempty"`
}

// TableName specifies the table name for GORM
func (Connection) TableName() string {
	return "connections"
}

// IsParticipant reports whether the given user is on either side of the swap.
func (c *Connection) IsParticipant(userID string) bool {
	return c.FromUserID == userID || c.ToUserID == userID
}

// Counterpart returns the other participant's user ID. The caller must be a
// participant.
func (c *Connection) Counterpart(userID string) string {
	if c.FromUserID == userID {
		return c.ToUserID
	}
	return c.FromUserID
}
