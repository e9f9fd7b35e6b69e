package models

import "time"

// ChatKind distinguishes which pair of roles a chat connects.
type ChatKind string

const (
	ChatCitizenStaff            ChatKind = "CITIZEN_STAFF"
	ChatExternalMaintainerStaff ChatKind = "EXTERNAL_MAINTAINER_STAFF"
)

// Chat is a two-party conversation attached to a report.
// (ReportID, Kind, StaffID, ParticipantID) is unique.
type Chat struct {
	ID   uint     `gorm:"primaryKey" json:"id"`
	Kind ChatKind `gorm:"type:varchar(40);not null;uniqueIndex:idx_chat_pair" json:"kind"`
	// ReportID is the report the conversation is about.
	ReportID uint `gorm:"not null;uniqueIndex:idx_chat_pair" json:"report_id"`
	// StaffID is the technical staff member assigned to the report.
	StaffID uint `gorm:"not null;uniqueIndex:idx_chat_pair;index" json:"staff_id"`
	// ParticipantID is the citizen or the external maintainer.
	ParticipantID uint      `gorm:"not null;uniqueIndex:idx_chat_pair;index" json:"participant_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// Has reports whether userID is one of the two participants.
func (c *Chat) Has(userID uint) bool {
	return c.StaffID == userID || c.ParticipantID == userID
}

// Counterpart returns the participant that is not userID.
func (c *Chat) Counterpart(userID uint) (uint, bool) {
	switch userID {
	case c.StaffID:
		return c.ParticipantID, true
	case c.ParticipantID:
		return c.StaffID, true
	}
	return 0, false
}
