package models

import "time"

// Notification records one status change of a report for the report's creator.
// Notifications are append-only; only Seen changes after creation.
type Notification struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	UserID         uint         `gorm:"not null;index" json:"user_id"`
	ReportID       uint         `gorm:"not null;index" json:"report_id"`
	Report         *Report      `gorm:"foreignKey:ReportID" json:"-"`
	PreviousStatus ReportStatus `gorm:"type:varchar(32);not null" json:"previous_status"`
	NewStatus      ReportStatus `gorm:"type:varchar(32);not null" json:"new_status"`
	Seen           bool         `gorm:"not null;index" json:"seen"`
	CreatedAt      time.Time    `gorm:"index" json:"created_at"`
}
