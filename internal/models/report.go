package models

import "time"

// ReportStatus is a state of the report lifecycle.
type ReportStatus string

const (
	StatusPendingApproval ReportStatus = "PENDING_APPROVAL"
	StatusAssigned        ReportStatus = "ASSIGNED"
	StatusInProgress      ReportStatus = "IN_PROGRESS"
	StatusSuspended       ReportStatus = "SUSPENDED"
	StatusRejected        ReportStatus = "REJECTED"
	StatusResolved        ReportStatus = "RESOLVED"
)

// ReportStatuses lists every status in lifecycle order.
var ReportStatuses = []ReportStatus{
	StatusPendingApproval,
	StatusAssigned,
	StatusInProgress,
	StatusSuspended,
	StatusRejected,
	StatusResolved,
}

// Valid reports whether s is a known status.
func (s ReportStatus) Valid() bool {
	for _, known := range ReportStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseReportStatus maps a raw value onto a known status.
func ParseReportStatus(raw string) (ReportStatus, bool) {
	s := ReportStatus(raw)
	return s, s.Valid()
}

// Report is a citizen's report of a civic issue. Reports are never deleted;
// terminal statuses (Resolved, Rejected) close them.
type Report struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	Title       string        `gorm:"size:200;not null" json:"title"`
	Description string        `gorm:"type:text;not null" json:"description"`
	CategoryID  uint          `gorm:"not null;index" json:"category_id"`
	Category    *Category     `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Images      []ReportImage `gorm:"foreignKey:ReportID" json:"images"`
	Latitude    float64       `gorm:"not null" json:"latitude"`
	Longitude   float64       `gorm:"not null" json:"longitude"`
	Status      ReportStatus  `gorm:"type:varchar(32);not null;index" json:"status"`
	Anonymous   bool          `gorm:"not null" json:"anonymous"`
	// RejectedDescription is non-empty exactly when Status is Rejected.
	RejectedDescription string `gorm:"type:text" json:"rejected_description,omitempty"`

	CreatorID      uint  `gorm:"not null;index" json:"creator_id"`
	Creator        *User `gorm:"foreignKey:CreatorID" json:"-"`
	AssignedToID   *uint `gorm:"index" json:"assigned_to_id,omitempty"`
	AssignedTo     *User `gorm:"foreignKey:AssignedToID" json:"-"`
	CoAssignedToID *uint `gorm:"index" json:"co_assigned_to_id,omitempty"`
	CoAssignedTo   *User `gorm:"foreignKey:CoAssignedToID" json:"-"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReportImage is one of the 1-3 image URIs attached to a report.
type ReportImage struct {
	ID       uint   `gorm:"primaryKey" json:"-"`
	ReportID uint   `gorm:"not null;index" json:"-"`
	Position int    `gorm:"not null" json:"position"`
	URI      string `gorm:"type:text;not null" json:"uri"`
}

// ImageURIs returns the image URIs in upload order.
func (r *Report) ImageURIs() []string {
	uris := make([]string, 0, len(r.Images))
	for _, img := range r.Images {
		uris = append(uris, img.URI)
	}
	return uris
}

// IsAssignedTo reports whether userID is the report's assigned staff member.
func (r *Report) IsAssignedTo(userID uint) bool {
	return r.AssignedToID != nil && *r.AssignedToID == userID
}

// IsCoAssignedTo reports whether userID is the report's external maintainer.
func (r *Report) IsCoAssignedTo(userID uint) bool {
	return r.CoAssignedToID != nil && *r.CoAssignedToID == userID
}
