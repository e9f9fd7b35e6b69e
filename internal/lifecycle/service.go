// Package lifecycle implements the report state machine and the side effects that
// follow each transition.
//
// Every status write is a compare-and-set on the status read at the start of the
// call, so two requests racing on the same report cannot both succeed. Notifications
// and chats are only attempted after the status write is committed; their failures
// never undo it and are reported as warnings on the result.
package lifecycle

import (
	"context"
	"fmt"
	"log"
	"time"

	"civicreport/backend/internal/chathub"
	"civicreport/backend/internal/models"
	"civicreport/backend/internal/storage"
)

// Store is the persistence the state machine needs.
type Store interface {
	FindUser(ctx context.Context, id uint) (*models.User, error)
	FindCategory(ctx context.Context, id uint) (*models.Category, error)
	TouchLastAssigned(ctx context.Context, userID uint, at time.Time) error

	CreateReport(ctx context.Context, report *models.Report) error
	FindReport(ctx context.Context, id uint) (*models.Report, error)
	TransitionReport(ctx context.Context, id uint, from models.ReportStatus, change storage.ReportChange) error
	UpdateReportCategory(ctx context.Context, id, categoryID uint) error
	SetCoAssignee(ctx context.Context, id, staffID, maintainerID uint) error
	ListReportsByStatus(ctx context.Context, status models.ReportStatus) ([]models.Report, error)
	ListReportsByCreator(ctx context.Context, userID uint) ([]models.Report, error)
	ListReportsForStaff(ctx context.Context, userID uint) ([]models.Report, error)
}

// StaffSelector picks the assignee for an office.
type StaffSelector interface {
	SelectStaffForOffice(ctx context.Context, officeID uint) (*models.User, error)
}

// ChatSpawner opens report chats idempotently.
type ChatSpawner interface {
	EnsureChat(ctx context.Context, reportID, staffID uint, other chathub.Participant) (*models.Chat, bool, error)
	HasChat(ctx context.Context, reportID uint, kind models.ChatKind) (bool, error)
}

// Notifier records status changes for the report's creator.
type Notifier interface {
	RecordTransition(ctx context.Context, report *models.Report, prev, next models.ReportStatus) (*models.Notification, error)
}

// Actor is the verified caller of an operation.
type Actor struct {
	UserID uint
	Role   models.Role
}

// TransitionResult is the outcome of a committed change. Warnings lists side
// effects that failed after the change was stored.
type TransitionResult struct {
	Report       *models.Report       `json:"report"`
	Notification *models.Notification `json:"notification,omitempty"`
	Chat         *models.Chat         `json:"chat,omitempty"`
	Warnings     []string             `json:"warnings,omitempty"`
}

func (r *TransitionResult) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Printf("WARNING: report %d: %s", r.Report.ID, msg)
	r.Warnings = append(r.Warnings, msg)
}

// Service is the report lifecycle engine.
type Service struct {
	Storage  Store
	Staff    StaffSelector
	Chats    ChatSpawner
	Notifier Notifier

	// Now stamps assignments; tests may replace it.
	Now func() time.Time
}

// NewService wires the lifecycle engine.
func NewService(s Store, staff StaffSelector, chats ChatSpawner, notifier Notifier) *Service {
	return &Service{
		Storage:  s,
		Staff:    staff,
		Chats:    chats,
		Notifier: notifier,
		Now:      time.Now,
	}
}

// notify records the transition and attaches the notification or a warning.
func (s *Service) notify(ctx context.Context, res *TransitionResult, prev models.ReportStatus) {
	n, err := s.Notifier.RecordTransition(ctx, res.Report, prev, res.Report.Status)
	if err != nil {
		res.warn("notification %s -> %s not recorded: %v", prev, res.Report.Status, err)
		return
	}
	res.Notification = n
}
