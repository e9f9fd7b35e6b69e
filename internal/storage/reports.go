package storage

import (
	"context"
	"log"
	"time"

	"civicreport/backend/internal/apperr"
	"civicreport/backend/internal/config"
	"civicreport/backend/internal/models"

	"gorm.io/gorm"
)

// ReportChange is the set of columns written together with a status change.
// Nil pointers leave the column untouched.
type ReportChange struct {
	Status              models.ReportStatus
	AssignedToID        *uint
	RejectedDescription *string
}

func (s *Service) reportQuery(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Category")
}

// CreateReport inserts a report and its images in one transaction.
func (s *Service) CreateReport(ctx context.Context, report *models.Report) error {
	if err := s.DB.WithContext(ctx).Create(report).Error; err != nil {
		log.Printf("ERROR: Failed to save report %q: %v", report.Title, err)
		return err
	}
	return nil
}

// FindReport loads a report with its images and category.
func (s *Service) FindReport(ctx context.Context, id uint) (*models.Report, error) {
	var report models.Report
	if err := s.reportQuery(ctx).First(&report, id).Error; err != nil {
		return nil, notFound(err, "report", id)
	}
	return &report, nil
}

// TransitionReport moves a report from status `from` to change.Status.
// The write is a compare-and-set on the current status: if another request changed
// the report first, no row matches and a state conflict is returned.
func (s *Service) TransitionReport(ctx context.Context, id uint, from models.ReportStatus, change ReportChange) error {
	updates := map[string]interface{}{
		"status":     change.Status,
		"updated_at": time.Now(),
	}
	if change.AssignedToID != nil {
		updates["assigned_to_id"] = *change.AssignedToID
	}
	if change.RejectedDescription != nil {
		updates["rejected_description"] = *change.RejectedDescription
	}

	res := s.DB.WithContext(ctx).Model(&models.Report{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		log.Printf("ERROR: Failed to move report %d from %s to %s: %v", id, from, change.Status, res.Error)
		return res.Error
	}
	if res.RowsAffected == 0 {
		current, err := s.currentStatus(ctx, id)
		if err != nil {
			return err
		}
		return apperr.Conflict(apperr.CodeStateConflict, "report %d is %s, expected %s", id, current, from)
	}
	return nil
}

// UpdateReportCategory reassigns the category without touching the status.
func (s *Service) UpdateReportCategory(ctx context.Context, id, categoryID uint) error {
	res := s.DB.WithContext(ctx).Model(&models.Report{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"category_id": categoryID, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("report", id)
	}
	return nil
}

// SetCoAssignee records the external maintainer of a report. The write only applies
// while staffID is still the assignee and the report is in a delegable status.
func (s *Service) SetCoAssignee(ctx context.Context, id, staffID, maintainerID uint) error {
	res := s.DB.WithContext(ctx).Model(&models.Report{}).
		Where("id = ? AND assigned_to_id = ? AND status IN ?", id, staffID, config.DelegableStatuses).
		Updates(map[string]interface{}{"co_assigned_to_id": maintainerID, "updated_at": time.Now()})
	if res.Error != nil {
		log.Printf("ERROR: Failed to co-assign report %d to %d: %v", id, maintainerID, res.Error)
		return res.Error
	}
	if res.RowsAffected == 0 {
		current, err := s.currentStatus(ctx, id)
		if err != nil {
			return err
		}
		return apperr.Conflict(apperr.CodeStateConflict, "report %d (%s) can no longer be delegated by user %d", id, current, staffID)
	}
	return nil
}

// ListReportsByStatus returns reports in the given status, newest first.
func (s *Service) ListReportsByStatus(ctx context.Context, status models.ReportStatus) ([]models.Report, error) {
	var reports []models.Report
	err := s.reportQuery(ctx).
		Where("status = ?", status).
		Order("created_at DESC, id DESC").
		Find(&reports).Error
	return reports, err
}

// ListReportsByCreator returns the reports filed by a user, newest first.
func (s *Service) ListReportsByCreator(ctx context.Context, userID uint) ([]models.Report, error) {
	var reports []models.Report
	err := s.reportQuery(ctx).
		Where("creator_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&reports).Error
	return reports, err
}

// ListReportsForStaff returns reports assigned or co-assigned to a user, newest first.
func (s *Service) ListReportsForStaff(ctx context.Context, userID uint) ([]models.Report, error) {
	var reports []models.Report
	err := s.reportQuery(ctx).
		Where("assigned_to_id = ? OR co_assigned_to_id = ?", userID, userID).
		Order("created_at DESC, id DESC").
		Find(&reports).Error
	return reports, err
}

func (s *Service) currentStatus(ctx context.Context, id uint) (models.ReportStatus, error) {
	var report models.Report
	if err := s.DB.WithContext(ctx).Select("id", "status").First(&report, id).Error; err != nil {
		return "", notFound(err, "report", id)
	}
	return report.Status, nil
}
