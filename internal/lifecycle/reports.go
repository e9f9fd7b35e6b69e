package lifecycle

import (
	"context"
	"log"

	"civicreport/backend/internal/apperr"
	"civicreport/backend/internal/config"
	"civicreport/backend/internal/models"
)

// NewReport is a citizen's submission.
type NewReport struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	CategoryID  uint     `json:"category_id"`
	Images      []string `json:"images"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	Anonymous   bool     `json:"anonymous"`
}

// CreateReport validates a submission and stores it as PendingApproval.
// Nothing is written unless every check passes.
func (s *Service) CreateReport(ctx context.Context, creator Actor, in NewReport) (*models.Report, error) {
	if creator.Role != models.RoleCitizen {
		return nil, apperr.Conflict(apperr.CodeForbidden, "only citizens can file reports")
	}
	if err := checkID("creatorId", creator.UserID); err != nil {
		return nil, err
	}

	title, err := cleanText("title", in.Title, config.MaxTitleLength)
	if err != nil {
		return nil, err
	}
	description, err := cleanText("description", in.Description, 0)
	if err != nil {
		return nil, err
	}
	if err := checkID("categoryId", in.CategoryID); err != nil {
		return nil, err
	}
	images, err := checkImages(in.Images)
	if err != nil {
		return nil, err
	}
	if err := checkServiceArea(in.Latitude, in.Longitude); err != nil {
		return nil, err
	}
	if _, err := s.Storage.FindCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	report := &models.Report{
		Title:       title,
		Description: description,
		CategoryID:  in.CategoryID,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		Status:      models.StatusPendingApproval,
		Anonymous:   in.Anonymous,
		CreatorID:   creator.UserID,
	}
	for i, uri := range images {
		report.Images = append(report.Images, models.ReportImage{Position: i, URI: uri})
	}

	if err := s.Storage.CreateReport(ctx, report); err != nil {
		return nil, err
	}
	log.Printf("INFO: Report %d filed by user %d", report.ID, creator.UserID)
	return report, nil
}

// GetReport loads one report.
func (s *Service) GetReport(ctx context.Context, id uint) (*models.Report, error) {
	if err := checkID("reportId", id); err != nil {
		return nil, err
	}
	return s.Storage.FindReport(ctx, id)
}

// ListReportsByStatus returns reports in a status, newest first.
func (s *Service) ListReportsByStatus(ctx context.Context, status models.ReportStatus) ([]models.Report, error) {
	if err := checkStatus("status", status); err != nil {
		return nil, err
	}
	return s.Storage.ListReportsByStatus(ctx, status)
}

// ListAssignedReports returns reports assigned or co-assigned to the user, newest first.
func (s *Service) ListAssignedReports(ctx context.Context, staffID uint) ([]models.Report, error) {
	if err := checkID("staffId", staffID); err != nil {
		return nil, err
	}
	return s.Storage.ListReportsForStaff(ctx, staffID)
}

// ListReportsByUser returns the reports filed by the user, newest first.
func (s *Service) ListReportsByUser(ctx context.Context, userID uint) ([]models.Report, error) {
	if err := checkID("userId", userID); err != nil {
		return nil, err
	}
	return s.Storage.ListReportsByCreator(ctx, userID)
}

// UpdateCategory moves a report to another category without touching its status.
func (s *Service) UpdateCategory(ctx context.Context, reportID, categoryID uint) (*models.Report, error) {
	if err := checkID("reportId", reportID); err != nil {
		return nil, err
	}
	if err := checkID("categoryId", categoryID); err != nil {
		return nil, err
	}
	if _, err := s.Storage.FindCategory(ctx, categoryID); err != nil {
		return nil, err
	}
	if err := s.Storage.UpdateReportCategory(ctx, reportID, categoryID); err != nil {
		return nil, err
	}
	return s.Storage.FindReport(ctx, reportID)
}
