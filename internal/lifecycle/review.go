package lifecycle

import (
	"context"
	"log"

	"civicreport/backend/internal/apperr"
	"civicreport/backend/internal/chathub"
	"civicreport/backend/internal/models"
	"civicreport/backend/internal/storage"
)

// AcceptOrReject decides a pending report.
//
// Assigned picks a staff member of the category's office, stores the assignment,
// notifies the creator and opens the citizen chat. Rejected stores the trimmed
// reason and notifies the creator; it opens no chat.
func (s *Service) AcceptOrReject(ctx context.Context, reportID uint, decision models.ReportStatus, reason string) (*TransitionResult, error) {
	if err := checkID("reportId", reportID); err != nil {
		return nil, err
	}
	if err := checkDecision(decision); err != nil {
		return nil, err
	}
	reason, err := checkRejectionReason(decision, reason)
	if err != nil {
		return nil, err
	}

	report, err := s.Storage.FindReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(report.Status, decision); err != nil {
		return nil, err
	}

	if decision == models.StatusRejected {
		return s.reject(ctx, report, reason)
	}
	return s.accept(ctx, report)
}

func (s *Service) reject(ctx context.Context, report *models.Report, reason string) (*TransitionResult, error) {
	prev := report.Status
	change := storage.ReportChange{Status: models.StatusRejected, RejectedDescription: &reason}
	if err := s.Storage.TransitionReport(ctx, report.ID, prev, change); err != nil {
		return nil, err
	}
	report.Status = models.StatusRejected
	report.RejectedDescription = reason
	log.Printf("INFO: Report %d rejected", report.ID)

	res := &TransitionResult{Report: report}
	s.notify(ctx, res, prev)
	return res, nil
}

func (s *Service) accept(ctx context.Context, report *models.Report) (*TransitionResult, error) {
	officeID, err := s.officeOf(ctx, report)
	if err != nil {
		return nil, err
	}
	staff, err := s.Staff.SelectStaffForOffice(ctx, officeID)
	if err != nil {
		return nil, err
	}

	prev := report.Status
	cleared := ""
	change := storage.ReportChange{Status: models.StatusAssigned, AssignedToID: &staff.ID, RejectedDescription: &cleared}
	if err := s.Storage.TransitionReport(ctx, report.ID, prev, change); err != nil {
		return nil, err
	}
	report.Status = models.StatusAssigned
	report.AssignedToID = &staff.ID
	report.RejectedDescription = ""
	log.Printf("INFO: Report %d assigned to user %d (office %d)", report.ID, staff.ID, officeID)

	res := &TransitionResult{Report: report}
	if err := s.Storage.TouchLastAssigned(ctx, staff.ID, s.Now()); err != nil {
		res.warn("last assignment time of user %d not updated: %v", staff.ID, err)
	}
	s.notify(ctx, res, prev)

	citizen := chathub.Participant{UserID: report.CreatorID, Role: chathub.ParticipantCitizen}
	chat, _, err := s.Chats.EnsureChat(ctx, report.ID, staff.ID, citizen)
	if err != nil {
		res.warn("citizen chat not opened: %v", err)
	} else {
		res.Chat = chat
	}
	return res, nil
}

func (s *Service) officeOf(ctx context.Context, report *models.Report) (uint, error) {
	category := report.Category
	if category == nil || category.ID != report.CategoryID {
		var err error
		if category, err = s.Storage.FindCategory(ctx, report.CategoryID); err != nil {
			return 0, err
		}
	}
	if category.OfficeID == 0 {
		return 0, apperr.Precondition("category %d has no office", category.ID)
	}
	return category.OfficeID, nil
}
