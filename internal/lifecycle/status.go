package lifecycle

import (
	"context"
	"log"

	"civicreport/backend/internal/apperr"
	"civicreport/backend/internal/chathub"
	"civicreport/backend/internal/config"
	"civicreport/backend/internal/models"
	"civicreport/backend/internal/storage"
)

// UpdateStatus moves an assigned report along the state machine on behalf of its
// assigned staff member or external maintainer, then notifies the creator.
func (s *Service) UpdateStatus(ctx context.Context, reportID uint, next models.ReportStatus, actor Actor) (*TransitionResult, error) {
	if err := checkID("reportId", reportID); err != nil {
		return nil, err
	}
	if err := checkStatus("status", next); err != nil {
		return nil, err
	}

	report, err := s.Storage.FindReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(report.Status, next); err != nil {
		return nil, err
	}
	if report.Status == models.StatusPendingApproval {
		return nil, apperr.Conflict("", "pending reports are accepted or rejected through review")
	}
	if !report.IsAssignedTo(actor.UserID) && !report.IsCoAssignedTo(actor.UserID) {
		return nil, apperr.Conflict(apperr.CodeNotAssigned, "report %d is not assigned to you", report.ID)
	}

	prev := report.Status
	if err := s.Storage.TransitionReport(ctx, report.ID, prev, storage.ReportChange{Status: next}); err != nil {
		return nil, err
	}
	report.Status = next
	log.Printf("INFO: Report %d moved %s -> %s by user %d", report.ID, prev, next, actor.UserID)

	res := &TransitionResult{Report: report}
	s.notify(ctx, res, prev)
	return res, nil
}

// AssignExternalMaintainer lets the assigned staff member delegate the report to an
// external maintainer. Reassigning replaces the previous maintainer. The staff and
// maintainer chat is opened only once the citizen chat exists.
func (s *Service) AssignExternalMaintainer(ctx context.Context, reportID, actingStaffID, maintainerID uint) (*TransitionResult, error) {
	if err := checkID("reportId", reportID); err != nil {
		return nil, err
	}
	if err := checkID("maintainerId", maintainerID); err != nil {
		return nil, err
	}

	report, err := s.Storage.FindReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if !report.IsAssignedTo(actingStaffID) {
		return nil, apperr.Conflict(apperr.CodeNotAssigned, "report %d is not assigned to you", report.ID)
	}
	if !delegable(report.Status) {
		return nil, apperr.Conflict("", "a %s report cannot be delegated", report.Status)
	}

	maintainer, err := s.Storage.FindUser(ctx, maintainerID)
	if err != nil {
		return nil, err
	}
	if maintainer.Role != models.RoleExternalMaintainer {
		return nil, apperr.Validation("maintainerId", "user %d is not an external maintainer", maintainerID)
	}
	if !maintainer.Active {
		return nil, apperr.Precondition("external maintainer %d is not active", maintainerID)
	}

	if err := s.Storage.SetCoAssignee(ctx, report.ID, actingStaffID, maintainer.ID); err != nil {
		return nil, err
	}
	report.CoAssignedToID = &maintainer.ID
	log.Printf("INFO: Report %d delegated by user %d to maintainer %d", report.ID, actingStaffID, maintainer.ID)

	res := &TransitionResult{Report: report}
	hasCitizenChat, err := s.Chats.HasChat(ctx, report.ID, models.ChatCitizenStaff)
	if err != nil {
		res.warn("citizen chat lookup failed: %v", err)
		return res, nil
	}
	if !hasCitizenChat {
		return res, nil
	}

	other := chathub.Participant{UserID: maintainer.ID, Role: chathub.ParticipantExternalMaintainer}
	chat, _, err := s.Chats.EnsureChat(ctx, report.ID, actingStaffID, other)
	if err != nil {
		res.warn("maintainer chat not opened: %v", err)
	} else {
		res.Chat = chat
	}
	return res, nil
}

func delegable(status models.ReportStatus) bool {
	for _, s := range config.DelegableStatuses {
		if s == status {
			return true
		}
	}
	return false
}
