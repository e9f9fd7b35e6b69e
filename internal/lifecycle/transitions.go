package lifecycle

import (
	"strings"

	"civicreport/backend/internal/apperr"
	"civicreport/backend/internal/models"
)

// transitions is the report state machine. Statuses without an entry are terminal.
var transitions = map[models.ReportStatus][]models.ReportStatus{
	models.StatusPendingApproval: {models.StatusAssigned, models.StatusRejected},
	models.StatusAssigned:        {models.StatusInProgress},
	models.StatusInProgress:      {models.StatusResolved, models.StatusSuspended},
	models.StatusSuspended:       {models.StatusInProgress},
}

// AllowedNext returns the statuses a report in status s may move to.
func AllowedNext(s models.ReportStatus) []models.ReportStatus {
	next := transitions[s]
	out := make([]models.ReportStatus, len(next))
	copy(out, next)
	return out
}

// IsTerminal reports whether no transition leaves s.
func IsTerminal(s models.ReportStatus) bool {
	return len(transitions[s]) == 0
}

// checkTransition fails with a conflict unless from -> to is in the table.
func checkTransition(from, to models.ReportStatus) error {
	if IsTerminal(from) {
		return apperr.Conflict(apperr.CodeTerminal, "report is %s, a terminal state", from)
	}
	allowed := transitions[from]
	for _, s := range allowed {
		if s == to {
			return nil
		}
	}

	names := make([]string, len(allowed))
	for i, s := range allowed {
		names[i] = string(s)
	}
	return apperr.Conflict("", "cannot move a %s report to %s; allowed next: %s", from, to, strings.Join(names, ", "))
}
