// Package assignment selects which technical staff member receives a newly
// accepted report.
//
// Rule: among the active technical staff of the report's office, pick the one with
// the fewest reports in a load status (Assigned, InProgress). Ties go to the member
// who was assigned least recently (never assigned first), then to the lowest id.
// Loads are read live and may be stale under concurrent assignments; fairness is
// eventual, not strict.
package assignment

import (
	"context"
	"sort"

	"civicreport/backend/internal/apperr"
	"civicreport/backend/internal/models"
	"civicreport/backend/internal/storage"
)

// CandidateSource lists the eligible staff of an office with their current load.
type CandidateSource interface {
	FindStaffCandidates(ctx context.Context, officeID uint) ([]storage.StaffLoad, error)
}

// Policy implements least-loaded, then least-recently-assigned selection.
type Policy struct {
	Candidates CandidateSource
}

// NewPolicy creates a new assignment policy.
func NewPolicy(src CandidateSource) *Policy {
	return &Policy{Candidates: src}
}

// SelectStaffForOffice returns the staff member who should receive the next report
// of the office, or a precondition error when the office has no eligible staff.
func (p *Policy) SelectStaffForOffice(ctx context.Context, officeID uint) (*models.User, error) {
	if officeID == 0 {
		return nil, apperr.Validation("officeId", "must be a positive integer")
	}

	candidates, err := p.Candidates.FindStaffCandidates(ctx, officeID)
	if err != nil {
		return nil, err
	}

	best, ok := Pick(candidates)
	if !ok {
		return nil, apperr.Precondition("office %d has no eligible technical staff", officeID)
	}
	return &best.User, nil
}

// Pick orders the eligible candidates by the assignment rule and returns the first.
func Pick(candidates []storage.StaffLoad) (storage.StaffLoad, bool) {
	eligible := make([]storage.StaffLoad, 0, len(candidates))
	for _, c := range candidates {
		if c.User.Active && c.User.Role == models.RoleTechnicalStaff {
			eligible = append(eligible, c)
		}
	}
	if len(eligible) == 0 {
		return storage.StaffLoad{}, false
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		return less(eligible[i], eligible[j])
	})
	return eligible[0], true
}

func less(a, b storage.StaffLoad) bool {
	if a.Load != b.Load {
		return a.Load < b.Load
	}
	at, bt := a.User.LastAssignedAt, b.User.LastAssignedAt
	switch {
	case at == nil && bt != nil:
		return true
	case at != nil && bt == nil:
		return false
	case at != nil && bt != nil && !at.Equal(*bt):
		return at.Before(*bt)
	}
	return a.User.ID < b.User.ID
}
