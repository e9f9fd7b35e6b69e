package lifecycle

import (
	"testing"

	"civicreport/backend/internal/apperr"
	"civicreport/backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCheckTransition_Table(t *testing.T) {
	legal := map[[2]models.ReportStatus]bool{
		{models.StatusPendingApproval, models.StatusAssigned}: true,
		{models.StatusPendingApproval, models.StatusRejected}: true,
		{models.StatusAssigned, models.StatusInProgress}:      true,
		{models.StatusInProgress, models.StatusResolved}:      true,
		{models.StatusInProgress, models.StatusSuspended}:     true,
		{models.StatusSuspended, models.StatusInProgress}:     true,
	}

	for _, from := range models.ReportStatuses {
		for _, to := range models.ReportStatuses {
			err := checkTransition(from, to)
			if legal[[2]models.ReportStatus{from, to}] {
				assert.NoError(t, err, "%s -> %s", from, to)
			} else {
				assert.True(t, apperr.IsConflict(err), "%s -> %s", from, to)
			}
		}
	}
}

func TestCheckTransition_NamesAllowedStates(t *testing.T) {
	err := checkTransition(models.StatusAssigned, models.StatusResolved)
	assert.Contains(t, err.Error(), string(models.StatusInProgress))

	err = checkTransition(models.StatusResolved, models.StatusInProgress)
	assert.Equal(t, apperr.CodeTerminal, apperr.CodeOf(err))
	assert.Contains(t, err.Error(), "terminal")
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, IsTerminal(models.StatusResolved))
	assert.True(t, IsTerminal(models.StatusRejected))
	assert.False(t, IsTerminal(models.StatusSuspended))
	assert.Empty(t, AllowedNext(models.StatusResolved))
	assert.ElementsMatch(t, []models.ReportStatus{models.StatusResolved, models.StatusSuspended}, AllowedNext(models.StatusInProgress))
}

func TestAllowedNext_ReturnsCopy(t *testing.T) {
	next := AllowedNext(models.StatusPendingApproval)
	next[0] = models.StatusResolved

	assert.Equal(t, models.StatusAssigned, AllowedNext(models.StatusPendingApproval)[0])
}
