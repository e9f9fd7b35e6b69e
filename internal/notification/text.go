package notification

import (
	"fmt"

	"civicreport/backend/internal/models"
)

// Translator resolves localized strings.
type Translator interface {
	GetString(lang, key string) string
	Format(lang, key string, args ...any) string
}

// Describe renders a notification as a sentence in lang. The report should be preloaded;
// without it the report is referred to by id.
func Describe(tr Translator, lang string, n *models.Notification) string {
	title := fmt.Sprintf("#%d", n.ReportID)
	if n.Report != nil && n.Report.Title != "" {
		title = n.Report.Title
	}

	if n.NewStatus == models.StatusRejected && n.Report != nil && n.Report.RejectedDescription != "" {
		return tr.Format(lang, "notification.rejected", title, n.Report.RejectedDescription)
	}
	return tr.Format(lang, "notification.status_changed", title,
		tr.GetString(lang, "status."+string(n.PreviousStatus)),
		tr.GetString(lang, "status."+string(n.NewStatus)))
}
