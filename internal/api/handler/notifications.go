package handler

import (
	"net/http"

	"civicreport/backend/internal/lifecycle"
	"civicreport/backend/internal/models"
	"civicreport/backend/internal/notification"

	"github.com/gin-gonic/gin"
)

// notificationView adds the localized sentence to a notification.
type notificationView struct {
	models.Notification
	Text string `json:"text"`
}

// ListNotifications returns the caller's notifications, newest first, in the
// language picked from Accept-Language.
func (h *Handler) ListNotifications(c *gin.Context) {
	list, err := h.Notifications.ListForUser(c.Request.Context(), actorFrom(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	lang := h.Localizer.Match(c.GetHeader("Accept-Language"))
	views := make([]notificationView, len(list))
	for i := range list {
		views[i] = notificationView{Notification: list[i], Text: notification.Describe(h.Localizer, lang, &list[i])}
	}
	c.JSON(http.StatusOK, views)
}

func (h *Handler) CountUnseen(c *gin.Context) {
	n, err := h.Notifications.CountUnseen(c.Request.Context(), actorFrom(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unseen": n})
}

func (h *Handler) MarkSeen(c *gin.Context) {
	id, err := lifecycle.ParseID("notificationId", c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.Notifications.MarkSeen(c.Request.Context(), actorFrom(c).UserID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) MarkAllSeen(c *gin.Context) {
	n, err := h.Notifications.MarkAllSeen(c.Request.Context(), actorFrom(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"marked": n})
}
