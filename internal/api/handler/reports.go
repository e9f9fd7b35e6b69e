package handler

import (
	"net/http"

	"civicreport/backend/internal/lifecycle"
	"civicreport/backend/internal/models"

	"github.com/gin-gonic/gin"
)

type reviewRequest struct {
	Decision models.ReportStatus `json:"decision" binding:"required"`
	Reason   string              `json:"reason"`
}

type statusRequest struct {
	Status models.ReportStatus `json:"status" binding:"required"`
}

type categoryRequest struct {
	CategoryID uint `json:"category_id"`
}

type maintainerRequest struct {
	MaintainerID uint `json:"maintainer_id"`
}

// present hides the creator of an anonymous report from everyone but the creator.
func present(r *models.Report, viewer lifecycle.Actor) *models.Report {
	if r == nil || !r.Anonymous || r.CreatorID == viewer.UserID {
		return r
	}
	masked := *r
	masked.CreatorID = 0
	return &masked
}

func presentAll(reports []models.Report, viewer lifecycle.Actor) []*models.Report {
	out := make([]*models.Report, len(reports))
	for i := range reports {
		out[i] = present(&reports[i], viewer)
	}
	return out
}

// presentResult applies the same masking to the notification and chat of a transition,
// both of which name the creator.
func presentResult(res *lifecycle.TransitionResult, viewer lifecycle.Actor) *lifecycle.TransitionResult {
	masked := *res
	masked.Report = present(res.Report, viewer)
	r := res.Report
	if r == nil || !r.Anonymous || r.CreatorID == viewer.UserID {
		return &masked
	}
	if res.Notification != nil {
		n := *res.Notification
		n.UserID = 0
		masked.Notification = &n
	}
	if res.Chat != nil && res.Chat.ParticipantID == r.CreatorID {
		chat := *res.Chat
		chat.ParticipantID = 0
		masked.Chat = &chat
	}
	return &masked
}

func (h *Handler) reportID(c *gin.Context) (uint, bool) {
	id, err := lifecycle.ParseID("reportId", c.Param("id"))
	if err != nil {
		respondError(c, err)
		return 0, false
	}
	return id, true
}

// CreateReport files a new report for the calling citizen.
func (h *Handler) CreateReport(c *gin.Context) {
	var in lifecycle.NewReport
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	actor := actorFrom(c)
	report, err := h.Lifecycle.CreateReport(c.Request.Context(), actor, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, present(report, actor))
}

func (h *Handler) GetReport(c *gin.Context) {
	id, ok := h.reportID(c)
	if !ok {
		return
	}
	report, err := h.Lifecycle.GetReport(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, present(report, actorFrom(c)))
}

// ListReports lists reports in the status given by the status query parameter.
func (h *Handler) ListReports(c *gin.Context) {
	status := models.ReportStatus(c.Query("status"))
	reports, err := h.Lifecycle.ListReportsByStatus(c.Request.Context(), status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, presentAll(reports, actorFrom(c)))
}

func (h *Handler) MyReports(c *gin.Context) {
	actor := actorFrom(c)
	reports, err := h.Lifecycle.ListReportsByUser(c.Request.Context(), actor.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, presentAll(reports, actor))
}

func (h *Handler) MyAssigned(c *gin.Context) {
	actor := actorFrom(c)
	reports, err := h.Lifecycle.ListAssignedReports(c.Request.Context(), actor.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, presentAll(reports, actor))
}

// ReviewReport accepts or rejects a pending report.
func (h *Handler) ReviewReport(c *gin.Context) {
	id, ok := h.reportID(c)
	if !ok {
		return
	}
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.Lifecycle.AcceptOrReject(c.Request.Context(), id, req.Decision, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, presentResult(res, actorFrom(c)))
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := h.reportID(c)
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	actor := actorFrom(c)
	res, err := h.Lifecycle.UpdateStatus(c.Request.Context(), id, req.Status, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, presentResult(res, actor))
}

func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := h.reportID(c)
	if !ok {
		return
	}
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	report, err := h.Lifecycle.UpdateCategory(c.Request.Context(), id, req.CategoryID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, present(report, actorFrom(c)))
}

// AssignMaintainer delegates a report to an external maintainer on behalf of its staff member.
func (h *Handler) AssignMaintainer(c *gin.Context) {
	id, ok := h.reportID(c)
	if !ok {
		return
	}
	var req maintainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	actor := actorFrom(c)
	res, err := h.Lifecycle.AssignExternalMaintainer(c.Request.Context(), id, actor.UserID, req.MaintainerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, presentResult(res, actor))
}
