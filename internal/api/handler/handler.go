// Package handler exposes the report lifecycle, chats and notifications over HTTP.
package handler

import (
	"context"
	"time"

	"civicreport/backend/internal/chathub"
	"civicreport/backend/internal/lifecycle"
	"civicreport/backend/internal/localization"
	"civicreport/backend/internal/models"
	"civicreport/backend/internal/notification"

	"github.com/gin-gonic/gin"
)

// UserDirectory resolves login names.
type UserDirectory interface {
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Handler holds the services behind the HTTP routes.
type Handler struct {
	Lifecycle     *lifecycle.Service
	Hub           *chathub.ManagerService
	Notifications *notification.Emitter
	Users         UserDirectory
	Localizer     *localization.Localizer

	Secret   []byte
	TokenTTL time.Duration

	// AllowedOrigins lists the browser origins allowed to open websockets
	// besides the server's own.
	AllowedOrigins []string
}

func NewHandler(lc *lifecycle.Service, hub *chathub.ManagerService, notifications *notification.Emitter,
	users UserDirectory, loc *localization.Localizer, secret []byte, ttl time.Duration) *Handler {
	return &Handler{
		Lifecycle:     lc,
		Hub:           hub,
		Notifications: notifications,
		Users:         users,
		Localizer:     loc,
		Secret:        secret,
		TokenTTL:      ttl,
	}
}

var (
	reviewers = []models.Role{models.RolePublicRelationsOfficer, models.RoleAdministrator}
	operators = []models.Role{models.RoleTechnicalStaff, models.RoleExternalMaintainer}
	officials = []models.Role{
		models.RolePublicRelationsOfficer,
		models.RoleMunicipalAdministrator,
		models.RoleTechnicalStaff,
		models.RoleAdministrator,
	}
)

// Register mounts every route on r.
func (h *Handler) Register(r *gin.Engine) {
	r.Use(RequestID())
	r.POST("/auth/token", h.IssueToken)

	api := r.Group("", h.AuthRequired())

	api.POST("/reports", RequireRoles(models.RoleCitizen), h.CreateReport)
	api.GET("/reports", RequireRoles(officials...), h.ListReports)
	api.GET("/reports/:id", h.GetReport)
	api.PATCH("/reports/:id/review", RequireRoles(reviewers...), h.ReviewReport)
	api.PATCH("/reports/:id/category", RequireRoles(reviewers...), h.UpdateCategory)
	api.PATCH("/reports/:id/status", RequireRoles(operators...), h.UpdateStatus)
	api.PATCH("/reports/:id/maintainer", RequireRoles(models.RoleTechnicalStaff), h.AssignMaintainer)
	api.GET("/me/reports", h.MyReports)
	api.GET("/me/assigned", RequireRoles(operators...), h.MyAssigned)

	api.GET("/chats", h.ListChats)
	api.GET("/chats/:id/messages", h.ListMessages)
	api.POST("/chats/:id/messages", h.PostMessage)
	api.GET("/chats/:id/ws", h.ServeWebSocket)

	api.GET("/notifications", h.ListNotifications)
	api.GET("/notifications/unseen", h.CountUnseen)
	api.GET("/notifications/ws", h.ServeNotificationSocket)
	api.PATCH("/notifications/seen", h.MarkAllSeen)
	api.PATCH("/notifications/:id/seen", h.MarkSeen)
}
