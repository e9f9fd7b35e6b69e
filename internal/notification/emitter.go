// Package notification records report status changes for the report's creator.
package notification

import (
	"context"
	"fmt"
	"log"

	"civicreport/backend/internal/apperr"
	"civicreport/backend/internal/chathub"
	"civicreport/backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// Store is the persistence the emitter needs.
type Store interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	ListNotifications(ctx context.Context, userID uint) ([]models.Notification, error)
	MarkNotificationSeen(ctx context.Context, userID, id uint) error
	MarkAllNotificationsSeen(ctx context.Context, userID uint) (int64, error)
	CountUnseenNotifications(ctx context.Context, userID uint) (int64, error)
	Publish(ctx context.Context, channel string, event models.RealtimeEvent) error
	Subscribe(ctx context.Context, channel string) *redis.PubSub
}

// UserChannel is the Redis channel carrying a user's notifications.
func UserChannel(userID uint) string {
	return fmt.Sprintf("notifications:%d", userID)
}

// Emitter appends notifications and pushes them to connected clients.
type Emitter struct {
	Storage Store
}

// NewEmitter creates a new notification emitter.
func NewEmitter(s Store) *Emitter {
	return &Emitter{Storage: s}
}

// RecordTransition stores a notification for the report's creator. Publishing is
// best effort: a publish failure is logged and the stored notification is returned.
func (e *Emitter) RecordTransition(ctx context.Context, report *models.Report, prev, next models.ReportStatus) (*models.Notification, error) {
	if report == nil || report.ID == 0 || report.CreatorID == 0 {
		return nil, apperr.Validation("report", "a stored report with a creator is required")
	}

	n := &models.Notification{
		UserID:         report.CreatorID,
		ReportID:       report.ID,
		PreviousStatus: prev,
		NewStatus:      next,
	}
	if err := e.Storage.CreateNotification(ctx, n); err != nil {
		log.Printf("ERROR: Failed to record notification for report %d: %v", report.ID, err)
		return nil, err
	}

	event := models.RealtimeEvent{Type: models.EventStatusChanged, ReportID: report.ID, Notification: n}
	if err := e.Storage.Publish(ctx, UserChannel(n.UserID), event); err != nil {
		log.Printf("WARNING: Failed to publish notification %d to user %d: %v", n.ID, n.UserID, err)
	}
	return n, nil
}

// Attach relays the notifications of c's user to c until it disconnects.
func (e *Emitter) Attach(ctx context.Context, c chathub.Client) error {
	if c.GetUserID() == 0 {
		return apperr.Validation("userId", "must be a positive integer")
	}
	return chathub.Relay(ctx, e.Storage, UserChannel(c.GetUserID()), c)
}

// ListForUser returns the user's notifications, newest first.
func (e *Emitter) ListForUser(ctx context.Context, userID uint) ([]models.Notification, error) {
	return e.Storage.ListNotifications(ctx, userID)
}

// MarkSeen flags one of the user's notifications. Repeating the call succeeds;
// another user's notification is reported as not found.
func (e *Emitter) MarkSeen(ctx context.Context, userID, notificationID uint) error {
	if notificationID == 0 {
		return apperr.Validation("notificationId", "must be a positive integer")
	}
	return e.Storage.MarkNotificationSeen(ctx, userID, notificationID)
}

// MarkAllSeen flags every unseen notification of the user and returns how many changed.
func (e *Emitter) MarkAllSeen(ctx context.Context, userID uint) (int64, error) {
	return e.Storage.MarkAllNotificationsSeen(ctx, userID)
}

// CountUnseen returns the number of unseen notifications of the user.
func (e *Emitter) CountUnseen(ctx context.Context, userID uint) (int64, error) {
	return e.Storage.CountUnseenNotifications(ctx, userID)
}
