package storage

import (
	"context"

	"civicreport/backend/internal/models"
)

// CreateNotification appends a notification.
func (s *Service) CreateNotification(ctx context.Context, n *models.Notification) error {
	return s.DB.WithContext(ctx).Create(n).Error
}

// ListNotifications returns a user's notifications with their report, newest first.
func (s *Service) ListNotifications(ctx context.Context, userID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.DB.WithContext(ctx).Preload("Report").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&notifications).Error
	return notifications, err
}

// MarkNotificationSeen flags one notification of the user as seen. Marking an
// already seen notification succeeds.
func (s *Service) MarkNotificationSeen(ctx context.Context, userID, id uint) error {
	var n models.Notification
	if err := s.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&n).Error; err != nil {
		return notFound(err, "notification", id)
	}
	if n.Seen {
		return nil
	}
	return s.DB.WithContext(ctx).Model(&n).Update("seen", true).Error
}

// MarkAllNotificationsSeen flags every unseen notification of the user.
func (s *Service) MarkAllNotificationsSeen(ctx context.Context, userID uint) (int64, error) {
	res := s.DB.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND seen = ?", userID, false).
		Update("seen", true)
	return res.RowsAffected, res.Error
}

// CountUnseenNotifications counts the user's unseen notifications.
func (s *Service) CountUnseenNotifications(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND seen = ?", userID, false).
		Count(&count).Error
	return count, err
}
