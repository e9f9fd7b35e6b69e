package storage

import (
	"context"
	"errors"
	"log"

	"civicreport/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InsertChatIfAbsent creates the chat unless one with the same
// (report, kind, staff, participant) key exists. Either way chat is filled with
// the stored row; created reports whether this call inserted it.
func (s *Service) InsertChatIfAbsent(ctx context.Context, chat *models.Chat) (bool, error) {
	res := s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(chat)
	if res.Error != nil {
		log.Printf("ERROR: Failed to insert chat for report %d: %v", chat.ReportID, res.Error)
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}

	key := *chat
	err := s.DB.WithContext(ctx).
		Where("report_id = ? AND kind = ? AND staff_id = ? AND participant_id = ?",
			key.ReportID, key.Kind, key.StaffID, key.ParticipantID).
		First(chat).Error
	if err != nil {
		return false, err
	}
	return false, nil
}

// ChatExists reports whether a report already has a chat of the given kind.
func (s *Service) ChatExists(ctx context.Context, reportID uint, kind models.ChatKind) (bool, error) {
	var chat models.Chat
	err := s.DB.WithContext(ctx).
		Where("report_id = ? AND kind = ?", reportID, kind).
		Select("id").
		First(&chat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// FindChat loads a chat by id.
func (s *Service) FindChat(ctx context.Context, id uint) (*models.Chat, error) {
	var chat models.Chat
	if err := s.DB.WithContext(ctx).First(&chat, id).Error; err != nil {
		return nil, notFound(err, "chat", id)
	}
	return &chat, nil
}

// ListChatsForUser returns chats where the user is either participant, newest first.
func (s *Service) ListChatsForUser(ctx context.Context, userID uint) ([]models.Chat, error) {
	var chats []models.Chat
	err := s.DB.WithContext(ctx).
		Where("staff_id = ? OR participant_id = ?", userID, userID).
		Order("created_at DESC, id DESC").
		Find(&chats).Error
	return chats, err
}

// SaveMessage persists a chat message; msg.ID and msg.CreatedAt are filled by gorm.
func (s *Service) SaveMessage(ctx context.Context, msg *models.Message) error {
	if err := s.DB.WithContext(ctx).Create(msg).Error; err != nil {
		log.Printf("ERROR: Failed to save message for chat %d: %v", msg.ChatID, err)
		return err
	}
	return nil
}

// ListMessages returns the history of a chat, oldest first.
func (s *Service) ListMessages(ctx context.Context, chatID uint) ([]models.Message, error) {
	var history []models.Message
	if err := s.DB.WithContext(ctx).Where("chat_id = ?", chatID).Order("created_at asc, id asc").Find(&history).Error; err != nil {
		log.Printf("ERROR: Failed to get chat history for chat %d: %v", chatID, err)
		return nil, err
	}
	return history, nil
}
