package models

import "time"

// Message is a persisted chat message. Sender and receiver are always
// the two participants of the owning chat.
type Message struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// ChatID is the chat the message belongs to.
	ChatID     uint      `gorm:"not null;index:idx_chat_msg" json:"chat_id"`
	SenderID   uint      `gorm:"not null" json:"sender_id"`
	ReceiverID uint      `gorm:"not null" json:"receiver_id"`
	Text       string    `gorm:"type:text;not null" json:"text"`
	CreatedAt  time.Time `gorm:"index:idx_chat_msg" json:"created_at"`
}
