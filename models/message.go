package models

import (
	"time"
)

// Message представляет сообщение в диалоге между двумя пользователями.
// Диалог определяется неупорядоченной парой {SenderID, ReceiverID}.
type Message struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	SenderID   int64     `gorm:"column:sender_id;index" json:"senderId"`
	ReceiverID int64     `gorm:"column:receiver_id;index" json:"receiverId"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	Timestamp  time.Time `gorm:"column:timestamp;index" json:"timestamp"`
	IsRead     bool      `gorm:"column:is_read;default:false" json:"isRead"`
	IsDeleted  bool      `gorm:"column:is_deleted;default:false" json:"isDeleted"`
}

// TableName возвращает имя таблицы для модели Message
func (Message) TableName() string {
	return "messages"
}
