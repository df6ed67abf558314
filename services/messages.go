package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"messenger/models"
	"messenger/storage"
)

var (
	ErrEmptyContent    = errors.New("message content is required")
	ErrUnknownReceiver = errors.New("receiver does not exist")
)

// MessageService отвечает за видимость сообщений: выборку диалога,
// отправку, отметку о прочтении и soft delete.
type MessageService struct {
	store storage.Store
}

func NewMessageService(store storage.Store) *MessageService {
	return &MessageService{store: store}
}

// ListConversation отдает диалог пары {viewerID, contactID}: неудаленные
// сообщения, timestamp ASC (при равенстве - по id). Побочный эффект: все
// входящие непрочитанные сообщения из выдачи помечаются прочитанными.
// Ответ отдается снапшотом до отметки - следующий fetch увидит isRead=true.
func (s *MessageService) ListConversation(ctx context.Context, viewerID, contactID int64) ([]models.Message, error) {
	messages, err := s.store.ListConversation(ctx, viewerID, contactID)
	if err != nil {
		return nil, err
	}

	var unreadInbound []int64
	for _, msg := range messages {
		if msg.SenderID == contactID && !msg.IsRead {
			unreadInbound = append(unreadInbound, msg.ID)
		}
	}
	if len(unreadInbound) > 0 {
		// Идемпотентно, параллельные вызовы безопасны
		if err := s.store.MarkMessagesRead(ctx, unreadInbound); err != nil {
			return nil, fmt.Errorf("failed to auto-mark messages read: %w", err)
		}
	}
	return messages, nil
}

// Send создает сообщение. Получателя не уведомляем синхронно: клиент
// обнаружит сообщение своим опросом, событие в очередь уходит best-effort.
func (s *MessageService) Send(ctx context.Context, senderID, receiverID int64, content string) (*models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if _, err := s.store.GetUser(ctx, receiverID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUnknownReceiver
		}
		return nil, err
	}

	msg := &models.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		IsRead:     false,
		IsDeleted:  false,
	}
	if err := s.store.CreateMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	if err := PublishMessageEvent(ctx, msg); err != nil {
		// Доставка события не входит в контракт отправки
		log.Printf("failed to publish message event for message %d: %v", msg.ID, err)
	}
	return msg, nil
}

// MarkRead помечает прочитанными существующие сообщения из ids.
// Неизвестные id молча игнорируются, повторный вызов - no-op.
func (s *MessageService) MarkRead(ctx context.Context, ids []int64) error {
	return s.store.MarkMessagesRead(ctx, ids)
}

// GetMessage нужен API-слою для проверки владения перед удалением
func (s *MessageService) GetMessage(ctx context.Context, id int64) (*models.Message, error) {
	return s.store.GetMessage(ctx, id)
}

// SoftDelete ставит tombstone. Неизвестный или уже удаленный id - no-op.
// Проверка, что удаляет именно отправитель, живет на границе API.
func (s *MessageService) SoftDelete(ctx context.Context, id int64) error {
	return s.store.SoftDeleteMessage(ctx, id)
}
