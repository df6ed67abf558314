package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"messenger/db"
	"messenger/models"
)

// GormStore - основная реализация Store поверх глобального ORM.
// Чтения уходят на реплики, записи на мастер (dbresolver).
type GormStore struct{}

func NewGormStore() *GormStore {
	return &GormStore{}
}

func (s *GormStore) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := db.GetReadOnlyDB(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return &user, nil
}

func (s *GormStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := db.GetReadOnlyDB(ctx).First(&user, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return &user, nil
}

func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	if user.LastActive.IsZero() {
		user.LastActive = user.CreatedAt
	}
	return db.GetWriteDB(ctx).Create(user).Error
}

func (s *GormStore) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := db.GetReadOnlyDB(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *GormStore) SetUserOnline(ctx context.Context, id int64, online bool) error {
	return db.GetWriteDB(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("is_online", online).Error
}

func (s *GormStore) TouchLastActive(ctx context.Context, id int64, at time.Time) error {
	return db.GetWriteDB(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("last_active", at).Error
}

func (s *GormStore) UpdateUserSettings(ctx context.Context, id int64, settings models.UserSettings) error {
	res := db.GetWriteDB(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("settings", settings)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) MarkStaleOffline(ctx context.Context, cutoff time.Time) (int64, error) {
	res := db.GetWriteDB(ctx).Model(&models.User{}).
		Where("is_online = ? AND last_active < ?", true, cutoff).
		Update("is_online", false)
	return res.RowsAffected, res.Error
}

func (s *GormStore) ListConversation(ctx context.Context, a, b int64) ([]models.Message, error) {
	messages := make([]models.Message, 0)
	err := db.GetReadOnlyDB(ctx).
		Where("((sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)) AND is_deleted = ?",
			a, b, b, a, false).
		Order("timestamp ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list conversation: %w", err)
	}
	return messages, nil
}

func (s *GormStore) CreateMessage(ctx context.Context, msg *models.Message) error {
	// Время назначается на стороне хранилища, в момент вставки
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	return db.GetWriteDB(ctx).Create(msg).Error
}

func (s *GormStore) GetMessage(ctx context.Context, id int64) (*models.Message, error) {
	var msg models.Message
	err := db.GetReadOnlyDB(ctx).First(&msg, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message %d: %w", id, err)
	}
	return &msg, nil
}

func (s *GormStore) MarkMessagesRead(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	// Несуществующие id просто не попадут под WHERE, это не ошибка
	return db.GetWriteDB(ctx).Model(&models.Message{}).
		Where("id IN ? AND is_read = ?", ids, false).
		Update("is_read", true).Error
}

func (s *GormStore) SoftDeleteMessage(ctx context.Context, id int64) error {
	return db.GetWriteDB(ctx).Model(&models.Message{}).
		Where("id = ?", id).
		Update("is_deleted", true).Error
}

func (s *GormStore) CreateSession(ctx context.Context, session *models.UserSession) error {
	return db.GetWriteDB(ctx).Create(session).Error
}

func (s *GormStore) GetSession(ctx context.Context, token string) (*models.UserSession, error) {
	var session models.UserSession
	err := db.GetReadOnlyDB(ctx).First(&session, "token = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

func (s *GormStore) DeleteSession(ctx context.Context, token string) error {
	return db.GetWriteDB(ctx).Where("token = ?", token).Delete(&models.UserSession{}).Error
}

func (s *GormStore) DeleteUserSessions(ctx context.Context, userID int64) error {
	return db.GetWriteDB(ctx).Where("user_id = ?", userID).Delete(&models.UserSession{}).Error
}
