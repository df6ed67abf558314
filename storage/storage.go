package storage

import (
	"context"
	"errors"
	"time"

	"messenger/models"
)

// ErrNotFound возвращается при обращении к несуществующей записи
var ErrNotFound = errors.New("record not found")

// Store - граница персистентности. Две реализации: GormStore (postgres/sqlite)
// и MemoryStore (для тестов), контракт у обеих одинаковый.
type Store interface {
	// Пользователи
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	ListUsers(ctx context.Context) ([]models.User, error)
	SetUserOnline(ctx context.Context, id int64, online bool) error
	TouchLastActive(ctx context.Context, id int64, at time.Time) error
	UpdateUserSettings(ctx context.Context, id int64, settings models.UserSettings) error
	// MarkStaleOffline переводит в offline всех, кто молчит дольше cutoff.
	// Вызывается только janitor-ом, который по умолчанию выключен.
	MarkStaleOffline(ctx context.Context, cutoff time.Time) (int64, error)

	// Сообщения. ListConversation отдает неудаленные сообщения пары {a,b}
	// в порядке timestamp ASC, id ASC.
	ListConversation(ctx context.Context, a, b int64) ([]models.Message, error)
	CreateMessage(ctx context.Context, msg *models.Message) error
	GetMessage(ctx context.Context, id int64) (*models.Message, error)
	MarkMessagesRead(ctx context.Context, ids []int64) error
	SoftDeleteMessage(ctx context.Context, id int64) error

	// Сессии
	CreateSession(ctx context.Context, session *models.UserSession) error
	GetSession(ctx context.Context, token string) (*models.UserSession, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteUserSessions(ctx context.Context, userID int64) error
}
