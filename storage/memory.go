package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"messenger/models"
)

// MemoryStore - реализация Store в памяти, тот же контракт что у GormStore.
// Используется в тестах вместо базы.
type MemoryStore struct {
	mu        sync.RWMutex
	users     map[int64]*models.User
	messages  map[int64]*models.Message
	sessions  map[string]*models.UserSession
	userSeq   int64
	msgSeq    int64
	sessionID int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[int64]*models.User),
		messages: make(map[int64]*models.Message),
		sessions: make(map[string]*models.UserSession),
	}
}

func (s *MemoryStore) GetUser(_ context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *MemoryStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userSeq++
	user.ID = s.userSeq
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	if user.LastActive.IsZero() {
		user.LastActive = user.CreatedAt
	}
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *MemoryStore) ListUsers(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]models.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, *user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (s *MemoryStore) SetUserOnline(_ context.Context, id int64, online bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user, ok := s.users[id]; ok {
		user.IsOnline = online
	}
	return nil
}

func (s *MemoryStore) TouchLastActive(_ context.Context, id int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user, ok := s.users[id]; ok {
		user.LastActive = at
	}
	return nil
}

func (s *MemoryStore) UpdateUserSettings(_ context.Context, id int64, settings models.UserSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	user.Settings = settings
	return nil
}

func (s *MemoryStore) MarkStaleOffline(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var affected int64
	for _, user := range s.users {
		if user.IsOnline && user.LastActive.Before(cutoff) {
			user.IsOnline = false
			affected++
		}
	}
	return affected, nil
}

func (s *MemoryStore) ListConversation(_ context.Context, a, b int64) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	messages := make([]models.Message, 0)
	for _, msg := range s.messages {
		if msg.IsDeleted {
			continue
		}
		if (msg.SenderID == a && msg.ReceiverID == b) || (msg.SenderID == b && msg.ReceiverID == a) {
			messages = append(messages, *msg)
		}
	}
	sort.Slice(messages, func(i, j int) bool {
		if messages[i].Timestamp.Equal(messages[j].Timestamp) {
			return messages[i].ID < messages[j].ID
		}
		return messages[i].Timestamp.Before(messages[j].Timestamp)
	})
	return messages, nil
}

func (s *MemoryStore) CreateMessage(_ context.Context, msg *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgSeq++
	msg.ID = s.msgSeq
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	copied := *msg
	s.messages[msg.ID] = &copied
	return nil
}

func (s *MemoryStore) GetMessage(_ context.Context, id int64) (*models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msg, ok := s.messages[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *msg
	return &copied, nil
}

func (s *MemoryStore) MarkMessagesRead(_ context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if msg, ok := s.messages[id]; ok {
			msg.IsRead = true
		}
	}
	return nil
}

func (s *MemoryStore) SoftDeleteMessage(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if msg, ok := s.messages[id]; ok {
		msg.IsDeleted = true
	}
	return nil
}

func (s *MemoryStore) CreateSession(_ context.Context, session *models.UserSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionID++
	session.ID = s.sessionID
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	copied := *session
	s.sessions[session.Token] = &copied
	return nil
}

func (s *MemoryStore) GetSession(_ context.Context, token string) (*models.UserSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[token]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *session
	return &copied, nil
}

func (s *MemoryStore) DeleteSession(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

func (s *MemoryStore) DeleteUserSessions(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, session := range s.sessions {
		if session.UserID == userID {
			delete(s.sessions, token)
		}
	}
	return nil
}
