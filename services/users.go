package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/argon2"

	"messenger/config"
	"messenger/models"
	"messenger/storage"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionExpired     = errors.New("session expired")
)

// SettingsPatch - частичное обновление настроек, nil-поля не трогаем
type SettingsPatch struct {
	DarkMode      *bool   `json:"darkMode"`
	Notifications *bool   `json:"notifications"`
	Sound         *bool   `json:"sound"`
	Language      *string `json:"language"`
}

type UserService struct {
	store storage.Store
}

func NewUserService(store storage.Store) *UserService {
	return &UserService{store: store}
}

// HashPassword считает argon2id от пароля, формат salt$hash в hex
func HashPassword(password string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	hash := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)
	return hex.EncodeToString(salt) + "$" + hex.EncodeToString(hash), nil
}

// VerifyPassword сверяет пароль с хэшем формата salt$hash
func VerifyPassword(stored, password string) bool {
	parts := strings.Split(stored, "$")
	if len(parts) != 2 {
		return false
	}
	salt, err := hex.DecodeString(parts[0])
	if err != nil {
		return false
	}
	hash := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)
	return hex.EncodeToString(hash) == parts[1]
}

// Register создает пользователя с настройками по умолчанию
func (s *UserService) Register(ctx context.Context, username, password, displayName, avatar string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required")
	}
	if _, err := s.store.GetUserByUsername(ctx, username); err == nil {
		return nil, ErrUserExists
	}

	passwordHash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username:     username,
		PasswordHash: passwordHash,
		DisplayName:  displayName,
		Avatar:       avatar,
		Settings:     models.DefaultSettings(),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Login проверяет креды и выдает новую сессию
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}
	if !VerifyPassword(user.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return nil, "", err
	}
	token := hex.EncodeToString(tokenBytes)

	session := &models.UserSession{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(sessionTTL()),
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, "", fmt.Errorf("failed to create session: %w", err)
	}
	return user, token, nil
}

// Logout удаляет все сессии пользователя
func (s *UserService) Logout(ctx context.Context, userID int64) error {
	return s.store.DeleteUserSessions(ctx, userID)
}

// Authenticate резолвит токен сессии в пользователя
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	session, err := s.store.GetSession(ctx, token)
	if err != nil {
		return nil, err
	}
	if time.Now().After(session.ExpiresAt) {
		// Протухшую сессию сразу вычищаем
		_ = s.store.DeleteSession(ctx, token)
		return nil, ErrSessionExpired
	}
	return s.store.GetUser(ctx, session.UserID)
}

// ListContacts возвращает всех пользователей кроме самого вызывающего
func (s *UserService) ListContacts(ctx context.Context, callerID int64) ([]models.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	contacts := make([]models.User, 0, len(users))
	for _, user := range users {
		if user.ID != callerID {
			contacts = append(contacts, user)
		}
	}
	return contacts, nil
}

// UpdateSettings применяет частичный патч: незаданные поля сохраняют
// прежние значения
func (s *UserService) UpdateSettings(ctx context.Context, userID int64, patch SettingsPatch) (*models.UserSettings, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	settings := user.Settings
	if patch.DarkMode != nil {
		settings.DarkMode = *patch.DarkMode
	}
	if patch.Notifications != nil {
		settings.Notifications = *patch.Notifications
	}
	if patch.Sound != nil {
		settings.Sound = *patch.Sound
	}
	if patch.Language != nil {
		settings.Language = *patch.Language
	}

	if err := s.store.UpdateUserSettings(ctx, userID, settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.store.GetUser(ctx, id)
}

func sessionTTL() time.Duration {
	if config.AppConfig != nil && config.AppConfig.Session.TTLHours > 0 {
		return time.Duration(config.AppConfig.Session.TTLHours) * time.Hour
	}
	return 24 * time.Hour
}
