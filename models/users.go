package models

import (
	"time"
)

// UserSettings хранится в колонке settings как JSON
type UserSettings struct {
	DarkMode      bool   `json:"darkMode"`
	Notifications bool   `json:"notifications"`
	Sound         bool   `json:"sound"`
	Language      string `json:"language"`
}

// DefaultSettings возвращает настройки нового пользователя
func DefaultSettings() UserSettings {
	return UserSettings{
		DarkMode:      false,
		Notifications: true,
		Sound:         true,
		Language:      "en",
	}
}

type User struct {
	ID           int64        `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string       `gorm:"size:60;uniqueIndex" json:"username"`
	PasswordHash string       `gorm:"size:255;column:password_hash" json:"-"`
	DisplayName  string       `gorm:"size:255;column:display_name" json:"displayName"`
	Avatar       string       `gorm:"size:255" json:"avatar"`
	IsOnline     bool         `gorm:"column:is_online;default:false" json:"isOnline"`
	LastActive   time.Time    `gorm:"column:last_active" json:"lastActive"`
	Settings     UserSettings `gorm:"serializer:json" json:"settings"`
	CreatedAt    time.Time    `json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserSession - серверная сессия, клиенту токен уходит в HttpOnly cookie
type UserSession struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"column:user_id;index" json:"user_id"`
	Token     string    `gorm:"size:255;uniqueIndex" json:"token"`
	ExpiresAt time.Time `gorm:"column:expires_at" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (UserSession) TableName() string {
	return "user_sessions"
}
