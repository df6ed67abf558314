package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"messenger/api/middleware"
	"messenger/services"
	"messenger/storage"
)

// ContactInfo - пользователь в списке контактов
type ContactInfo struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName"`
	Avatar      string    `json:"avatar"`
	IsOnline    bool      `json:"isOnline"`
	LastActive  time.Time `json:"lastActive"`
}

// ListUsers отдает всех пользователей кроме вызывающего
func ListUsers(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	users, err := userService.ListContacts(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	contacts := make([]ContactInfo, 0, len(users))
	for _, user := range users {
		contacts = append(contacts, ContactInfo{
			ID:          user.ID,
			Username:    user.Username,
			DisplayName: user.DisplayName,
			Avatar:      user.Avatar,
			IsOnline:    user.IsOnline,
			LastActive:  user.LastActive,
		})
	}

	c.JSON(http.StatusOK, contacts)
}

// UpdateSettings принимает частичный патч настроек и отдает результат merge
func UpdateSettings(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var patch services.SettingsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings, err := userService.UpdateSettings(c.Request.Context(), userID, patch)
	if err != nil {
		// Сессия гарантирует существование пользователя, так что
		// storage.ErrNotFound здесь - нарушение инварианта, и это 500,
		// а не ошибка клиента
		if errors.Is(err, storage.ErrNotFound) {
			log.Printf("settings update for missing user %d", userID)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update settings"})
		return
	}

	c.JSON(http.StatusOK, settings)
}
