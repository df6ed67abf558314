package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"messenger/api/middleware"
	"messenger/config"
	"messenger/models"
	"messenger/services"
)

type RegisterRequest struct {
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"displayName"`
	Avatar      string `json:"avatar"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthUserInfo - публичная часть пользователя в ответах авторизации
type AuthUserInfo struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Avatar      string `json:"avatar"`
}

func authUserInfo(user *models.User) AuthUserInfo {
	return AuthUserInfo{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Avatar:      user.Avatar,
	}
}

func sessionCookieMaxAge() int {
	hours := 24
	if config.AppConfig != nil && config.AppConfig.Session.TTLHours > 0 {
		hours = config.AppConfig.Session.TTLHours
	}
	return hours * 3600
}

func sessionCookieName() string {
	if config.AppConfig != nil && config.AppConfig.Session.CookieName != "" {
		return config.AppConfig.Session.CookieName
	}
	return "session_id"
}

func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := userService.Register(c.Request.Context(), req.Username, req.Password, req.DisplayName, req.Avatar)
	if err != nil {
		if errors.Is(err, services.ErrUserExists) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusCreated, authUserInfo(user))
}

func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := userService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := presenceService.MarkOnline(c.Request.Context(), user.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.SetCookie(sessionCookieName(), token, sessionCookieMaxAge(), "/", "", false, true)
	c.JSON(http.StatusOK, authUserInfo(user))
}

// Logout переводит пользователя в offline и гасит все его сессии.
// Клиент зовет его и явно, и best-effort при закрытии вкладки.
func Logout(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := presenceService.MarkOffline(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Logout failed"})
		return
	}
	if err := userService.Logout(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Logout failed"})
		return
	}

	c.SetCookie(sessionCookieName(), "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// AuthStatus доступен без сессии, вешается за OptionalSessionAuth
func AuthStatus(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"isAuthenticated": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"isAuthenticated": true,
		"user":            authUserInfo(user),
	})
}
