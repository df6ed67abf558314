package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"messenger/config"
	"messenger/models"
)

// Authenticator резолвит токен из cookie в пользователя.
// Реализуется services.UserService.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

func cookieName() string {
	if config.AppConfig != nil && config.AppConfig.Session.CookieName != "" {
		return config.AppConfig.Session.CookieName
	}
	return "session_id"
}

// SessionAuth требует валидную сессию. Пользователь кладется в контекст
// под ключами user_id / user.
func SessionAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName())
		if err != nil || token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		c.Set("user_id", user.ID)
		c.Set("user", user)
		c.Next()
	}
}

// OptionalSessionAuth кладет пользователя в контекст, если сессия есть,
// но не требует ее. Нужен для /api/auth/status.
func OptionalSessionAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName())
		if err == nil && token != "" {
			if user, err := auth.Authenticate(c.Request.Context(), token); err == nil {
				c.Set("user_id", user.ID)
				c.Set("user", user)
			}
		}
		c.Next()
	}
}

// CurrentUserID достает id авторизованного пользователя из контекста
func CurrentUserID(c *gin.Context) (int64, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// CurrentUser достает пользователя из контекста
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get("user")
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}
