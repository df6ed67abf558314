package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"messenger/api/middleware"
)

// Ping держит пользователя online и двигает lastActive. Клиент шлет его
// раз в 30 секунд, пока вкладка открыта; пропавший ping ничего не меняет
// на сервере - автоматического перевода в offline нет.
func Ping(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := presenceService.MarkOnline(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update presence"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
