package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"messenger/api/middleware"
)

type TypingRequest struct {
	ReceiverID int64 `json:"receiverId" binding:"required"`
	IsTyping   *bool `json:"isTyping" binding:"required"`
}

// SetTyping выставляет флаг "я печатаю receiverId". Клиент шлет true на
// первый keystroke и false после 2с тишины или при отправке; серверный
// TTL подчищает за клиентом, который false так и не прислал.
func SetTyping(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req TypingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := typingStore.SetTyping(c.Request.Context(), userID, req.ReceiverID, *req.IsTyping); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update typing status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetTyping отвечает, печатает ли :userId сообщение вызывающему.
// Флаги хранятся по паре (sender, receiver), поэтому опрос работает
// в обе стороны без знания чужих сессий.
func GetTyping(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	contactID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	isTyping, err := typingStore.IsTyping(c.Request.Context(), contactID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get typing status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"isTyping": isTyping})
}
