package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"messenger/api/middleware"
	"messenger/services"
	"messenger/storage"
)

func opStatus(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

type SendMessageRequest struct {
	ReceiverID int64  `json:"receiverId" binding:"required"`
	Content    string `json:"content" binding:"required"`
}

type MarkReadRequest struct {
	MessageIDs []int64 `json:"messageIds"`
}

type DeleteMessageRequest struct {
	MessageID int64 `json:"messageId" binding:"required"`
}

// ListConversation отдает диалог с контактом. Побочные эффекты: все
// входящие непрочитанные помечаются прочитанными, lastActive обновляется.
func ListConversation(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	contactID, err := strconv.ParseInt(c.Param("contactId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contact ID"})
		return
	}

	start := time.Now()
	messages, err := messageService.ListConversation(c.Request.Context(), userID, contactID)
	middleware.RecordMessageOperation("list", opStatus(err), time.Since(start), err)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	if err := presenceService.Touch(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	c.JSON(http.StatusOK, messages)
}

func SendMessage(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start := time.Now()
	msg, err := messageService.Send(c.Request.Context(), userID, req.ReceiverID, req.Content)
	middleware.RecordMessageOperation("send", opStatus(err), time.Since(start), err)
	if err != nil {
		if errors.Is(err, services.ErrEmptyContent) || errors.Is(err, services.ErrUnknownReceiver) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	if err := presenceService.Touch(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	c.JSON(http.StatusCreated, msg)
}

// MarkRead идемпотентен: неизвестные id не считаются ошибкой
func MarkRead(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start := time.Now()
	err := messageService.MarkRead(c.Request.Context(), req.MessageIDs)
	middleware.RecordMessageOperation("mark_read", opStatus(err), time.Since(start), err)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark messages as read"})
		return
	}

	if err := presenceService.Touch(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark messages as read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteMessage ставит tombstone. Удалять сообщение может только его
// отправитель - это проверка границы API, движок ее не делает.
// Несуществующий id - no-op с успешным ответом.
func DeleteMessage(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req DeleteMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := messageService.GetMessage(c.Request.Context(), req.MessageID)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete message"})
		return
	}

	if msg.SenderID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the sender can delete a message"})
		return
	}

	start := time.Now()
	delErr := messageService.SoftDelete(c.Request.Context(), req.MessageID)
	middleware.RecordMessageOperation("delete", opStatus(delErr), time.Since(start), delErr)
	if delErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete message"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
