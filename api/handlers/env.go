package handlers

import (
	"messenger/api/middleware"
	"messenger/services"
	"messenger/storage"
)

var (
	userService     *services.UserService
	messageService  *services.MessageService
	presenceService *services.PresenceService
	typingStore     services.TypingStore
)

// Init связывает хендлеры с хранилищем. Вызывается из main и из тестов
// (тесты подсовывают MemoryStore/MemoryTypingStore).
func Init(store storage.Store, typing services.TypingStore) {
	userService = services.NewUserService(store)
	messageService = services.NewMessageService(store)
	presenceService = services.NewPresenceService(store)
	typingStore = typing
}

// Auth отдает аутентификатор для session middleware
func Auth() middleware.Authenticator {
	return userService
}

// Presence нужен main-у для запуска janitor-а
func Presence() *services.PresenceService {
	return presenceService
}
