package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"messenger/api/handlers"
	"messenger/api/middleware"
)

// PublicApi вешает REST-поверхность на /api. Сессии живут в cookie,
// все message/presence/typing эндпоинты требуют авторизацию.
func PublicApi(router *gin.Engine) *gin.RouterGroup {
	auth := handlers.Auth()

	api := router.Group("/api/")
	{
		api.POST("register", handlers.Register)
		api.POST("login", handlers.Login)
		api.GET("auth/status", middleware.OptionalSessionAuth(auth), handlers.AuthStatus)
	}

	authed := api.Group("", middleware.SessionAuth(auth))
	{
		authed.POST("logout", handlers.Logout)
		authed.GET("users", handlers.ListUsers)
		authed.POST("user/settings", handlers.UpdateSettings)

		authed.GET("messages/:contactId", handlers.ListConversation)
		authed.POST("messages", handlers.SendMessage)
		authed.POST("messages/read", handlers.MarkRead)
		authed.POST("messages/delete", handlers.DeleteMessage)

		authed.POST("typing", handlers.SetTyping)
		authed.GET("typing/:userId", handlers.GetTyping)

		authed.POST("ping", handlers.Ping)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return api
}
