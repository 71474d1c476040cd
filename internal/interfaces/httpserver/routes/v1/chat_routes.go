package v1

import (
	"github.com/gin-gonic/gin"

	"chat-api/internal/interfaces/httpserver/handlers"
)

func registerChatRoutes(router gin.IRoutes, handler *handlers.ChatHandler) {
	router.GET("/conversations", handler.List)
	router.POST("/conversations", handler.Create)
	router.DELETE("/conversations", handler.Clear)
	router.GET("/conversations/:conversation_id", handler.Select)
	router.POST("/conversations/:conversation_id/messages", handler.SendMessage)
}
