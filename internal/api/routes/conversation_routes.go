package routes

import (
	"mycraft-api/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterConversationRoutes registers all routes related to chat
func RegisterConversationRoutes(rg *gin.RouterGroup, conversationHandler *handlers.ConversationHandler, authMiddleware gin.HandlerFunc) {
	conversations := rg.Group("/conversations")
	conversations.Use(authMiddleware)
	{
		conversations.POST("", conversationHandler.StartConversation)
		conversations.GET("", conversationHandler.ListConversations)
		conversations.GET("/:id", conversationHandler.GetConversation)
		conversations.POST("/:id/messages", conversationHandler.PostMessage)
		conversations.POST("/:id/suggest-reply", conversationHandler.SuggestReply)
	}
}
