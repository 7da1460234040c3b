package routes

import (
	"mycraft-api/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes registers all routes related to accounts
func RegisterUserRoutes(rg *gin.RouterGroup, userHandler *handlers.UserHandler, reviewHandler *handlers.ReviewHandler, authMiddleware gin.HandlerFunc) {
	// --- Authentication Routes ---
	auth := rg.Group("/auth")
	{
		auth.POST("/register", userHandler.Register)
		auth.POST("/login", userHandler.Login)
	}

	users := rg.Group("/users")
	{
		// Public profile and received reviews need no auth.
		users.GET("/:id", userHandler.GetPublicProfile)
		users.GET("/:id/reviews", reviewHandler.ListReviews)

		authed := users.Group("")
		authed.Use(authMiddleware)
		{
			authed.GET("/me", userHandler.GetMe)
			authed.PUT("/me/profile", userHandler.UpdateProfile)
		}
	}
}
