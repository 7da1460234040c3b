package routes

import (
	"mycraft-api/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterReviewRoutes registers all routes related to reviews. Listing a
// user's received reviews lives under /users and is registered there.
func RegisterReviewRoutes(rg *gin.RouterGroup, reviewHandler *handlers.ReviewHandler, authMiddleware gin.HandlerFunc) {
	reviews := rg.Group("/reviews")
	reviews.Use(authMiddleware)
	{
		reviews.POST("", reviewHandler.CreateReview)
	}
}
