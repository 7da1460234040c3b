package routes

import (
	"mycraft-api/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterOfferRoutes registers all routes related to offers
func RegisterOfferRoutes(rg *gin.RouterGroup, offerHandler *handlers.OfferHandler, authMiddleware gin.HandlerFunc) {
	offers := rg.Group("/offers")
	offers.Use(authMiddleware)
	{
		offers.POST("", offerHandler.CreateOffer)
		offers.POST("/:id/accept", offerHandler.AcceptOffer)
		offers.POST("/:id/reject", offerHandler.RejectOffer)
	}
}
