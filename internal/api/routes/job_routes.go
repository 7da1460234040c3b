package routes

import (
	"mycraft-api/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterJobRoutes registers all routes related to listings
func RegisterJobRoutes(rg *gin.RouterGroup, jobHandler *handlers.JobHandler, authMiddleware gin.HandlerFunc) {
	jobs := rg.Group("/jobs")
	{
		// Search and detail views are public.
		jobs.GET("", jobHandler.SearchJobs)
		jobs.GET("/:id", jobHandler.GetJob)
		jobs.GET("/:id/availability", jobHandler.GetAvailability)

		authed := jobs.Group("")
		authed.Use(authMiddleware)
		{
			authed.POST("", jobHandler.CreateJob)
			authed.GET("/my-services", jobHandler.ListMyJobs)
			authed.PUT("/:id", jobHandler.UpdateJob)
			authed.DELETE("/:id", jobHandler.DeleteJob)
			authed.GET("/:id/price-advice", jobHandler.GetPriceAdvice)
		}
	}

	geo := rg.Group("/geo")
	{
		geo.GET("/suggest", jobHandler.SuggestAddresses)
	}
}
