// internal/api/routes/routes.go
package routes

import (
	"log"

	"mycraft-api/internal/api/handlers"
	"mycraft-api/internal/api/middleware"
	"mycraft-api/internal/app"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up the API routes by calling resource-specific registration functions
func RegisterRoutes(router *gin.Engine, app *app.Application) {

	// --- Base API Group ---
	apiV1 := router.Group("/api/v1")

	//Create handlers
	userHandler := handlers.NewUserHandler(app.UserService, app.Validator)
	jobHandler := handlers.NewJobHandler(app.JobService, app.Validator)
	bookingHandler := handlers.NewBookingHandler(app.BookingService, app.ReviewService, app.Validator)
	conversationHandler := handlers.NewConversationHandler(app.ChatService, app.Validator)
	offerHandler := handlers.NewOfferHandler(app.OfferService, app.Validator)
	reviewHandler := handlers.NewReviewHandler(app.ReviewService, app.Validator)
	wsHandler := handlers.NewWSHandler(app.Hub, app.Config.JWT.Secret)

	// --- Middleware ---
	authMiddleware := middleware.JWTAuthMiddleware(app.Config.JWT.Secret)

	// --- Register Resource Routes ---
	RegisterUserRoutes(apiV1, userHandler, reviewHandler, authMiddleware)
	RegisterJobRoutes(apiV1, jobHandler, authMiddleware)
	RegisterBookingRoutes(apiV1, bookingHandler, authMiddleware)
	RegisterConversationRoutes(apiV1, conversationHandler, authMiddleware)
	RegisterOfferRoutes(apiV1, offerHandler, authMiddleware)
	RegisterReviewRoutes(apiV1, reviewHandler, authMiddleware)

	// --- Push Notifications ---
	apiV1.GET("/ws", wsHandler.Handle)

	// --- Health Check ---
	router.GET("/health", handlers.HealthCheck)

	log.Println("Configuring Swagger UI handler")
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
