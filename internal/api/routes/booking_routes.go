package routes

import (
	"mycraft-api/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes registers all routes related to bookings
func RegisterBookingRoutes(rg *gin.RouterGroup, bookingHandler *handlers.BookingHandler, authMiddleware gin.HandlerFunc) {
	bookings := rg.Group("/bookings")
	bookings.Use(authMiddleware)
	{
		bookings.POST("", bookingHandler.CreateBooking)
		bookings.GET("/my", bookingHandler.ListMyBookings)
		bookings.GET("/orders", bookingHandler.ListMyOrders)
		bookings.GET("/:id", bookingHandler.GetBooking)
		bookings.POST("/:id/complete", bookingHandler.CompleteBooking)
		bookings.POST("/:id/cancel", bookingHandler.CancelBooking)
	}
}
