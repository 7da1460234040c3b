package handlers

import (
	"net/http"

	"mycraft-api/internal/api/middleware"
	"mycraft-api/internal/models"
	"mycraft-api/internal/services"
	"mycraft-api/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// BookingHandler holds the service dependencies for booking operations
type BookingHandler struct {
	service   services.BookingService
	reviews   services.ReviewService
	validator *validator.Validate
}

// NewBookingHandler creates a new BookingHandler with the given services
func NewBookingHandler(service services.BookingService, reviews services.ReviewService, validate *validator.Validate) *BookingHandler {
	return &BookingHandler{service: service, reviews: reviews, validator: validate}
}

// reviewIDFor looks up the review of a booking, if any. Best-effort; list
// views tolerate a missing review ID.
func (h *BookingHandler) reviewIDFor(c *gin.Context, booking *models.Booking) *uuid.UUID {
	if booking.Status != models.BookingStatusCompleted {
		return nil
	}
	review, err := h.reviews.GetReviewForBooking(c.Request.Context(), booking.ID)
	if err != nil {
		return nil
	}
	return &review.ID
}

func (h *BookingHandler) mapBookings(c *gin.Context, bookings []models.Booking) []dto.BookingResponse {
	responses := make([]dto.BookingResponse, 0, len(bookings))
	for i := range bookings {
		responses = append(responses, mapBookingToResponse(&bookings[i], h.reviewIDFor(c, &bookings[i])))
	}
	return responses
}

// CreateBooking godoc
// @Summary      Book a listing
// @Description  Books a listing for a date. The contractor and price are snapshotted from the listing; the booking starts CONFIRMED.
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        booking body      dto.CreateBookingRequest true  "Booking to create"
// @Success      201  {object}  dto.BookingResponse "Booking created successfully"
// @Failure      400  {object}  map[string]string "Bad Request - Invalid input or past date"
// @Failure      403  {object}  map[string]string "Forbidden - Cannot book own listing"
// @Failure      409  {object}  map[string]string "Conflict - Contractor already booked on that date"
// @Failure      500  {object}  map[string]string "Internal Server Error"
// @Router       /bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	req.CustomerID = userID

	if err := h.validator.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": formatValidationErrors(validationErrors)})
		return
	}

	booking, err := h.service.CreateBooking(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, mapBookingToResponse(booking, nil))
}

// GetBooking godoc
// @Summary      Get a booking by ID
// @Description  Returns a booking. Only the customer or the contractor may see it.
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Booking ID" Format(uuid)
// @Success      200  {object}  dto.BookingResponse "Booking data"
// @Failure      403  {object}  map[string]string "Forbidden"
// @Failure      404  {object}  map[string]string "Booking Not Found"
// @Failure      500  {object}  map[string]string "Internal Server Error"
// @Router       /bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	booking, err := h.service.GetBookingByID(c.Request.Context(), &dto.GetBookingByIDRequest{ID: id, UserID: userID})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapBookingToResponse(booking, h.reviewIDFor(c, booking)))
}

// ListMyBookings godoc
// @Summary      List own bookings
// @Description  Lists bookings where the caller is the customer.
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query     int  false  "Page size"  default(10)
// @Param        offset  query     int  false  "Page offset" default(0)
// @Success      200  {array}   dto.BookingResponse "Bookings as customer"
// @Failure      401  {object}  map[string]string "Unauthorized"
// @Failure      500  {object}  map[string]string "Internal Server Error"
// @Router       /bookings/my [get]
func (h *BookingHandler) ListMyBookings(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.ListBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	req.UserID = userID

	bookings, err := h.service.ListMyBookings(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.mapBookings(c, bookings))
}

// ListMyOrders godoc
// @Summary      List own orders
// @Description  Lists bookings where the caller is the contractor.
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query     int  false  "Page size"  default(10)
// @Param        offset  query     int  false  "Page offset" default(0)
// @Success      200  {array}   dto.BookingResponse "Bookings as contractor"
// @Failure      401  {object}  map[string]string "Unauthorized"
// @Failure      500  {object}  map[string]string "Internal Server Error"
// @Router       /bookings/orders [get]
func (h *BookingHandler) ListMyOrders(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.ListBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	req.UserID = userID

	bookings, err := h.service.ListMyOrders(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.mapBookings(c, bookings))
}

// CompleteBooking godoc
// @Summary      Complete a booking
// @Description  Marks a booking as completed. Contractor only.
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Booking ID" Format(uuid)
// @Success      200  {object}  dto.BookingResponse "Booking completed"
// @Failure      403  {object}  map[string]string "Forbidden - Not the contractor"
// @Failure      404  {object}  map[string]string "Booking Not Found"
// @Failure      409  {object}  map[string]string "Conflict - Booking not active"
// @Failure      500  {object}  map[string]string "Internal Server Error"
// @Router       /bookings/{id}/complete [post]
func (h *BookingHandler) CompleteBooking(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	booking, err := h.service.CompleteBooking(c.Request.Context(), &dto.CompleteBookingRequest{ID: id, UserID: userID})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapBookingToResponse(booking, nil))
}

// CancelBooking godoc
// @Summary      Cancel a booking
// @Description  Cancels a booking. Contractors may cancel anytime; customers need at least 7 days notice.
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Booking ID" Format(uuid)
// @Success      200  {object}  dto.BookingResponse "Booking cancelled"
// @Failure      403  {object}  map[string]string "Forbidden"
// @Failure      404  {object}  map[string]string "Booking Not Found"
// @Failure      409  {object}  map[string]string "Conflict - Booking not active"
// @Failure      422  {object}  map[string]string "Unprocessable - Cancellation window passed"
// @Failure      500  {object}  map[string]string "Internal Server Error"
// @Router       /bookings/{id}/cancel [post]
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	booking, err := h.service.CancelBooking(c.Request.Context(), &dto.CancelBookingRequest{ID: id, UserID: userID})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapBookingToResponse(booking, nil))
}
