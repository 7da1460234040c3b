package handlers

import (
	"net/http"

	"mycraft-api/internal/api/middleware"
	"mycraft-api/internal/services"
	"mycraft-api/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ReviewHandler holds the service dependency for review operations
type ReviewHandler struct {
	service   services.ReviewService
	validator *validator.Validate
}

// NewReviewHandler creates a new ReviewHandler with the given service
func NewReviewHandler(service services.ReviewService, validate *validator.Validate) *ReviewHandler {
	return &ReviewHandler{service: service, validator: validate}
}

// CreateReview godoc
// @Summary      Review a booking
// @Description  Rates a completed booking with 1-5 stars. Customer only, one review per booking.
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        review body      dto.CreateReviewRequest true  "Review to create"
// @Success      201  {object}  dto.ReviewResponse "Review created"
// @Failure      400  {object}  map[string]string "Bad Request - Invalid input"
// @Failure      403  {object}  map[string]string "Forbidden - Not the customer"
// @Failure      404  {object}  map[string]string "Booking Not Found"
// @Failure      409  {object}  map[string]string "Conflict - Booking not completed or already reviewed"
// @Failure      500  {object}  map[string]string "Internal Server Error"
// @Router       /reviews [post]
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	req.ReviewerID = userID

	if err := h.validator.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": formatValidationErrors(validationErrors)})
		return
	}

	review, err := h.service.CreateReview(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, mapReviewToResponse(review))
}

// ListReviews godoc
// @Summary      List reviews of a user
// @Description  Lists the reviews a user has received, newest first, with their aggregate rating.
// @Tags         reviews
// @Produce      json
// @Param        id      path      string  true   "User ID" Format(uuid)
// @Param        limit   query     int     false  "Page size"  default(10)
// @Param        offset  query     int     false  "Page offset" default(0)
// @Success      200  {object}  dto.ReviewListResponse "Reviews with aggregate rating"
// @Failure      500  {object}  map[string]string "Internal Server Error"
// @Router       /users/{id}/reviews [get]
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.ListReviewsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	req.RecipientID = id

	reviews, summary, err := h.service.ListReviews(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := dto.ReviewListResponse{
		Reviews:       make([]dto.ReviewResponse, 0, len(reviews)),
		AverageRating: summary.AverageRating,
		ReviewCount:   summary.ReviewCount,
	}
	for i := range reviews {
		resp.Reviews = append(resp.Reviews, mapReviewToResponse(&reviews[i]))
	}
	c.JSON(http.StatusOK, resp)
}
