package handlers

import (
	"net/http"

	"mycraft-api/internal/api/middleware"
	"mycraft-api/internal/services"
	"mycraft-api/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// OfferHandler holds the service dependency for offer operations
type OfferHandler struct {
	service   services.OfferService
	validator *validator.Validate
}

// NewOfferHandler creates a new OfferHandler with the given service
func NewOfferHandler(service services.OfferService, validate *validator.Validate) *OfferHandler {
	return &OfferHandler{service: service, validator: validate}
}

// CreateOffer godoc
// @Summary      Make an offer
// @Description  Posts a price proposal into a conversation, wrapped in a chat message. Only the contractor side may make offers.
// @Tags         offers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        offer body      dto.CreateOfferRequest true  "Offer to create"
// @Success      201  {object}  dto.OfferResponse "Offer created"
// @Failure      400  {object}  map[string]string "Bad Request - Invalid input"
// @Failure      403  {object}  map[string]string "Forbidden - Not the contractor"
// @Failure      404  {object}  map[string]string "Conversation Not Found"
// @Failure      500  {object}  map[string]string "Internal Server Error"
// @Router       /offers [post]
func (h *OfferHandler) CreateOffer(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	req.CreatorID = userID

	if err := h.validator.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": formatValidationErrors(validationErrors)})
		return
	}

	offer, _, err := h.service.CreateOffer(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, mapOfferToResponse(offer))
}

// AcceptOffer godoc
// @Summary      Accept an offer
// @Description  Accepts a pending offer and creates a CONFIRMED booking at the offered price, atomically. Only the conversation partner of the offer's creator may accept.
// @Tags         offers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      string                 true   "Offer ID" Format(uuid)
// @Param        request body      dto.AcceptOfferRequest false  "Optional scheduled date"
// @Success      200  {object}  dto.AcceptOfferResponse "Offer accepted with the resulting booking"
// @Failure      400  {object}  map[string]string "Bad Request - Invalid date"
// @Failure      403  {object}  map[string]string "Forbidden - Not the counterparty"
// @Failure      404  {object}  map[string]string "Offer Not Found"
// @Failure      409  {object}  map[string]string "Conflict - Offer no longer pending"
// @Failure      500  {object}  map[string]string "Internal Server Error"
// @Router       /offers/{id}/accept [post]
func (h *OfferHandler) AcceptOffer(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.AcceptOfferRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}
	}
	req.OfferID = id
	req.UserID = userID

	if err := h.validator.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": formatValidationErrors(validationErrors)})
		return
	}

	offer, booking, err := h.service.AcceptOffer(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AcceptOfferResponse{
		Offer:   mapOfferToResponse(offer),
		Booking: mapBookingToResponse(booking, nil),
	})
}

// RejectOffer godoc
// @Summary      Reject an offer
// @Description  Rejects a pending offer. Rejection is terminal; a new offer must be made instead.
// @Tags         offers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Offer ID" Format(uuid)
// @Success      200  {object}  dto.OfferResponse "Offer rejected"
// @Failure      403  {object}  map[string]string "Forbidden - Not the counterparty"
// @Failure      404  {object}  map[string]string "Offer Not Found"
// @Failure      409  {object}  map[string]string "Conflict - Offer no longer pending"
// @Failure      500  {object}  map[string]string "Internal Server Error"
// @Router       /offers/{id}/reject [post]
func (h *OfferHandler) RejectOffer(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	offer, err := h.service.RejectOffer(c.Request.Context(), &dto.RejectOfferRequest{OfferID: id, UserID: userID})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapOfferToResponse(offer))
}
