package dto

import (
	"time"

	"github.com/google/uuid"
)

// --- Offer Request DTOs ---

// CreateOfferRequest defines the structure for a craftsman's in-chat price
// proposal. The offer is wrapped in a chat message.
type CreateOfferRequest struct {
	ConversationID uuid.UUID `json:"conversation_id" validate:"required"`
	Price          float64   `json:"price" validate:"required,gt=0"`
	Description    *string   `json:"description,omitempty"`
	CreatorID      uuid.UUID `json:"-"` // Set internally by handler from auth context
}

// AcceptOfferRequest accepts an offer, producing a booking.
type AcceptOfferRequest struct {
	OfferID       uuid.UUID `json:"-" validate:"required"`
	UserID        uuid.UUID `json:"-"` // Set internally by handler from auth context
	ScheduledDate *string   `json:"scheduled_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// RejectOfferRequest rejects an offer.
type RejectOfferRequest struct {
	OfferID uuid.UUID `json:"-" validate:"required"`
	UserID  uuid.UUID `json:"-"` // Set internally by handler from auth context
}

// --- Offer Response DTOs ---

// OfferResponse defines the standard offer data returned to the client.
type OfferResponse struct {
	ID             uuid.UUID `json:"id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	CreatorID      uuid.UUID `json:"creator_id"`
	Price          float64   `json:"price"`
	Description    *string   `json:"description,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// AcceptOfferResponse returns the accepted offer together with the booking it
// produced.
type AcceptOfferResponse struct {
	Offer   OfferResponse   `json:"offer"`
	Booking BookingResponse `json:"booking"`
}
