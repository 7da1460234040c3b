package dto

import (
	"time"

	"github.com/google/uuid"
)

// --- Review Request DTOs ---

// CreateReviewRequest defines the structure for reviewing a completed booking.
type CreateReviewRequest struct {
	BookingID  uuid.UUID `json:"booking_id" validate:"required"`
	Rating     int       `json:"rating" validate:"required,gte=1,lte=5"`
	Comment    *string   `json:"comment,omitempty" validate:"omitempty,max=1000"`
	ReviewerID uuid.UUID `json:"-"` // Set internally by handler from auth context
}

// ListReviewsRequest lists reviews received by a user.
type ListReviewsRequest struct {
	RecipientID uuid.UUID `json:"-" validate:"required"`
	Limit       int       `form:"limit,default=10"`
	Offset      int       `form:"offset,default=0"`
}

// --- Review Response DTOs ---

// ReviewResponse defines the standard review data returned to the client.
type ReviewResponse struct {
	ID           uuid.UUID `json:"id"`
	BookingID    uuid.UUID `json:"booking_id"`
	ReviewerID   uuid.UUID `json:"reviewer_id"`
	ReviewerName string    `json:"reviewer_name,omitempty"`
	RecipientID  uuid.UUID `json:"recipient_id"`
	Rating       int       `json:"rating"`
	Comment      *string   `json:"comment,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ReviewListResponse pairs the reviews with the recipient's aggregate rating.
type ReviewListResponse struct {
	Reviews       []ReviewResponse `json:"reviews"`
	AverageRating float64          `json:"average_rating"`
	ReviewCount   int              `json:"review_count"`
}
