package dto

import (
	"time"

	"github.com/google/uuid"
)

// --- Booking Request DTOs ---

// CreateBookingRequest defines the structure for booking a job on a date.
// Contractor and price are derived from the job server-side.
type CreateBookingRequest struct {
	ServiceID     uuid.UUID `json:"service_id" validate:"required"`
	ScheduledDate string    `json:"scheduled_date" validate:"required,datetime=2006-01-02"`
	CustomerID    uuid.UUID `json:"-"` // Set internally by handler from auth context
}

// GetBookingByIDRequest defines the structure for getting a booking by ID.
type GetBookingByIDRequest struct {
	ID     uuid.UUID `json:"-" validate:"required"`
	UserID uuid.UUID `json:"-"` // Set internally by handler from auth context
}

// ListBookingsRequest defines parameters for listing the caller's bookings,
// either as customer (my bookings) or contractor (my orders).
type ListBookingsRequest struct {
	UserID uuid.UUID `json:"-" validate:"required"`
	Limit  int       `form:"limit,default=10"`
	Offset int       `form:"offset,default=0"`
}

// CompleteBookingRequest marks a booking completed. Contractor only.
type CompleteBookingRequest struct {
	ID     uuid.UUID `json:"-" validate:"required"`
	UserID uuid.UUID `json:"-"` // Set internally by handler from auth context
}

// CancelBookingRequest cancels a booking. Customers are bound by the 7-day
// rule; contractors may cancel anytime.
type CancelBookingRequest struct {
	ID     uuid.UUID `json:"-" validate:"required"`
	UserID uuid.UUID `json:"-"` // Set internally by handler from auth context
}

// --- Booking Response DTOs ---

// BookingResponse defines the standard booking data returned to the client.
type BookingResponse struct {
	ID            uuid.UUID    `json:"id"`
	Service       *JobResponse `json:"service,omitempty"`
	ServiceID     uuid.UUID    `json:"service_id"`
	CustomerID    uuid.UUID    `json:"customer_id"`
	CustomerName  string       `json:"customer_name,omitempty"`
	ContractorID  uuid.UUID    `json:"contractor_id"`
	Price         float64      `json:"price"`
	Status        string       `json:"status"`
	ScheduledDate *string      `json:"scheduled_date,omitempty"`
	ReviewID      *uuid.UUID   `json:"review_id,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}
