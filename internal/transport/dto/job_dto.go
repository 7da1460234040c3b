package dto

import (
	"time"

	"mycraft-api/internal/models"

	"github.com/google/uuid"
)

// --- Job Request DTOs ---

// CreateJobRequest defines the structure for creating a new listing.
type CreateJobRequest struct {
	Title        string    `json:"title" validate:"required,max=100"`
	Description  string    `json:"description" validate:"required"`
	Trade        string    `json:"trade" validate:"required,oneof=PLUMBER ELECTRICIAN PAINTER CARPENTER GARDENER OTHER"`
	ZipCode      string    `json:"zip_code" validate:"required,max=5"`
	City         string    `json:"city" validate:"omitempty,max=100"`
	Lat          *float64  `json:"lat,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Lng          *float64  `json:"lng,omitempty" validate:"omitempty,gte=-180,lte=180"`
	Price        *float64  `json:"price,omitempty" validate:"omitempty,gt=0"`
	ContractorID uuid.UUID `json:"-"` // Set internally by handler from auth context
}

// GetJobByIDRequest defines the structure for getting a job by ID.
type GetJobByIDRequest struct {
	ID uuid.UUID `json:"-" validate:"required"`
}

// SearchJobsRequest defines parameters for the public job search. When a geo
// point and radius are both present the city/zip text filter is suppressed
// and results are ordered by ascending distance.
type SearchJobsRequest struct {
	Search string   `form:"search"`
	Trade  string   `form:"trade" validate:"omitempty,oneof=PLUMBER ELECTRICIAN PAINTER CARPENTER GARDENER OTHER"`
	City   string   `form:"city"`
	Lat    *float64 `form:"lat" validate:"omitempty,gte=-90,lte=90"`
	Lng    *float64 `form:"lng" validate:"omitempty,gte=-180,lte=180"`
	Radius *float64 `form:"radius" validate:"omitempty,gt=0"`
	Limit  int      `form:"limit,default=10"`
	Offset int      `form:"offset,default=0"`
}

// ListMyJobsRequest defines parameters for listing the caller's own listings,
// regardless of status.
type ListMyJobsRequest struct {
	ContractorID uuid.UUID `json:"-" validate:"required"`
	Limit        int       `form:"limit,default=10"`
	Offset       int       `form:"offset,default=0"`
}

// UpdateJobRequest defines the structure for updating a listing. Only the
// owning contractor may update; nil fields are left unchanged.
type UpdateJobRequest struct {
	ID          uuid.UUID         `json:"-"` // From URL path
	UserID      uuid.UUID         `json:"-"` // Set internally by handler from auth context
	Title       *string           `json:"title,omitempty" validate:"omitempty,max=100"`
	Description *string           `json:"description,omitempty"`
	Trade       *string           `json:"trade,omitempty" validate:"omitempty,oneof=PLUMBER ELECTRICIAN PAINTER CARPENTER GARDENER OTHER"`
	ZipCode     *string           `json:"zip_code,omitempty" validate:"omitempty,max=5"`
	City        *string           `json:"city,omitempty" validate:"omitempty,max=100"`
	Lat         *float64          `json:"lat,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Lng         *float64          `json:"lng,omitempty" validate:"omitempty,gte=-180,lte=180"`
	Price       *float64          `json:"price,omitempty" validate:"omitempty,gt=0"`
	Status      *models.JobStatus `json:"status,omitempty" validate:"omitempty,oneof=OPEN PAUSED"`
}

// DeleteJobRequest defines the structure for deleting a listing.
type DeleteJobRequest struct {
	ID     uuid.UUID `json:"-" validate:"required"`
	UserID uuid.UUID `json:"-"` // Set internally by handler from auth context
}

// JobAvailabilityRequest asks for the busy dates of the job's contractor.
type JobAvailabilityRequest struct {
	JobID uuid.UUID `json:"-" validate:"required"`
}

// PriceAdviceRequest asks the AI for a price estimate for a job.
type PriceAdviceRequest struct {
	JobID uuid.UUID `json:"-" validate:"required"`
}

// SuggestAddressRequest defines parameters for address autocompletion.
type SuggestAddressRequest struct {
	Query string `form:"q"`
}

// --- Job Response DTOs ---

// JobResponse defines the standard job data returned to the client.
type JobResponse struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Trade          string    `json:"trade"`
	TradeLabel     string    `json:"trade_label"`
	ZipCode        string    `json:"zip_code"`
	City           string    `json:"city"`
	Lat            *float64  `json:"lat,omitempty"`
	Lng            *float64  `json:"lng,omitempty"`
	Price          *float64  `json:"price,omitempty"`
	Status         string    `json:"status"`
	ContractorID   uuid.UUID `json:"contractor_id"`
	ContractorName string    `json:"contractor_name,omitempty"`
	DistanceKM     *float64  `json:"distance_km,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// AddressSuggestion is one geocoder candidate for address autocompletion.
type AddressSuggestion struct {
	DisplayName string  `json:"display_name"`
	Road        string  `json:"road"`
	HouseNumber string  `json:"house_number"`
	ZipCode     string  `json:"zip_code"`
	City        string  `json:"city"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}

// PriceAdviceResponse carries the AI price estimate text.
type PriceAdviceResponse struct {
	Advice string `json:"advice"`
}
