package storage

import (
	"context"
	"time"

	"mycraft-api/internal/models"
	"mycraft-api/internal/transport/dto"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TxManager starts database transactions. *pgxpool.Pool satisfies it.
type TxManager interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// GeoPoint is a WGS84 coordinate.
type GeoPoint struct {
	Lat float64
	Lng float64
}

// JobSearchParams carries the fully resolved search filters. When Point and
// RadiusKM are both set the repository restricts to the radius, orders by
// ascending distance, and ignores LocationText.
type JobSearchParams struct {
	Query        string
	Trade        *models.Trade
	TradeMatches []models.Trade // Trades whose label matches Query
	LocationText string
	Point        *GeoPoint
	RadiusKM     *float64
	Limit        int
	Offset       int
}

// UserRepository defines the interface for user and profile data operations.
type UserRepository interface {
	WithTx(tx pgx.Tx) UserRepository
	// Create inserts the user and its profile together.
	Create(ctx context.Context, user *models.User, profile *models.Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	UpdateProfile(ctx context.Context, req *dto.UpdateProfileRequest) (*models.Profile, error)
}

// JobRepository defines the interface for job listing data operations.
type JobRepository interface {
	WithTx(tx pgx.Tx) JobRepository
	Create(ctx context.Context, job *models.Job) (*models.Job, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
	Search(ctx context.Context, params *JobSearchParams) ([]models.Job, error)
	ListByContractor(ctx context.Context, contractorID uuid.UUID, limit, offset int) ([]models.Job, error)
	Update(ctx context.Context, req *dto.UpdateJobRequest) (*models.Job, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// BookingRepository defines the interface for booking data operations.
type BookingRepository interface {
	WithTx(tx pgx.Tx) BookingRepository
	Create(ctx context.Context, booking *models.Booking) (*models.Booking, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]models.Booking, error)
	ListByContractor(ctx context.Context, contractorID uuid.UUID, limit, offset int) ([]models.Booking, error)
	// UpdateStatus transitions the booking to the given status only when its
	// current status is one of from; otherwise it returns ErrConflict.
	UpdateStatus(ctx context.Context, id uuid.UUID, from []models.BookingStatus, to models.BookingStatus) (*models.Booking, error)
	// ExistsActiveOnDate reports whether the contractor has a PENDING or
	// CONFIRMED booking on the given date.
	ExistsActiveOnDate(ctx context.Context, contractorID uuid.UUID, date time.Time) (bool, error)
	// BusyDates returns the distinct, ascending dates on/after from with a
	// PENDING or CONFIRMED booking for the contractor.
	BusyDates(ctx context.Context, contractorID uuid.UUID, from time.Time) ([]time.Time, error)
}

// ConversationRepository defines the interface for chat data operations.
type ConversationRepository interface {
	WithTx(tx pgx.Tx) ConversationRepository
	Create(ctx context.Context, conv *models.Conversation) (*models.Conversation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error)
	// GetByJobAndCustomer returns the conversation for the (job, customer)
	// pair, or ErrNotFound.
	GetByJobAndCustomer(ctx context.Context, jobID, customerID uuid.UUID) (*models.Conversation, error)
	ListByParticipant(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Conversation, error)
	Touch(ctx context.Context, id uuid.UUID) error
	CreateMessage(ctx context.Context, msg *models.Message) (*models.Message, error)
	ListMessages(ctx context.Context, conversationID uuid.UUID) ([]models.Message, error)
	LastMessage(ctx context.Context, conversationID uuid.UUID) (*models.Message, error)
}

// OfferRepository defines the interface for offer data operations.
type OfferRepository interface {
	WithTx(tx pgx.Tx) OfferRepository
	Create(ctx context.Context, offer *models.Offer) (*models.Offer, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Offer, error)
	// UpdateStatus transitions the offer from PENDING to the given status. It
	// returns ErrConflict when the offer is no longer PENDING, so concurrent
	// accept/reject races resolve to exactly one winner.
	UpdateStatus(ctx context.Context, id uuid.UUID, to models.OfferStatus) (*models.Offer, error)
}

// ReviewRepository defines the interface for review data operations.
type ReviewRepository interface {
	WithTx(tx pgx.Tx) ReviewRepository
	Create(ctx context.Context, review *models.Review) (*models.Review, error)
	GetByBooking(ctx context.Context, bookingID uuid.UUID) (*models.Review, error)
	ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]models.Review, error)
	// RatingSummary computes the recipient's average rating and review count.
	RatingSummary(ctx context.Context, recipientID uuid.UUID) (*models.RatingSummary, error)
}
