package services

import (
	"context"
	"time"

	"mycraft-api/internal/geo"
	"mycraft-api/internal/models"
	"mycraft-api/internal/transport/dto"
	"mycraft-api/internal/ws"

	"github.com/google/uuid"
)

// Notifier pushes events to connected clients. *ws.Hub satisfies it.
type Notifier interface {
	BroadcastToUsers(userIDs []uuid.UUID, ev ws.Event)
}

// AccountBundle pairs a user with its profile.
type AccountBundle struct {
	User    *models.User
	Profile *models.Profile
}

// PublicAccount is what other users see of an account.
type PublicAccount struct {
	User    *models.User
	Profile *models.Profile
	Rating  *models.RatingSummary
}

// ConversationSummary pairs a conversation with its latest message for list
// views.
type ConversationSummary struct {
	Conversation models.Conversation
	LastMessage  *models.Message
}

// MessageView pairs a message with the offer it wraps, if any.
type MessageView struct {
	Message models.Message
	Offer   *models.Offer
}

// UserService defines the interface for account-related business logic.
type UserService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*AccountBundle, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*AccountBundle, string, error)
	GetMe(ctx context.Context, userID uuid.UUID) (*AccountBundle, error)
	GetPublicProfile(ctx context.Context, userID uuid.UUID) (*PublicAccount, error)
	UpdateProfile(ctx context.Context, req *dto.UpdateProfileRequest) (*models.Profile, error)
}

// JobService defines the interface for listing-related business logic.
type JobService interface {
	CreateJob(ctx context.Context, req *dto.CreateJobRequest) (*models.Job, error)
	GetJobByID(ctx context.Context, req *dto.GetJobByIDRequest) (*models.Job, error)
	SearchJobs(ctx context.Context, req *dto.SearchJobsRequest) ([]models.Job, error)
	ListMyJobs(ctx context.Context, req *dto.ListMyJobsRequest) ([]models.Job, error)
	UpdateJob(ctx context.Context, req *dto.UpdateJobRequest) (*models.Job, error)
	DeleteJob(ctx context.Context, req *dto.DeleteJobRequest) error
	// Availability returns the dates on which the job's contractor is booked.
	Availability(ctx context.Context, req *dto.JobAvailabilityRequest) ([]time.Time, error)
	PriceAdvice(ctx context.Context, req *dto.PriceAdviceRequest) (string, error)
	SuggestAddresses(ctx context.Context, req *dto.SuggestAddressRequest) ([]geo.Suggestion, error)
}

// BookingService defines the interface for booking-related business logic.
type BookingService interface {
	CreateBooking(ctx context.Context, req *dto.CreateBookingRequest) (*models.Booking, error)
	GetBookingByID(ctx context.Context, req *dto.GetBookingByIDRequest) (*models.Booking, error)
	// ListMyBookings lists bookings where the caller is the customer.
	ListMyBookings(ctx context.Context, req *dto.ListBookingsRequest) ([]models.Booking, error)
	// ListMyOrders lists bookings where the caller is the contractor.
	ListMyOrders(ctx context.Context, req *dto.ListBookingsRequest) ([]models.Booking, error)
	CompleteBooking(ctx context.Context, req *dto.CompleteBookingRequest) (*models.Booking, error)
	CancelBooking(ctx context.Context, req *dto.CancelBookingRequest) (*models.Booking, error)
}

// ChatService defines the interface for conversation business logic.
type ChatService interface {
	StartConversation(ctx context.Context, req *dto.StartConversationRequest) (*models.Conversation, *models.Message, error)
	GetConversation(ctx context.Context, req *dto.GetConversationRequest) (*models.Conversation, []MessageView, error)
	ListConversations(ctx context.Context, req *dto.ListConversationsRequest) ([]ConversationSummary, error)
	PostMessage(ctx context.Context, req *dto.PostMessageRequest) (*models.Message, error)
	SuggestReply(ctx context.Context, req *dto.SuggestReplyRequest) (string, error)
}

// OfferService defines the interface for offer business logic.
type OfferService interface {
	CreateOffer(ctx context.Context, req *dto.CreateOfferRequest) (*models.Offer, *models.Message, error)
	// AcceptOffer accepts a pending offer and creates the booking it implies,
	// atomically.
	AcceptOffer(ctx context.Context, req *dto.AcceptOfferRequest) (*models.Offer, *models.Booking, error)
	RejectOffer(ctx context.Context, req *dto.RejectOfferRequest) (*models.Offer, error)
}

// ReviewService defines the interface for review business logic.
type ReviewService interface {
	CreateReview(ctx context.Context, req *dto.CreateReviewRequest) (*models.Review, error)
	ListReviews(ctx context.Context, req *dto.ListReviewsRequest) ([]models.Review, *models.RatingSummary, error)
	// GetReviewForBooking returns the review of a booking, or ErrNotFound.
	GetReviewForBooking(ctx context.Context, bookingID uuid.UUID) (*models.Review, error)
}
