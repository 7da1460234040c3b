package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"mycraft-api/internal/models"
	"mycraft-api/internal/storage"
	"mycraft-api/internal/transport/dto"

	"github.com/google/uuid"
)

type reviewService struct {
	reviewRepo  storage.ReviewRepository
	bookingRepo storage.BookingRepository
	db          storage.TxManager
}

// NewReviewService creates a new instance of ReviewService.
func NewReviewService(reviewRepo storage.ReviewRepository, bookingRepo storage.BookingRepository, db storage.TxManager) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		bookingRepo: bookingRepo,
		db:          db,
	}
}

// CreateReview rates a completed booking. Only the customer may review, the
// booking must be COMPLETED, and the unique index on booking_id enforces one
// review per booking even under concurrent submissions.
func (s *reviewService) CreateReview(ctx context.Context, req *dto.CreateReviewRequest) (*models.Review, error) {
	// --- Transaction Start ---
	tx, err := s.db.Begin(ctx)
	if err != nil {
		log.Printf("CreateReview: Error beginning transaction: %v", err)
		return nil, fmt.Errorf("internal error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	txBookingRepo := s.bookingRepo.WithTx(tx)
	txReviewRepo := s.reviewRepo.WithTx(tx)

	booking, err := txBookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, mapRepoError(err, "fetching booking for review")
	}

	if booking.CustomerID != req.ReviewerID {
		log.Printf("CreateReview: Forbidden attempt by user %s on booking %s", req.ReviewerID, req.BookingID)
		return nil, ErrForbidden
	}
	if booking.Status != models.BookingStatusCompleted {
		log.Printf("CreateReview: Attempt to review booking %s in status %s", req.BookingID, booking.Status)
		return nil, ErrInvalidState
	}

	review, err := txReviewRepo.Create(ctx, &models.Review{
		ID:          uuid.New(),
		BookingID:   booking.ID,
		ReviewerID:  req.ReviewerID,
		RecipientID: booking.ContractorID,
		Rating:      req.Rating,
		Comment:     req.Comment,
	})
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, fmt.Errorf("%w: booking has already been reviewed", ErrConflict)
		}
		return nil, mapRepoError(err, "creating review")
	}

	if err := tx.Commit(ctx); err != nil {
		log.Printf("CreateReview: Error committing transaction: %v", err)
		return nil, fmt.Errorf("internal error committing review: %w", err)
	}
	// --- End Transaction ---

	return review, nil
}

func (s *reviewService) GetReviewForBooking(ctx context.Context, bookingID uuid.UUID) (*models.Review, error) {
	review, err := s.reviewRepo.GetByBooking(ctx, bookingID)
	if err != nil {
		return nil, mapRepoError(err, "fetching review for booking")
	}
	return review, nil
}

func (s *reviewService) ListReviews(ctx context.Context, req *dto.ListReviewsRequest) ([]models.Review, *models.RatingSummary, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	reviews, err := s.reviewRepo.ListByRecipient(ctx, req.RecipientID, limit, req.Offset)
	if err != nil {
		return nil, nil, mapRepoError(err, "listing reviews")
	}

	summary, err := s.reviewRepo.RatingSummary(ctx, req.RecipientID)
	if err != nil {
		return nil, nil, mapRepoError(err, "computing rating summary")
	}

	return reviews, summary, nil
}
