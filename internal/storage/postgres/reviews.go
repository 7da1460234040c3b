// internal/storage/postgres/reviews.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log"

	"mycraft-api/internal/models"
	"mycraft-api/internal/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const reviewColumns = "id, booking_id, reviewer_id, recipient_id, rating, comment, created_at"

// ReviewRepo implements the storage.ReviewRepository interface using PostgreSQL.
type ReviewRepo struct {
	db Querier
}

// NewReviewRepo creates a new ReviewRepo.
func NewReviewRepo(db *pgxpool.Pool) *ReviewRepo {
	return &ReviewRepo{db: db}
}

// WithTx creates a new ReviewRepo bound to the transaction.
func (r *ReviewRepo) WithTx(tx pgx.Tx) storage.ReviewRepository {
	return &ReviewRepo{db: tx}
}

// Compile-time check to ensure ReviewRepo implements ReviewRepository
var _ storage.ReviewRepository = (*ReviewRepo)(nil)

func scanReview(row pgx.Row) (*models.Review, error) {
	var review models.Review
	err := row.Scan(
		&review.ID,
		&review.BookingID,
		&review.ReviewerID,
		&review.RecipientID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// Create saves a new review. The unique index on booking_id is the backstop
// for the one-review-per-booking rule; violations map to ErrConflict.
func (r *ReviewRepo) Create(ctx context.Context, review *models.Review) (*models.Review, error) {
	query := fmt.Sprintf(`
		INSERT INTO reviews (id, booking_id, reviewer_id, recipient_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING %s
	`, reviewColumns)

	created, err := scanReview(r.db.QueryRow(ctx, query,
		review.ID,
		review.BookingID,
		review.ReviewerID,
		review.RecipientID,
		review.Rating,
		review.Comment,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505": // unique_violation: booking already reviewed
				log.Printf("Error creating review: booking %s already reviewed\n", review.BookingID)
				return nil, fmt.Errorf("review already exists for booking: %w", storage.ErrConflict)
			case "23503": // foreign_key_violation
				return nil, fmt.Errorf("failed to create review: invalid reference: %w", storage.ErrConflict)
			}
		}
		log.Printf("Error creating review: %v\n", err)
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	log.Printf("Review created successfully with ID: %s", created.ID)
	return created, nil
}

// GetByBooking retrieves the review of a booking, if any.
func (r *ReviewRepo) GetByBooking(ctx context.Context, bookingID uuid.UUID) (*models.Review, error) {
	query := fmt.Sprintf(`SELECT %s FROM reviews WHERE booking_id = $1`, reviewColumns)

	review, err := scanReview(r.db.QueryRow(ctx, query, bookingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		log.Printf("Error scanning review for booking %s: %v\n", bookingID, err)
		return nil, fmt.Errorf("failed to get review for booking %s: %w", bookingID, err)
	}

	return review, nil
}

// ListByRecipient retrieves reviews received by a user, newest first.
func (r *ReviewRepo) ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]models.Review, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM reviews
		WHERE recipient_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, reviewColumns)

	rows, err := r.db.Query(ctx, query, recipientID, limit, offset)
	if err != nil {
		log.Printf("Error querying reviews for recipient %s: %v\n", recipientID, err)
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	reviews, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[models.Review])
	if err != nil {
		log.Printf("Error scanning reviews for recipient %s: %v\n", recipientID, err)
		return nil, fmt.Errorf("failed to scan reviews: %w", err)
	}

	if reviews == nil {
		reviews = []models.Review{} // Return empty slice, not nil
	}

	return reviews, nil
}

// RatingSummary computes the recipient's aggregate rating on read; nothing is
// cached or stored.
func (r *ReviewRepo) RatingSummary(ctx context.Context, recipientID uuid.UUID) (*models.RatingSummary, error) {
	query := `
		SELECT COUNT(*), COALESCE(AVG(rating), 0)
		FROM reviews
		WHERE recipient_id = $1
	`
	var summary models.RatingSummary
	err := r.db.QueryRow(ctx, query, recipientID).Scan(&summary.ReviewCount, &summary.AverageRating)
	if err != nil {
		log.Printf("Error computing rating summary for %s: %v\n", recipientID, err)
		return nil, fmt.Errorf("failed to compute rating summary: %w", err)
	}

	return &summary, nil
}
