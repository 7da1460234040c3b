// internal/storage/postgres/offers.go
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

const offerColumns = "id, conversation_id, creator_id, price, description, status, created_at, updated_at"

// OfferRepo implements the storage.OfferRepository interface using PostgreSQL.
type OfferRepo struct {
	db Querier
}

// NewOfferRepo creates a new OfferRepo.
func NewOfferRepo(db *pgxpool.Pool) *OfferRepo {
	return &OfferRepo{db: db}
}

// WithTx creates a new OfferRepo bound to the transaction.
func (r *OfferRepo) WithTx(tx pgx.Tx) storage.OfferRepository {
	return &OfferRepo{db: tx}
}

// Compile-time check to ensure OfferRepo implements OfferRepository
var _ storage.OfferRepository = (*OfferRepo)(nil)

func scanOffer(row pgx.Row) (*models.Offer, error) {
	var offer models.Offer
	err := row.Scan(
		&offer.ID,
		&offer.ConversationID,
		&offer.CreatorID,
		&offer.Price,
		&offer.Description,
		&offer.Status,
		&offer.CreatedAt,
		&offer.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

// Create saves a new offer.
func (r *OfferRepo) Create(ctx context.Context, offer *models.Offer) (*models.Offer, error) {
	query := fmt.Sprintf(`
		INSERT INTO offers (id, conversation_id, creator_id, price, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING %s
	`, offerColumns)

	created, err := scanOffer(r.db.QueryRow(ctx, query,
		offer.ID,
		offer.ConversationID,
		offer.CreatorID,
		offer.Price,
		offer.Description,
		offer.Status,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			return nil, fmt.Errorf("failed to create offer: invalid conversation: %w", storage.ErrConflict)
		}
		log.Printf("Error creating offer: %v\n", err)
		return nil, fmt.Errorf("failed to create offer: %w", err)
	}

	log.Printf("Offer created successfully with ID: %s", created.ID)
	return created, nil
}

// GetByID retrieves a specific offer by its ID.
func (r *OfferRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	query := fmt.Sprintf(`SELECT %s FROM offers WHERE id = $1`, offerColumns)

	offer, err := scanOffer(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Printf("Offer not found with ID: %s\n", id)
			return nil, storage.ErrNotFound
		}
		log.Printf("Error scanning offer by ID %s: %v\n", id, err)
		return nil, fmt.Errorf("failed to get offer by ID %s: %w", id, err)
	}

	return offer, nil
}

// UpdateStatus transitions the offer out of PENDING. The status guard in the
// WHERE clause makes concurrent accept/reject races resolve to exactly one
// winner; the loser sees ErrConflict.
func (r *OfferRepo) UpdateStatus(ctx context.Context, id uuid.UUID, to models.OfferStatus) (*models.Offer, error) {
	query := fmt.Sprintf(`
		UPDATE offers
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
		RETURNING %s
	`, offerColumns)

	offer, err := scanOffer(r.db.QueryRow(ctx, query, to, id, models.OfferStatusPending))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := r.GetByID(ctx, id); errors.Is(getErr, storage.ErrNotFound) {
				return nil, storage.ErrNotFound
			}
			log.Printf("Offer %s is no longer pending, cannot transition to %s\n", id, to)
			return nil, storage.ErrConflict
		}
		log.Printf("Error updating offer status %s: %v\n", id, err)
		return nil, fmt.Errorf("failed to update offer %s status: %w", id, err)
	}

	log.Printf("Offer %s transitioned to %s", offer.ID, offer.Status)
	return offer, nil
}
