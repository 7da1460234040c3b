// internal/storage/postgres/bookings.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"mycraft-api/internal/models"
	"mycraft-api/internal/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookingColumns = "id, service_id, customer_id, contractor_id, price, status, scheduled_date, created_at, updated_at"

// BookingRepo implements the storage.BookingRepository interface using PostgreSQL.
type BookingRepo struct {
	db Querier
}

// NewBookingRepo creates a new BookingRepo.
func NewBookingRepo(db *pgxpool.Pool) *BookingRepo {
	return &BookingRepo{db: db}
}

// WithTx creates a new BookingRepo bound to the transaction.
func (r *BookingRepo) WithTx(tx pgx.Tx) storage.BookingRepository {
	return &BookingRepo{db: tx}
}

// Compile-time check to ensure BookingRepo implements BookingRepository
var _ storage.BookingRepository = (*BookingRepo)(nil)

func scanBooking(row pgx.Row) (*models.Booking, error) {
	var booking models.Booking
	err := row.Scan(
		&booking.ID,
		&booking.ServiceID,
		&booking.CustomerID,
		&booking.ContractorID,
		&booking.Price,
		&booking.Status,
		&booking.ScheduledDate,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// Create saves a new booking. The partial unique index on
// (contractor_id, scheduled_date) over non-cancelled rows backstops the
// application-level availability check; a violation maps to ErrConflict.
func (r *BookingRepo) Create(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	query := fmt.Sprintf(`
		INSERT INTO bookings (id, service_id, customer_id, contractor_id, price, status, scheduled_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING %s
	`, bookingColumns)

	row := r.db.QueryRow(ctx, query,
		booking.ID,
		booking.ServiceID,
		booking.CustomerID,
		booking.ContractorID,
		booking.Price,
		booking.Status,
		booking.ScheduledDate,
	)

	created, err := scanBooking(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505": // unique_violation: contractor already booked that date
				log.Printf("Error creating booking: contractor %s busy on %v\n", booking.ContractorID, booking.ScheduledDate)
				return nil, fmt.Errorf("contractor already booked on that date: %w", storage.ErrConflict)
			case "23503": // foreign_key_violation
				return nil, fmt.Errorf("failed to create booking: invalid reference: %w", storage.ErrConflict)
			}
		}
		log.Printf("Error creating booking: %v\n", err)
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	log.Printf("Booking created successfully with ID: %s", created.ID)
	return created, nil
}

// GetByID retrieves a specific booking by its ID.
func (r *BookingRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE id = $1`, bookingColumns)

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Printf("Booking not found with ID: %s\n", id)
			return nil, storage.ErrNotFound
		}
		log.Printf("Error scanning booking by ID %s: %v\n", id, err)
		return nil, fmt.Errorf("failed to get booking by ID %s: %w", id, err)
	}

	return booking, nil
}

func (r *BookingRepo) list(ctx context.Context, column string, userID uuid.UUID, limit, offset int) ([]models.Booking, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM bookings
		WHERE %s = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, bookingColumns, column)

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		log.Printf("Error querying bookings by %s %s: %v\n", column, userID, err)
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	bookings, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[models.Booking])
	if err != nil {
		log.Printf("Error scanning bookings by %s %s: %v\n", column, userID, err)
		return nil, fmt.Errorf("failed to scan bookings: %w", err)
	}

	if bookings == nil {
		bookings = []models.Booking{} // Return empty slice, not nil
	}

	return bookings, nil
}

// ListByCustomer retrieves bookings made by a customer.
func (r *BookingRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]models.Booking, error) {
	return r.list(ctx, "customer_id", customerID, limit, offset)
}

// ListByContractor retrieves bookings received by a contractor.
func (r *BookingRepo) ListByContractor(ctx context.Context, contractorID uuid.UUID, limit, offset int) ([]models.Booking, error) {
	return r.list(ctx, "contractor_id", contractorID, limit, offset)
}

// UpdateStatus transitions a booking to the target status, but only when its
// current status is one of the allowed source states. A missing row with a
// present booking means the transition was rejected, reported as ErrConflict.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from []models.BookingStatus, to models.BookingStatus) (*models.Booking, error) {
	fromStrs := make([]string, 0, len(from))
	for _, s := range from {
		fromStrs = append(fromStrs, string(s))
	}

	query := fmt.Sprintf(`
		UPDATE bookings
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = ANY($3)
		RETURNING %s
	`, bookingColumns)

	booking, err := scanBooking(r.db.QueryRow(ctx, query, to, id, fromStrs))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Distinguish "no such booking" from "wrong current state".
			if _, getErr := r.GetByID(ctx, id); errors.Is(getErr, storage.ErrNotFound) {
				return nil, storage.ErrNotFound
			}
			log.Printf("Booking %s not in allowed state for transition to %s\n", id, to)
			return nil, storage.ErrConflict
		}
		log.Printf("Error updating booking status %s: %v\n", id, err)
		return nil, fmt.Errorf("failed to update booking %s status: %w", id, err)
	}

	log.Printf("Booking %s transitioned to %s", booking.ID, booking.Status)
	return booking, nil
}

// ExistsActiveOnDate reports whether the contractor has a PENDING or
// CONFIRMED booking on the given date.
func (r *BookingRepo) ExistsActiveOnDate(ctx context.Context, contractorID uuid.UUID, date time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE contractor_id = $1
			  AND scheduled_date = $2
			  AND status = ANY($3)
		)
	`
	var exists bool
	err := r.db.QueryRow(ctx, query, contractorID, date,
		[]string{string(models.BookingStatusPending), string(models.BookingStatusConfirmed)},
	).Scan(&exists)
	if err != nil {
		log.Printf("Error checking contractor %s availability on %s: %v\n", contractorID, date.Format("2006-01-02"), err)
		return false, fmt.Errorf("failed to check contractor availability: %w", err)
	}
	return exists, nil
}

// BusyDates returns the distinct ascending dates on/after from with a PENDING
// or CONFIRMED booking for the contractor.
func (r *BookingRepo) BusyDates(ctx context.Context, contractorID uuid.UUID, from time.Time) ([]time.Time, error) {
	query := `
		SELECT DISTINCT scheduled_date
		FROM bookings
		WHERE contractor_id = $1
		  AND scheduled_date >= $2
		  AND status = ANY($3)
		ORDER BY scheduled_date ASC
	`
	rows, err := r.db.Query(ctx, query, contractorID, from,
		[]string{string(models.BookingStatusPending), string(models.BookingStatusConfirmed)},
	)
	if err != nil {
		log.Printf("Error querying busy dates for contractor %s: %v\n", contractorID, err)
		return nil, fmt.Errorf("failed to query busy dates: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan busy date: %w", err)
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read busy dates: %w", err)
	}

	if dates == nil {
		dates = []time.Time{}
	}

	return dates, nil
}
