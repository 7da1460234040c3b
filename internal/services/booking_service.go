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

type bookingService struct {
	bookingRepo storage.BookingRepository
	jobRepo     storage.JobRepository
	db          storage.TxManager
}

// NewBookingService creates a new instance of BookingService.
func NewBookingService(bookingRepo storage.BookingRepository, jobRepo storage.JobRepository, db storage.TxManager) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		jobRepo:     jobRepo,
		db:          db,
	}
}

// CreateBooking books a job for a date. Contractor and price are snapshotted
// from the job inside a single transaction; the partial unique index on
// (contractor_id, scheduled_date) catches concurrent double-bookings that
// slip past the availability check.
func (s *bookingService) CreateBooking(ctx context.Context, req *dto.CreateBookingRequest) (*models.Booking, error) {
	date, err := parseScheduledDate(req.ScheduledDate)
	if err != nil {
		return nil, err
	}

	// --- Transaction Start ---
	tx, err := s.db.Begin(ctx)
	if err != nil {
		log.Printf("CreateBooking: Error beginning transaction: %v", err)
		return nil, fmt.Errorf("internal error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	txJobRepo := s.jobRepo.WithTx(tx)
	txBookingRepo := s.bookingRepo.WithTx(tx)

	job, err := txJobRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		return nil, mapRepoError(err, "fetching job for booking")
	}
	if job.ContractorID == req.CustomerID {
		log.Printf("CreateBooking: User %s attempted to book own job %s", req.CustomerID, job.ID)
		return nil, ErrForbidden
	}
	if job.Status != models.JobStatusOpen {
		log.Printf("CreateBooking: Attempt to book job %s in status %s", job.ID, job.Status)
		return nil, ErrInvalidState
	}

	busy, err := txBookingRepo.ExistsActiveOnDate(ctx, job.ContractorID, date)
	if err != nil {
		return nil, mapRepoError(err, "checking contractor availability")
	}
	if busy {
		return nil, fmt.Errorf("%w: contractor is already booked on %s", ErrConflict, req.ScheduledDate)
	}

	var price float64
	if job.Price != nil {
		price = *job.Price
	}

	booking := &models.Booking{
		ID:            uuid.New(),
		ServiceID:     job.ID,
		CustomerID:    req.CustomerID,
		ContractorID:  job.ContractorID,
		Price:         price,
		Status:        models.BookingStatusConfirmed,
		ScheduledDate: &date,
	}

	created, err := txBookingRepo.Create(ctx, booking)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, fmt.Errorf("%w: %w", ErrConflict, err)
		}
		log.Printf("CreateBooking: Error saving booking: %v", err)
		return nil, fmt.Errorf("internal error saving booking: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		log.Printf("CreateBooking: Error committing transaction: %v", err)
		return nil, fmt.Errorf("internal error committing booking creation: %w", err)
	}
	// --- End Transaction ---

	return created, nil
}

func (s *bookingService) GetBookingByID(ctx context.Context, req *dto.GetBookingByIDRequest) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, mapRepoError(err, "fetching booking")
	}

	// Authorization Check: only the two parties may see a booking.
	if booking.CustomerID != req.UserID && booking.ContractorID != req.UserID {
		return nil, ErrForbidden
	}
	return booking, nil
}

func (s *bookingService) ListMyBookings(ctx context.Context, req *dto.ListBookingsRequest) ([]models.Booking, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	bookings, err := s.bookingRepo.ListByCustomer(ctx, req.UserID, limit, req.Offset)
	if err != nil {
		return nil, mapRepoError(err, "listing bookings")
	}
	return bookings, nil
}

func (s *bookingService) ListMyOrders(ctx context.Context, req *dto.ListBookingsRequest) ([]models.Booking, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	bookings, err := s.bookingRepo.ListByContractor(ctx, req.UserID, limit, req.Offset)
	if err != nil {
		return nil, mapRepoError(err, "listing orders")
	}
	return bookings, nil
}

// CompleteBooking marks a booking completed. Only the contractor may complete;
// the status guard in the repository resolves concurrent transitions.
func (s *bookingService) CompleteBooking(ctx context.Context, req *dto.CompleteBookingRequest) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, mapRepoError(err, "fetching booking for completion")
	}

	if booking.ContractorID != req.UserID {
		log.Printf("CompleteBooking: Forbidden attempt by user %s on booking %s", req.UserID, req.ID)
		return nil, ErrForbidden
	}
	if !isValidBookingTransition(booking.Status, models.BookingStatusCompleted) {
		return nil, ErrInvalidTransition
	}

	updated, err := s.bookingRepo.UpdateStatus(ctx, req.ID, activeBookingStatuses(), models.BookingStatusCompleted)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			// Lost a race: the booking changed state after our check.
			return nil, ErrInvalidTransition
		}
		return nil, mapRepoError(err, "completing booking")
	}
	return updated, nil
}

// CancelBooking cancels a booking. Contractors may cancel anytime; customers
// must give at least seven days notice before the scheduled date.
func (s *bookingService) CancelBooking(ctx context.Context, req *dto.CancelBookingRequest) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, mapRepoError(err, "fetching booking for cancellation")
	}

	isCustomer := booking.CustomerID == req.UserID
	isContractor := booking.ContractorID == req.UserID
	if !isCustomer && !isContractor {
		log.Printf("CancelBooking: Forbidden attempt by user %s on booking %s", req.UserID, req.ID)
		return nil, ErrForbidden
	}
	if !isValidBookingTransition(booking.Status, models.BookingStatusCancelled) {
		return nil, ErrInvalidTransition
	}

	if isCustomer && !isContractor && booking.ScheduledDate != nil {
		days := daysUntil(*booking.ScheduledDate)
		if days < cancellationNoticeDays {
			log.Printf("CancelBooking: Customer %s cancelled booking %s with only %d days notice", req.UserID, req.ID, days)
			return nil, ErrCancellationWindow
		}
	}

	updated, err := s.bookingRepo.UpdateStatus(ctx, req.ID, activeBookingStatuses(), models.BookingStatusCancelled)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, ErrInvalidTransition
		}
		return nil, mapRepoError(err, "cancelling booking")
	}
	return updated, nil
}
