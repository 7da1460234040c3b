package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"mycraft-api/internal/models"
	"mycraft-api/internal/storage"
)

// cancellationNoticeDays is the minimum notice a customer must give when
// cancelling a booking. Contractors are not bound by it.
const cancellationNoticeDays = 7

// dateLayout is the wire format for scheduled dates.
const dateLayout = "2006-01-02"

// isValidBookingTransition defines the allowed booking status changes.
func isValidBookingTransition(from, to models.BookingStatus) bool {
	switch from {
	case models.BookingStatusPending:
		return to == models.BookingStatusConfirmed ||
			to == models.BookingStatusCompleted ||
			to == models.BookingStatusCancelled
	case models.BookingStatusConfirmed:
		return to == models.BookingStatusCompleted ||
			to == models.BookingStatusCancelled
	case models.BookingStatusCompleted, models.BookingStatusCancelled:
		// Terminal states
		return false
	default:
		return false
	}
}

// activeBookingStatuses are the statuses a booking can be transitioned out of.
func activeBookingStatuses() []models.BookingStatus {
	return []models.BookingStatus{models.BookingStatusPending, models.BookingStatusConfirmed}
}

// parseScheduledDate parses a yyyy-mm-dd date and rejects dates in the past.
func parseScheduledDate(value string) (time.Time, error) {
	date, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: scheduled_date must be formatted as %s", ErrValidation, dateLayout)
	}
	if daysUntil(date) < 0 {
		return time.Time{}, fmt.Errorf("%w: scheduled_date must not be in the past", ErrValidation)
	}
	return date, nil
}

// startOfToday returns today's date at UTC midnight, matching how DATE
// columns come back from the database.
func startOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// daysUntil counts calendar days from today to the given date. Only date
// components are compared; mixing the UTC-midnight DATE value with local
// wall-clock time would skew the result by the zone offset.
func daysUntil(date time.Time) int {
	target := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return int(target.Sub(startOfToday()).Hours() / 24)
}

// mapRepoError maps storage errors to service errors
func mapRepoError(err error, operation string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, operation)
	}
	if errors.Is(err, storage.ErrConflict) {
		// The repo layer should provide more context for conflict errors if possible
		return fmt.Errorf("%w: %s (%v)", ErrConflict, operation, err)
	}
	if errors.Is(err, storage.ErrDuplicateEmail) {
		return fmt.Errorf("%w: %s (duplicate email)", ErrConflict, operation)
	}
	// Log other unexpected errors
	log.Printf("Unexpected repository error during %s: %v", operation, err)
	return fmt.Errorf("internal error during %s: %w", operation, err)
}
