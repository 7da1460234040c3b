package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// --- Job Status Enum ---
type JobStatus string

const (
	JobStatusOpen   JobStatus = "OPEN"
	JobStatusPaused JobStatus = "PAUSED"
)

// Scan implements the sql.Scanner interface for JobStatus
func (js *JobStatus) Scan(value interface{}) error {
	strVal, ok := value.(string)
	if !ok {
		byteVal, ok := value.([]byte)
		if ok {
			strVal = string(byteVal)
		} else {
			return fmt.Errorf("failed to scan JobStatus: value is not string or []byte")
		}
	}
	v := JobStatus(strVal)
	switch v {
	case JobStatusOpen, JobStatusPaused:
		*js = v
		return nil
	default:
		return fmt.Errorf("invalid JobStatus value: %s", strVal)
	}
}

// Value implements the driver.Valuer interface for JobStatus
func (js JobStatus) Value() (driver.Value, error) {
	return string(js), nil
}

// --- Trade Enum ---
type Trade string

const (
	TradePlumber     Trade = "PLUMBER"
	TradeElectrician Trade = "ELECTRICIAN"
	TradePainter     Trade = "PAINTER"
	TradeCarpenter   Trade = "CARPENTER"
	TradeGardener    Trade = "GARDENER"
	TradeOther       Trade = "OTHER"
)

// TradeLabels maps trade codes to their German display labels. The labels
// double as search targets: a free-text query matching a label also matches
// jobs of that trade.
var TradeLabels = map[Trade]string{
	TradePlumber:     "Sanitär & Heizung",
	TradeElectrician: "Elektrik",
	TradePainter:     "Maler & Lackierer",
	TradeCarpenter:   "Tischler & Schreiner",
	TradeGardener:    "Garten & Landschaftsbau",
	TradeOther:       "Sonstiges",
}

// Label returns the display label for the trade code.
func (t Trade) Label() string {
	if label, ok := TradeLabels[t]; ok {
		return label
	}
	return string(t)
}

// MatchingTrades returns the trade codes whose display label contains the
// search term, case-insensitively.
func MatchingTrades(term string) []Trade {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}
	var matches []Trade
	for trade, label := range TradeLabels {
		if strings.Contains(strings.ToLower(label), term) {
			matches = append(matches, trade)
		}
	}
	return matches
}

// Scan implements the sql.Scanner interface for Trade
func (t *Trade) Scan(value interface{}) error {
	strVal, ok := value.(string)
	if !ok {
		byteVal, ok := value.([]byte)
		if ok {
			strVal = string(byteVal)
		} else {
			return fmt.Errorf("failed to scan Trade: value is not string or []byte")
		}
	}
	v := Trade(strVal)
	switch v {
	case TradePlumber, TradeElectrician, TradePainter, TradeCarpenter, TradeGardener, TradeOther:
		*t = v
		return nil
	default:
		return fmt.Errorf("invalid Trade value: %s", strVal)
	}
}

// Value implements the driver.Valuer interface for Trade
func (t Trade) Value() (driver.Value, error) {
	return string(t), nil
}

// --- Booking Status Enum ---
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// Scan implements the sql.Scanner interface for BookingStatus
func (bs *BookingStatus) Scan(value interface{}) error {
	strVal, ok := value.(string)
	if !ok {
		byteVal, ok := value.([]byte)
		if ok {
			strVal = string(byteVal)
		} else {
			return fmt.Errorf("failed to scan BookingStatus: value is not string or []byte")
		}
	}
	v := BookingStatus(strVal)
	switch v {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCompleted, BookingStatusCancelled:
		*bs = v
		return nil
	default:
		return fmt.Errorf("invalid BookingStatus value: %s", strVal)
	}
}

// Value implements the driver.Valuer interface for BookingStatus
func (bs BookingStatus) Value() (driver.Value, error) {
	return string(bs), nil
}

// --- Offer Status Enum ---
type OfferStatus string

const (
	OfferStatusPending  OfferStatus = "PENDING"
	OfferStatusAccepted OfferStatus = "ACCEPTED"
	OfferStatusRejected OfferStatus = "REJECTED"
)

// Scan implements the sql.Scanner interface for OfferStatus
func (os *OfferStatus) Scan(value interface{}) error {
	strVal, ok := value.(string)
	if !ok {
		byteVal, ok := value.([]byte)
		if ok {
			strVal = string(byteVal)
		} else {
			return fmt.Errorf("failed to scan OfferStatus: value is not string or []byte")
		}
	}
	v := OfferStatus(strVal)
	switch v {
	case OfferStatusPending, OfferStatusAccepted, OfferStatusRejected:
		*os = v
		return nil
	default:
		return fmt.Errorf("invalid OfferStatus value: %s", strVal)
	}
}

// Value implements the driver.Valuer interface for OfferStatus
func (os OfferStatus) Value() (driver.Value, error) {
	return string(os), nil
}

// User represents an account in the system.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Profile extends a User with marketplace-specific data. A profile is created
// together with its user; there is exactly one per user.
type Profile struct {
	ID            uuid.UUID `json:"id" db:"id"`
	UserID        uuid.UUID `json:"user_id" db:"user_id"`
	IsCraftsman   bool      `json:"is_craftsman" db:"is_craftsman"`
	CompanyName   *string   `json:"company_name,omitempty" db:"company_name"`
	StreetAddress *string   `json:"street_address,omitempty" db:"street_address"`
	ZipCode       *string   `json:"zip_code,omitempty" db:"zip_code"`
	City          *string   `json:"city,omitempty" db:"city"`
	Bio           *string   `json:"bio,omitempty" db:"bio"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// Job is a craftsman's standing listing of offered work.
type Job struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Title        string    `json:"title" db:"title"`
	Description  string    `json:"description" db:"description"`
	Trade        Trade     `json:"trade" db:"trade"`
	ZipCode      string    `json:"zip_code" db:"zip_code"`
	City         string    `json:"city" db:"city"`
	Lat          *float64  `json:"lat,omitempty" db:"lat"`
	Lng          *float64  `json:"lng,omitempty" db:"lng"`
	Price        *float64  `json:"price,omitempty" db:"price"`
	Status       JobStatus `json:"status" db:"status"`
	ContractorID uuid.UUID `json:"contractor_id" db:"contractor_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`

	// DistanceKM is populated only by radius searches.
	DistanceKM *float64 `json:"distance_km,omitempty" db:"distance_km"`
}

// Booking is a concrete reservation of a Job by a customer for a date.
// Contractor and price are snapshotted from the job at creation time.
type Booking struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	ServiceID     uuid.UUID     `json:"service_id" db:"service_id"`
	CustomerID    uuid.UUID     `json:"customer_id" db:"customer_id"`
	ContractorID  uuid.UUID     `json:"contractor_id" db:"contractor_id"`
	Price         float64       `json:"price" db:"price"`
	Status        BookingStatus `json:"status" db:"status"`
	ScheduledDate *time.Time    `json:"scheduled_date,omitempty" db:"scheduled_date"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
}

// Conversation is a chat thread between a customer and the contractor of a
// job. At most one exists per (job, customer) pair.
type Conversation struct {
	ID           uuid.UUID `json:"id" db:"id"`
	JobID        uuid.UUID `json:"job_id" db:"job_id"`
	CustomerID   uuid.UUID `json:"customer_id" db:"customer_id"`
	ContractorID uuid.UUID `json:"contractor_id" db:"contractor_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// IsParticipant reports whether the given user takes part in the conversation.
func (c *Conversation) IsParticipant(userID uuid.UUID) bool {
	return c.CustomerID == userID || c.ContractorID == userID
}

// Message is a single chat entry. Content may be empty when the message only
// carries an offer.
type Message struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	ConversationID uuid.UUID  `json:"conversation_id" db:"conversation_id"`
	SenderID       uuid.UUID  `json:"sender_id" db:"sender_id"`
	Content        string     `json:"content" db:"content"`
	OfferID        *uuid.UUID `json:"offer_id,omitempty" db:"offer_id"`
	IsRead         bool       `json:"is_read" db:"is_read"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

// Offer is an in-chat price proposal. Accepting one creates a Booking.
type Offer struct {
	ID             uuid.UUID   `json:"id" db:"id"`
	ConversationID uuid.UUID   `json:"conversation_id" db:"conversation_id"`
	CreatorID      uuid.UUID   `json:"creator_id" db:"creator_id"`
	Price          float64     `json:"price" db:"price"`
	Description    *string     `json:"description,omitempty" db:"description"`
	Status         OfferStatus `json:"status" db:"status"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at" db:"updated_at"`
}

// Review rates a completed booking. One per booking, immutable.
type Review struct {
	ID          uuid.UUID `json:"id" db:"id"`
	BookingID   uuid.UUID `json:"booking_id" db:"booking_id"`
	ReviewerID  uuid.UUID `json:"reviewer_id" db:"reviewer_id"`
	RecipientID uuid.UUID `json:"recipient_id" db:"recipient_id"`
	Rating      int       `json:"rating" db:"rating"`
	Comment     *string   `json:"comment,omitempty" db:"comment"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// RatingSummary is the aggregate rating of a user, computed on read.
type RatingSummary struct {
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int     `json:"review_count"`
}
