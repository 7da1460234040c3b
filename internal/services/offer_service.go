package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"mycraft-api/internal/models"
	"mycraft-api/internal/storage"
	"mycraft-api/internal/transport/dto"
	"mycraft-api/internal/ws"

	"github.com/google/uuid"
)

type offerService struct {
	offerRepo   storage.OfferRepository
	convRepo    storage.ConversationRepository
	jobRepo     storage.JobRepository
	bookingRepo storage.BookingRepository
	db          storage.TxManager
	notifier    Notifier
}

// NewOfferService creates a new instance of OfferService. notifier may be nil
// to disable push events.
func NewOfferService(offerRepo storage.OfferRepository, convRepo storage.ConversationRepository, jobRepo storage.JobRepository, bookingRepo storage.BookingRepository, db storage.TxManager, notifier Notifier) OfferService {
	return &offerService{
		offerRepo:   offerRepo,
		convRepo:    convRepo,
		jobRepo:     jobRepo,
		bookingRepo: bookingRepo,
		db:          db,
		notifier:    notifier,
	}
}

func (s *offerService) notify(conv *models.Conversation, actorID uuid.UUID, eventType string, data interface{}) {
	if s.notifier == nil {
		return
	}
	s.notifier.BroadcastToUsers([]uuid.UUID{otherParticipant(conv, actorID)}, ws.Event{Type: eventType, Data: data})
}

// CreateOffer posts a price proposal into a conversation. Only the contractor
// side of the conversation may make offers; the offer is wrapped in a chat
// message so it appears in the history.
func (s *offerService) CreateOffer(ctx context.Context, req *dto.CreateOfferRequest) (*models.Offer, *models.Message, error) {
	// --- Transaction Start ---
	tx, err := s.db.Begin(ctx)
	if err != nil {
		log.Printf("CreateOffer: Error beginning transaction: %v", err)
		return nil, nil, fmt.Errorf("internal error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	txConvRepo := s.convRepo.WithTx(tx)
	txOfferRepo := s.offerRepo.WithTx(tx)

	conv, err := txConvRepo.GetByID(ctx, req.ConversationID)
	if err != nil {
		return nil, nil, mapRepoError(err, "fetching conversation for offer")
	}
	if conv.ContractorID != req.CreatorID {
		log.Printf("CreateOffer: Forbidden attempt by user %s on conversation %s", req.CreatorID, req.ConversationID)
		return nil, nil, ErrForbidden
	}

	offer, err := txOfferRepo.Create(ctx, &models.Offer{
		ID:             uuid.New(),
		ConversationID: conv.ID,
		CreatorID:      req.CreatorID,
		Price:          req.Price,
		Description:    req.Description,
		Status:         models.OfferStatusPending,
	})
	if err != nil {
		return nil, nil, mapRepoError(err, "creating offer")
	}

	msg, err := txConvRepo.CreateMessage(ctx, &models.Message{
		ID:             uuid.New(),
		ConversationID: conv.ID,
		SenderID:       req.CreatorID,
		OfferID:        &offer.ID,
	})
	if err != nil {
		return nil, nil, mapRepoError(err, "posting offer message")
	}
	if err := txConvRepo.Touch(ctx, conv.ID); err != nil {
		return nil, nil, mapRepoError(err, "touching conversation")
	}

	if err := tx.Commit(ctx); err != nil {
		log.Printf("CreateOffer: Error committing transaction: %v", err)
		return nil, nil, fmt.Errorf("internal error committing offer: %w", err)
	}
	// --- End Transaction ---

	s.notify(conv, req.CreatorID, "offer.new", offer)

	return offer, msg, nil
}

// AcceptOffer accepts a pending offer and creates the booking it implies in
// the same transaction. The PENDING guard in the offer update resolves
// concurrent accept/reject races; the loser gets ErrConflict.
func (s *offerService) AcceptOffer(ctx context.Context, req *dto.AcceptOfferRequest) (*models.Offer, *models.Booking, error) {
	// --- Transaction Start ---
	tx, err := s.db.Begin(ctx)
	if err != nil {
		log.Printf("AcceptOffer: Error beginning transaction: %v", err)
		return nil, nil, fmt.Errorf("internal error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	txOfferRepo := s.offerRepo.WithTx(tx)
	txConvRepo := s.convRepo.WithTx(tx)
	txBookingRepo := s.bookingRepo.WithTx(tx)

	offer, err := txOfferRepo.GetByID(ctx, req.OfferID)
	if err != nil {
		return nil, nil, mapRepoError(err, "fetching offer")
	}

	conv, err := txConvRepo.GetByID(ctx, offer.ConversationID)
	if err != nil {
		return nil, nil, mapRepoError(err, "fetching conversation for offer")
	}

	// Only the conversation partner of the offer's creator may accept.
	if !conv.IsParticipant(req.UserID) || offer.CreatorID == req.UserID {
		log.Printf("AcceptOffer: Forbidden attempt by user %s on offer %s", req.UserID, req.OfferID)
		return nil, nil, ErrForbidden
	}

	accepted, err := txOfferRepo.UpdateStatus(ctx, offer.ID, models.OfferStatusAccepted)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, nil, fmt.Errorf("%w: offer is no longer pending", ErrConflict)
		}
		return nil, nil, mapRepoError(err, "accepting offer")
	}

	booking := &models.Booking{
		ID:           uuid.New(),
		ServiceID:    conv.JobID,
		CustomerID:   conv.CustomerID,
		ContractorID: conv.ContractorID,
		Price:        accepted.Price,
		Status:       models.BookingStatusConfirmed,
	}
	if req.ScheduledDate != nil {
		date, err := parseScheduledDate(*req.ScheduledDate)
		if err != nil {
			return nil, nil, err
		}
		booking.ScheduledDate = &date
	}

	created, err := txBookingRepo.Create(ctx, booking)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, nil, fmt.Errorf("%w: %w", ErrConflict, err)
		}
		log.Printf("AcceptOffer: Error creating booking: %v", err)
		return nil, nil, fmt.Errorf("internal error creating booking: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		log.Printf("AcceptOffer: Error committing transaction: %v", err)
		return nil, nil, fmt.Errorf("internal error committing offer acceptance: %w", err)
	}
	// --- End Transaction ---

	s.notify(conv, req.UserID, "offer.accepted", accepted)

	return accepted, created, nil
}

// RejectOffer rejects a pending offer. Rejection is terminal.
func (s *offerService) RejectOffer(ctx context.Context, req *dto.RejectOfferRequest) (*models.Offer, error) {
	offer, err := s.offerRepo.GetByID(ctx, req.OfferID)
	if err != nil {
		return nil, mapRepoError(err, "fetching offer")
	}

	conv, err := s.convRepo.GetByID(ctx, offer.ConversationID)
	if err != nil {
		return nil, mapRepoError(err, "fetching conversation for offer")
	}
	if !conv.IsParticipant(req.UserID) || offer.CreatorID == req.UserID {
		log.Printf("RejectOffer: Forbidden attempt by user %s on offer %s", req.UserID, req.OfferID)
		return nil, ErrForbidden
	}

	rejected, err := s.offerRepo.UpdateStatus(ctx, offer.ID, models.OfferStatusRejected)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, fmt.Errorf("%w: offer is no longer pending", ErrConflict)
		}
		return nil, mapRepoError(err, "rejecting offer")
	}

	s.notify(conv, req.UserID, "offer.rejected", rejected)

	return rejected, nil
}
