package services_test

import (
	"context"
	"errors"
	"testing"

	mock_storage "mycraft-api/internal/mocks"
	"mycraft-api/internal/models"
	"mycraft-api/internal/services"
	"mycraft-api/internal/storage"
	"mycraft-api/internal/transport/dto"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type offerServiceMocks struct {
	offerRepo   *mock_storage.MockOfferRepository
	convRepo    *mock_storage.MockConversationRepository
	jobRepo     *mock_storage.MockJobRepository
	bookingRepo *mock_storage.MockBookingRepository
	db          *mock_storage.MockTxManager
	notifier    *mock_storage.MockNotifier
}

func setupOfferServiceTest(t *testing.T) (context.Context, services.OfferService, *offerServiceMocks, *gomock.Controller) {
	ctrl := gomock.NewController(t)
	m := &offerServiceMocks{
		offerRepo:   mock_storage.NewMockOfferRepository(ctrl),
		convRepo:    mock_storage.NewMockConversationRepository(ctrl),
		jobRepo:     mock_storage.NewMockJobRepository(ctrl),
		bookingRepo: mock_storage.NewMockBookingRepository(ctrl),
		db:          mock_storage.NewMockTxManager(ctrl),
		notifier:    mock_storage.NewMockNotifier(ctrl),
	}
	offerService := services.NewOfferService(m.offerRepo, m.convRepo, m.jobRepo, m.bookingRepo, m.db, m.notifier)
	return context.Background(), offerService, m, ctrl
}

func TestOfferService_CreateOffer(t *testing.T) {
	jobID := uuid.New()
	customerID := uuid.New()
	contractorID := uuid.New()
	convID := uuid.New()

	conv := func() *models.Conversation {
		return &models.Conversation{ID: convID, JobID: jobID, CustomerID: customerID, ContractorID: contractorID}
	}

	t.Run("Success_WrapsOfferInMessage", func(t *testing.T) {
		ctx, offerService, m, ctrl := setupOfferServiceTest(t)
		defer ctrl.Finish()

		tx := &fakeTx{}
		m.db.EXPECT().Begin(gomock.Any()).Return(tx, nil).Times(1)
		m.convRepo.EXPECT().WithTx(tx).Return(m.convRepo).Times(1)
		m.offerRepo.EXPECT().WithTx(tx).Return(m.offerRepo).Times(1)
		m.convRepo.EXPECT().GetByID(gomock.Any(), convID).Return(conv(), nil).Times(1)
		m.offerRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, offer *models.Offer) (*models.Offer, error) {
				assert.Equal(t, convID, offer.ConversationID)
				assert.Equal(t, contractorID, offer.CreatorID)
				assert.Equal(t, 450.0, offer.Price)
				assert.Equal(t, models.OfferStatusPending, offer.Status)
				return offer, nil
			}).Times(1)
		m.convRepo.EXPECT().CreateMessage(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, msg *models.Message) (*models.Message, error) {
				require.NotNil(t, msg.OfferID)
				assert.Equal(t, contractorID, msg.SenderID)
				return msg, nil
			}).Times(1)
		m.convRepo.EXPECT().Touch(gomock.Any(), convID).Return(nil).Times(1)
		m.notifier.EXPECT().BroadcastToUsers([]uuid.UUID{customerID}, gomock.Any()).Times(1)

		offer, msg, err := offerService.CreateOffer(ctx, &dto.CreateOfferRequest{
			ConversationID: convID,
			Price:          450,
			CreatorID:      contractorID,
		})

		require.NoError(t, err)
		require.NotNil(t, offer)
		require.NotNil(t, msg)
		assert.Equal(t, offer.ID, *msg.OfferID)
		assert.True(t, tx.committed)
	})

	t.Run("Error_CustomerCannotOffer", func(t *testing.T) {
		ctx, offerService, m, ctrl := setupOfferServiceTest(t)
		defer ctrl.Finish()

		tx := &fakeTx{}
		m.db.EXPECT().Begin(gomock.Any()).Return(tx, nil).Times(1)
		m.convRepo.EXPECT().WithTx(tx).Return(m.convRepo).Times(1)
		m.offerRepo.EXPECT().WithTx(tx).Return(m.offerRepo).Times(1)
		m.convRepo.EXPECT().GetByID(gomock.Any(), convID).Return(conv(), nil).Times(1)

		_, _, err := offerService.CreateOffer(ctx, &dto.CreateOfferRequest{
			ConversationID: convID,
			Price:          450,
			CreatorID:      customerID,
		})

		assert.True(t, errors.Is(err, services.ErrForbidden))
		assert.True(t, tx.rolledBack)
	})
}

func TestOfferService_AcceptOffer(t *testing.T) {
	jobID := uuid.New()
	customerID := uuid.New()
	contractorID := uuid.New()
	convID := uuid.New()
	offerID := uuid.New()

	conv := func() *models.Conversation {
		return &models.Conversation{ID: convID, JobID: jobID, CustomerID: customerID, ContractorID: contractorID}
	}
	pendingOffer := func() *models.Offer {
		return &models.Offer{
			ID:             offerID,
			ConversationID: convID,
			CreatorID:      contractorID,
			Price:          450,
			Status:         models.OfferStatusPending,
		}
	}

	t.Run("Success_CreatesBookingAtOfferPrice", func(t *testing.T) {
		ctx, offerService, m, ctrl := setupOfferServiceTest(t)
		defer ctrl.Finish()

		tx := &fakeTx{}
		m.db.EXPECT().Begin(gomock.Any()).Return(tx, nil).Times(1)
		m.offerRepo.EXPECT().WithTx(tx).Return(m.offerRepo).Times(1)
		m.convRepo.EXPECT().WithTx(tx).Return(m.convRepo).Times(1)
		m.bookingRepo.EXPECT().WithTx(tx).Return(m.bookingRepo).Times(1)
		m.offerRepo.EXPECT().GetByID(gomock.Any(), offerID).Return(pendingOffer(), nil).Times(1)
		m.convRepo.EXPECT().GetByID(gomock.Any(), convID).Return(conv(), nil).Times(1)
		accepted := pendingOffer()
		accepted.Status = models.OfferStatusAccepted
		m.offerRepo.EXPECT().UpdateStatus(gomock.Any(), offerID, models.OfferStatusAccepted).Return(accepted, nil).Times(1)
		m.bookingRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, b *models.Booking) (*models.Booking, error) {
				assert.Equal(t, jobID, b.ServiceID)
				assert.Equal(t, customerID, b.CustomerID)
				assert.Equal(t, contractorID, b.ContractorID)
				assert.Equal(t, 450.0, b.Price)
				assert.Equal(t, models.BookingStatusConfirmed, b.Status)
				require.NotNil(t, b.ScheduledDate)
				return b, nil
			}).Times(1)
		m.notifier.EXPECT().BroadcastToUsers([]uuid.UUID{contractorID}, gomock.Any()).Times(1)

		date := futureDate(14)
		offer, booking, err := offerService.AcceptOffer(ctx, &dto.AcceptOfferRequest{
			OfferID:       offerID,
			UserID:        customerID,
			ScheduledDate: &date,
		})

		require.NoError(t, err)
		assert.Equal(t, models.OfferStatusAccepted, offer.Status)
		require.NotNil(t, booking)
		assert.True(t, tx.committed)
	})

	t.Run("Error_CreatorCannotAcceptOwnOffer", func(t *testing.T) {
		ctx, offerService, m, ctrl := setupOfferServiceTest(t)
		defer ctrl.Finish()

		tx := &fakeTx{}
		m.db.EXPECT().Begin(gomock.Any()).Return(tx, nil).Times(1)
		m.offerRepo.EXPECT().WithTx(tx).Return(m.offerRepo).Times(1)
		m.convRepo.EXPECT().WithTx(tx).Return(m.convRepo).Times(1)
		m.bookingRepo.EXPECT().WithTx(tx).Return(m.bookingRepo).Times(1)
		m.offerRepo.EXPECT().GetByID(gomock.Any(), offerID).Return(pendingOffer(), nil).Times(1)
		m.convRepo.EXPECT().GetByID(gomock.Any(), convID).Return(conv(), nil).Times(1)

		_, _, err := offerService.AcceptOffer(ctx, &dto.AcceptOfferRequest{OfferID: offerID, UserID: contractorID})

		assert.True(t, errors.Is(err, services.ErrForbidden))
	})

	t.Run("Error_Stranger", func(t *testing.T) {
		ctx, offerService, m, ctrl := setupOfferServiceTest(t)
		defer ctrl.Finish()

		tx := &fakeTx{}
		m.db.EXPECT().Begin(gomock.Any()).Return(tx, nil).Times(1)
		m.offerRepo.EXPECT().WithTx(tx).Return(m.offerRepo).Times(1)
		m.convRepo.EXPECT().WithTx(tx).Return(m.convRepo).Times(1)
		m.bookingRepo.EXPECT().WithTx(tx).Return(m.bookingRepo).Times(1)
		m.offerRepo.EXPECT().GetByID(gomock.Any(), offerID).Return(pendingOffer(), nil).Times(1)
		m.convRepo.EXPECT().GetByID(gomock.Any(), convID).Return(conv(), nil).Times(1)

		_, _, err := offerService.AcceptOffer(ctx, &dto.AcceptOfferRequest{OfferID: offerID, UserID: uuid.New()})

		assert.True(t, errors.Is(err, services.ErrForbidden))
	})

	t.Run("Error_NoLongerPending", func(t *testing.T) {
		ctx, offerService, m, ctrl := setupOfferServiceTest(t)
		defer ctrl.Finish()

		tx := &fakeTx{}
		m.db.EXPECT().Begin(gomock.Any()).Return(tx, nil).Times(1)
		m.offerRepo.EXPECT().WithTx(tx).Return(m.offerRepo).Times(1)
		m.convRepo.EXPECT().WithTx(tx).Return(m.convRepo).Times(1)
		m.bookingRepo.EXPECT().WithTx(tx).Return(m.bookingRepo).Times(1)
		m.offerRepo.EXPECT().GetByID(gomock.Any(), offerID).Return(pendingOffer(), nil).Times(1)
		m.convRepo.EXPECT().GetByID(gomock.Any(), convID).Return(conv(), nil).Times(1)
		m.offerRepo.EXPECT().UpdateStatus(gomock.Any(), offerID, models.OfferStatusAccepted).Return(nil, storage.ErrConflict).Times(1)

		_, _, err := offerService.AcceptOffer(ctx, &dto.AcceptOfferRequest{OfferID: offerID, UserID: customerID})

		assert.True(t, errors.Is(err, services.ErrConflict))
		assert.False(t, tx.committed)
	})
}

func TestOfferService_RejectOffer(t *testing.T) {
	jobID := uuid.New()
	customerID := uuid.New()
	contractorID := uuid.New()
	convID := uuid.New()
	offerID := uuid.New()

	conv := &models.Conversation{ID: convID, JobID: jobID, CustomerID: customerID, ContractorID: contractorID}
	pendingOffer := &models.Offer{
		ID:             offerID,
		ConversationID: convID,
		CreatorID:      contractorID,
		Price:          450,
		Status:         models.OfferStatusPending,
	}

	t.Run("Success", func(t *testing.T) {
		ctx, offerService, m, ctrl := setupOfferServiceTest(t)
		defer ctrl.Finish()

		rejected := *pendingOffer
		rejected.Status = models.OfferStatusRejected

		m.offerRepo.EXPECT().GetByID(ctx, offerID).Return(pendingOffer, nil).Times(1)
		m.convRepo.EXPECT().GetByID(ctx, convID).Return(conv, nil).Times(1)
		m.offerRepo.EXPECT().UpdateStatus(ctx, offerID, models.OfferStatusRejected).Return(&rejected, nil).Times(1)
		m.notifier.EXPECT().BroadcastToUsers([]uuid.UUID{contractorID}, gomock.Any()).Times(1)

		offer, err := offerService.RejectOffer(ctx, &dto.RejectOfferRequest{OfferID: offerID, UserID: customerID})

		require.NoError(t, err)
		assert.Equal(t, models.OfferStatusRejected, offer.Status)
	})

	t.Run("Error_CreatorCannotRejectOwnOffer", func(t *testing.T) {
		ctx, offerService, m, ctrl := setupOfferServiceTest(t)
		defer ctrl.Finish()

		m.offerRepo.EXPECT().GetByID(ctx, offerID).Return(pendingOffer, nil).Times(1)
		m.convRepo.EXPECT().GetByID(ctx, convID).Return(conv, nil).Times(1)

		_, err := offerService.RejectOffer(ctx, &dto.RejectOfferRequest{OfferID: offerID, UserID: contractorID})

		assert.True(t, errors.Is(err, services.ErrForbidden))
	})
}
