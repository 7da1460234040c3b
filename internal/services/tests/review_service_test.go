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

func setupReviewServiceTest(t *testing.T) (context.Context, services.ReviewService, *mock_storage.MockReviewRepository, *mock_storage.MockBookingRepository, *mock_storage.MockTxManager, *gomock.Controller) {
	ctrl := gomock.NewController(t)
	mockReviewRepo := mock_storage.NewMockReviewRepository(ctrl)
	mockBookingRepo := mock_storage.NewMockBookingRepository(ctrl)
	mockDB := mock_storage.NewMockTxManager(ctrl)
	reviewService := services.NewReviewService(mockReviewRepo, mockBookingRepo, mockDB)
	return context.Background(), reviewService, mockReviewRepo, mockBookingRepo, mockDB, ctrl
}

func TestReviewService_CreateReview(t *testing.T) {
	bookingID := uuid.New()
	customerID := uuid.New()
	contractorID := uuid.New()

	bookingInStatus := func(status models.BookingStatus) *models.Booking {
		return &models.Booking{
			ID:           bookingID,
			CustomerID:   customerID,
			ContractorID: contractorID,
			Status:       status,
		}
	}

	tests := []struct {
		name        string
		req         *dto.CreateReviewRequest
		mockSetup   func(reviewRepo *mock_storage.MockReviewRepository, bookingRepo *mock_storage.MockBookingRepository, db *mock_storage.MockTxManager, tx *fakeTx)
		expectedErr error
	}{
		{
			name: "Success_RecipientIsContractor",
			req:  &dto.CreateReviewRequest{BookingID: bookingID, Rating: 5, Comment: ptrString("Sehr gute Arbeit"), ReviewerID: customerID},
			mockSetup: func(reviewRepo *mock_storage.MockReviewRepository, bookingRepo *mock_storage.MockBookingRepository, db *mock_storage.MockTxManager, tx *fakeTx) {
				db.EXPECT().Begin(gomock.Any()).Return(tx, nil).Times(1)
				bookingRepo.EXPECT().WithTx(tx).Return(bookingRepo).Times(1)
				reviewRepo.EXPECT().WithTx(tx).Return(reviewRepo).Times(1)
				bookingRepo.EXPECT().GetByID(gomock.Any(), bookingID).Return(bookingInStatus(models.BookingStatusCompleted), nil).Times(1)
				reviewRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, review *models.Review) (*models.Review, error) {
						assert.Equal(t, bookingID, review.BookingID)
						assert.Equal(t, customerID, review.ReviewerID)
						assert.Equal(t, contractorID, review.RecipientID)
						assert.Equal(t, 5, review.Rating)
						return review, nil
					}).Times(1)
			},
			expectedErr: nil,
		},
		{
			name: "Error_ContractorCannotReview",
			req:  &dto.CreateReviewRequest{BookingID: bookingID, Rating: 5, ReviewerID: contractorID},
			mockSetup: func(reviewRepo *mock_storage.MockReviewRepository, bookingRepo *mock_storage.MockBookingRepository, db *mock_storage.MockTxManager, tx *fakeTx) {
				db.EXPECT().Begin(gomock.Any()).Return(tx, nil).Times(1)
				bookingRepo.EXPECT().WithTx(tx).Return(bookingRepo).Times(1)
				reviewRepo.EXPECT().WithTx(tx).Return(reviewRepo).Times(1)
				bookingRepo.EXPECT().GetByID(gomock.Any(), bookingID).Return(bookingInStatus(models.BookingStatusCompleted), nil).Times(1)
			},
			expectedErr: services.ErrForbidden,
		},
		{
			name: "Error_BookingNotCompleted",
			req:  &dto.CreateReviewRequest{BookingID: bookingID, Rating: 4, ReviewerID: customerID},
			mockSetup: func(reviewRepo *mock_storage.MockReviewRepository, bookingRepo *mock_storage.MockBookingRepository, db *mock_storage.MockTxManager, tx *fakeTx) {
				db.EXPECT().Begin(gomock.Any()).Return(tx, nil).Times(1)
				bookingRepo.EXPECT().WithTx(tx).Return(bookingRepo).Times(1)
				reviewRepo.EXPECT().WithTx(tx).Return(reviewRepo).Times(1)
				bookingRepo.EXPECT().GetByID(gomock.Any(), bookingID).Return(bookingInStatus(models.BookingStatusConfirmed), nil).Times(1)
			},
			expectedErr: services.ErrInvalidState,
		},
		{
			name: "Error_AlreadyReviewed",
			req:  &dto.CreateReviewRequest{BookingID: bookingID, Rating: 4, ReviewerID: customerID},
			mockSetup: func(reviewRepo *mock_storage.MockReviewRepository, bookingRepo *mock_storage.MockBookingRepository, db *mock_storage.MockTxManager, tx *fakeTx) {
				db.EXPECT().Begin(gomock.Any()).Return(tx, nil).Times(1)
				bookingRepo.EXPECT().WithTx(tx).Return(bookingRepo).Times(1)
				reviewRepo.EXPECT().WithTx(tx).Return(reviewRepo).Times(1)
				bookingRepo.EXPECT().GetByID(gomock.Any(), bookingID).Return(bookingInStatus(models.BookingStatusCompleted), nil).Times(1)
				reviewRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, storage.ErrConflict).Times(1)
			},
			expectedErr: services.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, reviewService, mockReviewRepo, mockBookingRepo, mockDB, ctrl := setupReviewServiceTest(t)
			defer ctrl.Finish()

			tx := &fakeTx{}
			tt.mockSetup(mockReviewRepo, mockBookingRepo, mockDB, tx)

			review, err := reviewService.CreateReview(ctx, tt.req)

			if tt.expectedErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.expectedErr), "expected error %v, got %v", tt.expectedErr, err)
				assert.Nil(t, review)
				assert.False(t, tx.committed)
			} else {
				require.NoError(t, err)
				require.NotNil(t, review)
				assert.True(t, tx.committed)
			}
		})
	}
}

func TestReviewService_ListReviews(t *testing.T) {
	ctx, reviewService, mockReviewRepo, _, _, ctrl := setupReviewServiceTest(t)
	defer ctrl.Finish()

	recipientID := uuid.New()
	stored := []models.Review{
		{ID: uuid.New(), RecipientID: recipientID, Rating: 5},
		{ID: uuid.New(), RecipientID: recipientID, Rating: 4},
	}
	summary := &models.RatingSummary{AverageRating: 4.5, ReviewCount: 2}

	mockReviewRepo.EXPECT().ListByRecipient(ctx, recipientID, 10, 0).Return(stored, nil).Times(1)
	mockReviewRepo.EXPECT().RatingSummary(ctx, recipientID).Return(summary, nil).Times(1)

	reviews, rating, err := reviewService.ListReviews(ctx, &dto.ListReviewsRequest{RecipientID: recipientID})

	require.NoError(t, err)
	assert.Len(t, reviews, 2)
	assert.Equal(t, 4.5, rating.AverageRating)
	assert.Equal(t, 2, rating.ReviewCount)
}
