package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	mock_storage "mycraft-api/internal/mocks"
	"mycraft-api/internal/models"
	"mycraft-api/internal/services"
	"mycraft-api/internal/storage"
	"mycraft-api/internal/transport/dto"

	"github.com/golang-jwt/jwt/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	jwtSecret   = "test-secret"
	jwtDuration = time.Hour
)

func setupUserServiceTest(t *testing.T) (context.Context, services.UserService, *mock_storage.MockUserRepository, *mock_storage.MockReviewRepository, *mock_storage.MockTxManager, *gomock.Controller) {
	ctrl := gomock.NewController(t)
	mockUserRepo := mock_storage.NewMockUserRepository(ctrl)
	mockReviewRepo := mock_storage.NewMockReviewRepository(ctrl)
	mockDB := mock_storage.NewMockTxManager(ctrl)
	userService := services.NewUserService(mockUserRepo, mockReviewRepo, mockDB, jwtSecret, jwtDuration)
	return context.Background(), userService, mockUserRepo, mockReviewRepo, mockDB, ctrl
}

func TestUserService_Register(t *testing.T) {
	tests := []struct {
		name        string
		req         *dto.RegisterRequest
		mockSetup   func(repo *mock_storage.MockUserRepository, db *mock_storage.MockTxManager, tx *fakeTx)
		expectedErr error
	}{
		{
			name: "Success_Customer",
			req: &dto.RegisterRequest{
				Name:     "Anna Schmidt",
				Email:    "anna@example.com",
				Password: "password123",
			},
			mockSetup: func(repo *mock_storage.MockUserRepository, db *mock_storage.MockTxManager, tx *fakeTx) {
				db.EXPECT().Begin(gomock.Any()).Return(tx, nil).Times(1)
				repo.EXPECT().WithTx(tx).Return(repo).Times(1)
				repo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, user *models.User, profile *models.Profile) error {
						assert.Equal(t, "anna@example.com", user.Email)
						assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
						assert.Equal(t, user.ID, profile.UserID)
						assert.False(t, profile.IsCraftsman)
						return nil
					}).Times(1)
			},
			expectedErr: nil,
		},
		{
			name: "Success_Craftsman",
			req: &dto.RegisterRequest{
				Name:        "Max Meister",
				Email:       "max@example.com",
				Password:    "password123",
				IsCraftsman: true,
			},
			mockSetup: func(repo *mock_storage.MockUserRepository, db *mock_storage.MockTxManager, tx *fakeTx) {
				db.EXPECT().Begin(gomock.Any()).Return(tx, nil).Times(1)
				repo.EXPECT().WithTx(tx).Return(repo).Times(1)
				repo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, user *models.User, profile *models.Profile) error {
						assert.True(t, profile.IsCraftsman)
						return nil
					}).Times(1)
			},
			expectedErr: nil,
		},
		{
			name: "Error_DuplicateEmail",
			req: &dto.RegisterRequest{
				Name:     "Anna Schmidt",
				Email:    "anna@example.com",
				Password: "password123",
			},
			mockSetup: func(repo *mock_storage.MockUserRepository, db *mock_storage.MockTxManager, tx *fakeTx) {
				db.EXPECT().Begin(gomock.Any()).Return(tx, nil).Times(1)
				repo.EXPECT().WithTx(tx).Return(repo).Times(1)
				repo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(storage.ErrDuplicateEmail).Times(1)
			},
			expectedErr: services.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, userService, mockUserRepo, _, mockDB, ctrl := setupUserServiceTest(t)
			defer ctrl.Finish()

			tx := &fakeTx{}
			tt.mockSetup(mockUserRepo, mockDB, tx)

			bundle, err := userService.Register(ctx, tt.req)

			if tt.expectedErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.expectedErr), "expected error %v, got %v", tt.expectedErr, err)
				assert.Nil(t, bundle)
				assert.True(t, tx.rolledBack)
			} else {
				require.NoError(t, err)
				require.NotNil(t, bundle)
				assert.Equal(t, tt.req.Email, bundle.User.Email)
				assert.Equal(t, bundle.User.ID, bundle.Profile.UserID)
				assert.NotEqual(t, uuid.Nil, bundle.User.ID)
				assert.True(t, tx.committed)
			}
		})
	}
}

func TestUserService_Login(t *testing.T) {
	userID := uuid.New()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	storedUser := &models.User{
		ID:           userID,
		Name:         "Anna Schmidt",
		Email:        "anna@example.com",
		PasswordHash: string(hash),
	}
	storedProfile := &models.Profile{ID: uuid.New(), UserID: userID}

	tests := []struct {
		name        string
		req         *dto.LoginRequest
		mockSetup   func(repo *mock_storage.MockUserRepository)
		expectedErr error
	}{
		{
			name: "Success",
			req:  &dto.LoginRequest{Email: "anna@example.com", Password: "password123"},
			mockSetup: func(repo *mock_storage.MockUserRepository) {
				repo.EXPECT().GetByEmail(gomock.Any(), "anna@example.com").Return(storedUser, nil).Times(1)
				repo.EXPECT().GetProfile(gomock.Any(), userID).Return(storedProfile, nil).Times(1)
			},
			expectedErr: nil,
		},
		{
			name: "Error_WrongPassword",
			req:  &dto.LoginRequest{Email: "anna@example.com", Password: "wrong"},
			mockSetup: func(repo *mock_storage.MockUserRepository) {
				repo.EXPECT().GetByEmail(gomock.Any(), "anna@example.com").Return(storedUser, nil).Times(1)
			},
			expectedErr: services.ErrInvalidCredentials,
		},
		{
			name: "Error_UnknownEmail",
			req:  &dto.LoginRequest{Email: "nobody@example.com", Password: "password123"},
			mockSetup: func(repo *mock_storage.MockUserRepository) {
				repo.EXPECT().GetByEmail(gomock.Any(), "nobody@example.com").Return(nil, storage.ErrNotFound).Times(1)
			},
			expectedErr: services.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, userService, mockUserRepo, _, _, ctrl := setupUserServiceTest(t)
			defer ctrl.Finish()

			tt.mockSetup(mockUserRepo)

			bundle, token, err := userService.Login(ctx, tt.req)

			if tt.expectedErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.expectedErr), "expected error %v, got %v", tt.expectedErr, err)
				assert.Nil(t, bundle)
				assert.Empty(t, token)
			} else {
				require.NoError(t, err)
				require.NotNil(t, bundle)
				assert.Equal(t, storedUser, bundle.User)

				// The token must carry the user ID as subject.
				claims := &jwt.RegisteredClaims{}
				parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
					return []byte(jwtSecret), nil
				})
				require.NoError(t, err)
				assert.True(t, parsed.Valid)
				assert.Equal(t, userID.String(), claims.Subject)
			}
		})
	}
}

func TestUserService_GetPublicProfile(t *testing.T) {
	ctx, userService, mockUserRepo, mockReviewRepo, _, ctrl := setupUserServiceTest(t)
	defer ctrl.Finish()

	userID := uuid.New()
	user := &models.User{ID: userID, Name: "Max Meister", Email: "max@example.com"}
	profile := &models.Profile{ID: uuid.New(), UserID: userID, IsCraftsman: true}
	rating := &models.RatingSummary{AverageRating: 4.5, ReviewCount: 12}

	mockUserRepo.EXPECT().GetByID(ctx, userID).Return(user, nil).Times(1)
	mockUserRepo.EXPECT().GetProfile(ctx, userID).Return(profile, nil).Times(1)
	mockReviewRepo.EXPECT().RatingSummary(ctx, userID).Return(rating, nil).Times(1)

	account, err := userService.GetPublicProfile(ctx, userID)

	require.NoError(t, err)
	assert.Equal(t, user, account.User)
	assert.Equal(t, profile, account.Profile)
	assert.Equal(t, rating, account.Rating)
}
