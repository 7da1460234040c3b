package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"mycraft-api/internal/models"
	"mycraft-api/internal/storage"
	"mycraft-api/internal/transport/dto"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type userService struct {
	userRepo      storage.UserRepository
	reviewRepo    storage.ReviewRepository
	db            storage.TxManager
	jwtSecret     string
	jwtExpiration time.Duration
}

// NewUserService creates a new instance of UserService.
func NewUserService(userRepo storage.UserRepository, reviewRepo storage.ReviewRepository, db storage.TxManager, jwtSecret string, jwtExpiration time.Duration) UserService {
	return &userService{
		userRepo:      userRepo,
		reviewRepo:    reviewRepo,
		db:            db,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

// newProfile is the single place profiles are built. Every account gets one,
// craftsman or not.
func newProfile(userID uuid.UUID, isCraftsman bool) *models.Profile {
	return &models.Profile{
		ID:          uuid.New(),
		UserID:      userID,
		IsCraftsman: isCraftsman,
	}
}

func (s *userService) Register(ctx context.Context, req *dto.RegisterRequest) (*AccountBundle, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Register: Error hashing password: %v", err)
		return nil, fmt.Errorf("internal error hashing password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	profile := newProfile(user.ID, req.IsCraftsman)

	// --- Transaction Start ---
	// User and profile are created together or not at all.
	tx, err := s.db.Begin(ctx)
	if err != nil {
		log.Printf("Register: Error beginning transaction: %v", err)
		return nil, fmt.Errorf("internal error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	txUserRepo := s.userRepo.WithTx(tx)
	if err := txUserRepo.Create(ctx, user, profile); err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) || errors.Is(err, storage.ErrConflict) {
			return nil, fmt.Errorf("%w: %w", ErrConflict, err)
		}
		log.Printf("Register: Error creating user: %v", err)
		return nil, fmt.Errorf("internal error creating user: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		log.Printf("Register: Error committing transaction: %v", err)
		return nil, fmt.Errorf("internal error committing registration: %w", err)
	}
	// --- End Transaction ---

	return &AccountBundle{User: user, Profile: profile}, nil
}

func (s *userService) Login(ctx context.Context, req *dto.LoginRequest) (*AccountBundle, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Printf("Login attempt failed for email %s: user not found", req.Email)
			return nil, "", ErrInvalidCredentials
		}
		log.Printf("Error fetching user by email %s during login: %v", req.Email, err)
		return nil, "", fmt.Errorf("internal error during login: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		log.Printf("Login attempt failed for email %s: invalid password", req.Email)
		return nil, "", ErrInvalidCredentials
	}

	profile, err := s.userRepo.GetProfile(ctx, user.ID)
	if err != nil {
		return nil, "", mapRepoError(err, "fetching profile during login")
	}

	// Generate JWT Token
	expirationTime := time.Now().Add(s.jwtExpiration)
	claims := &jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		ExpiresAt: jwt.NewNumericDate(expirationTime),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		log.Printf("Error generating JWT token for user %s: %v", user.Email, err)
		return nil, "", fmt.Errorf("failed to generate login token: %w", err)
	}

	return &AccountBundle{User: user, Profile: profile}, tokenString, nil
}

func (s *userService) GetMe(ctx context.Context, userID uuid.UUID) (*AccountBundle, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, mapRepoError(err, "fetching user")
	}
	profile, err := s.userRepo.GetProfile(ctx, userID)
	if err != nil {
		return nil, mapRepoError(err, "fetching profile")
	}
	return &AccountBundle{User: user, Profile: profile}, nil
}

func (s *userService) GetPublicProfile(ctx context.Context, userID uuid.UUID) (*PublicAccount, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, mapRepoError(err, "fetching user")
	}
	profile, err := s.userRepo.GetProfile(ctx, userID)
	if err != nil {
		return nil, mapRepoError(err, "fetching profile")
	}
	rating, err := s.reviewRepo.RatingSummary(ctx, userID)
	if err != nil {
		return nil, mapRepoError(err, "computing rating summary")
	}
	return &PublicAccount{User: user, Profile: profile, Rating: rating}, nil
}

func (s *userService) UpdateProfile(ctx context.Context, req *dto.UpdateProfileRequest) (*models.Profile, error) {
	profile, err := s.userRepo.UpdateProfile(ctx, req)
	if err != nil {
		return nil, mapRepoError(err, "updating profile")
	}
	return profile, nil
}
