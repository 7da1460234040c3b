// internal/storage/postgres/users.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"mycraft-api/internal/models"
	"mycraft-api/internal/storage"
	"mycraft-api/internal/transport/dto"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepo implements the storage.UserRepository interface using PostgreSQL.
type UserRepo struct {
	db Querier
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *pgxpool.Pool) *UserRepo {
	return &UserRepo{db: db}
}

// WithTx creates a new UserRepo bound to the transaction.
func (r *UserRepo) WithTx(tx pgx.Tx) storage.UserRepository {
	return &UserRepo{db: tx}
}

// Compile-time check to ensure UserRepo implements UserRepository
var _ storage.UserRepository = (*UserRepo)(nil)

// Create saves a new user together with its profile. The profile row is part
// of the same insert sequence, so callers should run this inside a
// transaction when they need both-or-neither semantics.
func (r *UserRepo) Create(ctx context.Context, user *models.User, profile *models.Profile) error {
	userQuery := `
		INSERT INTO users (id, name, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, userQuery,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			log.Printf("Error creating user: duplicate email %s", user.Email)
			return storage.ErrDuplicateEmail
		}
		log.Printf("Error creating user: %v\n", err)
		return fmt.Errorf("failed to create user: %w", err)
	}

	profileQuery := `
		INSERT INTO profiles (id, user_id, is_craftsman, company_name, street_address, zip_code, city, bio, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err = r.db.QueryRow(ctx, profileQuery,
		profile.ID,
		profile.UserID,
		profile.IsCraftsman,
		profile.CompanyName,
		profile.StreetAddress,
		profile.ZipCode,
		profile.City,
		profile.Bio,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)

	if err != nil {
		log.Printf("Error creating profile for user %s: %v\n", user.ID, err)
		return fmt.Errorf("failed to create profile: %w", err)
	}

	log.Printf("User created successfully with ID: %s", user.ID)
	return nil
}

// GetByID retrieves a specific user by its ID.
func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `
		SELECT id, name, email, password_hash, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	var user models.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		log.Printf("Error scanning user by ID %s: %v\n", id, err)
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}

	return &user, nil
}

// GetByEmail retrieves a specific user by email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, name, email, password_hash, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	var user models.User
	err := r.db.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		log.Printf("Error scanning user by email: %v\n", err)
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}

// GetProfile retrieves the profile belonging to a user.
func (r *UserRepo) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	query := `
		SELECT id, user_id, is_craftsman, company_name, street_address, zip_code, city, bio, created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`
	var profile models.Profile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.IsCraftsman,
		&profile.CompanyName,
		&profile.StreetAddress,
		&profile.ZipCode,
		&profile.City,
		&profile.Bio,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Printf("Profile not found for user: %s\n", userID)
			return nil, storage.ErrNotFound
		}
		log.Printf("Error scanning profile for user %s: %v\n", userID, err)
		return nil, fmt.Errorf("failed to get profile for user %s: %w", userID, err)
	}

	return &profile, nil
}

// UpdateProfile modifies the profile based on non-nil fields in the request DTO.
func (r *UserRepo) UpdateProfile(ctx context.Context, req *dto.UpdateProfileRequest) (*models.Profile, error) {
	var setClauses []string
	args := []interface{}{}
	argID := 1

	if req.IsCraftsman != nil {
		args = append(args, *req.IsCraftsman)
		setClauses = append(setClauses, fmt.Sprintf("is_craftsman = $%d", argID))
		argID++
	}
	if req.CompanyName != nil {
		args = append(args, *req.CompanyName)
		setClauses = append(setClauses, fmt.Sprintf("company_name = $%d", argID))
		argID++
	}
	if req.StreetAddress != nil {
		args = append(args, *req.StreetAddress)
		setClauses = append(setClauses, fmt.Sprintf("street_address = $%d", argID))
		argID++
	}
	if req.ZipCode != nil {
		args = append(args, *req.ZipCode)
		setClauses = append(setClauses, fmt.Sprintf("zip_code = $%d", argID))
		argID++
	}
	if req.City != nil {
		args = append(args, *req.City)
		setClauses = append(setClauses, fmt.Sprintf("city = $%d", argID))
		argID++
	}
	if req.Bio != nil {
		args = append(args, *req.Bio)
		setClauses = append(setClauses, fmt.Sprintf("bio = $%d", argID))
		argID++
	}

	if len(setClauses) == 0 {
		return nil, fmt.Errorf("no fields provided for profile update of user %s", req.UserID)
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, req.UserID)

	query := fmt.Sprintf(`
		UPDATE profiles
		SET %s
		WHERE user_id = $%d
		RETURNING id, user_id, is_craftsman, company_name, street_address, zip_code, city, bio, created_at, updated_at
	`, strings.Join(setClauses, ", "), argID)

	var profile models.Profile
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.IsCraftsman,
		&profile.CompanyName,
		&profile.StreetAddress,
		&profile.ZipCode,
		&profile.City,
		&profile.Bio,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Printf("Profile not found for update, user: %s\n", req.UserID)
			return nil, storage.ErrNotFound
		}
		log.Printf("Error updating profile for user %s: %v\n", req.UserID, err)
		return nil, fmt.Errorf("failed to update profile for user %s: %w", req.UserID, err)
	}

	return &profile, nil
}
