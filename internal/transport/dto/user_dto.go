package dto

import (
	"time"

	"github.com/google/uuid"
)

// RegisterRequest defines the structure for creating a new account.
// A Profile is created together with the User.
type RegisterRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	IsCraftsman bool   `json:"is_craftsman"`
}

// LoginRequest defines the structure for logging in.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// GetUserByIDRequest defines the structure for getting a user by id.
type GetUserByIDRequest struct {
	ID uuid.UUID `json:"-" validate:"required"`
}

// GetUserByEmailRequest defines the structure for getting a user by email.
type GetUserByEmailRequest struct {
	Email string `json:"-" validate:"required,email"`
}

// UpdateProfileRequest defines the structure for updating the caller's profile.
type UpdateProfileRequest struct {
	UserID        uuid.UUID `json:"-"` // Set internally by handler from auth context
	IsCraftsman   *bool     `json:"is_craftsman,omitempty"`
	CompanyName   *string   `json:"company_name,omitempty" validate:"omitempty,max=255"`
	StreetAddress *string   `json:"street_address,omitempty" validate:"omitempty,max=255"`
	ZipCode       *string   `json:"zip_code,omitempty" validate:"omitempty,max=10"`
	City          *string   `json:"city,omitempty" validate:"omitempty,max=100"`
	Bio           *string   `json:"bio,omitempty"`
}

// ProfileResponse is the profile part of user payloads.
type ProfileResponse struct {
	IsCraftsman   bool    `json:"is_craftsman"`
	CompanyName   *string `json:"company_name,omitempty"`
	StreetAddress *string `json:"street_address,omitempty"`
	ZipCode       *string `json:"zip_code,omitempty"`
	City          *string `json:"city,omitempty"`
	Bio           *string `json:"bio,omitempty"`
}

// UserResponse defines the authenticated user's own data.
type UserResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Profile   ProfileResponse `json:"profile"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// PublicUserResponse defines what other users see, including the aggregate
// rating computed over received reviews.
type PublicUserResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Profile       ProfileResponse `json:"profile"`
	AverageRating float64         `json:"average_rating"`
	ReviewCount   int             `json:"review_count"`
}

// LoginResponse carries the issued token together with the user snapshot.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
