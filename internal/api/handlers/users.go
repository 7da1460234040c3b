package handlers

import (
	"net/http"

	"mycraft-api/internal/api/middleware"
	"mycraft-api/internal/services"
	"mycraft-api/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// UserHandler holds the service dependency for account operations
type UserHandler struct {
	service   services.UserService
	validator *validator.Validate
}

// NewUserHandler creates a new UserHandler with the given service
func NewUserHandler(service services.UserService, validate *validator.Validate) *UserHandler {
	return &UserHandler{service: service, validator: validate}
}

// Register godoc
// @Summary      Register a new account
// @Description  Creates a user together with its profile. Set is_craftsman to offer services.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        account body      dto.RegisterRequest true  "Account to create"
// @Success      201  {object}  dto.UserResponse "Account created successfully"
// @Failure      400  {object}  map[string]string "Bad Request - Invalid input"
// @Failure      409  {object}  map[string]string "Conflict - Email already registered"
// @Failure      500  {object}  map[string]string "Internal Server Error"
// @Router       /auth/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": formatValidationErrors(validationErrors)})
		return
	}

	account, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, mapAccountToResponse(account))
}

// Login godoc
// @Summary      Log in
// @Description  Authenticates an account and returns a JWT token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials body      dto.LoginRequest true  "Login credentials"
// @Success      200  {object}  dto.LoginResponse "Login successful"
// @Failure      400  {object}  map[string]string "Bad Request - Invalid input"
// @Failure      401  {object}  map[string]string "Unauthorized - Invalid credentials"
// @Failure      500  {object}  map[string]string "Internal Server Error"
// @Router       /auth/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": formatValidationErrors(validationErrors)})
		return
	}

	account, token, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Token: token,
		User:  mapAccountToResponse(account),
	})
}

// GetMe godoc
// @Summary      Get own account
// @Description  Returns the authenticated account with its profile.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.UserResponse "Account data"
// @Failure      401  {object}  map[string]string "Unauthorized"
// @Failure      500  {object}  map[string]string "Internal Server Error"
// @Router       /users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	account, err := h.service.GetMe(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapAccountToResponse(account))
}

// UpdateProfile godoc
// @Summary      Update own profile
// @Description  Updates the authenticated account's profile. Nil fields are left unchanged.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        profile body      dto.UpdateProfileRequest true  "Profile fields to update"
// @Success      200  {object}  dto.ProfileResponse "Profile updated successfully"
// @Failure      400  {object}  map[string]string "Bad Request - Invalid input"
// @Failure      401  {object}  map[string]string "Unauthorized"
// @Failure      500  {object}  map[string]string "Internal Server Error"
// @Router       /users/me/profile [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	req.UserID = userID

	if err := h.validator.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": formatValidationErrors(validationErrors)})
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapProfileToResponse(profile))
}

// GetPublicProfile godoc
// @Summary      Get a public profile
// @Description  Returns another user's public data including their aggregate rating.
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID" Format(uuid)
// @Success      200  {object}  dto.PublicUserResponse "Public profile"
// @Failure      404  {object}  map[string]string "User Not Found"
// @Failure      500  {object}  map[string]string "Internal Server Error"
// @Router       /users/{id} [get]
func (h *UserHandler) GetPublicProfile(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	account, err := h.service.GetPublicProfile(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapPublicAccountToResponse(account))
}
