package handlers

import (
	"net/http"

	"mycraft-api/internal/api/middleware"
	"mycraft-api/internal/models"
	"mycraft-api/internal/services"
	"mycraft-api/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// JobHandler holds the service dependency for listing operations
type JobHandler struct {
	service   services.JobService
	validator *validator.Validate
}

// NewJobHandler creates a new JobHandler with the given service
func NewJobHandler(service services.JobService, validate *validator.Validate) *JobHandler {
	return &JobHandler{service: service, validator: validate}
}

func mapJobsToResponses(jobs []models.Job) []dto.JobResponse {
	responses := make([]dto.JobResponse, 0, len(jobs))
	for i := range jobs {
		responses = append(responses, mapJobToResponse(&jobs[i]))
	}
	return responses
}

// CreateJob godoc
// @Summary      Create a listing
// @Description  Creates a service listing. Craftsman accounts only.
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        job body      dto.CreateJobRequest true  "Listing to create"
// @Success      201  {object}  dto.JobResponse "Listing created successfully"
// @Failure      400  {object}  map[string]string "Bad Request - Invalid input"
// @Failure      403  {object}  map[string]string "Forbidden - Not a craftsman"
// @Failure      500  {object}  map[string]string "Internal Server Error"
// @Router       /jobs [post]
func (h *JobHandler) CreateJob(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	req.ContractorID = userID

	if err := h.validator.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": formatValidationErrors(validationErrors)})
		return
	}

	job, err := h.service.CreateJob(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, mapJobToResponse(job))
}

// GetJob godoc
// @Summary      Get a listing by ID
// @Tags         jobs
// @Produce      json
// @Param        id   path      string  true  "Job ID" Format(uuid)
// @Success      200  {object}  dto.JobResponse "Listing data"
// @Failure      404  {object}  map[string]string "Job Not Found"
// @Failure      500  {object}  map[string]string "Internal Server Error"
// @Router       /jobs/{id} [get]
func (h *JobHandler) GetJob(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	job, err := h.service.GetJobByID(c.Request.Context(), &dto.GetJobByIDRequest{ID: id})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapJobToResponse(job))
}

// SearchJobs godoc
// @Summary      Search listings
// @Description  Public search over open listings. Free text also matches trade labels. With lat/lng or a geocodable city plus radius, results are filtered to the radius and ordered by distance.
// @Tags         jobs
// @Produce      json
// @Param        search  query     string  false  "Free-text filter on title, description and trade label"
// @Param        trade   query     string  false  "Trade code filter"
// @Param        city    query     string  false  "City or zip text filter, or geocoding input for radius search"
// @Param        lat     query     number  false  "Search center latitude"
// @Param        lng     query     number  false  "Search center longitude"
// @Param        radius  query     number  false  "Search radius in kilometers"
// @Param        limit   query     int     false  "Page size"  default(10)
// @Param        offset  query     int     false  "Page offset" default(0)
// @Success      200  {array}   dto.JobResponse "Matching listings"
// @Failure      400  {object}  map[string]string "Bad Request - Invalid input"
// @Failure      500  {object}  map[string]string "Internal Server Error"
// @Router       /jobs [get]
func (h *JobHandler) SearchJobs(c *gin.Context) {
	var req dto.SearchJobsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": formatValidationErrors(validationErrors)})
		return
	}

	jobs, err := h.service.SearchJobs(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapJobsToResponses(jobs))
}

// ListMyJobs godoc
// @Summary      List own listings
// @Description  Lists the authenticated craftsman's listings regardless of status.
// @Tags         jobs
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query     int  false  "Page size"  default(10)
// @Param        offset  query     int  false  "Page offset" default(0)
// @Success      200  {array}   dto.JobResponse "Own listings"
// @Failure      401  {object}  map[string]string "Unauthorized"
// @Failure      500  {object}  map[string]string "Internal Server Error"
// @Router       /jobs/my-services [get]
func (h *JobHandler) ListMyJobs(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.ListMyJobsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	req.ContractorID = userID

	jobs, err := h.service.ListMyJobs(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapJobsToResponses(jobs))
}

// UpdateJob godoc
// @Summary      Update a listing
// @Description  Updates a listing. Only the owning craftsman may update; nil fields stay unchanged.
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string               true  "Job ID" Format(uuid)
// @Param        job  body      dto.UpdateJobRequest true  "Fields to update"
// @Success      200  {object}  dto.JobResponse "Listing updated successfully"
// @Failure      400  {object}  map[string]string "Bad Request - Invalid input"
// @Failure      403  {object}  map[string]string "Forbidden - Not the owner"
// @Failure      404  {object}  map[string]string "Job Not Found"
// @Failure      500  {object}  map[string]string "Internal Server Error"
// @Router       /jobs/{id} [put]
func (h *JobHandler) UpdateJob(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	req.ID = id
	req.UserID = userID

	if err := h.validator.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": formatValidationErrors(validationErrors)})
		return
	}

	job, err := h.service.UpdateJob(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapJobToResponse(job))
}

// DeleteJob godoc
// @Summary      Delete a listing
// @Description  Removes a listing. Only the owning craftsman may delete. Listings referenced by bookings cannot be deleted; pause them instead.
// @Tags         jobs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Job ID" Format(uuid)
// @Success      204  {object}  nil "Listing deleted successfully"
// @Failure      403  {object}  map[string]string "Forbidden - Not the owner"
// @Failure      404  {object}  map[string]string "Job Not Found"
// @Failure      409  {object}  map[string]string "Conflict - Listing has bookings"
// @Failure      500  {object}  map[string]string "Internal Server Error"
// @Router       /jobs/{id} [delete]
func (h *JobHandler) DeleteJob(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteJob(c.Request.Context(), &dto.DeleteJobRequest{ID: id, UserID: userID}); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetAvailability godoc
// @Summary      Get contractor availability for a listing
// @Description  Returns the upcoming dates on which the listing's contractor is already booked.
// @Tags         jobs
// @Produce      json
// @Param        id   path      string  true  "Job ID" Format(uuid)
// @Success      200  {object}  map[string][]string "Busy dates"
// @Failure      404  {object}  map[string]string "Job Not Found"
// @Failure      500  {object}  map[string]string "Internal Server Error"
// @Router       /jobs/{id}/availability [get]
func (h *JobHandler) GetAvailability(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	busy, err := h.service.Availability(c.Request.Context(), &dto.JobAvailabilityRequest{JobID: id})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	dates := make([]string, 0, len(busy))
	for _, d := range busy {
		dates = append(dates, d.Format("2006-01-02"))
	}
	c.JSON(http.StatusOK, gin.H{"busy_dates": dates})
}

// GetPriceAdvice godoc
// @Summary      Get an AI price estimate for a listing
// @Description  Asks the AI for a realistic price range. Falls back to a static text when the AI is unavailable.
// @Tags         jobs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Job ID" Format(uuid)
// @Success      200  {object}  dto.PriceAdviceResponse "Price advice"
// @Failure      404  {object}  map[string]string "Job Not Found"
// @Failure      500  {object}  map[string]string "Internal Server Error"
// @Router       /jobs/{id}/price-advice [get]
func (h *JobHandler) GetPriceAdvice(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	advice, err := h.service.PriceAdvice(c.Request.Context(), &dto.PriceAdviceRequest{JobID: id})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PriceAdviceResponse{Advice: advice})
}

// SuggestAddresses godoc
// @Summary      Suggest addresses
// @Description  Returns structured address candidates for autocompletion, restricted to Germany.
// @Tags         jobs
// @Produce      json
// @Param        q    query     string  true  "Address fragment"
// @Success      200  {array}   dto.AddressSuggestion "Address candidates"
// @Failure      500  {object}  map[string]string "Internal Server Error"
// @Router       /geo/suggest [get]
func (h *JobHandler) SuggestAddresses(c *gin.Context) {
	var req dto.SuggestAddressRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	suggestions, err := h.service.SuggestAddresses(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	responses := make([]dto.AddressSuggestion, 0, len(suggestions))
	for _, s := range suggestions {
		responses = append(responses, dto.AddressSuggestion{
			DisplayName: s.DisplayName,
			Road:        s.Road,
			HouseNumber: s.HouseNumber,
			ZipCode:     s.ZipCode,
			City:        s.City,
			Lat:         s.Lat,
			Lng:         s.Lng,
		})
	}
	c.JSON(http.StatusOK, responses)
}
