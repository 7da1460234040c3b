package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"mycraft-api/internal/ai"
	"mycraft-api/internal/geo"
	"mycraft-api/internal/models"
	"mycraft-api/internal/storage"
	"mycraft-api/internal/transport/dto"

	"github.com/google/uuid"
)

const defaultSearchLimit = 10
const maxSearchLimit = 100

// priceAdviceFallback is returned when every AI model fails. The feature is
// best-effort; callers still get a usable answer.
const priceAdviceFallback = "Entschuldigung, eine Preisempfehlung ist derzeit leider nicht verfügbar. Bitte versuchen Sie es später erneut."

type jobService struct {
	jobRepo     storage.JobRepository
	userRepo    storage.UserRepository
	bookingRepo storage.BookingRepository
	geocoder    geo.Geocoder
	aiClient    ai.Client
}

// NewJobService creates a new instance of JobService.
func NewJobService(jobRepo storage.JobRepository, userRepo storage.UserRepository, bookingRepo storage.BookingRepository, geocoder geo.Geocoder, aiClient ai.Client) JobService {
	return &jobService{
		jobRepo:     jobRepo,
		userRepo:    userRepo,
		bookingRepo: bookingRepo,
		geocoder:    geocoder,
		aiClient:    aiClient,
	}
}

func (s *jobService) CreateJob(ctx context.Context, req *dto.CreateJobRequest) (*models.Job, error) {
	profile, err := s.userRepo.GetProfile(ctx, req.ContractorID)
	if err != nil {
		return nil, mapRepoError(err, "fetching profile for job creation")
	}
	if !profile.IsCraftsman {
		log.Printf("CreateJob: Forbidden attempt by non-craftsman user %s", req.ContractorID)
		return nil, ErrForbidden
	}

	job := &models.Job{
		ID:           uuid.New(),
		Title:        req.Title,
		Description:  req.Description,
		Trade:        models.Trade(req.Trade),
		ZipCode:      req.ZipCode,
		City:         req.City,
		Lat:          req.Lat,
		Lng:          req.Lng,
		Price:        req.Price,
		Status:       models.JobStatusOpen,
		ContractorID: req.ContractorID,
	}

	// Listings without coordinates are geocoded from their zip code and city
	// so they show up in radius searches. Failure is not fatal.
	if job.Lat == nil || job.Lng == nil {
		if point, err := s.geocoder.Geocode(ctx, strings.TrimSpace(req.ZipCode+" "+req.City)); err == nil {
			job.Lat = &point.Lat
			job.Lng = &point.Lng
		} else if !errors.Is(err, geo.ErrNotFound) {
			log.Printf("CreateJob: Geocoding failed for %s %s: %v", req.ZipCode, req.City, err)
		}
	}

	created, err := s.jobRepo.Create(ctx, job)
	if err != nil {
		return nil, mapRepoError(err, "creating job")
	}
	return created, nil
}

func (s *jobService) GetJobByID(ctx context.Context, req *dto.GetJobByIDRequest) (*models.Job, error) {
	job, err := s.jobRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, mapRepoError(err, "fetching job")
	}
	return job, nil
}

// SearchJobs resolves the request into concrete search filters. A radius
// search needs a center point: explicit coordinates win, otherwise the city
// text is geocoded. When geocoding fails the search silently degrades to a
// plain text match so users still get results.
func (s *jobService) SearchJobs(ctx context.Context, req *dto.SearchJobsRequest) ([]models.Job, error) {
	params := &storage.JobSearchParams{
		Query:        strings.TrimSpace(req.Search),
		LocationText: strings.TrimSpace(req.City),
		Limit:        req.Limit,
		Offset:       req.Offset,
	}
	if params.Limit <= 0 {
		params.Limit = defaultSearchLimit
	}
	if params.Limit > maxSearchLimit {
		params.Limit = maxSearchLimit
	}
	if params.Offset < 0 {
		params.Offset = 0
	}

	if req.Trade != "" {
		trade := models.Trade(req.Trade)
		params.Trade = &trade
	}
	if params.Query != "" {
		params.TradeMatches = models.MatchingTrades(params.Query)
	}

	if req.Radius != nil {
		var point *storage.GeoPoint
		switch {
		case req.Lat != nil && req.Lng != nil:
			point = &storage.GeoPoint{Lat: *req.Lat, Lng: *req.Lng}
		case params.LocationText != "":
			geocoded, err := s.geocoder.Geocode(ctx, params.LocationText)
			if err != nil {
				if !errors.Is(err, geo.ErrNotFound) {
					log.Printf("SearchJobs: Geocoding failed for %q: %v", params.LocationText, err)
				}
			} else {
				point = &storage.GeoPoint{Lat: geocoded.Lat, Lng: geocoded.Lng}
			}
		}
		if point != nil {
			params.Point = point
			params.RadiusKM = req.Radius
			params.LocationText = ""
		}
	}

	jobs, err := s.jobRepo.Search(ctx, params)
	if err != nil {
		return nil, mapRepoError(err, "searching jobs")
	}
	return jobs, nil
}

func (s *jobService) ListMyJobs(ctx context.Context, req *dto.ListMyJobsRequest) ([]models.Job, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	jobs, err := s.jobRepo.ListByContractor(ctx, req.ContractorID, limit, req.Offset)
	if err != nil {
		return nil, mapRepoError(err, "listing jobs")
	}
	return jobs, nil
}

func (s *jobService) UpdateJob(ctx context.Context, req *dto.UpdateJobRequest) (*models.Job, error) {
	job, err := s.jobRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, mapRepoError(err, "fetching job for update")
	}
	if job.ContractorID != req.UserID {
		log.Printf("UpdateJob: Forbidden attempt by user %s on job %s", req.UserID, req.ID)
		return nil, ErrForbidden
	}

	updated, err := s.jobRepo.Update(ctx, req)
	if err != nil {
		return nil, mapRepoError(err, "updating job")
	}
	return updated, nil
}

func (s *jobService) DeleteJob(ctx context.Context, req *dto.DeleteJobRequest) error {
	job, err := s.jobRepo.GetByID(ctx, req.ID)
	if err != nil {
		return mapRepoError(err, "fetching job for deletion")
	}
	if job.ContractorID != req.UserID {
		log.Printf("DeleteJob: Forbidden attempt by user %s on job %s", req.UserID, req.ID)
		return ErrForbidden
	}

	if err := s.jobRepo.Delete(ctx, req.ID); err != nil {
		return mapRepoError(err, "deleting job")
	}
	return nil
}

// Availability returns the dates on/after today on which the job's contractor
// already has an active booking.
func (s *jobService) Availability(ctx context.Context, req *dto.JobAvailabilityRequest) ([]time.Time, error) {
	job, err := s.jobRepo.GetByID(ctx, req.JobID)
	if err != nil {
		return nil, mapRepoError(err, "fetching job for availability")
	}

	busy, err := s.bookingRepo.BusyDates(ctx, job.ContractorID, startOfToday())
	if err != nil {
		return nil, mapRepoError(err, "fetching busy dates")
	}
	return busy, nil
}

// PriceAdvice asks the AI for a price estimate for the listing. On AI failure
// a static fallback text is returned instead of an error.
func (s *jobService) PriceAdvice(ctx context.Context, req *dto.PriceAdviceRequest) (string, error) {
	job, err := s.jobRepo.GetByID(ctx, req.JobID)
	if err != nil {
		return "", mapRepoError(err, "fetching job for price advice")
	}

	var sb strings.Builder
	sb.WriteString("Du bist ein Experte für Handwerkerpreise in Deutschland. ")
	sb.WriteString("Gib eine kurze, realistische Preiseinschätzung für die folgende Dienstleistung ab. ")
	sb.WriteString("Antworte auf Deutsch, in höchstens drei Sätzen, mit einer Preisspanne in Euro.\n\n")
	fmt.Fprintf(&sb, "Gewerk: %s\n", job.Trade.Label())
	fmt.Fprintf(&sb, "Titel: %s\n", job.Title)
	fmt.Fprintf(&sb, "Beschreibung: %s\n", job.Description)
	if job.City != "" {
		fmt.Fprintf(&sb, "Ort: %s\n", job.City)
	}
	if job.Price != nil {
		fmt.Fprintf(&sb, "Vom Anbieter angesetzter Preis: %.2f EUR\n", *job.Price)
	}

	advice, err := s.aiClient.Complete(ctx, sb.String())
	if err != nil {
		log.Printf("PriceAdvice: AI request failed for job %s: %v", req.JobID, err)
		return priceAdviceFallback, nil
	}
	return strings.TrimSpace(advice), nil
}

func (s *jobService) SuggestAddresses(ctx context.Context, req *dto.SuggestAddressRequest) ([]geo.Suggestion, error) {
	suggestions, err := s.geocoder.Suggest(ctx, req.Query, 5)
	if err != nil {
		log.Printf("SuggestAddresses: Geocoder failed for %q: %v", req.Query, err)
		return nil, fmt.Errorf("internal error suggesting addresses: %w", err)
	}
	return suggestions, nil
}
