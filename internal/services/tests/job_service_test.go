package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"mycraft-api/internal/geo"
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

func setupJobServiceTest(t *testing.T) (context.Context, services.JobService, *mock_storage.MockJobRepository, *mock_storage.MockUserRepository, *mock_storage.MockBookingRepository, *mock_storage.MockGeocoder, *mock_storage.MockAIClient, *gomock.Controller) {
	ctrl := gomock.NewController(t)
	mockJobRepo := mock_storage.NewMockJobRepository(ctrl)
	mockUserRepo := mock_storage.NewMockUserRepository(ctrl)
	mockBookingRepo := mock_storage.NewMockBookingRepository(ctrl)
	mockGeocoder := mock_storage.NewMockGeocoder(ctrl)
	mockAI := mock_storage.NewMockAIClient(ctrl)
	jobService := services.NewJobService(mockJobRepo, mockUserRepo, mockBookingRepo, mockGeocoder, mockAI)
	return context.Background(), jobService, mockJobRepo, mockUserRepo, mockBookingRepo, mockGeocoder, mockAI, ctrl
}

func TestJobService_CreateJob(t *testing.T) {
	contractorID := uuid.New()
	craftsmanProfile := &models.Profile{ID: uuid.New(), UserID: contractorID, IsCraftsman: true}
	customerProfile := &models.Profile{ID: uuid.New(), UserID: contractorID, IsCraftsman: false}

	t.Run("Success_GeocodesMissingCoordinates", func(t *testing.T) {
		ctx, jobService, mockJobRepo, mockUserRepo, _, mockGeocoder, _, ctrl := setupJobServiceTest(t)
		defer ctrl.Finish()

		mockUserRepo.EXPECT().GetProfile(ctx, contractorID).Return(craftsmanProfile, nil).Times(1)
		mockGeocoder.EXPECT().Geocode(ctx, "10115 Berlin").Return(&geo.Point{Lat: 52.53, Lng: 13.38}, nil).Times(1)
		mockJobRepo.EXPECT().Create(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, job *models.Job) (*models.Job, error) {
				assert.Equal(t, models.JobStatusOpen, job.Status)
				require.NotNil(t, job.Lat)
				require.NotNil(t, job.Lng)
				assert.Equal(t, 52.53, *job.Lat)
				return job, nil
			}).Times(1)

		job, err := jobService.CreateJob(ctx, &dto.CreateJobRequest{
			Title:        "Heizung warten",
			Description:  "Jährliche Wartung einer Gastherme",
			Trade:        "PLUMBER",
			ZipCode:      "10115",
			City:         "Berlin",
			ContractorID: contractorID,
		})

		require.NoError(t, err)
		assert.Equal(t, models.TradePlumber, job.Trade)
	})

	t.Run("Success_GeocodeFailureIsNotFatal", func(t *testing.T) {
		ctx, jobService, mockJobRepo, mockUserRepo, _, mockGeocoder, _, ctrl := setupJobServiceTest(t)
		defer ctrl.Finish()

		mockUserRepo.EXPECT().GetProfile(ctx, contractorID).Return(craftsmanProfile, nil).Times(1)
		mockGeocoder.EXPECT().Geocode(ctx, gomock.Any()).Return(nil, geo.ErrNotFound).Times(1)
		mockJobRepo.EXPECT().Create(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, job *models.Job) (*models.Job, error) {
				assert.Nil(t, job.Lat)
				assert.Nil(t, job.Lng)
				return job, nil
			}).Times(1)

		_, err := jobService.CreateJob(ctx, &dto.CreateJobRequest{
			Title:        "Zaun streichen",
			Description:  "Gartenzaun, ca. 20m",
			Trade:        "PAINTER",
			ZipCode:      "99999",
			ContractorID: contractorID,
		})

		require.NoError(t, err)
	})

	t.Run("Error_NonCraftsman", func(t *testing.T) {
		ctx, jobService, _, mockUserRepo, _, _, _, ctrl := setupJobServiceTest(t)
		defer ctrl.Finish()

		mockUserRepo.EXPECT().GetProfile(ctx, contractorID).Return(customerProfile, nil).Times(1)

		_, err := jobService.CreateJob(ctx, &dto.CreateJobRequest{
			Title:        "Heizung warten",
			Description:  "Wartung",
			Trade:        "PLUMBER",
			ZipCode:      "10115",
			ContractorID: contractorID,
		})

		assert.True(t, errors.Is(err, services.ErrForbidden))
	})
}

func TestJobService_SearchJobs(t *testing.T) {
	t.Run("RadiusWithCoordinatesSuppressesCityFilter", func(t *testing.T) {
		ctx, jobService, mockJobRepo, _, _, _, _, ctrl := setupJobServiceTest(t)
		defer ctrl.Finish()

		mockJobRepo.EXPECT().Search(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, params *storage.JobSearchParams) ([]models.Job, error) {
				require.NotNil(t, params.Point)
				assert.Equal(t, 52.52, params.Point.Lat)
				assert.Equal(t, 13.40, params.Point.Lng)
				require.NotNil(t, params.RadiusKM)
				assert.Equal(t, 25.0, *params.RadiusKM)
				assert.Empty(t, params.LocationText)
				return []models.Job{}, nil
			}).Times(1)

		_, err := jobService.SearchJobs(ctx, &dto.SearchJobsRequest{
			City:   "Berlin",
			Lat:    ptrFloat64(52.52),
			Lng:    ptrFloat64(13.40),
			Radius: ptrFloat64(25),
		})
		require.NoError(t, err)
	})

	t.Run("RadiusGeocodesCityText", func(t *testing.T) {
		ctx, jobService, mockJobRepo, _, _, mockGeocoder, _, ctrl := setupJobServiceTest(t)
		defer ctrl.Finish()

		mockGeocoder.EXPECT().Geocode(ctx, "Hamburg").Return(&geo.Point{Lat: 53.55, Lng: 9.99}, nil).Times(1)
		mockJobRepo.EXPECT().Search(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, params *storage.JobSearchParams) ([]models.Job, error) {
				require.NotNil(t, params.Point)
				assert.Equal(t, 53.55, params.Point.Lat)
				assert.Empty(t, params.LocationText)
				return []models.Job{}, nil
			}).Times(1)

		_, err := jobService.SearchJobs(ctx, &dto.SearchJobsRequest{
			City:   "Hamburg",
			Radius: ptrFloat64(10),
		})
		require.NoError(t, err)
	})

	t.Run("GeocodeFailureFallsBackToTextSearch", func(t *testing.T) {
		ctx, jobService, mockJobRepo, _, _, mockGeocoder, _, ctrl := setupJobServiceTest(t)
		defer ctrl.Finish()

		mockGeocoder.EXPECT().Geocode(ctx, "Atlantis").Return(nil, geo.ErrNotFound).Times(1)
		mockJobRepo.EXPECT().Search(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, params *storage.JobSearchParams) ([]models.Job, error) {
				assert.Nil(t, params.Point)
				assert.Nil(t, params.RadiusKM)
				assert.Equal(t, "Atlantis", params.LocationText)
				return []models.Job{}, nil
			}).Times(1)

		_, err := jobService.SearchJobs(ctx, &dto.SearchJobsRequest{
			City:   "Atlantis",
			Radius: ptrFloat64(10),
		})
		require.NoError(t, err)
	})

	t.Run("QueryMatchingTradeLabelExpandsToTrade", func(t *testing.T) {
		ctx, jobService, mockJobRepo, _, _, _, _, ctrl := setupJobServiceTest(t)
		defer ctrl.Finish()

		mockJobRepo.EXPECT().Search(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, params *storage.JobSearchParams) ([]models.Job, error) {
				assert.Equal(t, "elektrik", params.Query)
				assert.Contains(t, params.TradeMatches, models.TradeElectrician)
				return []models.Job{}, nil
			}).Times(1)

		_, err := jobService.SearchJobs(ctx, &dto.SearchJobsRequest{Search: "elektrik"})
		require.NoError(t, err)
	})

	t.Run("LimitIsClamped", func(t *testing.T) {
		ctx, jobService, mockJobRepo, _, _, _, _, ctrl := setupJobServiceTest(t)
		defer ctrl.Finish()

		mockJobRepo.EXPECT().Search(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, params *storage.JobSearchParams) ([]models.Job, error) {
				assert.Equal(t, 100, params.Limit)
				assert.Equal(t, 0, params.Offset)
				return []models.Job{}, nil
			}).Times(1)

		_, err := jobService.SearchJobs(ctx, &dto.SearchJobsRequest{Limit: 5000, Offset: -3})
		require.NoError(t, err)
	})
}

func TestJobService_Availability(t *testing.T) {
	ctx, jobService, mockJobRepo, _, mockBookingRepo, _, _, ctrl := setupJobServiceTest(t)
	defer ctrl.Finish()

	jobID := uuid.New()
	contractorID := uuid.New()
	busy := []time.Time{time.Now().AddDate(0, 0, 2), time.Now().AddDate(0, 0, 5)}

	mockJobRepo.EXPECT().GetByID(ctx, jobID).Return(&models.Job{ID: jobID, ContractorID: contractorID}, nil).Times(1)
	mockBookingRepo.EXPECT().BusyDates(ctx, contractorID, gomock.Any()).Return(busy, nil).Times(1)

	dates, err := jobService.Availability(ctx, &dto.JobAvailabilityRequest{JobID: jobID})

	require.NoError(t, err)
	assert.Len(t, dates, 2)
}

func TestJobService_PriceAdvice(t *testing.T) {
	jobID := uuid.New()
	job := &models.Job{
		ID:          jobID,
		Title:       "Badezimmer renovieren",
		Description: "Komplettsanierung, 8qm",
		Trade:       models.TradePlumber,
		City:        "Berlin",
		Price:       ptrFloat64(4500),
	}

	t.Run("Success", func(t *testing.T) {
		ctx, jobService, mockJobRepo, _, _, _, mockAI, ctrl := setupJobServiceTest(t)
		defer ctrl.Finish()

		mockJobRepo.EXPECT().GetByID(ctx, jobID).Return(job, nil).Times(1)
		mockAI.EXPECT().Complete(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, prompt string) (string, error) {
				assert.Contains(t, prompt, "Badezimmer renovieren")
				assert.Contains(t, prompt, "Sanitär & Heizung")
				return "  Zwischen 4000 und 6000 EUR.  ", nil
			}).Times(1)

		advice, err := jobService.PriceAdvice(ctx, &dto.PriceAdviceRequest{JobID: jobID})

		require.NoError(t, err)
		assert.Equal(t, "Zwischen 4000 und 6000 EUR.", advice)
	})

	t.Run("FallbackOnAIFailure", func(t *testing.T) {
		ctx, jobService, mockJobRepo, _, _, _, mockAI, ctrl := setupJobServiceTest(t)
		defer ctrl.Finish()

		mockJobRepo.EXPECT().GetByID(ctx, jobID).Return(job, nil).Times(1)
		mockAI.EXPECT().Complete(ctx, gomock.Any()).Return("", errors.New("all models exhausted")).Times(1)

		advice, err := jobService.PriceAdvice(ctx, &dto.PriceAdviceRequest{JobID: jobID})

		require.NoError(t, err)
		assert.Contains(t, advice, "nicht verfügbar")
	})
}

func TestJobService_UpdateJob(t *testing.T) {
	ctx, jobService, mockJobRepo, _, _, _, _, ctrl := setupJobServiceTest(t)
	defer ctrl.Finish()

	jobID := uuid.New()
	ownerID := uuid.New()
	job := &models.Job{ID: jobID, ContractorID: ownerID, Status: models.JobStatusOpen}

	mockJobRepo.EXPECT().GetByID(ctx, jobID).Return(job, nil).Times(2)
	mockJobRepo.EXPECT().Update(ctx, gomock.Any()).Return(job, nil).Times(1)

	_, err := jobService.UpdateJob(ctx, &dto.UpdateJobRequest{ID: jobID, UserID: ownerID, Title: ptrString("Neuer Titel")})
	require.NoError(t, err)

	_, err = jobService.UpdateJob(ctx, &dto.UpdateJobRequest{ID: jobID, UserID: uuid.New()})
	assert.True(t, errors.Is(err, services.ErrForbidden))
}
