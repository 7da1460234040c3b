// internal/app/app.go
package app

import (
	"mycraft-api/config"
	"mycraft-api/internal/ai"
	"mycraft-api/internal/geo"
	"mycraft-api/internal/services"
	"mycraft-api/internal/storage/postgres"
	"mycraft-api/internal/ws"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Application holds core application dependencies.
type Application struct {
	Config      *config.Config
	DBPool      *pgxpool.Pool
	RedisClient *redis.Client
	Validator   *validator.Validate
	Hub         *ws.Hub

	UserService    services.UserService
	JobService     services.JobService
	BookingService services.BookingService
	ChatService    services.ChatService
	OfferService   services.OfferService
	ReviewService  services.ReviewService
}

// New wires repositories, clients and services into the container.
func New(cfg *config.Config, dbPool *pgxpool.Pool, redisClient *redis.Client, validate *validator.Validate) *Application {
	userRepo := postgres.NewUserRepo(dbPool)
	jobRepo := postgres.NewJobRepo(dbPool)
	bookingRepo := postgres.NewBookingRepo(dbPool)
	convRepo := postgres.NewConversationRepo(dbPool)
	offerRepo := postgres.NewOfferRepo(dbPool)
	reviewRepo := postgres.NewReviewRepo(dbPool)

	geocoder := geo.NewNominatimGeocoder(cfg.Geocoding, redisClient)
	aiClient := ai.NewGeminiClient(cfg.AI)
	hub := ws.NewHub()

	return &Application{
		Config:      cfg,
		DBPool:      dbPool,
		RedisClient: redisClient,
		Validator:   validate,
		Hub:         hub,

		UserService:    services.NewUserService(userRepo, reviewRepo, dbPool, cfg.JWT.Secret, cfg.JWT.Expiration),
		JobService:     services.NewJobService(jobRepo, userRepo, bookingRepo, geocoder, aiClient),
		BookingService: services.NewBookingService(bookingRepo, jobRepo, dbPool),
		ChatService:    services.NewChatService(convRepo, jobRepo, offerRepo, dbPool, hub, aiClient),
		OfferService:   services.NewOfferService(offerRepo, convRepo, jobRepo, bookingRepo, dbPool, hub),
		ReviewService:  services.NewReviewService(reviewRepo, bookingRepo, dbPool),
	}
}
