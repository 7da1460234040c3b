// main.go

package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"mycraft-api/config"
	"mycraft-api/internal/app"
	"mycraft-api/internal/database"
	"mycraft-api/internal/server"

	_ "mycraft-api/docs" // Import generated docs (created by swag init)

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// @title           MyCraft Marketplace API
// @version         1.0
// @description     Marketplace backend connecting customers with craftsmen: listings, geo search, chat, offers, bookings and reviews.

// @contact.name   API Support
// @contact.email  support@mycraft.example.com

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes   http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// .env is optional; real deployments use environment variables.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// --- Initialize Redis Client ---
	// Redis only backs the geocoding cache; start without it if unreachable.
	redisClient, err := database.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("WARN: Failed to connect to Redis: %v. Continuing without geocode cache.", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	dbPool, err := database.NewConnectionPool(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	if err := database.EnsureSchema(dbPool); err != nil {
		log.Fatalf("Failed to prepare database schema: %v", err)
	}

	validate := validator.New()

	application := app.New(cfg, dbPool, redisClient, validate)

	srv := server.NewServer(application)

	// --- Graceful Shutdown Handling ---
	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit // Block until a signal is received

	log.Println("Shutting down server...")

	//Gin shutdowns on its own

	log.Println("Application gracefully stopped.")
}
