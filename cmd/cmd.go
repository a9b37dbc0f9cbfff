package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carpool-backend/internal/config"
	"carpool-backend/internal/distance"
	"carpool-backend/internal/handlers"
	"carpool-backend/internal/middleware"
	"carpool-backend/internal/repository"
	"carpool-backend/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	// Connect to database
	db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connection established")

	// Apply migrations
	if err := repository.Migrate("migrations", cfg.Database.URL()); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply migrations")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	driverRepo := repository.NewDriverRepository(db)
	passengerRepo := repository.NewPassengerRepository(db)
	journeyRepo := repository.NewJourneyRepository(db)
	passengerJourneyRepo := repository.NewPassengerJourneyRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	documentRepo := repository.NewDocumentRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.ExpirationHours)
	userService := services.NewUserService(userRepo, driverRepo, passengerRepo)
	wsHub := services.NewWSHub()
	distanceClient := distance.NewClient(cfg.Distance.BaseURL)
	journeyService := services.NewJourneyService(
		journeyRepo,
		passengerJourneyRepo,
		driverRepo,
		passengerRepo,
		locationRepo,
		distanceClient,
		wsHub,
	)
	documentService, err := services.NewDocumentService(
		documentRepo,
		driverRepo,
		cfg.AWS.Region,
		cfg.AWS.S3Bucket,
		cfg.AWS.AccessKey,
		cfg.AWS.SecretKey,
		cfg.AWS.Endpoint,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create document service")
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	journeyHandler := handlers.NewJourneyHandler(journeyService)
	documentHandler := handlers.NewDocumentHandler(documentService)
	wsHandler := handlers.NewWebSocketHandler(wsHub, authService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	// Routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/users", userHandler.CreateUser)
		r.Post("/users/confirm/{token}", userHandler.ConfirmEmail)
		r.Post("/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(authService))

			r.Get("/users/{id}", userHandler.GetUser)
			r.Patch("/users/{id}", userHandler.PatchUser)
			r.Delete("/users/{id}", userHandler.DeleteUser)

			r.Post("/users/{id}/drivers", userHandler.CreateDriver)
			r.Get("/users/drivers/{id}", userHandler.GetDriver)
			r.Delete("/users/drivers/{id}", userHandler.DeleteDriver)
			r.Post("/users/drivers/{id}/documents", documentHandler.PresignUpload)
			r.Get("/users/drivers/{id}/documents", documentHandler.ListDocuments)

			r.Post("/users/{id}/passengers", userHandler.CreatePassenger)
			r.Get("/users/passengers/{id}", userHandler.GetPassenger)
			r.Delete("/users/passengers/{id}", userHandler.DeletePassenger)

			r.Get("/locations", journeyHandler.ListLocations)

			r.Post("/journeys", journeyHandler.CreateJourney)
			r.Get("/journeys/search", journeyHandler.SearchJourneys)
			r.Post("/journeys/calculate", journeyHandler.CalculateRoute)
			r.Get("/journeys/drivers/{id}", journeyHandler.JourneysByDriver)
			r.Get("/journeys/passengers/{id}", journeyHandler.JourneysByPassenger)
			r.Get("/journeys/{id}", journeyHandler.GetJourney)
			r.Patch("/journeys/{id}", journeyHandler.PatchJourney)
			r.Delete("/journeys/{id}", journeyHandler.DeleteJourney)
			r.Post("/journeys/{id}/passengers", journeyHandler.EnrolPassenger)
			r.Delete("/journeys/{journeyId}/passengers/{passengerId}", journeyHandler.DropPassenger)
		})
	})

	// WebSocket route
	r.Get("/ws", wsHandler.HandleWebSocket)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
