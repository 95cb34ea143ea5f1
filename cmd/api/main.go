// server/cmd/api/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carbon-travel-api/config"
	"carbon-travel-api/internal/analysis"
	"carbon-travel-api/internal/api/routes"
	"carbon-travel-api/internal/auth"
	"carbon-travel-api/internal/database"
	"carbon-travel-api/internal/emission"
	"carbon-travel-api/internal/grades"
	"carbon-travel-api/internal/socket"
	"carbon-travel-api/internal/trips"
	"carbon-travel-api/internal/users"
	"carbon-travel-api/internal/vehicles"

	"github.com/gin-gonic/gin"
)

func main() {
	// 1. Load configuration
	cfg, err := config.LoadConfig("./config")
	if err != nil {
		config.Logger.Fatal().Err(err).Msg("Could not load config")
	}
	config.InitLogger(cfg.Log.Level, cfg.Log.Format)
	log := config.GetLogger()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid config")
	}
	gin.SetMode(cfg.Server.Mode)

	// 2. Connect to MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	client, db, err := database.Connect(ctx, cfg.Mongo)
	if err != nil {
		cancel()
		log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	if err := database.EnsureIndexes(ctx, db); err != nil {
		cancel()
		log.Fatal().Err(err).Msg("Failed to create indexes")
	}
	cancel()

	// 3. Repositories and services
	factorRepo := database.NewFactorRepository(db)
	vehicleRepo := database.NewVehicleRepository(db)
	tripRepo := database.NewTripRepository(db)
	detailRepo := database.NewTravelDetailRepository(db)
	gradeRepo := database.NewGradeRepository(db)
	userRepo := database.NewUserRepository(db)

	tokens := auth.NewTokenIssuer(cfg.JWT)
	hub := socket.NewHub(log.With().Str("component", "ws").Logger())
	gradeService := grades.NewService(gradeRepo)
	dispatcher := grades.NewDispatcher(gradeService, hub, cfg.Grades.QueueSize, log.With().Str("component", "grades").Logger())

	router, limiters := routes.SetupRouter(cfg, routes.Dependencies{
		Emissions: emission.NewCalculator(factorRepo, vehicleRepo, log.With().Str("component", "emission").Logger()),
		Trips:     trips.NewService(tripRepo, detailRepo, vehicleRepo, dispatcher, log.With().Str("component", "trips").Logger()),
		Vehicles:  vehicles.NewService(vehicleRepo),
		Users:     users.NewService(userRepo, tokens),
		Analysis:  analysis.NewService(tripRepo, vehicleRepo),
		Dashboard: analysis.NewDashboardService(detailRepo, tripRepo, userRepo),
		Grades:    gradeService,
		Tokens:    tokens,
		Hub:       hub,
		Ping: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		},
		Log: log,
	})

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go limiters.General.Run(runCtx)
	go limiters.Trips.Run(runCtx)

	// 4. Start server
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Starting API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to run server")
		}
	}()

	<-runCtx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown")
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Grade dispatcher did not drain")
	}
	if err := client.Disconnect(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("MongoDB disconnect")
	}
}
