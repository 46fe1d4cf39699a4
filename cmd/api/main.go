package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/clinicdesk/clinic-api/internal/config"
	authHandler "github.com/clinicdesk/clinic-api/internal/handler/auth"
	dashboardHandler "github.com/clinicdesk/clinic-api/internal/handler/dashboard"
	patientHandler "github.com/clinicdesk/clinic-api/internal/handler/patient"
	prescriptionHandler "github.com/clinicdesk/clinic-api/internal/handler/prescription"
	userHandler "github.com/clinicdesk/clinic-api/internal/handler/user"
	"github.com/clinicdesk/clinic-api/internal/middleware"
	"github.com/clinicdesk/clinic-api/internal/repository/record"
	"github.com/clinicdesk/clinic-api/internal/router"
	"github.com/clinicdesk/clinic-api/internal/seed"
	patientService "github.com/clinicdesk/clinic-api/internal/service/patient"
	prescriptionService "github.com/clinicdesk/clinic-api/internal/service/prescription"
	receiptService "github.com/clinicdesk/clinic-api/internal/service/receipt"
	sessionService "github.com/clinicdesk/clinic-api/internal/service/session"
	userService "github.com/clinicdesk/clinic-api/internal/service/user"
	"github.com/clinicdesk/clinic-api/internal/store"
	"github.com/clinicdesk/clinic-api/pkg/logger"
	"github.com/clinicdesk/clinic-api/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(cfg.Log.Level),
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
	})

	m := metrics.New("clinicdesk", prometheus.DefaultRegisterer)

	// Open the record store
	st, err := store.Open(cfg.Store.Path, store.WithMetrics(m))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open record store")
	}
	defer st.Close()

	if cfg.Store.SeedDemo {
		seeded, err := seed.EnsureDemoUsers(context.Background(), st)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to seed demo accounts")
		}
		if seeded {
			appLogger.Info("seeded demo accounts")
		}
	}

	// Initialize repositories
	userRepo := record.NewUserRepository(st)
	patientRepo := record.NewPatientRepository(st)
	prescriptionRepo := record.NewPrescriptionRepository(st)
	sessionRepo := record.NewSessionRepository(st)

	// Initialize services
	userSvc := userService.NewService(userRepo)
	patientSvc := patientService.NewService(patientRepo, userRepo)
	prescriptionSvc := prescriptionService.NewService(prescriptionRepo, patientRepo)
	sessionSvc := sessionService.NewService(userRepo, sessionRepo, appLogger)
	receiptSvc := receiptService.NewService(prescriptionRepo, patientRepo, userRepo)

	// Initialize middleware and handlers
	authMiddleware := middleware.NewAuthMiddleware(sessionSvc)

	r := router.New(authMiddleware,
		router.Config{
			RateLimit: rate.Limit(cfg.Server.RateLimit),
			RateBurst: cfg.Server.RateBurst,
			Metrics:   m,
		},
		authHandler.NewHandler(sessionSvc),
		userHandler.NewHandler(userSvc),
		patientHandler.NewHandler(patientSvc),
		prescriptionHandler.NewHandler(prescriptionSvc, receiptSvc),
		dashboardHandler.NewHandler(userRepo, patientRepo, prescriptionRepo),
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		appLogger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}
