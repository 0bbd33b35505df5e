package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/sunrisehealth/portal-api/internal/agent/mock"
	"github.com/sunrisehealth/portal-api/internal/config"
	"github.com/sunrisehealth/portal-api/internal/handler"
	dashboardHandler "github.com/sunrisehealth/portal-api/internal/handler/dashboard"
	patientHandler "github.com/sunrisehealth/portal-api/internal/handler/patient"
	"github.com/sunrisehealth/portal-api/internal/middleware"
	"github.com/sunrisehealth/portal-api/internal/repository/redisstore"
	"github.com/sunrisehealth/portal-api/internal/router"
	"github.com/sunrisehealth/portal-api/internal/seed"
	rosterService "github.com/sunrisehealth/portal-api/internal/service/roster"
	timelineService "github.com/sunrisehealth/portal-api/internal/service/timeline"
	"github.com/sunrisehealth/portal-api/pkg/logger"
	"github.com/sunrisehealth/portal-api/pkg/metrics"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)
	zl := appLogger.Zerolog()

	// Initialize Redis
	redisClient, err := redisstore.NewClient(redisstore.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer redisClient.Close()

	appMetrics := metrics.NewMetrics("portal")

	// Initialize repositories
	rosterRepo := redisstore.NewRosterStore(redisClient, cfg.Redis.RosterKey, zl, appMetrics)
	timelineRepo := redisstore.NewTimelineStore(redisClient, cfg.Redis.TimelineKey, cfg.Redis.TimelineMaxLen, zl, appMetrics)

	// Initialize the seed loader and decisioning agent
	seeder := seed.NewLoader(cfg.Seed.PatientsSource, cfg.Seed.TreatmentsSource, zl)
	agentClient := mock.NewClient(mock.Config{
		EligibilityDelay: cfg.Agent.EligibilityDelay,
		PreAuthDelay:     cfg.Agent.PreAuthDelay,
	}, zl)

	// Initialize services
	timelineSvc := timelineService.NewService(timelineRepo, zl)
	timelineSvc.Prime(context.Background())

	rosterSvc := rosterService.NewService(
		rosterRepo,
		seeder,
		agentClient,
		timelineSvc,
		rosterService.ProviderConfig{
			NPI:           cfg.Provider.NPI,
			FacilityName:  cfg.Provider.FacilityName,
			PhysicianName: cfg.Provider.PhysicianName,
		},
		cfg.Pagination.PageSize,
		zl,
		appMetrics,
	)
	rosterSvc.Hydrate(context.Background())

	// Initialize handlers
	h := handler.NewHandler()
	patientH := patientHandler.NewHandler(rosterSvc, zl)
	dashboardH := dashboardHandler.NewHandler(rosterSvc, timelineSvc, zl)

	// Setup router
	routerCfg := router.Config{
		CORSConfig:    middleware.DefaultCORSConfig(),
		MetricsPrefix: "portal_http",
	}
	if cfg.RateLimit.Enabled {
		routerCfg.RateLimit = rate.Limit(cfg.RateLimit.RequestsPerSecond)
		routerCfg.RateBurst = cfg.RateLimit.Burst
	}

	r := router.NewRouter(patientH, dashboardH, h, zl, routerCfg)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
