package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/JYunth/wattswap-sim-backend/internal/config"
	"github.com/JYunth/wattswap-sim-backend/internal/handlers"
	"github.com/JYunth/wattswap-sim-backend/internal/logger"
	"github.com/JYunth/wattswap-sim-backend/internal/market"
	"github.com/JYunth/wattswap-sim-backend/internal/metrics"
	"github.com/JYunth/wattswap-sim-backend/internal/repository"
	"github.com/JYunth/wattswap-sim-backend/internal/repository/db"
	"github.com/JYunth/wattswap-sim-backend/internal/server"
	"github.com/JYunth/wattswap-sim-backend/internal/service"
	"github.com/JYunth/wattswap-sim-backend/internal/simulation"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the simulator loop and the HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log := logger.Init(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = log.Sync() }()

	// open DB
	sqlDB, err := db.InitDB(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("init sqlite: %w", err)
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	profiles := loadProfiles(cfg.Simulation.ProfilesFile, log)
	rec := metrics.NewRecorder()

	// wire dependencies
	services, err := buildServices(cfg, repository.NewRepository(sqlDB), profiles, rec, log)
	if err != nil {
		return err
	}
	apiHandler := handlers.NewHandler(services, log, handlers.Config{
		AuthEnabled:    cfg.Auth.Enabled,
		RateLimitRPS:   cfg.HTTP.RateLimitRPS,
		RateLimitBurst: cfg.HTTP.RateLimitBurst,
		Metrics:        rec.Handler(),
		AllowedOrigins: cfg.HTTP.CORSOrigins,
	})

	// context for background goroutines
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	simDone := make(chan struct{})
	go func() {
		defer close(simDone)
		services.Simulator.Run(ctx, cfg.Simulation.Tick)
	}()

	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, server.WithCORS(apiHandler.InitRoutes(), cfg.HTTP.CORSOrigins), log)
	log.Infow("wattswap started", "port", cfg.Port, "meters", services.MeterIDs(), "tick", cfg.Simulation.Tick)

	waitForShutdown(cancel, srv, log)
	<-simDone
	return nil
}

// buildServices assembles the model, price curve and services from cfg.
// repos may be nil for a run without storage.
func buildServices(cfg *config.Config, repos *repository.Repository, profiles config.Profiles, rec *metrics.Recorder, log *logger.Logger) (*service.Service, error) {
	model, err := simulation.NewModel(cfg.Physics)
	if err != nil {
		return nil, fmt.Errorf("physics: %w", err)
	}
	start, err := cfg.Simulation.Start(time.Now())
	if err != nil {
		return nil, err
	}
	return service.NewService(repos, service.Deps{
		Model:            model,
		Price:            market.DiurnalPrice(cfg.Market.PriceConfig),
		Start:            start,
		Meters:           cfg.Simulation.Meters,
		Profiles:         profiles,
		EventCapacity:    cfg.Simulation.EventLogCapacity,
		Tick:             cfg.Simulation.Tick,
		HistoryRetention: cfg.Simulation.HistoryRetention,
		SigningKey:       cfg.Auth.SigningKey,
		TokenTTL:         cfg.Auth.TokenTTL,
		Metrics:          rec,
		Log:              log,
	})
}

// loadProfiles falls back to the built-in presets when the file is
// missing or broken.
func loadProfiles(path string, log *logger.Logger) config.Profiles {
	if path == "" {
		return config.DefaultProfiles()
	}
	profiles, err := config.LoadProfiles(path)
	if err != nil {
		log.Warnw("using built-in profiles", "path", path, "err", err)
		return config.DefaultProfiles()
	}
	return profiles
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler http.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
