package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/franciscosanchezn/pizza-store/internal/config"
	"github.com/franciscosanchezn/pizza-store/internal/controllers"
	"github.com/franciscosanchezn/pizza-store/internal/database"
	"github.com/franciscosanchezn/pizza-store/internal/logging"
	"github.com/franciscosanchezn/pizza-store/internal/metrics"
	"github.com/franciscosanchezn/pizza-store/internal/routes"
	"github.com/franciscosanchezn/pizza-store/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const serviceName = "pizza-store"

// @title Pizzas API
// @version 1.0
// @description A small CRUD API over a catalogue of pizzas
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token. Only checked when auth_mode is jwt.
func main() {
	// Load environment variables
	dotenvErr := godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := setUpLogger(cfg)
	if dotenvErr != nil {
		log.Warn("No .env file found, using system environment variables")
	}
	log.WithField("config", cfg.String()).Info("Configuration loaded")

	db := setupDatabase(cfg, log)
	defer func() {
		if err := database.Close(db); err != nil {
			log.WithError(err).Error("Failed to close database")
		}
	}()

	handler := setupHandler(cfg, db, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, cfg, handler, log); err != nil {
		log.WithError(err).Fatal("Server stopped with error")
	}
	log.Info("Server stopped")
}

// setUpLogger builds the JSON logger and sets the gin mode based on the environment
func setUpLogger(cfg *config.Config) *logrus.Logger {
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	log, err := logging.New(logging.Options{Level: cfg.EffectiveLogLevel(), File: cfg.LogFile})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	return log
}

// setupDatabase connects, migrates and seeds the store or exits
func setupDatabase(cfg *config.Config, log *logrus.Logger) *gorm.DB {
	dbCfg := database.FromConfig(cfg)
	log.WithField("database", dbCfg.String()).Info("Connecting to database")

	db, err := database.InitDatabase(dbCfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	if err := database.Setup(db, log); err != nil {
		log.WithError(err).Fatal("Failed to prepare database")
	}
	return db
}

// setupHandler wires services, controllers and routes into the outer HTTP handler
func setupHandler(cfg *config.Config, db *gorm.DB, log *logrus.Logger) http.Handler {
	sqlDB, err := db.DB()
	if err != nil {
		log.WithError(err).Fatal("Failed to access database pool")
	}

	manager := metrics.NewManager(
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithSubsystem(cfg.MetricsSubsystem),
		metrics.WithHistogramBuckets(cfg.MetricsBuckets),
	)
	pizzaService := services.NewInstrumentedPizzaService(services.NewPizzaService(db, log), manager)

	router := routes.NewRouter(routes.Dependencies{
		Config:  cfg,
		Log:     log,
		Pizzas:  controllers.NewPizzaController(pizzaService, log),
		Health:  controllers.NewHealthController(sqlDB, serviceName, log),
		Metrics: manager,
	})
	return routes.NewHandler(cfg, router)
}

// serve runs the HTTP server until ctx is cancelled, then drains in-flight requests
func serve(ctx context.Context, cfg *config.Config, handler http.Handler, log logrus.FieldLogger) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.WithField("timeout", cfg.ShutdownTimeout.String()).Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
