package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/hookline/hookline/config"
	"github.com/hookline/hookline/internal/database"
	"github.com/hookline/hookline/internal/domain"
	httphandler "github.com/hookline/hookline/internal/http"
	"github.com/hookline/hookline/internal/metrics"
	"github.com/hookline/hookline/internal/queue"
	"github.com/hookline/hookline/internal/repository"
	"github.com/hookline/hookline/internal/service"
	"github.com/hookline/hookline/pkg/logger"
)

// App assembles the delivery service: storage, queue, workers and the HTTP
// surface. Initialize wires everything; Start runs until Shutdown.
type App struct {
	config *config.Config
	logger logger.Logger

	db          *sql.DB
	redisClient *redis.Client
	metrics     *metrics.Metrics

	subscriptionRepo  domain.SubscriptionRepository
	subscriptionCache domain.SubscriptionCache
	deliveryRepo      domain.DeliveryRepository
	attemptRepo       domain.AttemptRepository
	deliveryQueue     domain.DeliveryQueue

	worker  *service.DeliveryWorker
	sweeper *service.RetentionSweeper

	server       *http.Server
	workerCancel context.CancelFunc
}

// AppOption defines a function that configures the app
type AppOption func(*App)

// WithLogger sets a custom logger for the app
func WithLogger(log logger.Logger) AppOption {
	return func(a *App) {
		a.logger = log
	}
}

// NewApp creates a new application instance
func NewApp(cfg *config.Config, opts ...AppOption) *App {
	a := &App{config: cfg}

	for _, opt := range opts {
		opt(a)
	}

	if a.logger == nil {
		a.logger = logger.NewLoggerWithLevel(cfg.LogLevel)
	}

	return a
}

// Initialize connects to PostgreSQL and Redis and wires all components.
func (a *App) Initialize() error {
	db, err := database.Connect(&a.config.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	a.db = db

	if err := database.Initialize(db); err != nil {
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}

	redisOpts, err := redis.ParseURL(a.config.Redis.URL)
	if err != nil {
		return fmt.Errorf("failed to parse redis URL: %w", err)
	}
	a.redisClient = redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	a.metrics = metrics.NewDefault()

	a.subscriptionRepo = repository.NewSubscriptionRepository(a.db)
	a.deliveryRepo = repository.NewDeliveryRepository(a.db)
	a.attemptRepo = repository.NewAttemptRepository(a.db)

	if a.config.Redis.CacheEnabled {
		a.subscriptionCache = repository.NewRedisSubscriptionCache(a.redisClient, a.config.Redis.CacheTTL, a.logger)
	} else {
		a.subscriptionCache = repository.NewNoopSubscriptionCache()
	}

	a.deliveryQueue = queue.NewRedisDeliveryQueue(a.redisClient, a.logger)

	ingestionService := service.NewIngestionService(
		a.subscriptionRepo, a.subscriptionCache, a.deliveryRepo, a.deliveryQueue, a.metrics, a.logger)
	subscriptionService := service.NewSubscriptionService(a.subscriptionRepo, a.subscriptionCache, a.logger)
	statusService := service.NewStatusService(a.deliveryRepo, a.attemptRepo, a.subscriptionRepo, a.logger)

	a.worker = service.NewDeliveryWorker(
		a.deliveryRepo, a.subscriptionRepo, a.subscriptionCache, a.attemptRepo,
		a.deliveryQueue, a.config.Delivery, a.metrics, a.logger)
	a.sweeper = service.NewRetentionSweeper(a.attemptRepo, a.config.Retention, a.metrics, a.logger)

	mux := http.NewServeMux()
	httphandler.NewIngestionHandler(ingestionService, a.logger).RegisterRoutes(mux)
	httphandler.NewSubscriptionHandler(subscriptionService, a.logger).RegisterRoutes(mux)
	httphandler.NewStatusHandler(statusService, a.config.Version, a.logger).RegisterRoutes(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	a.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return nil
}

// Start launches the worker pool, the retention sweeper and the HTTP
// server. It blocks until the server stops.
func (a *App) Start() error {
	workerCtx, cancel := context.WithCancel(context.Background())
	a.workerCancel = cancel

	a.worker.Start(workerCtx)
	go a.sweeper.Start(workerCtx)

	a.logger.WithField("addr", a.server.Addr).Info("HTTP server listening")
	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server, drains the workers and closes the
// backing connections.
func (a *App) Shutdown(ctx context.Context) error {
	var firstErr error

	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			firstErr = err
		}
	}

	if a.workerCancel != nil {
		a.workerCancel()
	}
	if a.worker != nil {
		a.worker.Wait()
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
