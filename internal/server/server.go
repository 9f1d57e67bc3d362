// Package server boots shashikala from configuration and runs the HTTP,
// gRPC, websocket and queue loops until the process is told to stop.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/shashikala/app/jobs"
	"github.com/shashiranjanraj/shashikala/config"
	"github.com/shashiranjanraj/shashikala/internal/kernel"
	"github.com/shashiranjanraj/shashikala/pkg/auth"
	"github.com/shashiranjanraj/shashikala/pkg/cache"
	"github.com/shashiranjanraj/shashikala/pkg/database"
	"github.com/shashiranjanraj/shashikala/pkg/grpc"
	"github.com/shashiranjanraj/shashikala/pkg/logger"
	"github.com/shashiranjanraj/shashikala/pkg/mail"
	"github.com/shashiranjanraj/shashikala/pkg/migration"
	"github.com/shashiranjanraj/shashikala/pkg/queue"
	"github.com/shashiranjanraj/shashikala/pkg/storage"
)

const shutdownTimeout = 15 * time.Second

// App holds the booted dependencies. Close releases them.
type App struct {
	DB     *gorm.DB
	Redis  *redis.Client // nil unless a driver uses redis
	Store  cache.Store
	Queue  *queue.Manager
	Kernel *kernel.Kernel

	mongo *logger.MongoHandler
}

// Boot loads configuration, sets up logging, connects to the database (and
// Redis when a driver asks for it) and assembles the kernel.
func Boot(ctx context.Context) (*App, error) {
	if err := config.Load(); err != nil {
		return nil, err
	}

	if config.IsProduction() && config.JWTSecretIsDefault() {
		return nil, errors.New("server: JWT_SECRET must be set outside development")
	}

	a := &App{}
	if err := a.setupLogger(); err != nil {
		return nil, err
	}

	db, err := database.Connect()
	if err != nil {
		a.Close()
		return nil, err
	}
	a.DB = db

	if config.AutoMigrate() {
		ran, err := migration.New(db).Run()
		if err != nil {
			a.Close()
			return nil, err
		}
		if len(ran) > 0 {
			logger.Info("migrations applied", "names", ran)
		}
	}

	if config.CacheDriver() == "redis" || config.QueueDriver() == "redis" {
		rdb, err := cache.Connect(ctx)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Redis = rdb
	}

	if config.CacheDriver() == "redis" {
		a.Store = cache.NewRedisStore(a.Redis, "shashikala:")
	} else {
		a.Store = cache.NewMemoryStore()
	}

	var driver queue.Driver = queue.NewMemoryDriver()
	if config.QueueDriver() == "redis" {
		driver = queue.NewRedisDriver(a.Redis)
	}
	a.Queue = queue.NewManager(driver, queue.WithFailedJobsDB(db))
	jobs.Register(a.Queue, mail.FromConfig())

	disk, err := storage.FromConfig(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Kernel, err = kernel.New(kernel.Options{
		DB:               db,
		Store:            a.Store,
		Disk:             disk,
		Signer:           auth.NewSigner(config.JWTSecret(), config.ArtistTokenTTL()),
		Queue:            a.Queue,
		AdminEmail:       config.MailAdmin(),
		CORSOrigins:      config.CORSAllowedOrigins(),
		LegacyHeaderAuth: config.ArtistLegacyHeaderAuth(),
		RateLimit:        config.RateLimit(),
		RateLimitWindow:  config.RateLimitWindow(),
		EventWorkers:     4,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) setupLogger() error {
	uri := config.LogMongoURI()
	if uri == "" {
		logger.Setup(config.AppEnv())
		return nil
	}
	h, err := logger.NewMongoHandler(uri, config.LogMongoDB(), config.LogMongoCollection(), slog.LevelInfo)
	if err != nil {
		return fmt.Errorf("server: mongo log sink: %w", err)
	}
	a.mongo = h
	logger.Setup(config.AppEnv(), h)
	return nil
}

// Close releases the database, Redis and the Mongo log sink.
func (a *App) Close() {
	if a.DB != nil {
		if err := database.Close(a.DB); err != nil {
			logger.Warn("database close failed", "error", err)
		}
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.mongo != nil {
		if n := a.mongo.Dropped(); n > 0 {
			logger.Warn("mongo log sink dropped records", "count", n)
		}
		a.mongo.Close()
	}
}

// Run boots the app and serves until ctx is cancelled or a listener fails.
// Shutdown drains in order: gRPC health flips to NOT_SERVING, HTTP stops
// accepting, then queue workers, the live feed and event listeners finish.
func Run(ctx context.Context) error {
	a, err := Boot(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	workCtx, stopWork := context.WithCancel(context.Background())
	defer stopWork()

	hub := a.Kernel.Hub
	go hub.Run(workCtx)

	queueDone := make(chan struct{})
	go func() {
		defer close(queueDone)
		a.Queue.Work(workCtx, config.QueueWorkers())
	}()

	var grpcServer *grpc.Server
	if port := config.GRPCPort(); port != "" {
		grpcServer = grpc.New()
		if err := grpcServer.Start(port); err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           a.Kernel.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("shashikala HTTP server starting", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-serveErr:
		runErr = fmt.Errorf("server: http: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if grpcServer != nil {
		grpcServer.MarkNotServing()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server forced to shut down", "error", err)
	}
	if grpcServer != nil {
		grpcServer.Stop(shutdownCtx)
	}

	stopWork()
	select {
	case <-queueDone:
	case <-shutdownCtx.Done():
		logger.Warn("queue workers did not stop in time")
	}
	select {
	case <-hub.Done():
	case <-shutdownCtx.Done():
	}

	if err := a.Kernel.Shutdown(shutdownCtx); err != nil {
		logger.Warn("event listeners did not drain", "error", err)
	}
	logger.Info("shutdown complete")
	return runErr
}
