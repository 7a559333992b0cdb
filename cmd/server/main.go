package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Raj-Kharwar-26/upi-app/config"
	"github.com/Raj-Kharwar-26/upi-app/internal/handler"
	"github.com/Raj-Kharwar-26/upi-app/internal/repository"
	"github.com/Raj-Kharwar-26/upi-app/internal/router"
	"github.com/Raj-Kharwar-26/upi-app/internal/scheduler"
	"github.com/Raj-Kharwar-26/upi-app/internal/usecase"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	logger.Info("starting upi service")

	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file loaded", zap.Error(err))
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	logger.Info("configuration loaded",
		zap.String("environment", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
		zap.String("store_driver", cfg.Store.Driver))

	// Initialize the store
	var (
		txRepo  repository.TransactionRepository
		jobRepo repository.JobRepository
	)

	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		dbPool, err := pgxpool.New(context.Background(), cfg.Database.DSN())
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer dbPool.Close()

		if err := repository.EnsureSchema(context.Background(), dbPool); err != nil {
			logger.Fatal("failed to ensure schema", zap.Error(err))
		}

		logger.Info("connected to database",
			zap.String("database", cfg.Database.DBName))

		txRepo = repository.NewTransactionRepository(dbPool)
		jobRepo = repository.NewJobRepository(dbPool)

	case config.StoreDriverMemory:
		mem := repository.NewMemoryStore()
		txRepo = mem
		jobRepo = mem.Jobs()
	}

	// Initialize the delayed transition scheduler
	schedCtx, stopScheduler := context.WithCancel(context.Background())
	sched := scheduler.New(txRepo, jobRepo, logger, scheduler.Options{
		ProcessingDelay: cfg.Scheduler.ProcessingDelay,
		TerminalDelay:   cfg.Scheduler.TerminalDelay,
		PollInterval:    cfg.Scheduler.PollInterval,
	})
	sched.Start(schedCtx)

	// Initialize usecase and handlers
	txUC := usecase.NewTransactionUsecase(txRepo, sched, logger)
	txHandler := handler.NewTransactionHandler(txUC, logger)

	// Setup routes
	r := router.SetupRoutes(txHandler, logger)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	stopScheduler()
	select {
	case <-sched.Done():
	case <-ctx.Done():
	}

	logger.Info("server stopped")
}
