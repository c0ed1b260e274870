package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vps-checkout/internal/checkout"
	"vps-checkout/internal/config"
	"vps-checkout/internal/database"
	"vps-checkout/internal/gateway"
	"vps-checkout/internal/handler"
	"vps-checkout/internal/notify"
	"vps-checkout/internal/payment"
	"vps-checkout/internal/provision"
	"vps-checkout/internal/repository"
	"vps-checkout/internal/router"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting checkout orchestration server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	sessionRepo := repository.NewSessionRepository(pool, logger)
	outboxRepo := repository.NewOutboxRepository(pool, logger)

	// Initialize backend API client
	backend := gateway.NewClient(cfg.Backend, logger)

	// Initialize workflow services
	initiator := payment.NewInitiator(backend, cfg.Payment, logger)
	verifier := payment.NewVerifier(backend, outboxRepo, logger)
	poller := payment.NewStatusPoller(backend, cfg.Payment, logger)
	checkoutService := checkout.NewController(backend, sessionRepo, initiator, logger)
	provisionService := provision.NewService(backend, outboxRepo, logger)

	// Start the notification dispatcher off the critical path
	dispatcher := notify.NewDispatcher(outboxRepo, notify.NewBackendNotifier(backend), cfg.Notify, logger)
	go dispatcher.Run(ctx)

	// Initialize HTTP handlers
	checkoutHandler := handler.NewCheckoutHandler(checkoutService, logger)
	paymentHandler := handler.NewPaymentHandler(backend, verifier, poller, cfg.Payment, logger)
	vpsHandler := handler.NewVPSHandler(provisionService, logger)

	// Initialize router
	mux := router.New(checkoutHandler, paymentHandler, vpsHandler, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // bounded status polling can hold a request open
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Stop the dispatcher before draining HTTP connections
		cancel()

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
