package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"startwise/internal/amqp"
	"startwise/internal/backend"
	"startwise/internal/cli"
	"startwise/internal/config"
	"startwise/internal/content"
	apphttp "startwise/internal/http"
	"startwise/internal/log"
	"startwise/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentApp)

	cfg, err := cli.LoadAndValidateConfig((*config.Config).Validate)
	if err != nil {
		cli.Fatal(logger, "Configuration validation failed", err)
	}

	catalog, err := content.Load()
	if err != nil {
		cli.Fatal(logger, "Failed to load content catalog", err)
	}

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		cli.Fatal(logger, "Invalid backend configuration", err)
	}
	store, err := backend.NewFactory(logger.WithComponent(log.ComponentBackend).Logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize backend", err)
	}
	defer store.Close()

	// Without AMQP the worker's pending sweep still relays saved messages.
	var publisher services.ContactPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, contact notifications disabled", "error", err)
		} else {
			publisher = client
			logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}
	contacts := services.NewContactService(store, publisher)
	defer contacts.Close()

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Options{
		Backend:       store,
		Contacts:      contacts,
		Catalog:       catalog,
		Logger:        logger,
		PostRateLimit: cfg.PostRateLimit,
		CookieSecure:  cfg.CookieSecure,
	})
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	}()

	logger.Info("Starting startwise server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		cli.Fatal(logger, "Server error", err)
	}
	logger.Info("Server stopped gracefully")
}
