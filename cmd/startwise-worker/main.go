package main

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"startwise/internal/amqp"
	"startwise/internal/cli"
	"startwise/internal/config"
	"startwise/internal/log"
	"startwise/internal/sheets"
	gsheet "startwise/internal/sheets/google"
	memsheet "startwise/internal/sheets/memory"
	"startwise/internal/storage"
	"startwise/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentWorker)
	logger.Info("Starting startwise-worker")

	cfg, err := cli.LoadAndValidateConfig((*config.Config).ValidateWorker)
	if err != nil {
		cli.Fatal(logger, "Configuration validation failed", err)
	}

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize SQLite repository", err)
	}
	defer repo.Close()

	var writer sheets.ContactWriter
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.NewFromEnv(ctx)
		if err != nil {
			cli.Fatal(logger, "Failed to initialize Google Sheets client", err)
		}
		writer = client
		logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.ContactsSheetName)
	} else {
		writer = memsheet.New()
		logger.Warn("Google Sheets disabled - no GOOGLE_SPREADSHEET_ID provided, contacts are only marked relayed")
	}

	relay := worker.NewContactRelay(repo, writer, cfg.RelayBatchSize)
	g, gctx := errgroup.WithContext(ctx)

	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			cli.Fatal(logger, "Failed to initialize AMQP client", err)
		}
		defer client.Close()

		g.Go(func() error {
			return client.ConsumeContactSubmitted(gctx, relay.HandleMessage)
		})
	} else {
		logger.Info("AMQP disabled - relying on the pending sweep only", "interval", cfg.RelayInterval)
	}

	g.Go(func() error {
		return relay.Sweep(gctx, cfg.RelayInterval)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		cli.Fatal(logger, "Worker stopped with error", err)
	}
	logger.Info("Worker stopped gracefully")
}
