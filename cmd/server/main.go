package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sheikh-saqib/zenith-bank-ledger/internal/bank"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/config"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/events/kafka"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/logging"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/server"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/snapshot"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/storage/postgres"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.NewJSONLogger(os.Stdout, cfg.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "starting", "config", cfg.String())

	deps := bank.Deps{Log: logger}
	if cfg.DatabaseDSN != "" {
		db, err := postgres.Open(ctx, cfg.DatabaseDSN)
		if err != nil {
			log.Fatalf("postgres: %v", err)
		}
		store := postgres.NewPostgresSnapshotStore(db)
		if err := store.Migrate(ctx); err != nil {
			log.Fatalf("postgres: %v", err)
		}
		deps.Snapshots, deps.DB = store, db
	} else {
		deps.Snapshots = snapshot.NewFileStore(cfg.DataFile)
	}
	if len(cfg.KafkaBrokers) > 0 {
		deps.Publisher = kafka.NewPublisher(cfg.KafkaBrokers)
	}

	b, err := bank.New(cfg, deps)
	if err != nil {
		log.Fatalf("bank: %v", err)
	}
	if err := b.Load(ctx); err != nil {
		log.Fatalf("load: %v", err)
	}

	s := server.NewServer(b.Gateway(), []byte(cfg.JWTSecret), cfg.TokenTTL, b.Flush, logger)
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info(ctx, "http server listening", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "http shutdown failed", "error", err)
	}
	if err := b.Close(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "close failed", "error", err)
		os.Exit(1)
	}
}
