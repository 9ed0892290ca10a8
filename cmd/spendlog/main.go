package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"spendlog/internal/config"
	apphttp "spendlog/internal/http"
	"spendlog/internal/ledger"
	"spendlog/internal/log"
	"spendlog/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger := log.New(log.ParseLevel("info"))
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := log.New(log.ParseLevel(cfg.LogLevel))
	log.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var slot ledger.Slot
	switch cfg.DataBackend {
	case "memory":
		slot = storage.NewMemorySlot()
		logger.Info("initialized memory backend")
	default:
		sqliteSlot, err := storage.NewSQLiteSlot(cfg.SQLiteDBPath, storage.LedgerSlot)
		if err != nil {
			logger.Error("failed to open sqlite database", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer sqliteSlot.Close()
		slot = sqliteSlot
		logger.Info("initialized sqlite backend", "path", cfg.SQLiteDBPath)
	}

	store := ledger.Open(ctx, slot, logger.WithComponent("ledger"))

	srv := apphttp.NewServer(":"+cfg.Port, store, logger.WithComponent("http"))
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting spendlog", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped gracefully")
}
