package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kcsc-gpt/standards-api/internal/api"
	"github.com/kcsc-gpt/standards-api/internal/config"
	"github.com/kcsc-gpt/standards-api/internal/plancache"
	"github.com/kcsc-gpt/standards-api/internal/store"
	"github.com/kcsc-gpt/standards-api/internal/topic"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	st, err := store.Load(cfg.DataDir, log)
	if err != nil {
		log.Error("failed to load document store", "error", err)
		os.Exit(1)
	}
	st.WarmSections(cfg.WarmWorkers)

	topics, err := topic.Load(cfg.DataDir, log)
	if err != nil {
		log.Error("failed to load topic registry", "error", err)
		os.Exit(1)
	}

	cache := plancache.New(cfg.CacheCapacity, cfg.CacheTTL)
	srv := api.NewServer(st, topics, cache, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting standards api", "port", cfg.Port, "documents", st.Len())
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
