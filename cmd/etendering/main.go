package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"etendering/internal/config"
	"etendering/internal/http-server/router"
	"etendering/internal/lib/logger/sl"
	"etendering/internal/service/bids"
	"etendering/internal/service/templates"
	"etendering/internal/service/tenders"
	"etendering/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", sl.Err(err))
		os.Exit(1)
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	storage, err := postgres.New(cfg.StoragePath)
	if err != nil {
		log.Error("failed to init storage", sl.Err(err))
		os.Exit(1)
	}
	defer storage.Close()

	handler := router.New(log, router.Deps{
		Pinger:          storage,
		Templates:       templates.New(log, storage),
		Tenders:         tenders.New(log, storage),
		Bids:            bids.New(log, storage),
		DefaultPageSize: cfg.DefaultPageSize,
	})

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start the server", sl.Err(err))
			done <- syscall.SIGTERM
		}
	}()

	log.Info("starting server", slog.String("address", cfg.Address))
	<-done
	log.Info("stopping server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("failed to stop the server", sl.Err(err))
		return
	}

	log.Info("server stopped")
}
