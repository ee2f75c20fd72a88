package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/giovaniif/item-store/infra/config"
	"github.com/giovaniif/item-store/infra/gateways"
	"github.com/giovaniif/item-store/infra/logging"
	"github.com/giovaniif/item-store/infra/loki"
	"github.com/giovaniif/item-store/infra/tracing"
)

const (
	serviceName     = "items"
	shutdownTimeout = 10 * time.Second
)

func StartServer() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("ITEMS_CONFIG"))
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if lokiWriter := loki.NewWriter(cfg.Logging.LokiURL, serviceName); lokiWriter != nil {
		defer lokiWriter.Close()
		out = io.MultiWriter(os.Stdout, lokiWriter)
	}
	logger := logging.New(cfg.Logging.Level, out)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, serviceName)
	if err != nil {
		slog.Warn("tracing disabled", "err", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			slog.Warn("tracing shutdown failed", "err", err)
		}
	}()

	b, err := newBackend(ctx, cfg, gateways.NewSleeper())
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	defer b.Close()

	gin.SetMode(gin.ReleaseMode)
	router := NewRouter(Dependencies{
		Repository:     b.repository,
		IdGenerator:    b.idGenerator,
		Publisher:      b.publisher,
		Logger:         logger,
		RequestTimeout: cfg.HTTP.RequestTimeout,
	})

	srv := &http.Server{
		Addr:              cfg.HTTP.Address(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		slog.Info("items API listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	slog.Info("items API shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
