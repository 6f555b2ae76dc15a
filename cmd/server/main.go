package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mkline/userreg/internal/config"
	"github.com/mkline/userreg/internal/graph"
	"github.com/mkline/userreg/internal/logging"
	"github.com/mkline/userreg/internal/mailer"
	"github.com/mkline/userreg/internal/server"
	"github.com/mkline/userreg/internal/service"
	"github.com/mkline/userreg/internal/store"
)

// main is the single composition root: every collaborator is constructed here
// and handed down; nothing below this layer builds its own dependencies.
func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)

	userStore, err := buildStore(ctx, cfg.Store)
	if err != nil {
		logger.Error("failed to create user store", "error", err, "driver", cfg.Store.Driver)
		os.Exit(1)
	}
	defer func() {
		if err := userStore.Close(context.Background()); err != nil {
			logger.Warn("closing user store failed", "error", err)
		}
	}()

	sender, err := buildMailer(logger, cfg.Mailer)
	if err != nil {
		logger.Error("failed to create mailer", "error", err)
		os.Exit(1)
	}

	accountService := service.NewAccountService(userStore, sender)
	apiHandlers := server.NewAPIHandlers(logger, accountService)

	router := server.NewRouter(logger, server.RouterDependencies{
		Health:           server.StoreHealthService{Store: userStore},
		API:              apiHandlers,
		AllowedOrigins:   parseAllowedOrigins(cfg.HTTP.AllowedOriginsCSV),
		AllowCredentials: true,
	})

	srv := server.New(logger, cfg.HTTP, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("server stopped unexpectedly", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

func buildStore(ctx context.Context, cfg config.StoreConfig) (store.UserStore, error) {
	switch cfg.Driver {
	case config.StoreDriverMemory:
		return store.NewMemoryStore(), nil
	case config.StoreDriverSQLite:
		return store.NewSQLiteStore(cfg.SQLitePath)
	case config.StoreDriverGraph:
		if cfg.Graph.URI == "" {
			return nil, graph.ErrMissingURI
		}
		client, err := graph.NewNeo4jClient(ctx, graph.Options{
			URI:            cfg.Graph.URI,
			Database:       cfg.Graph.Database,
			Username:       cfg.Graph.Username,
			Password:       cfg.Graph.Password,
			MaxConnections: cfg.Graph.MaxConnections,
		})
		if err != nil {
			return nil, err
		}
		return store.NewGraphStore(client), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func buildMailer(logger *slog.Logger, cfg config.MailerConfig) (mailer.Sender, error) {
	if cfg.Disabled || cfg.BaseURL == "" {
		logger.Warn("mailer disabled, welcome notifications are recorded in memory only")
		return mailer.NewMemorySender(), nil
	}
	return mailer.NewAPISender(mailer.Options{
		BaseURL:     cfg.BaseURL,
		APIKey:      cfg.APIKey,
		FromAddress: cfg.FromAddress,
		Timeout:     cfg.Timeout,
	})
}

func parseAllowedOrigins(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	var origins []string
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		origins = append(origins, origin)
	}
	return origins
}
