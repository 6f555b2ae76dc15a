package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/mkline/userreg/internal/config"
	"github.com/mkline/userreg/internal/graph"
	"github.com/mkline/userreg/internal/logging"
	"github.com/mkline/userreg/internal/mailer"
	"github.com/mkline/userreg/internal/service"
	"github.com/mkline/userreg/internal/store"
)

var errMissingDataset = errors.New("dataset not found")

func main() {
	var (
		datasetDir = flag.String("dataset-dir", "./seed-data", "Directory containing users.json")
		usersPath  = flag.String("users", "", "Path to users.json (overrides dataset-dir)")
		workers    = flag.Int("workers", 4, "Number of concurrent workers for registration")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewWithWriter(cfg.Logging, os.Stderr).With("component", "seed")

	userFile, err := resolveDatasetPath(*datasetDir, *usersPath)
	if err != nil {
		logger.Error("dataset resolution failed", "error", err)
		os.Exit(1)
	}

	inputs, err := loadRegistrationInputs(userFile)
	if err != nil {
		logger.Error("failed to load registrations", "error", err, "path", userFile)
		os.Exit(1)
	}
	if len(inputs) == 0 {
		logger.Error("registration dataset empty", "path", userFile)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

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

	// Seeding never sends real mail.
	sender := mailer.NewMemorySender()

	svc := service.NewAccountService(userStore, sender)
	registrar := service.NewBulkRegistrar(svc, *workers)

	start := time.Now()
	logger.Info("registering users", "count", len(inputs), "workers", *workers)

	err = registrar.RegisterAll(ctx, inputs)
	var taskErr *service.TaskError
	switch {
	case err == nil:
	case errors.As(err, &taskErr):
		// Duplicate emails are expected in generated datasets; report and continue.
		logger.Warn("some registrations failed", "failures", len(taskErr.Errors))
	default:
		logger.Error("registration run aborted", "error", err)
		os.Exit(1)
	}

	logger.Info("seeding complete",
		"duration", time.Since(start).String(),
		"attempted", len(inputs),
		"notified", len(sender.Sent()),
	)
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

func resolveDatasetPath(baseDir, explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("stat %s: %w", explicitPath, err)
		}
		return explicitPath, nil
	}
	path := filepath.Join(baseDir, "users.json")
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: %s", errMissingDataset, path)
	}
	return path, nil
}

func loadRegistrationInputs(path string) ([]service.RegistrationInput, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	var inputs []service.RegistrationInput
	if err := json.NewDecoder(file).Decode(&inputs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return inputs, nil
}
