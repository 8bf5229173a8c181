package main

import (
	"fmt"
	"os"
	"time"

	"rentvision/config"
	"rentvision/server"
	"rentvision/services"
	"rentvision/storage"
	"rentvision/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== RentVision starting ===")
	logger.Info("Config — listen: %s | csv: %s | store: %s | point cap: %d",
		cfg.ListenAddr, cfg.CSVPath, cfg.StoreBackend, cfg.MapPointCap)

	raw, err := storage.NewCSVSource(cfg.CSVPath).ReadAll()
	if err != nil {
		logger.Error("Failed to read rental extract: %v", err)
		os.Exit(1)
	}
	logger.Info("Loaded %d raw rows from %s", len(raw), cfg.CSVPath)

	cleaner := services.NewCleaner(logger)
	records := cleaner.Clean(raw)
	if len(records) == 0 {
		logger.Error("All rows were dropped during cleaning. Exiting.")
		os.Exit(1)
	}

	// Persistence is a write-through cache of the cleaned dataset; it runs
	// off the serving path so a slow database never delays startup.
	store, err := openStore(cfg, logger)
	if err != nil {
		logger.Error("Store unavailable: %v — continuing without persistence", err)
	}
	if store != nil {
		defer store.Close()

		pool := utils.NewWorkerPool(cfg.MaxConcurrency)
		pool.Submit(func() {
			if err := store.Write(records); err != nil {
				logger.Error("Store write failed: %v", err)
				return
			}
			logger.Info("Dataset persisted to %s store (%d records)", cfg.StoreBackend, len(records))
		})
		defer pool.Wait()
	}

	stats := services.NewStatsService(logger, records, cfg.MapPointCap)
	srv, err := server.New(cfg, logger, stats)
	if err != nil {
		logger.Error("Failed to build server: %v", err)
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error("Server stopped: %v", err)
		os.Exit(1)
	}
}

func openStore(cfg *config.Config, logger *utils.Logger) (storage.RecordStore, error) {
	retry := &utils.RetryConfig{
		MaxAttempts: cfg.MaxRetries,
		BaseDelay:   2 * time.Second,
		Logger:      logger,
	}

	switch cfg.StoreBackend {
	case "postgres":
		var store *storage.PostgresStore
		err := retry.Do("postgres-connect", func() error {
			var err error
			store, err = storage.NewPostgresStore(cfg.DSN())
			return err
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	case "sqlite":
		store, err := storage.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
}
