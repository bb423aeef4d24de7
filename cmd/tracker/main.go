package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/katerji/transaction-tracker/internal/api"
	"github.com/katerji/transaction-tracker/internal/ledger"
	"github.com/katerji/transaction-tracker/internal/logger"
	"github.com/katerji/transaction-tracker/internal/storage"
	syncctl "github.com/katerji/transaction-tracker/internal/sync"
	"github.com/katerji/transaction-tracker/internal/tui"
)

func main() {
	// Missing .env is fine; the environment may carry everything.
	_ = godotenv.Load()

	if len(os.Args) >= 3 && os.Args[1] == "db" && os.Args[2] == "wipe" {
		cfg, err := storage.Wipe()
		if err != nil {
			fmt.Fprintf(os.Stderr, "db wipe error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Local cache wiped: %s\n", cfg.Path)
		return
	}

	log, logFile, err := logger.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger setup error: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	if err := run(log); err != nil {
		log.Error().Err(err).Msg("fatal")
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(log zerolog.Logger) error {
	client := api.New()
	if baseURL := strings.TrimSpace(os.Getenv("TRACKER_API_URL")); baseURL != "" {
		client = api.NewWithBaseURL(baseURL)
	}

	var snapshots *storage.SnapshotRepo
	var syncState *storage.SyncStateRepo
	db, cfg, err := storage.Open(context.Background())
	if err != nil {
		// The dashboard still works without the offline cache.
		log.Warn().Err(err).Msg("cache unavailable, running without it")
	} else {
		defer db.Close()
		snapshots = storage.NewSnapshotRepo(db)
		syncState = storage.NewSyncStateRepo(db)
		log.Info().Str("path", cfg.Path).Str("mode", string(cfg.Mode)).Msg("cache open")
	}

	ctrl := syncctl.NewController(client, ledger.NewState(), snapshots, syncState, log)

	program := tea.NewProgram(tui.New(ctrl), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
