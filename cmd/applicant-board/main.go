package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/applicant-board/internal/api"
	"github.com/nhle/applicant-board/internal/app"
	"github.com/nhle/applicant-board/internal/board"
	"github.com/nhle/applicant-board/internal/credential"
	"github.com/nhle/applicant-board/internal/model"
	"github.com/nhle/applicant-board/internal/store"
	appsync "github.com/nhle/applicant-board/internal/sync"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "applicant-board: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := model.DefaultConfigPath()
	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return err
	}

	// The terminal belongs to the UI; log lines go to a file.
	if f, err := openLogFile(model.DefaultLogPath()); err == nil {
		defer f.Close()
		log.SetOutput(f)
	}

	cache, err := store.NewSQLiteStore(
		filepath.Join(filepath.Dir(configPath), "board.db"),
	)
	if err != nil {
		return fmt.Errorf("opening snapshot cache: %w", err)
	}
	defer cache.Close()

	token := loadToken()
	configured := cfg.Remote.BaseURL != "" && token != ""

	client := api.NewClient(cfg.Remote.BaseURL, token)
	ctrl := board.NewController(client)
	poller := appsync.New(
		ctrl,
		cache,
		time.Duration(cfg.Remote.PollIntervalSec)*time.Second,
	)

	root := app.New(cfg, configPath, client, ctrl, cache, poller, configured)

	p := tea.NewProgram(root, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// loadToken reads the store API token from the environment, falling back
// to the system keyring.
func loadToken() string {
	if token := os.Getenv("APPLICANT_BOARD_TOKEN"); token != "" {
		return token
	}
	token, err := credential.Get(credential.TokenKey)
	if err != nil {
		return ""
	}
	return token
}

// openLogFile opens the log file for appending, creating directories as
// needed.
func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}
