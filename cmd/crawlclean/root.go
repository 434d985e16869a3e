package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/JonMunkholm/CrawlClean/internal/config"
	"github.com/JonMunkholm/CrawlClean/internal/core"
	_ "github.com/JonMunkholm/CrawlClean/internal/core/retailers" // Register all retailers
	"github.com/JonMunkholm/CrawlClean/internal/logging"
	"github.com/JonMunkholm/CrawlClean/internal/sheet"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// app is shared by all subcommands once the root command has loaded config.
type app struct {
	cfg     *config.Config
	service *core.Service
	getenv  config.Getenv
}

func newRootCmd() *cobra.Command {
	return newRootCmdWithEnv(os.Getenv)
}

// newRootCmdWithEnv builds the command tree reading configuration through getenv.
func newRootCmdWithEnv(getenv config.Getenv) *cobra.Command {
	a := &app{getenv: getenv}

	root := &cobra.Command{
		Use:   "crawlclean",
		Short: "Clean crawler exports into a standard product table",
		Long: `crawlclean normalizes Amazon, Walmart and Mercado crawler exports
(.xlsx or .csv) into one canonical product table.

Usage:
  crawlclean clean --retailer amazon crawl.xlsx
  crawlclean validate --retailer walmart crawl.csv
  crawlclean retailers`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	root.AddCommand(newCleanCmd(a), newValidateCmd(a), newRetailersCmd(a))
	return root
}

func (a *app) setup() error {
	// A missing .env is normal outside development
	_ = godotenv.Load()

	cfg, err := config.LoadFrom(a.getenv)
	if err != nil {
		return err
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	service, err := core.NewService(cfg)
	if err != nil {
		return fmt.Errorf("create service: %w", err)
	}

	a.cfg = cfg
	a.service = service
	slog.Debug("configuration loaded", "config", cfg.String())
	return nil
}

// readInput loads path as a raw table for retailer r.
func (a *app) readInput(r core.Retailer, path string) (core.RawTable, error) {
	headerRow, err := a.service.HeaderRow(r)
	if err != nil {
		return core.RawTable{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return core.RawTable{}, err
	}
	defer f.Close()

	return sheet.ReadFile(path, f, headerRow)
}
