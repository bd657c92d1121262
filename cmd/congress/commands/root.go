package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/baxromumarov/congress-tracker/internal/config"
	"github.com/baxromumarov/congress-tracker/internal/core"
)

var (
	cfg config.Config

	flagYear        int
	flagUpdatesOnly bool
	flagDebug       bool
	flagDataDir     string
	flagHTMLDir     string
	flagDatabaseURL string
)

var rootCmd = &cobra.Command{
	Use:          "congress",
	Short:        "congress collects U.S. Congress roll calls, bills and records and renders report pages.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.FromEnv()
		if err != nil {
			return err
		}
		applyFlags(cmd, &c)
		if err := c.Validate(); err != nil {
			return err
		}
		cfg = c

		logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel()}))
		slog.SetDefault(logger)
		return nil
	},
}

func init() {
	f := rootCmd.PersistentFlags()
	f.IntVarP(&flagYear, "year", "y", 0, "Calendar year to collect (default: CONGRESS_YEAR or the current year)")
	f.BoolVarP(&flagUpdatesOnly, "updates-only", "u", true, "Skip documents already in the archive")
	f.BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	f.StringVar(&flagDataDir, "data-dir", "", "Archive directory (default: DATA_DIR or ./data)")
	f.StringVar(&flagHTMLDir, "html-dir", "", "Report directory (default: HTML_DIR or ./html)")
	f.StringVar(&flagDatabaseURL, "db", "", "PostgreSQL URL to mirror collected documents into")
}

// applyFlags overrides environment settings with the flags given on the
// command line.
func applyFlags(cmd *cobra.Command, c *config.Config) {
	f := cmd.Flags()
	if f.Changed("year") {
		c.Year = flagYear
	}
	if f.Changed("updates-only") {
		c.UpdatesOnly = flagUpdatesOnly
	}
	if f.Changed("debug") {
		c.Debug = flagDebug
	}
	if f.Changed("data-dir") {
		c.DataDir = flagDataDir
	}
	if f.Changed("html-dir") {
		c.HTMLDir = flagHTMLDir
	}
	if f.Changed("db") {
		c.DatabaseURL = flagDatabaseURL
	}
}

// newPipeline wires a pipeline for the current configuration. The
// returned close function releases the database, if any.
func newPipeline() (*core.Pipeline, func(), error) {
	db, err := core.OpenStore(cfg, "")
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if db != nil {
			db.Close()
		}
	}
	p := core.NewPipeline(cfg, core.NewFetcher(cfg), core.NewChecker(cfg), core.SinkFor(db))
	return p, closeDB, nil
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
