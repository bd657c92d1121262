package commands

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/baxromumarov/congress-tracker/internal/core"
)

var migrateSchema string

func init() {
	migrateCmd.Flags().StringVar(&migrateSchema, "schema", "internal/store/schema.sql", "Path to schema file")
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate --db <url>",
	Short: "Creates the votes and bills tables.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.DatabaseURL == "" {
			return errors.New("no database configured; pass --db or set DATABASE_URL")
		}
		db, err := core.OpenStore(cfg, migrateSchema)
		if err != nil {
			return err
		}
		defer db.Close()

		slog.Info("migrations executed successfully", "schema", migrateSchema)
		return nil
	},
}
