package core

import (
	"log/slog"
	"time"

	"github.com/baxromumarov/congress-tracker/internal/config"
	"github.com/baxromumarov/congress-tracker/internal/httpx"
	"github.com/baxromumarov/congress-tracker/internal/store"
)

// senate.gov throttles aggressive clients.
const senateHost = "www.senate.gov"

// NewFetcher returns the document fetcher used by the collectors.
func NewFetcher(cfg config.Config) *httpx.CollyFetcher {
	f := httpx.NewCollyFetcher(cfg.UserAgent)
	f.SetHostLimit(senateHost, 500*time.Millisecond, 1)
	return f
}

// NewChecker returns the robots-aware client that probes record PDFs.
func NewChecker(cfg config.Config) *httpx.PoliteClient {
	return httpx.NewPoliteClient(cfg.UserAgent)
}

// OpenStore connects to the configured database and applies the schema
// when schemaPath is set. It returns nil without error when no database
// is configured.
func OpenStore(cfg config.Config, schemaPath string) (*store.Store, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil
	}
	db, err := store.NewStore(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if schemaPath != "" {
		if err := db.RunMigrations(schemaPath); err != nil {
			db.Close()
			return nil, err
		}
	}
	slog.Info("database connected")
	return db, nil
}

// SinkFor converts a possibly nil store into a pipeline sink.
func SinkFor(db *store.Store) Sink {
	if db == nil {
		return nil
	}
	return db
}
