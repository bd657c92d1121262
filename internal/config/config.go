// Package config carries the settings every collector and report needs.
// Values come from the environment and may be overridden by flags.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/baxromumarov/congress-tracker/internal/congress"
	"github.com/baxromumarov/congress-tracker/internal/httpx"
)

type Config struct {
	Year int
	// UpdatesOnly skips documents already in the archive.
	UpdatesOnly bool
	Debug       bool

	DataDir string
	HTMLDir string

	MaxRollCalls       int
	BillLimit          int
	BillTypes          []string
	ShowCosponsorTable bool

	UserAgent   string
	DatabaseURL string
	Port        string
	Interval    time.Duration
}

// Default returns the configuration for the current year.
func Default() Config {
	return Config{
		Year:         time.Now().Year(),
		UpdatesOnly:  true,
		DataDir:      "data",
		HTMLDir:      "html",
		MaxRollCalls: 2000,
		BillLimit:    100000,
		UserAgent:    httpx.DefaultUserAgent,
		Port:         "8080",
		Interval:     6 * time.Hour,
	}
}

// FromEnv overlays environment variables on Default.
func FromEnv() (Config, error) {
	c := Default()
	var err error

	if c.Year, err = envInt("CONGRESS_YEAR", c.Year); err != nil {
		return c, err
	}
	if c.UpdatesOnly, err = envBool("UPDATES_ONLY", c.UpdatesOnly); err != nil {
		return c, err
	}
	if c.Debug, err = envBool("DEBUG", c.Debug); err != nil {
		return c, err
	}
	if c.ShowCosponsorTable, err = envBool("SHOW_COSPONSORS_TABLE", c.ShowCosponsorTable); err != nil {
		return c, err
	}
	if c.MaxRollCalls, err = envInt("MAX_ROLL_CALLS", c.MaxRollCalls); err != nil {
		return c, err
	}
	if c.BillLimit, err = envInt("BILL_LIMIT", c.BillLimit); err != nil {
		return c, err
	}
	if v := os.Getenv("INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return c, fmt.Errorf("config: INTERVAL: %w", err)
		}
		c.Interval = d
	}
	if v := os.Getenv("BILL_TYPES"); v != "" {
		c.BillTypes = splitList(v)
	}
	c.DataDir = envString("DATA_DIR", c.DataDir)
	c.HTMLDir = envString("HTML_DIR", c.HTMLDir)
	c.UserAgent = envString("USER_AGENT", c.UserAgent)
	c.DatabaseURL = envString("DATABASE_URL", c.DatabaseURL)
	c.Port = envString("PORT", c.Port)

	return c, c.Validate()
}

func (c Config) Validate() error {
	if c.Year < 1789 || c.Year > time.Now().Year()+1 {
		return fmt.Errorf("config: year %d out of range", c.Year)
	}
	if c.MaxRollCalls <= 0 {
		return fmt.Errorf("config: max roll calls must be positive")
	}
	if c.Interval <= 0 {
		return fmt.Errorf("config: interval must be positive")
	}
	if c.DataDir == "" || c.HTMLDir == "" {
		return fmt.Errorf("config: data and html directories are required")
	}
	for _, key := range c.BillTypes {
		if _, ok := congress.LookupBillType(key); !ok {
			return fmt.Errorf("config: unknown bill type %q", key)
		}
	}
	return nil
}

func (c Config) Session() congress.Session {
	return congress.SessionForYear(c.Year)
}

// SelectedBillTypes returns the configured bill types, or all of them.
func (c Config) SelectedBillTypes() []congress.BillType {
	if len(c.BillTypes) == 0 {
		return congress.BillTypes()
	}
	out := make([]congress.BillType, 0, len(c.BillTypes))
	for _, key := range c.BillTypes {
		if bt, ok := congress.LookupBillType(key); ok {
			out = append(out, bt)
		}
	}
	return out
}

func (c Config) HouseVotesDir() string {
	return filepath.Join(c.DataDir, fmt.Sprintf("house_votes_%d", c.Year))
}

func (c Config) SenateVotesDir() string {
	return filepath.Join(c.DataDir, fmt.Sprintf("senate_votes_%d", c.Year))
}

func (c Config) BillsDir() string {
	return filepath.Join(c.DataDir, fmt.Sprintf("congress_bills_%d", c.Year))
}

func (c Config) LogLevel() slog.Level {
	if c.Debug {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func envBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback, fmt.Errorf("config: %s: %w", key, err)
	}
	return b, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
