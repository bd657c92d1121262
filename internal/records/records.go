// Package records finds the days of a year on which a Congressional
// Record was published.
package records

import (
	"context"
	"log/slog"
	"time"

	"github.com/baxromumarov/congress-tracker/internal/congress"
	"github.com/baxromumarov/congress-tracker/internal/observability"
)

// Checker reports whether a document exists at a URL.
type Checker interface {
	Exists(ctx context.Context, url string) (bool, error)
}

// Record is one published daily edition.
type Record struct {
	Date time.Time `json:"date"`
	URL  string    `json:"url"`
}

// Probe checks the Record PDF of every day of the session's year up to
// and including today. Days whose check fails are treated as absent.
func Probe(ctx context.Context, c Checker, s congress.Session, today time.Time) ([]Record, error) {
	days := congress.Days(s.Year, today)
	slog.Info("record probe start", "year", s.Year, "days", len(days))

	var found []Record
	for _, day := range days {
		if err := ctx.Err(); err != nil {
			return found, err
		}
		target := congress.RecordPDFURL(s, day)
		ok, err := c.Exists(ctx, target)
		if err != nil {
			if ctx.Err() != nil {
				return found, ctx.Err()
			}
			observability.IncError(observability.ClassifyError(err), "records")
			slog.Debug("record check failed", "url", target, "error", err)
			continue
		}
		if ok {
			found = append(found, Record{Date: day, URL: target})
		}
	}
	observability.AddRecordsFound(len(found))
	slog.Info("record probe complete", "year", s.Year, "found", len(found))
	return found, nil
}
