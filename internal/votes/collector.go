package votes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/baxromumarov/congress-tracker/internal/archive"
	"github.com/baxromumarov/congress-tracker/internal/congress"
	"github.com/baxromumarov/congress-tracker/internal/httpx"
	"github.com/baxromumarov/congress-tracker/internal/observability"
	"github.com/baxromumarov/congress-tracker/internal/store"
	"github.com/baxromumarov/congress-tracker/internal/xmltree"
)

// Fetcher downloads one document.
type Fetcher interface {
	FetchBytes(ctx context.Context, url string) ([]byte, int, error)
}

// Sink receives every newly collected vote.
type Sink interface {
	SaveVote(ctx context.Context, v store.VoteRecord) error
}

type Collector struct {
	Fetcher Fetcher
	Archive *archive.Archive
	// Sink is optional.
	Sink        Sink
	Session     congress.Session
	UpdatesOnly bool
	MaxVotes    int
	// URL overrides Chamber.URL, for mirrors and tests.
	URL func(c Chamber, s congress.Session, n int) string
}

type Result struct {
	Chamber Chamber `json:"chamber"`
	Saved   int     `json:"saved"`
	Skipped int     `json:"skipped"`
	// Last is the highest vote number present after the run.
	Last int `json:"last"`
}

// Collect walks vote numbers from 1 and stores each document as JSON.
// Vote numbers are dense, so the first number that cannot be fetched, or
// that does not hold a roll-call document, ends the run.
func (c *Collector) Collect(ctx context.Context, ch Chamber) (Result, error) {
	res := Result{Chamber: ch}
	if c.Fetcher == nil || c.Archive == nil {
		return res, errors.New("votes: collector needs a fetcher and an archive")
	}
	limit := c.MaxVotes
	if limit <= 0 {
		limit = 2000
	}
	urlFor := c.URL
	if urlFor == nil {
		urlFor = func(ch Chamber, s congress.Session, n int) string { return ch.URL(s, n) }
	}

	slog.Info("vote collection start", "chamber", ch, "session", c.Session.String())
	for n := 1; n <= limit; n++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		name := ch.Filename(n)
		if c.UpdatesOnly && c.Archive.Has(name) {
			res.Skipped++
			res.Last = n
			observability.IncSkipped(string(ch))
			continue
		}

		target := urlFor(ch, c.Session, n)
		start := time.Now()
		body, _, err := c.Fetcher.FetchBytes(ctx, target)
		observability.ObserveFetchDuration(time.Since(start).Seconds())
		if err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			if !httpx.IsNotFound(err) {
				observability.IncError(observability.ClassifyFetchError(err), "votes")
			}
			slog.Info("vote collection end", "chamber", ch, "number", n, "reason", "fetch", "error", err)
			break
		}
		observability.IncDocumentsFetched()

		doc, err := xmltree.Parse(bytes.NewReader(body))
		if err != nil {
			observability.IncError(observability.ErrorParsing, "votes")
			slog.Info("vote collection end", "chamber", ch, "number", n, "reason", "parse", "error", err)
			break
		}
		if _, ok := xmltree.Lookup(doc, ch.RootElement()); !ok {
			slog.Info("vote collection end", "chamber", ch, "number", n, "reason", "not_a_vote")
			break
		}

		if err := c.Archive.WriteValue(name, doc); err != nil {
			observability.IncError(observability.ErrorStore, "votes")
			return res, err
		}
		res.Saved++
		res.Last = n
		slog.Debug("vote saved", "chamber", ch, "number", n, "file", name)

		if c.Sink != nil {
			if err := c.Sink.SaveVote(ctx, c.record(ch, n, target, doc)); err != nil {
				observability.IncError(observability.ErrorStore, "votes")
				slog.Error("vote store failed", "chamber", ch, "number", n, "error", err)
				continue
			}
			observability.IncVotesSaved()
		}
	}
	slog.Info("vote collection complete", "chamber", ch, "saved", res.Saved, "skipped", res.Skipped, "last", res.Last)
	return res, nil
}

func (c *Collector) record(ch Chamber, n int, source string, doc xmltree.Value) store.VoteRecord {
	rec := store.VoteRecord{
		Chamber:   string(ch),
		Year:      c.Session.Year,
		Number:    n,
		SourceURL: source,
		Document:  doc,
	}
	if sum, err := Summarize(ch, c.Session, n, doc); err == nil {
		rec.Question = sum.Question
		rec.Result = sum.Result
		rec.Date = sum.DateText
	}
	return rec
}

// String formats a result for command output.
func (r Result) String() string {
	return fmt.Sprintf("%s: %d saved, %d skipped, last vote %d", r.Chamber, r.Saved, r.Skipped, r.Last)
}
