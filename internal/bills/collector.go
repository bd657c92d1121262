package bills

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/baxromumarov/congress-tracker/internal/archive"
	"github.com/baxromumarov/congress-tracker/internal/congress"
	"github.com/baxromumarov/congress-tracker/internal/httpx"
	"github.com/baxromumarov/congress-tracker/internal/observability"
	"github.com/baxromumarov/congress-tracker/internal/store"
)

// DefaultLimit bounds the item numbers probed per bill type.
const DefaultLimit = 100000

// Collection is the archived file of one bill type and year.
type Collection struct {
	BillData BillData `json:"bill_data"`
}

type BillData struct {
	LastBill int    `json:"last_bill"`
	Bills    []Bill `json:"bill"`
}

type Fetcher interface {
	FetchBytes(ctx context.Context, url string) ([]byte, int, error)
}

// Sink receives every newly collected bill.
type Sink interface {
	SaveBill(ctx context.Context, b store.BillRecord) error
}

type Collector struct {
	Fetcher Fetcher
	Archive *archive.Archive
	// Sink is optional.
	Sink    Sink
	Session congress.Session
	// SkipDetails leaves out the cosponsors, subjects and text pages.
	SkipDetails bool
	// URL overrides BillType.URL, for mirrors and tests.
	URL func(bt congress.BillType, congressNum, n int) string
}

// Load returns the archived collection of a bill type, or an empty one.
func Load(a *archive.Archive, bt congress.BillType, year int) (Collection, error) {
	var c Collection
	err := a.ReadJSON(bt.Filename(year), &c)
	if errors.Is(err, archive.ErrNotFound) {
		return Collection{}, nil
	}
	return c, err
}

// LoadAll loads the archived collections of the given types that exist,
// keyed by bill type.
func LoadAll(a *archive.Archive, types []congress.BillType, year int) (map[string]Collection, error) {
	out := make(map[string]Collection, len(types))
	for _, bt := range types {
		if !a.Has(bt.Filename(year)) {
			continue
		}
		c, err := Load(a, bt, year)
		if err != nil {
			return nil, err
		}
		out[bt.Key] = c
	}
	return out, nil
}

// Collect probes item numbers until one is missing and saves the
// collection. With newOnly the archived collection is extended from the
// number after its last bill; otherwise collection starts over at 1.
// Numbers at or above limit are not probed.
func (c *Collector) Collect(ctx context.Context, bt congress.BillType, newOnly bool, limit int) (Collection, error) {
	if c.Fetcher == nil || c.Archive == nil {
		return Collection{}, errors.New("bills: collector needs a fetcher and an archive")
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	urlFor := c.URL
	if urlFor == nil {
		urlFor = func(bt congress.BillType, congressNum, n int) string { return bt.URL(congressNum, n) }
	}

	var coll Collection
	if newOnly {
		var err error
		if coll, err = Load(c.Archive, bt, c.Session.Year); err != nil {
			return coll, err
		}
	}

	slog.Info("bill collection start", "type", bt.Key, "from", coll.BillData.LastBill+1)
	var runErr error
	added := 0
	for n := coll.BillData.LastBill + 1; n < limit; n++ {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		pageURL := urlFor(bt, c.Session.Congress, n)
		body, ok := c.fetch(ctx, pageURL)
		if !ok {
			if err := ctx.Err(); err != nil {
				runErr = err
			}
			slog.Info("bill collection end", "type", bt.Key, "number", n, "reason", "fetch")
			break
		}

		var (
			b   Bill
			err error
		)
		if bt.Nomination {
			b, err = ParseNominationPage(bytes.NewReader(body), pageURL, n)
		} else {
			b, err = ParseBillPage(bytes.NewReader(body), pageURL, n)
			if err == nil && !b.Reserved && !c.SkipDetails {
				c.details(ctx, pageURL, &b)
			}
		}
		if err != nil {
			observability.IncError(observability.ErrorParsing, "bills")
			slog.Error("bill page parse failed", "url", pageURL, "error", err)
			break
		}

		coll.BillData.LastBill = n
		coll.BillData.Bills = append(coll.BillData.Bills, b)
		added++
		observability.IncBillsCollected()
		slog.Debug("bill collected", "type", bt.Key, "number", n, "title", b.Title)
		c.save(ctx, bt, b)
	}

	if err := c.Archive.WriteJSON(bt.Filename(c.Session.Year), coll); err != nil {
		observability.IncError(observability.ErrorStore, "bills")
		return coll, err
	}
	slog.Info("bill collection complete", "type", bt.Key, "added", added, "last", coll.BillData.LastBill)
	return coll, runErr
}

func (c *Collector) fetch(ctx context.Context, target string) ([]byte, bool) {
	start := time.Now()
	body, _, err := c.Fetcher.FetchBytes(ctx, target)
	observability.ObserveFetchDuration(time.Since(start).Seconds())
	if err != nil {
		if ctx.Err() == nil && !httpx.IsNotFound(err) {
			observability.IncError(observability.ClassifyFetchError(err), "bills")
			slog.Debug("bill fetch failed", "url", target, "error", err)
		}
		return nil, false
	}
	observability.IncDocumentsFetched()
	return body, true
}

// details fills the fields that live on the bill's sub-pages. Missing
// sub-pages leave their fields empty.
func (c *Collector) details(ctx context.Context, pageURL string, b *Bill) {
	if body, ok := c.fetch(ctx, pageURL+"/cosponsors"); ok {
		list, table, err := ParseCosponsors(bytes.NewReader(body))
		if err != nil {
			slog.Debug("cosponsors parse failed", "url", pageURL, "error", err)
		}
		b.Cosponsors, b.CosponsorsTable = list, table
	}
	if body, ok := c.fetch(ctx, pageURL+"/text?format=txt"); ok {
		text, err := ParseText(bytes.NewReader(body))
		if err != nil {
			slog.Debug("text parse failed", "url", pageURL, "error", err)
		}
		b.Text = text
	}
	if b.SubjectsURL == "" {
		return
	}
	if body, ok := c.fetch(ctx, b.SubjectsURL); ok {
		subjects, err := ParseSubjects(bytes.NewReader(body))
		if err != nil {
			slog.Debug("subjects parse failed", "url", b.SubjectsURL, "error", err)
		}
		b.Subjects = subjects
	}
}

func (c *Collector) save(ctx context.Context, bt congress.BillType, b Bill) {
	if c.Sink == nil {
		return
	}
	data, err := json.Marshal(b)
	if err != nil {
		slog.Error("bill encode failed", "number", b.Number, "error", err)
		return
	}
	rec := store.BillRecord{
		BillType:     bt.Key,
		Year:         c.Session.Year,
		Number:       b.Number,
		Title:        b.Title,
		URL:          b.URL,
		Status:       b.Status,
		LatestAction: b.LatestAction,
		Data:         data,
	}
	if err := c.Sink.SaveBill(ctx, rec); err != nil {
		observability.IncError(observability.ErrorStore, "bills")
		slog.Error("bill store failed", "type", bt.Key, "number", b.Number, "error", err)
	}
}
