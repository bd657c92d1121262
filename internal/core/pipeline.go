// Package core runs the collectors and renders the report pages, once or
// on a schedule.
package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/baxromumarov/congress-tracker/internal/archive"
	"github.com/baxromumarov/congress-tracker/internal/bills"
	"github.com/baxromumarov/congress-tracker/internal/config"
	"github.com/baxromumarov/congress-tracker/internal/observability"
	"github.com/baxromumarov/congress-tracker/internal/records"
	"github.com/baxromumarov/congress-tracker/internal/report"
	"github.com/baxromumarov/congress-tracker/internal/votes"
)

// Fetcher downloads documents for the vote and bill collectors.
type Fetcher interface {
	FetchBytes(ctx context.Context, url string) ([]byte, int, error)
}

// Sink mirrors collected votes and bills, usually into the database.
type Sink interface {
	votes.Sink
	bills.Sink
}

type Pipeline struct {
	cfg     config.Config
	fetcher Fetcher
	checker records.Checker
	sink    Sink
	now     func() time.Time
}

// NewPipeline wires the collectors. sink may be nil.
func NewPipeline(cfg config.Config, fetcher Fetcher, checker records.Checker, sink Sink) *Pipeline {
	return &Pipeline{
		cfg:     cfg,
		fetcher: fetcher,
		checker: checker,
		sink:    sink,
		now:     time.Now,
	}
}

// VotesPageName is the report file of the year's votes.
func VotesPageName(year int) string {
	return fmt.Sprintf("congress_votes_%d.html", year)
}

// RecordsPageName is the report file of the year's Congressional Records.
func RecordsPageName(year int) string {
	return fmt.Sprintf("congressional_records_%d.html", year)
}

func recordsFile(year int) string {
	return fmt.Sprintf("congressional_records_%d.json", year)
}

func (p *Pipeline) Start(ctx context.Context) {
	go p.runLoop(ctx, p.cfg.Interval)
}

func (p *Pipeline) runLoop(ctx context.Context, interval time.Duration) {
	p.RunOnce(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.RunOnce(ctx)
		}
	}
}

// RunOnce runs every stage. A failed stage is logged and counted and does
// not stop the ones after it.
func (p *Pipeline) RunOnce(ctx context.Context) {
	stages := []struct {
		name string
		run  func(context.Context) error
	}{
		{"votes", p.CollectVotes},
		{"bills", p.CollectBills},
		{"records", p.CollectRecords},
		{"report", func(context.Context) error { return p.Render() }},
	}
	start := time.Now()
	for _, stage := range stages {
		if ctx.Err() != nil {
			return
		}
		if err := stage.run(ctx); err != nil {
			observability.IncError(observability.ClassifyError(err), stage.name)
			slog.Error("pipeline stage failed", "stage", stage.name, "error", err)
		}
	}
	slog.Info("pipeline run complete", "year", p.cfg.Year, "duration", time.Since(start).String())
}

// CollectVotes collects the roll calls of both chambers.
func (p *Pipeline) CollectVotes(ctx context.Context) error {
	var errs []error
	for _, ch := range []votes.Chamber{votes.House, votes.Senate} {
		if _, err := p.CollectChamber(ctx, ch); err != nil {
			if ctx.Err() != nil {
				return err
			}
			errs = append(errs, fmt.Errorf("%s votes: %w", ch, err))
		}
	}
	return errors.Join(errs...)
}

// CollectChamber collects the roll calls of one chamber.
func (p *Pipeline) CollectChamber(ctx context.Context, ch votes.Chamber) (votes.Result, error) {
	a, err := archive.Open(p.votesDir(ch))
	if err != nil {
		return votes.Result{Chamber: ch}, err
	}
	c := &votes.Collector{
		Fetcher:     p.fetcher,
		Archive:     a,
		Session:     p.cfg.Session(),
		UpdatesOnly: p.cfg.UpdatesOnly,
		MaxVotes:    p.cfg.MaxRollCalls,
	}
	if p.sink != nil {
		c.Sink = p.sink
	}
	return c.Collect(ctx, ch)
}

// CollectBills collects every configured bill type.
func (p *Pipeline) CollectBills(ctx context.Context) error {
	a, err := archive.Open(p.cfg.BillsDir())
	if err != nil {
		return err
	}
	c := &bills.Collector{
		Fetcher: p.fetcher,
		Archive: a,
		Session: p.cfg.Session(),
	}
	if p.sink != nil {
		c.Sink = p.sink
	}
	var errs []error
	for _, bt := range p.cfg.SelectedBillTypes() {
		if _, err := c.Collect(ctx, bt, p.cfg.UpdatesOnly, p.cfg.BillLimit); err != nil {
			if ctx.Err() != nil {
				return err
			}
			errs = append(errs, fmt.Errorf("%s: %w", bt.Key, err))
		}
	}
	return errors.Join(errs...)
}

// CollectRecords probes the year's Congressional Records and archives
// the list.
func (p *Pipeline) CollectRecords(ctx context.Context) error {
	if p.checker == nil {
		return errors.New("core: no record checker configured")
	}
	found, err := records.Probe(ctx, p.checker, p.cfg.Session(), p.now())
	if err != nil {
		return err
	}
	a, err := archive.Open(p.cfg.DataDir)
	if err != nil {
		return err
	}
	return a.WriteJSON(recordsFile(p.cfg.Year), found)
}

// Render writes every report page from the archives.
func (p *Pipeline) Render() error {
	now := p.now()
	year := p.cfg.Year
	var links []report.Link

	house, err := p.summaries(votes.House)
	if err != nil {
		return err
	}
	senate, err := p.summaries(votes.Senate)
	if err != nil {
		return err
	}
	if err := report.Write(p.htmlPath(VotesPageName(year)), report.VotesPage(year, now, house, senate)); err != nil {
		return err
	}
	links = append(links, report.Link{Title: "Votes", Href: VotesPageName(year)})

	billsArchive, err := archive.Open(p.cfg.BillsDir())
	if err != nil {
		return err
	}
	for _, bt := range p.cfg.SelectedBillTypes() {
		if !billsArchive.Has(bt.Filename(year)) {
			continue
		}
		coll, err := bills.Load(billsArchive, bt, year)
		if err != nil {
			return err
		}
		page := report.BillsPage(bt.Title, year, now, coll.BillData.Bills, p.cfg.ShowCosponsorTable)
		if err := report.Write(p.htmlPath(bt.PageName(year)), page); err != nil {
			return err
		}
		links = append(links, report.Link{Title: bt.Title, Href: bt.PageName(year)})
	}

	dataArchive, err := archive.Open(p.cfg.DataDir)
	if err != nil {
		return err
	}
	var found []records.Record
	if err := dataArchive.ReadJSON(recordsFile(year), &found); err == nil {
		if err := report.Write(p.htmlPath(RecordsPageName(year)), report.RecordsPage(year, now, found)); err != nil {
			return err
		}
		links = append(links, report.Link{Title: "Congressional Record", Href: RecordsPageName(year)})
	} else if !errors.Is(err, archive.ErrNotFound) {
		return err
	}

	return report.Write(p.htmlPath("index.html"), report.IndexPage(year, now, links))
}

func (p *Pipeline) summaries(ch votes.Chamber) ([]votes.Summary, error) {
	a, err := archive.Open(p.votesDir(ch))
	if err != nil {
		return nil, err
	}
	return votes.LoadSummaries(a, ch, p.cfg.Session())
}

func (p *Pipeline) votesDir(ch votes.Chamber) string {
	if ch == votes.Senate {
		return p.cfg.SenateVotesDir()
	}
	return p.cfg.HouseVotesDir()
}

func (p *Pipeline) htmlPath(name string) string {
	return filepath.Join(p.cfg.HTMLDir, name)
}
