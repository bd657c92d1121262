// Package report renders the collected votes, bills and records as
// static HTML pages.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/baxromumarov/congress-tracker/internal/congress"
	"github.com/baxromumarov/congress-tracker/internal/observability"
)

// Status classes used by the stylesheet.
const (
	ClassPassed    = "passed"
	ClassBecameLaw = "became_law"
	ClassVetoed    = "vetoed"
	ClassAgreed    = "agreed"
	ClassConfirmed = "confirmed"
	ClassWithdrawn = "withdrawn"
)

var publicLawPattern = regexp.MustCompile(`Public Law No: (\d+?)-(\d+)`)

// StatusClass maps a tracker status to its class, or "".
func StatusClass(status string) string {
	switch {
	case strings.Contains(status, "Passed"):
		return ClassPassed
	case strings.Contains(status, "Became Law"):
		return ClassBecameLaw
	case strings.Contains(status, "Vetoed"), strings.Contains(status, "Failed to pass over veto"):
		return ClassVetoed
	case strings.Contains(status, "Agreed to"):
		return ClassAgreed
	}
	return ""
}

// ActionClass maps a latest action to its class, or "".
func ActionClass(action string) string {
	switch {
	case strings.Contains(action, "Confirmed by"):
		return ClassConfirmed
	case strings.Contains(action, "withdrawal"):
		return ClassWithdrawn
	}
	return ""
}

// PublicLawURL links the public law named in a latest action, if any.
func PublicLawURL(action string) string {
	m := publicLawPattern.FindStringSubmatch(action)
	if m == nil {
		return ""
	}
	return congress.PublicLawPDFURL(m[1], m[2])
}

// Write renders node to path, creating the directory.
func Write(path string, node g.Node) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("report: create dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".report-*")
	if err != nil {
		return fmt.Errorf("report: create %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := node.Render(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("report: render %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("report: write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("report: write %s: %w", path, err)
	}
	observability.IncReportsRendered()
	return nil
}

func page(title string, updated time.Time, body ...g.Node) g.Node {
	return h.Doctype(
		h.HTML(h.Lang("en"),
			h.Head(
				h.Meta(h.Charset("utf-8")),
				h.TitleEl(g.Text(title)),
				h.StyleEl(g.Raw(stylesheet)),
			),
			h.Body(
				h.H1(g.Text(title)),
				h.H2(g.Text("Last updated "+updated.Format("January 02, 2006"))),
				g.Group(body),
			),
		),
	)
}

// Link is one entry of the index page.
type Link struct {
	Title string
	Href  string
}

// IndexPage links every rendered page of a year.
func IndexPage(year int, updated time.Time, links []Link) g.Node {
	return page(fmt.Sprintf("Congress %d", year), updated,
		h.P(g.Text(congress.SessionForYear(year).String())),
		h.Ul(g.Map(links, func(l Link) g.Node {
			return h.Li(h.A(h.Href(l.Href), g.Text(l.Title)))
		})),
	)
}

const stylesheet = `body { font-family: sans-serif; margin: 1em 2em; }
table.votes { border-collapse: collapse; width: 100%; }
table.votes td { vertical-align: top; border: 1px solid #ccc; padding: 0.5em; width: 50%; }
td.procedural { background: #f4f4f4; color: #555; }
.odd { background: #f8f8ff; padding: 0.5em; }
.even { background: #ffffff; padding: 0.5em; }
.bill_title { font-size: 1.1em; }
.passed, .result_passed { color: #1a7f1a; }
.became_law { color: #0b5394; }
.vetoed, .result_failed, .withdrawn { color: #b00020; }
.agreed, .confirmed { color: #38761d; }
.Democratic { color: blue; }
.Republican { color: red; }
.Independent { color: purple; }
.question { font-weight: bold; }
table.parties td, table.cosponsors td { border: 1px solid #ccc; padding: 0.2em 0.5em; }
`
