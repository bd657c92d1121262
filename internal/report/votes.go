package report

import (
	"fmt"
	"strconv"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/baxromumarov/congress-tracker/internal/votes"
)

// titled converts "RECORDED VOTE" to "Recorded Vote". Casers keep state,
// so each call gets its own.
func titled(s string) string {
	return cases.Title(language.English).String(s)
}

// voteRow pairs the House and Senate votes shown side by side. Either
// may be nil.
type voteRow struct {
	House  *votes.Summary
	Senate *votes.Summary
}

// pairVotes interleaves two newest-first lists by date. Votes of the same
// day share a row; otherwise the later one gets a row of its own.
func pairVotes(house, senate []votes.Summary) []voteRow {
	var rows []voteRow
	hi, si := 0, 0
	for hi < len(house) || si < len(senate) {
		var row voteRow
		hDone, sDone := hi >= len(house), si >= len(senate)
		switch {
		case sDone:
			row.House = &house[hi]
		case hDone:
			row.Senate = &senate[si]
		default:
			hd, sd := house[hi].Date, senate[si].Date
			if !hd.Before(sd) {
				row.House = &house[hi]
			}
			if !sd.Before(hd) {
				row.Senate = &senate[si]
			}
		}
		if row.House != nil {
			hi++
		}
		if row.Senate != nil {
			si++
		}
		rows = append(rows, row)
	}
	return rows
}

// VotesPage shows the roll-call votes of both chambers, newest first.
func VotesPage(year int, updated time.Time, house, senate []votes.Summary) g.Node {
	rows := pairVotes(house, senate)
	return page(fmt.Sprintf("Congress Votes %d", year), updated,
		h.Table(h.Class("votes"),
			h.THead(h.Tr(
				h.Th(g.Text(votes.House.Title())),
				h.Th(g.Text(votes.Senate.Title())),
			)),
			h.TBody(g.Map(rows, func(r voteRow) g.Node {
				return h.Tr(voteCell(r.House), voteCell(r.Senate))
			})),
		),
	)
}

func voteCell(s *votes.Summary) g.Node {
	if s == nil {
		return h.Td()
	}
	heading := fmt.Sprintf("Roll call vote %d", s.Number)
	return h.Td(
		g.If(s.Procedural, h.Class("procedural")),
		h.H3(g.Text(heading), g.If(s.Procedural, h.I(g.Text(" (Procedural)")))),
		g.If(s.Congress != "", h.P(g.Text(s.Congress+" Congress"), g.If(s.Body != "", g.Text(" -- "+s.Body)))),
		h.P(g.Text(s.DateText)),
		g.If(s.Document != "", h.P(g.Text(s.Document), g.If(s.DocumentTitle != "", g.Text(" -- "+s.DocumentTitle)))),
		g.If(s.Description != "", h.P(g.Text(s.Description))),
		h.P(h.Span(h.Class("question"), g.Text(s.Question)),
			g.If(s.VoteType != "", g.Text(" ("+titled(s.VoteType)+")"))),
		h.P(h.Span(h.Class("result_"+s.ResultClass), h.B(g.Text(s.Result))),
			g.If(s.Requirement != "", g.Text(" : "+s.Requirement+" required"))),
		tallies(s),
		h.P(
			h.A(h.Href(s.DetailsURL), g.Text("Roll call vote details")),
			g.If(s.AmendmentURL != "", g.Group{h.Br(), h.A(h.Href(s.AmendmentURL), g.Text("Amendment"))}),
			g.If(s.DocumentURL != "", g.Group{h.Br(), h.A(h.Href(s.DocumentURL), g.Text("Document"))}),
		),
	)
}

func tallies(s *votes.Summary) g.Node {
	if len(s.Candidates) > 0 {
		return h.Ul(g.Map(s.Candidates, func(c votes.CandidateTally) g.Node {
			return h.Li(g.Textf("%s: %d", c.Candidate, c.Total))
		}))
	}
	t := s.Totals
	parties := []struct{ key, name string }{
		{votes.Democratic, "Democratic"},
		{votes.Republican, "Republican"},
		{votes.Independent, "Independent"},
	}
	return g.Group{
		h.P(g.Textf("Yea %d / Nay %d / Present %d / Not Voting %d", t.Yea, t.Nay, t.Present, t.NotVoting)),
		h.Table(h.Class("parties"),
			h.Tr(h.Th(), h.Th(g.Text("Yea")), h.Th(g.Text("Nay")), h.Th(g.Text("Present")), h.Th(g.Text("Not Voting"))),
			g.Map(parties, func(p struct{ key, name string }) g.Node {
				pt := s.Parties[p.key]
				return h.Tr(
					h.Td(h.Class(p.name), g.Text(p.name)),
					h.Td(g.Text(strconv.Itoa(pt.Yea))),
					h.Td(g.Text(strconv.Itoa(pt.Nay))),
					h.Td(g.Text(strconv.Itoa(pt.Present))),
					h.Td(g.Text(strconv.Itoa(pt.NotVoting))),
				)
			}),
		),
		h.P(g.Textf("Bipartisan %.1f%%", s.Bipartisan)),
	}
}
