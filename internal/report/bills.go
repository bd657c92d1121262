package report

import (
	"fmt"
	"strings"
	"time"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/baxromumarov/congress-tracker/internal/bills"
)

// BillsPage lists the collected items of one bill type. With
// showCosponsorTable the scraped cosponsor table is embedded as is.
func BillsPage(title string, year int, updated time.Time, list []bills.Bill, showCosponsorTable bool) g.Node {
	items := make([]g.Node, 0, len(list))
	for i, b := range list {
		class := "odd"
		if i%2 == 1 {
			class = "even"
		}
		items = append(items, h.Div(h.Class(class), billEntry(b, showCosponsorTable)))
	}
	return page(fmt.Sprintf("%s %d", title, year), updated, g.Group(items))
}

func billEntry(b bills.Bill, showCosponsorTable bool) g.Node {
	return g.Group{
		h.A(h.Href(b.URL), h.Span(h.Class("bill_title"), h.B(g.Text(b.Title)))),
		h.Ul(
			g.If(b.Nominees != "", field("Nominees", g.Text(b.Nominees))),
			g.If(b.Status != "", status(b)),
			g.If(b.Sponsor != "", g.Group{
				field("Sponsor", h.Span(h.Class(b.Party), g.Text(b.Sponsor))),
				h.Li(g.Text(b.Introduced)),
			}),
			g.If(b.Description != "", field("Description", g.Text(b.Description))),
			g.If(b.Committees != "", field("Committee(s)", g.Text(b.Committees))),
			g.If(b.CommitteeReports != "", h.Li(h.A(h.Href(b.CommitteeReportsURL), g.Text(b.CommitteeReports)))),
			g.If(b.DateReceived != "", field("Date Received from President", g.Text(b.DateReceived))),
			g.If(b.Organization != "", field("Organization", g.Text(b.Organization))),
			g.If(b.PolicyArea != "", policy(b)),
			g.If(b.LatestAction != "", latest(b)),
			g.If(b.AllActionsURL != "", h.Li(h.A(h.Href(b.AllActionsURL), g.Text("All actions")))),
			g.If(len(b.Cosponsors) > 0, cosponsors(b.Cosponsors)),
			g.Iff(showCosponsorTable && b.CosponsorsTable != "", func() g.Node { return g.Raw(b.CosponsorsTable) }),
			g.If(!showCosponsorTable && b.CosponsorsURL != "", h.Li(h.A(h.Href(b.CosponsorsURL), g.Text("Cosponsors")))),
			g.If(b.Reserved, h.Li(g.Text("Reserved"))),
		),
	}
}

func field(label string, value ...g.Node) g.Node {
	return h.Li(h.B(g.Text(label+":")), g.Text(" "), g.Group(value))
}

func status(b bills.Bill) g.Node {
	class := StatusClass(b.Status)
	if class == "" {
		return h.Li(h.B(g.Text(b.Status)))
	}
	text := h.B(g.Text(b.Status))
	if class == ClassBecameLaw {
		if u := PublicLawURL(b.LatestAction); u != "" {
			return field("Status", h.Span(h.Class(class), h.A(h.Href(u), text)))
		}
	}
	return field("Status", h.Span(h.Class(class), text))
}

func policy(b bills.Bill) g.Node {
	area := g.Text(b.PolicyArea)
	if b.SubjectsURL != "" {
		area = h.A(h.Href(b.SubjectsURL), g.Text(b.PolicyArea))
	}
	return g.Group{
		field("Policy Area", area),
		g.If(len(b.Subjects) > 0, field("Legislative Subjects", g.Text(strings.Join(b.Subjects, ", ")))),
	}
}

func latest(b bills.Bill) g.Node {
	if class := ActionClass(b.LatestAction); class != "" {
		return field("Latest Action", h.Span(h.Class(class), g.Text(b.LatestAction)))
	}
	return field("Latest Action", g.Text(b.LatestAction))
}

func cosponsors(list []bills.Cosponsor) g.Node {
	byParty := map[string][]string{}
	for _, c := range list {
		byParty[c.Party] = append(byParty[c.Party], c.Name)
	}
	row := func(party, label string) g.Node {
		names := byParty[party]
		return h.Tr(
			h.Td(g.Textf("%d %s", len(names), label)),
			h.Td(g.Text(strings.Join(names, "; "))),
		)
	}
	return h.Li(
		h.B(g.Textf("%d cosponsors:", len(list))),
		h.Table(h.Class("cosponsors"),
			row("D", "Democrats"),
			row("R", "Republicans"),
			row("I", "Independents"),
		),
	)
}
