package report

import (
	"fmt"
	"time"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/baxromumarov/congress-tracker/internal/records"
)

// RecordsPage links each published Congressional Record of a year.
func RecordsPage(year int, updated time.Time, list []records.Record) g.Node {
	return page(fmt.Sprintf("Congressional Record %d", year), updated,
		g.If(len(list) == 0, h.P(g.Text("No records published yet."))),
		h.Ul(g.Map(list, func(r records.Record) g.Node {
			return h.Li(h.A(h.Href(r.URL), g.Text(r.Date.Format("Monday, January 2, 2006"))))
		})),
	)
}
