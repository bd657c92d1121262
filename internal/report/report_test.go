package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	g "maragu.dev/gomponents"

	"github.com/baxromumarov/congress-tracker/internal/bills"
	"github.com/baxromumarov/congress-tracker/internal/records"
	"github.com/baxromumarov/congress-tracker/internal/votes"
)

var updated = time.Date(2019, time.March, 9, 0, 0, 0, 0, time.UTC)

func render(t *testing.T, n g.Node) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, n.Render(&sb))
	return sb.String()
}

func day(d int) time.Time {
	return time.Date(2019, time.March, d, 0, 0, 0, 0, time.UTC)
}

func TestStatusClasses(t *testing.T) {
	require.Equal(t, ClassPassed, StatusClass("This bill has the status Passed House"))
	require.Equal(t, ClassBecameLaw, StatusClass("This bill has the status Became Law"))
	require.Equal(t, ClassVetoed, StatusClass("Failed to pass over veto"))
	require.Equal(t, ClassAgreed, StatusClass("Agreed to in Senate"))
	require.Empty(t, StatusClass("Introduced"))

	require.Equal(t, ClassConfirmed, ActionClass("Confirmed by the Senate by Voice Vote."))
	require.Equal(t, ClassWithdrawn, ActionClass("Received message of withdrawal of nomination"))
	require.Empty(t, ActionClass("Referred to committee"))

	require.Equal(t,
		"https://www.govinfo.gov/content/pkg/PLAW-116publ9/pdf/PLAW-116publ9.pdf",
		PublicLawURL("03/12/2019 Became Public Law No: 116-9."))
	require.Empty(t, PublicLawURL("Passed House"))
}

func TestPairVotes(t *testing.T) {
	house := []votes.Summary{{Number: 3, Date: day(8)}, {Number: 2, Date: day(7)}, {Number: 1, Date: day(5)}}
	senate := []votes.Summary{{Number: 9, Date: day(7)}, {Number: 8, Date: day(6)}}

	rows := pairVotes(house, senate)
	require.Len(t, rows, 4)

	require.Equal(t, 3, rows[0].House.Number)
	require.Nil(t, rows[0].Senate)

	require.Equal(t, 2, rows[1].House.Number)
	require.Equal(t, 9, rows[1].Senate.Number)

	require.Nil(t, rows[2].House)
	require.Equal(t, 8, rows[2].Senate.Number)

	require.Equal(t, 1, rows[3].House.Number)
	require.Nil(t, rows[3].Senate)

	require.Empty(t, pairVotes(nil, nil))
}

func TestVotesPage(t *testing.T) {
	house := []votes.Summary{{
		Chamber:     votes.House,
		Number:      128,
		Congress:    "116",
		Date:        day(8),
		DateText:    "8-Mar-2019",
		Question:    "On Passage",
		VoteType:    "RECORDED VOTE",
		Result:      "Passed",
		ResultClass: votes.ResultPassed,
		Document:    "H R 1",
		DocumentURL: "https://www.congress.gov/bill/116th-congress/house-bill/1/text",
		DetailsURL:  "https://clerk.house.gov/evs/2019/roll128.xml",
		Totals:      votes.PartyTally{Yea: 234, Nay: 193, NotVoting: 5},
		Parties:     map[string]votes.PartyTally{votes.Democratic: {Yea: 234}},
		Bipartisan:  1.04,
	}}
	senate := []votes.Summary{{
		Chamber:     votes.Senate,
		Number:      40,
		Date:        day(7),
		Question:    "On the Motion to Table",
		Result:      "Motion to Table Agreed to",
		ResultClass: votes.ResultPassed,
		Procedural:  true,
		DetailsURL:  "https://www.senate.gov/x",
	}}

	out := render(t, VotesPage(2019, updated, house, senate))
	require.True(t, strings.HasPrefix(out, "<!doctype html>"))
	require.Contains(t, out, "<title>Congress Votes 2019</title>")
	require.Contains(t, out, "Last updated March 09, 2019")
	require.Contains(t, out, "Roll call vote 128")
	require.Contains(t, out, "(Recorded Vote)")
	require.Contains(t, out, `class="result_passed"`)
	require.Contains(t, out, `<td class="procedural">`)
	require.Contains(t, out, "Bipartisan 1.0%")
	require.Contains(t, out, `href="https://www.congress.gov/bill/116th-congress/house-bill/1/text"`)
	require.Less(t, strings.Index(out, "Roll call vote 128"), strings.Index(out, "Roll call vote 40"))
}

func TestBillsPage(t *testing.T) {
	list := []bills.Bill{
		{
			Title:        "H.R.1 - For the People Act",
			URL:          "https://www.congress.gov/bill/116th-congress/house-bill/1/text",
			Status:       "This bill has the status Became Law",
			LatestAction: "Became Public Law No: 116-9.",
			Sponsor:      "Rep. Sarbanes, John P. [D-MD-3]",
			Party:        "Democratic",
			PolicyArea:   "Government Operations and Politics",
			Subjects:     []string{"Campaign finance", "Elections"},
			Cosponsors: []bills.Cosponsor{
				{Title: "Rep", Name: "Pelosi, Nancy", Party: "D", State: "CA-12"},
				{Title: "Rep", Name: "King, Peter", Party: "R", State: "NY-2"},
			},
			CosponsorsTable: `<table class="item_table"><tr><td>raw</td></tr></table>`,
			CosponsorsURL:   "https://www.congress.gov/bill/116th-congress/house-bill/1/cosponsors",
		},
		{Title: "H.R.2", URL: "u2", Reserved: true},
		{Title: "PN1", URL: "u3", LatestAction: "Confirmed by the Senate <b>now</b>"},
	}

	out := render(t, BillsPage("House Bills", 2019, updated, list, false))
	require.Contains(t, out, "<title>House Bills 2019</title>")
	require.Contains(t, out, `<div class="odd">`)
	require.Contains(t, out, `<div class="even">`)
	require.Contains(t, out, `class="became_law"`)
	require.Contains(t, out, "PLAW-116publ9.pdf")
	require.Contains(t, out, `<span class="Democratic">`)
	require.Contains(t, out, "Campaign finance, Elections")
	require.Contains(t, out, "2 cosponsors:")
	require.Contains(t, out, "1 Democrats")
	require.Contains(t, out, ">Cosponsors</a>")
	require.NotContains(t, out, "item_table")
	require.Contains(t, out, "<li>Reserved</li>")
	require.Contains(t, out, `class="confirmed"`)
	require.Contains(t, out, "&lt;b&gt;now&lt;/b&gt;")

	out = render(t, BillsPage("House Bills", 2019, updated, list, true))
	require.Contains(t, out, `<table class="item_table">`)
	require.NotContains(t, out, ">Cosponsors</a>")
}

func TestRecordsAndIndexPages(t *testing.T) {
	out := render(t, RecordsPage(2019, updated, []records.Record{
		{Date: time.Date(2019, time.January, 3, 0, 0, 0, 0, time.UTC), URL: "https://www.congress.gov/116/crec/2019/01/03/CREC-2019-01-03.pdf"},
	}))
	require.Contains(t, out, "Thursday, January 3, 2019")
	require.Contains(t, out, "CREC-2019-01-03.pdf")
	require.NotContains(t, out, "No records published yet.")

	out = render(t, RecordsPage(2019, updated, nil))
	require.Contains(t, out, "No records published yet.")

	out = render(t, IndexPage(2019, updated, []Link{{Title: "Votes", Href: "congress_votes_2019.html"}}))
	require.Contains(t, out, "116th Congress, session 1")
	require.Contains(t, out, `<a href="congress_votes_2019.html">Votes</a>`)
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "html", "index.html")
	require.NoError(t, Write(path, IndexPage(2019, updated, nil)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "<h1>Congress 2019</h1>")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
