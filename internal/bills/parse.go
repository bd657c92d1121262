// Package bills scrapes bill, resolution and nomination pages from
// congress.gov and keeps one JSON collection per bill type and year.
package bills

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/baxromumarov/congress-tracker/internal/congress"
)

type Cosponsor struct {
	Title string `json:"title"`
	Name  string `json:"name"`
	Party string `json:"party"`
	State string `json:"state"`
}

// Bill is one collected item. Nomination pages fill the nomination fields
// and leave the sponsor fields empty.
type Bill struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Number int    `json:"number"`
	Status string `json:"status,omitempty"`

	Sponsor    string `json:"sponsor,omitempty"`
	Party      string `json:"party,omitempty"`
	Introduced string `json:"introduced,omitempty"`

	Committees          string `json:"committees,omitempty"`
	CommitteeReports    string `json:"committee_reports,omitempty"`
	CommitteeReportsURL string `json:"committee_reports_url,omitempty"`
	LatestAction        string `json:"latest_action,omitempty"`
	AllActionsURL       string `json:"all_actions_url,omitempty"`

	PolicyArea  string   `json:"policy_area,omitempty"`
	SubjectsURL string   `json:"subjects_url,omitempty"`
	Subjects    []string `json:"subjects,omitempty"`

	CosponsorsURL   string      `json:"cosponsors,omitempty"`
	Cosponsors      []Cosponsor `json:"cosponsors_list,omitempty"`
	CosponsorsTable string      `json:"cosponsors_table,omitempty"`
	Text            string      `json:"text,omitempty"`
	Reserved        bool        `json:"reserved,omitempty"`

	Description  string `json:"description,omitempty"`
	Nominees     string `json:"nominees,omitempty"`
	Organization string `json:"organization,omitempty"`
	DateReceived string `json:"date_received,omitempty"`
}

var (
	cosponsorPattern = regexp.MustCompile(`^(.*?)\.\s+(.*?)\s*\[(.?)-(.*?)\]`)
	introducedPrefix = regexp.MustCompile(`^\(?\s*`)
)

func document(r io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("bills parse failed: %w", err)
	}
	return doc, nil
}

// ParseBillPage reads the overview page of a bill or resolution. A page
// without a status tracker is a reserved number.
func ParseBillPage(r io.Reader, pageURL string, number int) (Bill, error) {
	doc, err := document(r)
	if err != nil {
		return Bill{}, err
	}
	b := Bill{
		Title:         strings.TrimSpace(doc.Find("title").First().Text()),
		URL:           pageURL + "/text",
		Number:        number,
		CosponsorsURL: pageURL + "/cosponsors",
	}

	tracker := doc.Find("p.hide_fromsighted").First()
	if tracker.Length() == 0 {
		b.Reserved = true
		return b, nil
	}
	b.Status = textOf(tracker)

	rows := overviewRows(doc)
	if td, ok := rows["Sponsor"]; ok {
		link := td.Find("a").First()
		b.Sponsor = textOf(link)
		full := textOf(td)
		b.Introduced = strings.TrimSuffix(introducedPrefix.ReplaceAllString(strings.TrimSpace(strings.TrimPrefix(full, b.Sponsor)), ""), ")")
		b.Party = sponsorParty(b.Sponsor)
	}
	if td, ok := rows["Committees"]; ok {
		b.Committees = textOf(td)
	}
	if td, ok := rows["Committee Reports"]; ok {
		link := td.Find("a").First()
		b.CommitteeReports = textOf(link)
		if href, ok := link.Attr("href"); ok {
			b.CommitteeReportsURL = congress.Absolute(href)
		}
	}
	if td, ok := rows["Latest Action"]; ok {
		b.LatestAction, b.AllActionsURL = latestAction(td)
	}

	if ul := section(doc, "Policy Area"); ul.Length() > 0 {
		items := ul.Find("li")
		b.PolicyArea = textOf(items.First())
		if href, ok := items.Find("a").First().Attr("href"); ok {
			b.SubjectsURL = congress.Absolute(href)
		}
	}
	return b, nil
}

// ParseNominationPage reads a nomination page.
func ParseNominationPage(r io.Reader, pageURL string, number int) (Bill, error) {
	doc, err := document(r)
	if err != nil {
		return Bill{}, err
	}
	first := func(label string) string {
		return textOf(section(doc, label).Find("li").First())
	}
	b := Bill{
		Title:        strings.TrimSpace(doc.Find("title").First().Text()),
		URL:          pageURL,
		Number:       number,
		Description:  first("Description"),
		Nominees:     first("Nominees"),
		Committees:   first("Committee"),
		Organization: first("Organization"),
		LatestAction: first("Latest Action"),
		DateReceived: first("Date Received from President"),
	}
	if tracker := doc.Find("p.hide_fromsighted").First(); tracker.Length() > 0 {
		b.Status = textOf(tracker)
	}
	return b, nil
}

// ParseCosponsors reads the cosponsors page. The table markup is returned
// for reports that show it in full.
func ParseCosponsors(r io.Reader) ([]Cosponsor, string, error) {
	doc, err := document(r)
	if err != nil {
		return nil, "", err
	}
	table := doc.Find("table.item_table").First()
	if table.Length() == 0 {
		return nil, "", nil
	}
	markup, err := goquery.OuterHtml(table)
	if err != nil {
		return nil, "", fmt.Errorf("bills render cosponsors failed: %w", err)
	}
	var out []Cosponsor
	table.Find("a").Each(func(_ int, s *goquery.Selection) {
		m := cosponsorPattern.FindStringSubmatch(textOf(s))
		if m == nil {
			return
		}
		out = append(out, Cosponsor{Title: m[1], Name: m[2], Party: m[3], State: m[4]})
	})
	return out, markup, nil
}

// ParseSubjects returns the legislative subjects listed on a subjects page.
func ParseSubjects(r io.Reader) ([]string, error) {
	doc, err := document(r)
	if err != nil {
		return nil, err
	}
	var out []string
	section(doc, "Legislative Subjects").Find("li a").Each(func(_ int, s *goquery.Selection) {
		if t := textOf(s); t != "" {
			out = append(out, t)
		}
	})
	return out, nil
}

// ParseText returns the bill text from the plain-text view, or the first
// paragraph of the page body when no text has been published.
func ParseText(r io.Reader) (string, error) {
	doc, err := document(r)
	if err != nil {
		return "", err
	}
	if pre := doc.Find("pre#billTextContainer").First(); pre.Length() > 0 {
		return preText(pre), nil
	}
	p := doc.Find("main .primary p").First()
	if p.Length() == 0 {
		p = doc.Find("main p").First()
	}
	return textOf(p), nil
}

// overviewRows maps the header cell of each overview table row, without
// its trailing colon, to the data cell.
func overviewRows(doc *goquery.Document) map[string]*goquery.Selection {
	rows := map[string]*goquery.Selection{}
	doc.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		th := tr.Find("th").First()
		td := tr.Find("td").First()
		if th.Length() == 0 || td.Length() == 0 {
			return
		}
		key := strings.TrimSuffix(textOf(th), ":")
		if _, seen := rows[key]; !seen {
			rows[key] = td
		}
	})
	return rows
}

// section finds the list that follows a heading such as "Policy Area".
func section(doc *goquery.Document, label string) *goquery.Selection {
	found := doc.Selection.Slice(0, 0)
	doc.Find("h1, h2, h3, h4, dt").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.TrimSuffix(textOf(s), ":") != label {
			return true
		}
		ul := s.NextAllFiltered("ul").First()
		if ul.Length() == 0 {
			ul = s.Parent().Find("ul").First()
		}
		if ul.Length() == 0 {
			ul = s.NextAllFiltered("dd").First()
		}
		found = ul
		return false
	})
	return found
}

// latestAction splits "Senate - 03/14/2019 Read twice. (All Actions)"
// into the action text and the all-actions link.
func latestAction(td *goquery.Selection) (string, string) {
	var actionsURL string
	td.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if !strings.Contains(strings.ToLower(textOf(a)), "all actions") {
			return true
		}
		if href, ok := a.Attr("href"); ok {
			actionsURL = congress.Absolute(href)
		}
		return false
	})
	text := textOf(td)
	if i := strings.LastIndex(text, "(All Actions"); i >= 0 {
		text = strings.TrimSpace(text[:i])
	}
	return text, actionsURL
}

func sponsorParty(sponsor string) string {
	switch {
	case strings.Contains(sponsor, "[R-"):
		return "Republican"
	case strings.Contains(sponsor, "[D-"):
		return "Democratic"
	}
	return "Independent"
}
