package votes

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/baxromumarov/congress-tracker/internal/archive"
	"github.com/baxromumarov/congress-tracker/internal/congress"
	"github.com/baxromumarov/congress-tracker/internal/xmltree"
)

// Party keys used in Summary.Parties.
const (
	Democratic  = "D"
	Republican  = "R"
	Independent = "I"
)

const (
	ResultPassed  = "passed"
	ResultFailed  = "failed"
	ResultGeneric = "generic"
)

// PartyTally counts the ways members of one group voted.
type PartyTally struct {
	Yea       int `json:"yea"`
	Nay       int `json:"nay"`
	Present   int `json:"present"`
	NotVoting int `json:"not_voting"`
}

func (p PartyTally) Total() int {
	return p.Yea + p.Nay + p.Present + p.NotVoting
}

func (p PartyTally) vector() [4]int {
	return [4]int{p.Yea, p.Nay, p.Present, p.NotVoting}
}

// CandidateTally is one line of an election vote such as the Speaker's.
type CandidateTally struct {
	Candidate string `json:"candidate"`
	Total     int    `json:"total"`
}

// Summary is the report view of one roll-call document.
type Summary struct {
	Chamber       Chamber               `json:"chamber"`
	Number        int                   `json:"number"`
	Congress      string                `json:"congress"`
	Date          time.Time             `json:"date"`
	DateText      string                `json:"date_text"`
	Question      string                `json:"question"`
	VoteType      string                `json:"vote_type,omitempty"`
	Result        string                `json:"result"`
	ResultClass   string                `json:"result_class"`
	Requirement   string                `json:"requirement,omitempty"`
	Description   string                `json:"description,omitempty"`
	Body          string                `json:"body,omitempty"`
	Document      string                `json:"document,omitempty"`
	DocumentTitle string                `json:"document_title,omitempty"`
	DocumentURL   string                `json:"document_url,omitempty"`
	AmendmentURL  string                `json:"amendment_url,omitempty"`
	DetailsURL    string                `json:"details_url"`
	Totals        PartyTally            `json:"totals"`
	Parties       map[string]PartyTally `json:"parties,omitempty"`
	Candidates    []CandidateTally      `json:"candidates,omitempty"`
	Bipartisan    float64               `json:"bipartisan"`
	Procedural    bool                  `json:"procedural"`
}

var houseProcedural = map[string]bool{
	"On Ordering the Previous Question":       true,
	"On Motion to Table":                      true,
	"On Motion to Recommit with Instructions": true,
	"On Motion to Commit with Instructions":   true,
	"On Motion to Table the Motion to Refer":  true,
	"On Motion to Fix the Convening Time":     true,
	"Call by States":                          true,
	"Election of the Speaker":                 true,
	"On Ordering a Call of the House":         true,
	"Call of the House":                       true,
	"Table Appeal of the Ruling of the Chair": true,
	"On Approving the Journal":                true,
}

var senateProceduralPrefixes = []string{
	"On the Cloture Motion",
	"On the Decision of the Chair",
	"On Cloture ",
	"On the Motion to Proceed",
	"On the Motion to Table",
}

var houseParties = map[string]string{
	"Democratic":  Democratic,
	"Republican":  Republican,
	"Independent": Independent,
}

// Summarize extracts the report fields of a normalized roll-call
// document. number is used when the document omits its own.
func Summarize(c Chamber, s congress.Session, number int, doc xmltree.Value) (Summary, error) {
	root, ok := xmltree.Lookup(doc, c.RootElement())
	if !ok {
		return Summary{}, fmt.Errorf("votes: %s vote %d: missing %s", c, number, c.RootElement())
	}
	if c == Senate {
		return summarizeSenate(s, number, root), nil
	}
	meta, ok := xmltree.Lookup(root, "vote-metadata")
	if !ok {
		return Summary{}, fmt.Errorf("votes: house vote %d: missing vote-metadata", number)
	}
	return summarizeHouse(s, number, meta), nil
}

func summarizeHouse(s congress.Session, number int, meta xmltree.Value) Summary {
	text := func(name string) string { return strings.TrimSpace(xmltree.LookupText(meta, name)) }

	sum := Summary{
		Chamber:     House,
		Number:      atoiOr(text("rollcall-num"), number),
		Congress:    text("congress"),
		DateText:    text("action-date"),
		Question:    text("vote-question"),
		VoteType:    text("vote-type"),
		Result:      text("vote-result"),
		Description: text("vote-desc"),
		Document:    text("legis-num"),
		Body:        text("chamber"),
		Parties:     map[string]PartyTally{},
	}
	if sum.Body == "" {
		sum.Body = text("committee")
	}
	if sum.Description == "" {
		if amend := text("amendment-num"); amend != "" {
			sum.Description = "Amendment " + amend
			if author := text("amendment-author"); author != "" {
				sum.Description += ", author: " + author
			}
		}
	}
	sum.Date, _ = time.Parse("2-Jan-2006", sum.DateText)
	sum.ResultClass = resultClass(sum.Result)
	sum.Procedural = houseProcedural[sum.Question]
	sum.DocumentURL = houseDocumentURL(s.Congress, sum.Document)
	sum.DetailsURL = congress.HouseRollCallURL(s.Year, sum.Number)

	totals, _ := xmltree.Lookup(meta, "vote-totals")
	for _, party := range xmltree.All(totals, "totals-by-party") {
		key, ok := houseParties[strings.TrimSpace(xmltree.LookupText(party, "party"))]
		if !ok {
			continue
		}
		sum.Parties[key] = houseTally(party)
	}
	if byVote, ok := xmltree.Lookup(totals, "totals-by-vote"); ok {
		sum.Totals = houseTally(byVote)
	}
	for _, cand := range xmltree.All(totals, "totals-by-candidate") {
		sum.Candidates = append(sum.Candidates, CandidateTally{
			Candidate: strings.TrimSpace(xmltree.LookupText(cand, "candidate")),
			Total:     atoiOr(xmltree.LookupText(cand, "candidate-total"), 0),
		})
	}
	if len(sum.Candidates) == 0 {
		sum.Bipartisan = Bipartisan(sum.Parties)
	}
	return sum
}

func houseTally(v xmltree.Value) PartyTally {
	return PartyTally{
		Yea:       atoiOr(xmltree.LookupText(v, "yea-total"), 0),
		Nay:       atoiOr(xmltree.LookupText(v, "nay-total"), 0),
		Present:   atoiOr(xmltree.LookupText(v, "present-total"), 0),
		NotVoting: atoiOr(xmltree.LookupText(v, "not-voting-total"), 0),
	}
}

func summarizeSenate(s congress.Session, number int, root xmltree.Value) Summary {
	text := func(path ...string) string { return strings.TrimSpace(xmltree.LookupText(root, path...)) }

	sum := Summary{
		Chamber:       Senate,
		Number:        atoiOr(text("vote_number"), number),
		Congress:      text("congress"),
		DateText:      text("vote_date"),
		Question:      text("vote_question_text"),
		Result:        text("vote_result_text"),
		Requirement:   text("majority_requirement"),
		Description:   text("vote_title"),
		Document:      text("document", "document_name"),
		DocumentTitle: text("document", "document_title"),
		Parties:       map[string]PartyTally{},
		Totals: PartyTally{
			Yea:       atoiOr(text("count", "yeas"), 0),
			Nay:       atoiOr(text("count", "nays"), 0),
			Present:   atoiOr(text("count", "present"), 0),
			NotVoting: atoiOr(text("count", "absent"), 0),
		},
	}
	if sum.Result == "" {
		sum.Result = text("vote_result")
	}
	sum.Date = parseSenateDate(sum.DateText)
	sum.ResultClass = resultClass(sum.Result)
	sum.DetailsURL = congress.SenateRollCallPageURL(s, sum.Number)
	for _, prefix := range senateProceduralPrefixes {
		if strings.HasPrefix(sum.Question, prefix) {
			sum.Procedural = true
			break
		}
	}

	sum.DocumentURL = senateDocumentURL(s.Congress, sum.Document, true)
	if amend := text("amendment", "amendment_number"); amend != "" {
		if parts := strings.Fields(amend); len(parts) > 1 {
			sum.AmendmentURL = congress.SenateAmendmentURL(s.Congress, parts[1])
		}
		if sum.DocumentURL == "" {
			sum.DocumentURL = senateDocumentURL(s.Congress, text("amendment", "amendment_to_document_number"), false)
		}
	}

	members, _ := xmltree.Lookup(root, "members")
	for _, m := range xmltree.All(members, "member") {
		party := strings.TrimSpace(xmltree.LookupText(m, "party"))
		if party != Democratic && party != Republican && party != Independent {
			continue
		}
		t := sum.Parties[party]
		switch strings.TrimSpace(xmltree.LookupText(m, "vote_cast")) {
		case "Yes", "Yea", "Aye", "Y":
			t.Yea++
		case "No", "Nay", "N":
			t.Nay++
		case "Present", "present":
			t.Present++
		case "Not Voting":
			t.NotVoting++
		}
		sum.Parties[party] = t
	}
	sum.Bipartisan = MergedBipartisan(sum.Parties)
	return sum
}

// parseSenateDate reads dates such as "January 3, 2019,  12:33 PM".
func parseSenateDate(s string) time.Time {
	f := strings.Fields(s)
	if len(f) < 3 {
		return time.Time{}
	}
	d, err := time.Parse("January 2 2006", fmt.Sprintf("%s %s %s", f[0], strings.Trim(f[1], ","), strings.Trim(f[2], ",")))
	if err != nil {
		return time.Time{}
	}
	return d
}

func resultClass(result string) string {
	switch {
	case strings.Contains(result, "Rejected"), strings.Contains(result, "Failed"):
		return ResultFailed
	case strings.Contains(result, "Passed"),
		strings.Contains(result, "Agreed to"),
		strings.Contains(result, "Confirmed"):
		return ResultPassed
	}
	return ResultGeneric
}

// houseDocumentURL maps a legis-num such as "H R 1" to its text page.
func houseDocumentURL(congressNum int, legis string) string {
	f := strings.Fields(legis)
	switch {
	case len(f) == 2 && f[0] == "S":
		return congress.BillTextURL(congressNum, "senate-bill", f[1])
	case len(f) == 3 && f[0] == "H" && f[1] == "R":
		return congress.BillTextURL(congressNum, "house-bill", f[2])
	case len(f) == 3 && f[0] == "H" && f[1] == "RES":
		return congress.BillTextURL(congressNum, "house-resolution", f[2])
	case len(f) == 4 && f[0] == "H" && f[1] == "CON" && f[2] == "RES":
		return congress.BillTextURL(congressNum, "house-concurrent-resolution", f[3])
	case len(f) == 4 && f[0] == "H" && f[1] == "J" && f[2] == "RES":
		return congress.BillTextURL(congressNum, "house-joint-resolution", f[3])
	case len(f) == 4 && f[0] == "S" && f[1] == "J" && f[2] == "RES":
		return congress.BillTextURL(congressNum, "senate-joint-resolution", f[3])
	}
	return ""
}

// senateDocumentURL maps a document name such as "H.R. 1" or "PN12".
func senateDocumentURL(congressNum int, name string, text bool) string {
	f := strings.Fields(name)
	page := func(kind, n string) string {
		u := congress.BillTextURL(congressNum, kind, n)
		if !text {
			u = strings.TrimSuffix(u, "/text")
		}
		return u
	}
	switch {
	case len(f) == 1 && strings.HasPrefix(f[0], "PN"):
		return congress.NominationURL(congressNum, f[0][2:])
	case len(f) == 2 && f[0] == "S.":
		return page("senate-bill", f[1])
	case len(f) == 2 && f[0] == "H.R.":
		return page("house-bill", f[1])
	case len(f) == 2 && f[0] == "S.J.Res.":
		return page("senate-joint-resolution", f[1])
	}
	return ""
}

// Bipartisan scores agreement between the parties from 0 to 100. Each
// party's share of its most common vote is added when that vote matches
// the Democratic one and subtracted otherwise.
func Bipartisan(parties map[string]PartyTally) float64 {
	dem, rep, ind := parties[Democratic], parties[Republican], parties[Independent]
	demMax, demIdx := maxIndex(dem.vector())

	var b float64
	if dem.Total() != 0 {
		b = float64(demMax) / float64(dem.Total())
	}
	b = combine(b, demIdx, rep)
	if ind.Total() > 0 {
		b = combine(b, demIdx, ind)
	}
	return 50 * b
}

// MergedBipartisan folds independents into whichever major party shares
// their most common vote before scoring the two parties.
func MergedBipartisan(parties map[string]PartyTally) float64 {
	dem, rep, ind := parties[Democratic], parties[Republican], parties[Independent]
	demMax, demIdx := maxIndex(dem.vector())
	repMax, repIdx := maxIndex(rep.vector())
	indMax, indIdx := maxIndex(ind.vector())
	demSum, repSum := dem.Total(), rep.Total()

	switch indIdx {
	case demIdx:
		demMax += indMax
		demSum += ind.Total()
	case repIdx:
		repMax += indMax
		repSum += ind.Total()
	}

	var b, r float64
	if demSum != 0 {
		b = float64(demMax) / float64(demSum)
	}
	if repSum != 0 {
		r = float64(repMax) / float64(repSum)
	}
	if demIdx == repIdx {
		b += r
	} else {
		b = abs(b - r)
	}
	return 50 * b
}

func combine(b float64, demIdx int, other PartyTally) float64 {
	if other.Total() == 0 {
		return b
	}
	m, idx := maxIndex(other.vector())
	share := float64(m) / float64(other.Total())
	if idx == demIdx {
		return b + share
	}
	return abs(b - share)
}

func maxIndex(v [4]int) (int, int) {
	idx := 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[idx] {
			idx = i
		}
	}
	return v[idx], idx
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func atoiOr(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return n
}

// LoadSummaries summarizes every archived vote of a chamber, newest
// first. Documents that cannot be read are logged and left out.
func LoadSummaries(a *archive.Archive, c Chamber, s congress.Session) ([]Summary, error) {
	names, err := a.List(c.FilePrefix(), ".json")
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(names))
	for _, name := range names {
		n, ok := c.NumberOf(name)
		if !ok {
			continue
		}
		doc, err := a.ReadValue(name)
		if err != nil {
			slog.Warn("vote file unreadable", "chamber", c, "file", name, "error", err)
			continue
		}
		sum, err := Summarize(c, s, n, doc)
		if err != nil {
			slog.Warn("vote file skipped", "chamber", c, "file", name, "error", err)
			continue
		}
		out = append(out, sum)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Number > out[j].Number })
	return out, nil
}
