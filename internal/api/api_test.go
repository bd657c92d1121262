package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/baxromumarov/congress-tracker/internal/archive"
	"github.com/baxromumarov/congress-tracker/internal/bills"
	"github.com/baxromumarov/congress-tracker/internal/config"
	"github.com/baxromumarov/congress-tracker/internal/congress"
	"github.com/baxromumarov/congress-tracker/internal/store"
	"github.com/baxromumarov/congress-tracker/internal/xmltree"
)

const houseVote = `<rollcall-vote><vote-metadata>
<majority>R</majority>
<congress>116</congress>
<rollcall-num>%d</rollcall-num>
<vote-question>On Passage</vote-question>
<vote-result>Passed</vote-result>
<action-date>3-Jan-2019</action-date>
</vote-metadata></rollcall-vote>`

type fakeDB struct {
	votes []store.VoteRecord
	bills []store.BillRecord
}

func (f *fakeDB) ListVotes(_ context.Context, chamber string, year, limit, offset int) ([]store.VoteRecord, error) {
	var out []store.VoteRecord
	for _, v := range f.votes {
		if v.Chamber == chamber && v.Year == year {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeDB) GetVote(_ context.Context, chamber string, year, number int) (*store.VoteRecord, error) {
	for _, v := range f.votes {
		if v.Chamber == chamber && v.Year == year && v.Number == number {
			return &v, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeDB) ListBills(_ context.Context, billType string, year, limit, offset int) ([]store.BillRecord, error) {
	return f.bills, nil
}

func testServer(t *testing.T, db Database) *Server {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Year = 2019
	cfg.DataDir = filepath.Join(dir, "data")
	cfg.HTMLDir = filepath.Join(dir, "html")

	house, err := archive.Open(cfg.HouseVotesDir())
	require.NoError(t, err)
	for n := 1; n <= 3; n++ {
		doc, err := xmltree.ParseString(fmt.Sprintf(houseVote, n))
		require.NoError(t, err)
		require.NoError(t, house.WriteValue(fmt.Sprintf("roll%d.json", n), doc))
	}

	billsArchive, err := archive.Open(cfg.BillsDir())
	require.NoError(t, err)
	hr, _ := congress.LookupBillType("house_bills")
	require.NoError(t, billsArchive.WriteJSON(hr.Filename(2019), bills.Collection{BillData: bills.BillData{
		LastBill: 1,
		Bills:    []bills.Bill{{Title: "H.R.1 - For the People Act", Status: "This bill has the status Became Law"}},
	}}))

	require.NoError(t, os.MkdirAll(cfg.HTMLDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.HTMLDir, "congress_votes_2019.html"), []byte("<h1>Congress Votes 2019</h1>"), 0o644))

	return NewServer(cfg, db)
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealthAndStats(t *testing.T) {
	s := testServer(t, nil)

	rec := get(t, s, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "OK", rec.Body.String())

	rec = get(t, s, "/stats")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"documents_fetched"`)
}

func TestListVotes(t *testing.T) {
	s := testServer(t, nil)

	rec := get(t, s, "/votes/house?limit=2")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Items []struct {
			Number   int    `json:"number"`
			Question string `json:"question"`
		} `json:"items"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 3, body.Total)
	require.Len(t, body.Items, 2)
	require.Equal(t, 3, body.Items[0].Number)
	require.Equal(t, "On Passage", body.Items[0].Question)

	rec = get(t, s, "/votes/house?offset=10")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"items":[]`)

	rec = get(t, s, "/votes/senate")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"total":0`)

	rec = get(t, s, "/votes/house?limit=9223372036854775807&offset=1")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"limit":500`)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Items, 2)

	rec = get(t, s, "/votes/house?offset=9223372036854775807")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"items":[]`)

	require.Equal(t, http.StatusNotFound, get(t, s, "/votes/parliament").Code)
	require.Equal(t, http.StatusBadRequest, get(t, s, "/votes/house?year=abc").Code)
}

func TestReadsDoNotCreateArchives(t *testing.T) {
	s := testServer(t, nil)

	rec := get(t, s, "/votes/house?year=2003")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"total":0`)
	require.Equal(t, http.StatusNotFound, get(t, s, "/votes/senate/1?year=2003").Code)
	require.Equal(t, http.StatusNotFound, get(t, s, "/bills/house_bills?year=2003").Code)
	require.Equal(t, http.StatusOK, get(t, s, "/bills?year=2003").Code)

	entries, err := os.ReadDir(s.cfg.DataDir)
	require.NoError(t, err)
	for _, e := range entries {
		require.NotContains(t, e.Name(), "2003")
	}
}

func TestGetVoteKeepsKeyOrder(t *testing.T) {
	s := testServer(t, nil)

	rec := get(t, s, "/votes/house/2")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	require.Contains(t, body, `"rollcall-num": "2"`)
	require.Less(t, strings.Index(body, `"majority"`), strings.Index(body, `"congress"`))
	require.Less(t, strings.Index(body, `"congress"`), strings.Index(body, `"action-date"`))

	require.Equal(t, http.StatusNotFound, get(t, s, "/votes/house/9").Code)
	require.Equal(t, http.StatusBadRequest, get(t, s, "/votes/house/x").Code)
}

func TestBills(t *testing.T) {
	s := testServer(t, nil)

	rec := get(t, s, "/bills/house_bills")
	require.Equal(t, http.StatusOK, rec.Code)
	var coll bills.Collection
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &coll))
	require.Equal(t, 1, coll.BillData.LastBill)
	require.Equal(t, "H.R.1 - For the People Act", coll.BillData.Bills[0].Title)

	require.Equal(t, http.StatusNotFound, get(t, s, "/bills/senate_bills").Code)
	require.Equal(t, http.StatusNotFound, get(t, s, "/bills/treaties").Code)

	rec = get(t, s, "/bills")
	require.Equal(t, http.StatusOK, rec.Code)
	var counts bills.Counts
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &counts))
	require.Equal(t, 1, counts.Total)
	require.Equal(t, 1, counts.BecameLaw)
}

func TestReports(t *testing.T) {
	s := testServer(t, nil)

	rec := get(t, s, "/reports/congress_votes_2019.html")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Congress Votes 2019")

	rec = get(t, s, "/reports")
	require.Equal(t, http.StatusMovedPermanently, rec.Code)
}

func TestDatabaseRoutes(t *testing.T) {
	s := testServer(t, nil)
	require.Equal(t, http.StatusServiceUnavailable, get(t, s, "/db/votes/house").Code)

	db := &fakeDB{
		votes: []store.VoteRecord{{Chamber: "senate", Year: 2019, Number: 4, Question: "On the Nomination"}},
		bills: []store.BillRecord{{BillType: "nominations", Year: 2019, Number: 1, Title: "PN1"}},
	}
	s = testServer(t, db)

	rec := get(t, s, "/db/votes/senate")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "On the Nomination")

	rec = get(t, s, "/db/votes/senate/4")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"number":4`)
	require.Equal(t, http.StatusNotFound, get(t, s, "/db/votes/senate/5").Code)

	rec = get(t, s, "/db/bills/nominations")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "PN1")

	rec = get(t, s, "/db/votes/house")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"items":[]`)
}
