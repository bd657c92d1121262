package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/baxromumarov/congress-tracker/internal/archive"
	"github.com/baxromumarov/congress-tracker/internal/bills"
	"github.com/baxromumarov/congress-tracker/internal/config"
	"github.com/baxromumarov/congress-tracker/internal/congress"
	"github.com/baxromumarov/congress-tracker/internal/observability"
	"github.com/baxromumarov/congress-tracker/internal/store"
	"github.com/baxromumarov/congress-tracker/internal/votes"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, observability.Snapshot())
}

func (s *Server) handleListVotes(w http.ResponseWriter, r *http.Request) {
	cfg, ok := s.yearConfig(w, r)
	if !ok {
		return
	}
	ch, ok := parseChamber(w, r)
	if !ok {
		return
	}
	limit, offset := parsePagination(r, 50)

	a, err := archive.OpenReadOnly(votesDir(cfg, ch))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to open archive: "+err.Error())
		return
	}
	summaries, err := votes.LoadSummaries(a, ch, cfg.Session())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load votes: "+err.Error())
		return
	}

	total := len(summaries)
	start := min(offset, total)
	page := summaries[start : start+min(limit, total-start)]
	if page == nil {
		page = []votes.Summary{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"items":  page,
		"limit":  limit,
		"offset": offset,
		"total":  total,
	})
}

func (s *Server) handleGetVote(w http.ResponseWriter, r *http.Request) {
	cfg, ok := s.yearConfig(w, r)
	if !ok {
		return
	}
	ch, ok := parseChamber(w, r)
	if !ok {
		return
	}
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil || number <= 0 {
		respondError(w, http.StatusBadRequest, "Invalid vote number")
		return
	}

	a, err := archive.OpenReadOnly(votesDir(cfg, ch))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to open archive: "+err.Error())
		return
	}
	data, err := a.ReadFile(ch.Filename(number))
	if errors.Is(err, archive.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Vote not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to read vote: "+err.Error())
		return
	}
	respondRaw(w, http.StatusOK, data)
}

func (s *Server) handleGetBills(w http.ResponseWriter, r *http.Request) {
	cfg, ok := s.yearConfig(w, r)
	if !ok {
		return
	}
	bt, ok := congress.LookupBillType(chi.URLParam(r, "type"))
	if !ok {
		respondError(w, http.StatusNotFound, "Unknown bill type")
		return
	}

	a, err := archive.OpenReadOnly(cfg.BillsDir())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to open archive: "+err.Error())
		return
	}
	if !a.Has(bt.Filename(cfg.Year)) {
		respondError(w, http.StatusNotFound, "No collection for "+bt.Title)
		return
	}
	coll, err := bills.Load(a, bt, cfg.Year)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load bills: "+err.Error())
		return
	}
	respondJSON(w, http.StatusOK, coll)
}

func (s *Server) handleTally(w http.ResponseWriter, r *http.Request) {
	cfg, ok := s.yearConfig(w, r)
	if !ok {
		return
	}
	a, err := archive.OpenReadOnly(cfg.BillsDir())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to open archive: "+err.Error())
		return
	}
	collections, err := bills.LoadAll(a, congress.BillTypes(), cfg.Year)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load bills: "+err.Error())
		return
	}
	respondJSON(w, http.StatusOK, bills.Tally(collections))
}

func (s *Server) handleDBListVotes(w http.ResponseWriter, r *http.Request) {
	cfg, ok := s.yearConfig(w, r)
	if !ok {
		return
	}
	ch, ok := parseChamber(w, r)
	if !ok {
		return
	}
	limit, offset := parsePagination(r, 50)

	list, err := s.db.ListVotes(r.Context(), string(ch), cfg.Year, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch votes: "+err.Error())
		return
	}
	if list == nil {
		list = []store.VoteRecord{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"items":  list,
		"limit":  limit,
		"offset": offset,
	})
}

func (s *Server) handleDBGetVote(w http.ResponseWriter, r *http.Request) {
	cfg, ok := s.yearConfig(w, r)
	if !ok {
		return
	}
	ch, ok := parseChamber(w, r)
	if !ok {
		return
	}
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil || number <= 0 {
		respondError(w, http.StatusBadRequest, "Invalid vote number")
		return
	}

	v, err := s.db.GetVote(r.Context(), string(ch), cfg.Year, number)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(w, http.StatusNotFound, "Vote not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch vote: "+err.Error())
		return
	}
	respondJSON(w, http.StatusOK, v)
}

func (s *Server) handleDBListBills(w http.ResponseWriter, r *http.Request) {
	cfg, ok := s.yearConfig(w, r)
	if !ok {
		return
	}
	bt, ok := congress.LookupBillType(chi.URLParam(r, "type"))
	if !ok {
		respondError(w, http.StatusNotFound, "Unknown bill type")
		return
	}
	limit, offset := parsePagination(r, 50)

	list, err := s.db.ListBills(r.Context(), bt.Key, cfg.Year, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch bills: "+err.Error())
		return
	}
	if list == nil {
		list = []store.BillRecord{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"items":  list,
		"limit":  limit,
		"offset": offset,
	})
}

// yearConfig applies the optional year query parameter to the server
// configuration.
func (s *Server) yearConfig(w http.ResponseWriter, r *http.Request) (config.Config, bool) {
	cfg := s.cfg
	if v := r.URL.Query().Get("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid year")
			return cfg, false
		}
		cfg.Year = year
		if err := cfg.Validate(); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return cfg, false
		}
	}
	return cfg, true
}

func parseChamber(w http.ResponseWriter, r *http.Request) (votes.Chamber, bool) {
	ch, err := votes.ParseChamber(chi.URLParam(r, "chamber"))
	if err != nil {
		respondError(w, http.StatusNotFound, "Unknown chamber")
		return "", false
	}
	return ch, true
}

func votesDir(cfg config.Config, ch votes.Chamber) string {
	if ch == votes.Senate {
		return cfg.SenateVotesDir()
	}
	return cfg.HouseVotesDir()
}

const maxPageLimit = 500

func parsePagination(r *http.Request, defaultLimit int) (int, int) {
	q := r.URL.Query()
	limit := defaultLimit
	offset := 0

	if v := q.Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}

	if v := q.Get("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}

	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
