// Package httpapi exposes the ranking engine over HTTP. Handlers only
// translate requests into filter state and invoke the engine; every
// response is a pure function of the dataset snapshot and the parsed
// filters, so the ranking semantics stay testable without a browser.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/benjamin-asch/quantum-rankings/internal/lookup"
	"github.com/benjamin-asch/quantum-rankings/internal/ranking"
	"github.com/benjamin-asch/quantum-rankings/internal/report"
)

// InstitutionLookup is the auxiliary web lookup; failures surface as a
// non-fatal notice, never as ranking state.
type InstitutionLookup interface {
	Institution(ctx context.Context, name string) ([]lookup.Result, error)
}

type Server struct {
	svc    *Service
	lookup InstitutionLookup
	webDir string
}

func NewServer(svc *Service, lk InstitutionLookup, webDir string) http.Handler {
	s := &Server{svc: svc, lookup: lk, webDir: webDir}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/rankings", s.handleRankings)
	mux.HandleFunc("GET /api/rankings/{key}/authors", s.handleAuthors)
	mux.HandleFunc("GET /api/venues", s.handleListVenues)
	mux.HandleFunc("POST /api/venues", s.handleAddVenue)
	mux.HandleFunc("GET /api/regions", s.handleRegions)
	mux.HandleFunc("GET /api/subfields", s.handleSubfields)
	mux.HandleFunc("GET /api/report", s.handleReport)
	mux.HandleFunc("GET /api/lookup", s.handleLookup)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	if webDir != "" {
		mux.HandleFunc("/", s.handleStatic)
	}
	return mux
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

// parseFilters builds the filter state for one request. Absent selection
// params keep the defaults: all venues and regions selected, no
// subfields. Present params replace the respective selection entirely.
func (s *Server) parseFilters(r *http.Request) (ranking.FilterState, error) {
	f := s.svc.Defaults()
	q := r.URL.Query()

	if raw := q.Get("start"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return f, fmt.Errorf("invalid start year %q", raw)
		}
		f.StartYear = year
	}
	if raw := q.Get("end"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return f, fmt.Errorf("invalid end year %q", raw)
		}
		f.EndYear = year
	}
	if f.EndYear < f.StartYear {
		return f, fmt.Errorf("end year %d precedes start year %d", f.EndYear, f.StartYear)
	}

	if q.Has("venues") {
		f.Venues = selectionSet(q.Get("venues"))
	}
	if q.Has("regions") {
		f.Regions = selectionSet(q.Get("regions"))
	}
	if q.Has("subfields") {
		f.Subfields = map[string]bool{}
		for _, key := range splitCSV(q.Get("subfields")) {
			if _, ok := ranking.SubfieldByKey(key); !ok {
				return f, fmt.Errorf("unknown subfield %q", key)
			}
			f.Subfields[key] = true
		}
	}
	return f, nil
}

func splitCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func selectionSet(raw string) map[string]bool {
	set := map[string]bool{}
	for _, part := range splitCSV(raw) {
		set[part] = true
	}
	return set
}

func (s *Server) rankingsFor(r *http.Request) ([]ranking.Entry, ranking.FilterState, ranking.Metric, error) {
	f, err := s.parseFilters(r)
	if err != nil {
		return nil, f, "", err
	}
	metric, err := ranking.ParseMetric(r.URL.Query().Get("sort"))
	if err != nil {
		return nil, f, "", err
	}
	return s.svc.Rankings(f, metric), f, metric, nil
}

func (s *Server) handleRankings(w http.ResponseWriter, r *http.Request) {
	entries, f, metric, err := s.rankingsFor(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sort":      metric,
		"startYear": f.StartYear,
		"endYear":   f.EndYear,
		"entries":   entries,
	})
}

func (s *Server) handleAuthors(w http.ResponseWriter, r *http.Request) {
	entries, _, _, err := s.rankingsFor(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	key := r.PathValue("key")
	for _, e := range entries {
		if e.Institution != key {
			continue
		}
		type authorRow struct {
			Name  string   `json:"name"`
			Count int      `json:"count"`
			Tags  []string `json:"tags"`
		}
		rows := make([]authorRow, 0, len(e.Authors))
		for _, a := range e.Authors {
			rows = append(rows, authorRow{Name: a.Name, Count: a.Count, Tags: a.Tags()})
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"institution": e.Institution,
			"name":        e.Name,
			"authors":     rows,
		})
		return
	}
	writeError(w, http.StatusNotFound, fmt.Sprintf("no ranked institution %q under the current filters", key))
}

func (s *Server) handleListVenues(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Venues())
}

func (s *Server) handleAddVenue(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Code string `json:"code"`
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	err := s.svc.AddVenue(body.Code, body.Name)
	switch {
	case errors.Is(err, ranking.ErrMissingFields):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ranking.ErrDuplicateVenue):
		writeError(w, http.StatusConflict, err.Error())
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeJSON(w, http.StatusCreated, map[string]any{"ok": true})
	}
}

func (s *Server) handleRegions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Regions())
}

func (s *Server) handleSubfields(w http.ResponseWriter, r *http.Request) {
	type subfieldRow struct {
		Key      string   `json:"key"`
		Label    string   `json:"label"`
		Keywords []string `json:"keywords"`
	}
	rows := make([]subfieldRow, 0, len(ranking.Subfields))
	for _, sf := range ranking.Subfields {
		rows = append(rows, subfieldRow{Key: sf.Key, Label: sf.Label, Keywords: sf.Keywords})
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	entries, f, metric, err := s.rankingsFor(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	markdown := report.Build(entries, f, metric)
	if r.URL.Query().Get("format") == "markdown" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		_, _ = w.Write([]byte(markdown))
		return
	}
	page, err := report.RenderHTML(markdown)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(page))
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	if s.lookup == nil {
		writeError(w, http.StatusServiceUnavailable, "institution lookup is not configured")
		return
	}
	name := r.URL.Query().Get("institution")
	results, err := s.lookup.Institution(r.Context(), name)
	if err != nil {
		log.Printf("institution lookup failed name=%q err=%v", name, err)
		writeJSON(w, http.StatusOK, map[string]any{
			"notice":  "lookup unavailable: " + err.Error(),
			"results": []lookup.Result{},
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	if r.URL.Path == "/" || r.URL.Path == "/index.html" {
		http.ServeFile(w, r, filepath.Join(s.webDir, "index.html"))
		return
	}
	http.FileServer(http.Dir(s.webDir)).ServeHTTP(w, r)
}
