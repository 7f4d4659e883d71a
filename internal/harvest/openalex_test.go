package harvest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
)

func testClient(t *testing.T, srv *httptest.Server, cache *Cache) *OpenAlexClient {
	t.Helper()
	return NewOpenAlexClient(OpenAlexConfig{
		BaseURL:            srv.URL,
		Mailto:             "test@example.org",
		RateLimitPerMinute: 600000,
		HTTPClient:         srv.Client(),
		Cache:              cache,
	})
}

func workJSON(id, title string, year int) string {
	return fmt.Sprintf(`{
		"id": %q, "title": %q, "publication_year": %d,
		"abstract_inverted_index": {"quantum": [0], "advantage": [1]},
		"authorships": [{
			"author": {"id": "A1", "display_name": "Alice"},
			"institutions": [{"id": "I1", "display_name": "MIT", "country_code": "US"}]
		}]
	}`, id, title, year)
}

func TestWorkByDOISlimsAndCaches(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if !strings.HasPrefix(r.URL.Path, "/works/doi:") {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("mailto") != "test@example.org" {
			t.Fatal("mailto must accompany every request")
		}
		_, _ = w.Write([]byte(workJSON("https://openalex.org/W1", "Quantum advantage demo", 2021)))
	}))
	defer srv.Close()

	cache, err := OpenCache(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	c := testClient(t, srv, cache)
	w, ok, err := c.WorkByDOI(context.Background(), "10.1/abc")
	if err != nil || !ok {
		t.Fatalf("resolve failed: ok=%v err=%v", ok, err)
	}
	if w.ID != "https://openalex.org/W1" || w.Year != 2021 {
		t.Fatalf("unexpected work: %+v", w)
	}
	if len(w.Authorships) != 1 || w.Authorships[0].Institutions[0].CountryCode != "US" {
		t.Fatalf("authorships not slimmed: %+v", w.Authorships)
	}
	if len(w.AbstractTokens) != 2 {
		t.Fatalf("abstract tokens not flattened: %v", w.AbstractTokens)
	}

	// Second lookup must come from the cache.
	if _, ok, err := c.WorkByDOI(context.Background(), "10.1/abc"); err != nil || !ok {
		t.Fatalf("cached resolve failed: ok=%v err=%v", ok, err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 network call, got %d", calls)
	}
}

func TestWorkByDOINotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	w, ok, err := testClient(t, srv, nil).WorkByDOI(context.Background(), "10.1/missing")
	if err != nil || ok {
		t.Fatalf("404 must yield (zero, false, nil), got %+v %v %v", w, ok, err)
	}
}

func TestSearchWorkByTitlePrefersYearWindow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("search"); got != "self-testing of qubits" {
			t.Fatalf("unexpected search %q", got)
		}
		_, _ = w.Write([]byte(fmt.Sprintf(`{"meta":{"count":2},"results":[%s,%s]}`,
			workJSON("https://openalex.org/W9", "self-testing of qubits", 2014),
			workJSON("https://openalex.org/W2", "self-testing of qubits", 2020),
		)))
	}))
	defer srv.Close()

	w, ok, err := testClient(t, srv, nil).SearchWorkByTitle(context.Background(), "self-testing of qubits", 2020)
	if err != nil || !ok {
		t.Fatalf("search failed: ok=%v err=%v", ok, err)
	}
	if w.ID != "https://openalex.org/W2" {
		t.Fatalf("expected the in-window result, got %+v", w)
	}
}

func TestWorksForSourceSplitsOversizedYearRange(t *testing.T) {
	var filters []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		filter := r.URL.Query().Get("filter")
		filters = append(filters, filter)
		// The full range is over the cap; each single year fits.
		count, results := 20000, ""
		if strings.Contains(filter, "from_publication_date:2020-01-01") &&
			strings.Contains(filter, "to_publication_date:2020-12-31") {
			count, results = 1, workJSON("https://openalex.org/W2020", "quantum a", 2020)
		}
		if strings.Contains(filter, "from_publication_date:2021-01-01") &&
			strings.Contains(filter, "to_publication_date:2021-12-31") {
			count, results = 1, workJSON("https://openalex.org/W2021", "quantum b", 2021)
		}
		_, _ = w.Write([]byte(fmt.Sprintf(`{"meta":{"count":%d},"results":[%s]}`, count, results)))
	}))
	defer srv.Close()

	var got []string
	err := testClient(t, srv, nil).WorksForSource(context.Background(), "S1", 2020, 2021, 0, "", func(w Work) error {
		got = append(got, w.ID)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != "https://openalex.org/W2020" || got[1] != "https://openalex.org/W2021" {
		t.Fatalf("expected both halves harvested in order, got %v (filters: %v)", got, filters)
	}
}

func TestWorksForSourcePaginationStopsAt409(t *testing.T) {
	page := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page++
		if page == 1 {
			// Claim more pages than we will serve.
			_, _ = w.Write([]byte(fmt.Sprintf(`{"meta":{"count":1000},"results":[%s]}`,
				workJSON("https://openalex.org/W1", "quantum", 2020))))
			return
		}
		http.Error(w, "conflict", http.StatusConflict)
	}))
	defer srv.Close()

	var got int
	err := testClient(t, srv, nil).WorksForSource(context.Background(), "S1", 2020, 2020, 0, "", func(Work) error {
		got++
		return nil
	})
	if err != nil {
		t.Fatalf("409 must end pagination, not fail the harvest: %v", err)
	}
	if got != 1 {
		t.Fatalf("expected the first page's work, got %d", got)
	}
}

func TestTitleFilter(t *testing.T) {
	got := TitleFilter([]string{"quantum", "qkd", "ab", "quantum", " entanglement "})
	parts := strings.Split(got, "|")
	if len(parts) != 3 {
		t.Fatalf("expected 3 terms after dedup and length filter, got %q", got)
	}
	for _, p := range parts {
		if p == "ab" {
			t.Fatal("terms under 3 chars must be dropped")
		}
	}
}

func TestPagesForCount(t *testing.T) {
	if pagesForCount(0, 200) != 0 || pagesForCount(1, 200) != 1 ||
		pagesForCount(200, 200) != 1 || pagesForCount(201, 200) != 2 {
		t.Fatal("page math is off")
	}
}

func TestSlimWorkFallsBackToDisplayName(t *testing.T) {
	var raw rawWork
	if err := json.Unmarshal([]byte(`{"id":"W1","display_name":"Fallback title","publication_year":2019}`), &raw); err != nil {
		t.Fatal(err)
	}
	if w := slimWork(raw); w.Title != "Fallback title" {
		t.Fatalf("expected display_name fallback, got %+v", w)
	}
}
