package harvest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	OpenAlexBaseURL       = "https://api.openalex.org"
	DefaultPerPage        = 200
	openAlexResultCap     = 10000
	defaultOpenAlexQPM    = 300
	defaultRequestTimeout = 30 * time.Second
)

// Work is the slim projection of an OpenAlex work: only the fields the
// builder consumes, which also keeps the cache small.
type Work struct {
	ID             string       `json:"id"`
	Title          string       `json:"title"`
	Year           int          `json:"publication_year"`
	Authorships    []Authorship `json:"authorships"`
	AbstractTokens []string     `json:"abstract_tokens,omitempty"`
}

type Authorship struct {
	AuthorID     string            `json:"author_id"`
	AuthorName   string            `json:"author_name"`
	Institutions []WorkInstitution `json:"institutions"`
}

type WorkInstitution struct {
	ID          string `json:"id"`
	Name        string `json:"display_name"`
	CountryCode string `json:"country_code"`
}

type OpenAlexConfig struct {
	BaseURL            string
	Mailto             string
	RateLimitPerMinute int
	HTTPClient         *http.Client
	Cache              *Cache
}

// OpenAlexClient is a polite OpenAlex consumer: mailto on every request,
// a ticker-paced rate limit, and an optional write-through cache for
// DOI and title lookups.
type OpenAlexClient struct {
	cfg       OpenAlexConfig
	limiter   <-chan time.Time
	limiterMu sync.Mutex
}

func NewOpenAlexClient(cfg OpenAlexConfig) *OpenAlexClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = OpenAlexBaseURL
	}
	if cfg.RateLimitPerMinute <= 0 {
		cfg.RateLimitPerMinute = defaultOpenAlexQPM
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: defaultRequestTimeout}
	}
	ticker := time.NewTicker(time.Minute / time.Duration(cfg.RateLimitPerMinute))
	return &OpenAlexClient{cfg: cfg, limiter: ticker.C}
}

func (c *OpenAlexClient) waitRateLimit(ctx context.Context) error {
	c.limiterMu.Lock()
	defer c.limiterMu.Unlock()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.limiter:
		return nil
	}
}

type httpStatusError struct {
	status int
	url    string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("openalex status %d for %s", e.status, e.url)
}

func (c *OpenAlexClient) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.waitRateLimit(ctx); err != nil {
		return err
	}
	if c.cfg.Mailto != "" {
		params.Set("mailto", c.cfg.Mailto)
	}
	u := c.cfg.BaseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return &httpStatusError{status: resp.StatusCode, url: u}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// rawWork matches the OpenAlex works payload closely enough to slim it.
type rawWork struct {
	ID                    string           `json:"id"`
	Title                 string           `json:"title"`
	DisplayName           string           `json:"display_name"`
	PublicationYear       int              `json:"publication_year"`
	AbstractInvertedIndex map[string][]int `json:"abstract_inverted_index"`
	Authorships           []struct {
		Author struct {
			ID          string `json:"id"`
			DisplayName string `json:"display_name"`
		} `json:"author"`
		Institutions []struct {
			ID          string `json:"id"`
			DisplayName string `json:"display_name"`
			CountryCode string `json:"country_code"`
		} `json:"institutions"`
	} `json:"authorships"`
}

func slimWork(raw rawWork) Work {
	w := Work{
		ID:   raw.ID,
		Year: raw.PublicationYear,
	}
	w.Title = raw.Title
	if w.Title == "" {
		w.Title = raw.DisplayName
	}
	for token := range raw.AbstractInvertedIndex {
		w.AbstractTokens = append(w.AbstractTokens, token)
	}
	for _, a := range raw.Authorships {
		auth := Authorship{AuthorID: a.Author.ID, AuthorName: a.Author.DisplayName}
		for _, inst := range a.Institutions {
			auth.Institutions = append(auth.Institutions, WorkInstitution{
				ID:          inst.ID,
				Name:        inst.DisplayName,
				CountryCode: inst.CountryCode,
			})
		}
		w.Authorships = append(w.Authorships, auth)
	}
	return w
}

// WorkByDOI resolves a DOI via /works/doi:<doi>. A 404 returns (zero, false)
// without error; other failures are reported. Hits and misses that resolve
// go through the cache.
func (c *OpenAlexClient) WorkByDOI(ctx context.Context, doi string) (Work, bool, error) {
	doi = strings.TrimSpace(doi)
	if doi == "" {
		return Work{}, false, nil
	}
	if c.cfg.Cache != nil {
		if w, ok := c.cfg.Cache.Get(cacheKindDOI, doi); ok {
			return w, true, nil
		}
	}
	var raw rawWork
	err := c.get(ctx, "/works/doi:"+url.PathEscape(doi), url.Values{}, &raw)
	if err != nil {
		var se *httpStatusError
		if asStatus(err, &se) && se.status == http.StatusNotFound {
			return Work{}, false, nil
		}
		return Work{}, false, err
	}
	w := slimWork(raw)
	if c.cfg.Cache != nil {
		c.cfg.Cache.Put(cacheKindDOI, doi, w)
	}
	return w, true, nil
}

func asStatus(err error, target **httpStatusError) bool {
	se, ok := err.(*httpStatusError)
	if ok {
		*target = se
	}
	return ok
}

type worksResponse struct {
	Meta struct {
		Count int `json:"count"`
	} `json:"meta"`
	Results []rawWork `json:"results"`
}

// SearchWorkByTitle is the fallback when a DBLP hit has no usable DOI:
// full-text search with a ±1 year window around the hint, preferring a
// result whose year is within the window.
func (c *OpenAlexClient) SearchWorkByTitle(ctx context.Context, title string, yearHint int) (Work, bool, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Work{}, false, nil
	}
	key := strings.ToLower(title)
	if yearHint != 0 {
		key = fmt.Sprintf("%s|%d", key, yearHint)
	}
	if c.cfg.Cache != nil {
		if w, ok := c.cfg.Cache.Get(cacheKindTitle, key); ok {
			return w, true, nil
		}
	}

	params := url.Values{}
	params.Set("search", title)
	params.Set("per-page", "5")
	if yearHint != 0 {
		params.Set("filter", fmt.Sprintf("from_publication_date:%d-01-01,to_publication_date:%d-12-31", yearHint-1, yearHint+1))
	}
	var resp worksResponse
	if err := c.get(ctx, "/works", params, &resp); err != nil {
		return Work{}, false, err
	}
	if len(resp.Results) == 0 {
		return Work{}, false, nil
	}
	chosen := resp.Results[0]
	if yearHint != 0 {
		for _, r := range resp.Results {
			if r.PublicationYear != 0 && abs(r.PublicationYear-yearHint) <= 1 {
				chosen = r
				break
			}
		}
	}
	w := slimWork(chosen)
	if c.cfg.Cache != nil {
		c.cfg.Cache.Put(cacheKindTitle, key, w)
	}
	return w, true, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// WorksForSource walks every work a source published in [startYear,
// endYear], invoking fn per work. OpenAlex caps any one query at 10k
// results, so when a filtered count exceeds the cap the year range is
// split in half and both halves are walked recursively.
func (c *OpenAlexClient) WorksForSource(ctx context.Context, sourceID string, startYear, endYear, maxPages int, titleFilter string, fn func(Work) error) error {
	pageCap := openAlexResultCap / DefaultPerPage
	if maxPages > 0 && maxPages < pageCap {
		pageCap = maxPages
	}
	return c.walkYearRange(ctx, sourceID, startYear, endYear, pageCap, titleFilter, fn)
}

func (c *OpenAlexClient) walkYearRange(ctx context.Context, sourceID string, y0, y1, pageCap int, titleFilter string, fn func(Work) error) error {
	filter := fmt.Sprintf("primary_location.source.id:%s,from_publication_date:%d-01-01,to_publication_date:%d-12-31", sourceID, y0, y1)
	if titleFilter != "" {
		filter += ",title.search:" + titleFilter
	}

	fetch := func(page int) (worksResponse, error) {
		params := url.Values{}
		params.Set("filter", filter)
		params.Set("page", fmt.Sprintf("%d", page))
		params.Set("per-page", fmt.Sprintf("%d", DefaultPerPage))
		var resp worksResponse
		err := c.get(ctx, "/works", params, &resp)
		return resp, err
	}

	first, err := fetch(1)
	if err != nil {
		return err
	}
	if first.Meta.Count > openAlexResultCap && y0 < y1 {
		mid := (y0 + y1) / 2
		if err := c.walkYearRange(ctx, sourceID, y0, mid, pageCap, titleFilter, fn); err != nil {
			return err
		}
		return c.walkYearRange(ctx, sourceID, mid+1, y1, pageCap, titleFilter, fn)
	}

	limit := pageCap
	if pages := pagesForCount(first.Meta.Count, DefaultPerPage); pages < limit {
		limit = pages
	}

	results := first.Results
	for page := 1; ; page++ {
		if page > 1 {
			if page > limit {
				return nil
			}
			resp, err := fetch(page)
			if err != nil {
				var se *httpStatusError
				// 409 means the page is out of range for this query;
				// treat it as end of pagination.
				if asStatus(err, &se) && se.status == http.StatusConflict {
					log.Printf("harvest openalex 409 source=%s years=[%d,%d] page=%d; stopping pagination", sourceID, y0, y1, page)
					return nil
				}
				return err
			}
			results = resp.Results
		}
		if len(results) == 0 {
			return nil
		}
		for _, raw := range results {
			if err := fn(slimWork(raw)); err != nil {
				return err
			}
		}
		if page >= limit {
			return nil
		}
	}
}

func pagesForCount(count, perPage int) int {
	if count <= 0 || perPage <= 0 {
		return 0
	}
	return (count + perPage - 1) / perPage
}

// TitleFilter builds the OR-joined title.search value pushed into the
// works query for keyword-gated venues. Keywords shorter than three
// characters are left to the local gate only.
func TitleFilter(keywords []string) string {
	seen := map[string]bool{}
	var terms []string
	for _, kw := range keywords {
		kw = strings.TrimSpace(strings.ReplaceAll(kw, ",", " "))
		if len(kw) < 3 || seen[kw] {
			continue
		}
		seen[kw] = true
		terms = append(terms, kw)
	}
	sort.Strings(terms)
	return strings.Join(terms, "|")
}
