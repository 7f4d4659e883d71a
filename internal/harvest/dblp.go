package harvest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	DBLPSearchURL  = "https://dblp.org/search/publ/api"
	dblpMaxHits    = 1000
	dblpRequestGap = 500 * time.Millisecond
)

// DBLPPaper is one candidate conference paper from the DBLP publication
// search, before OpenAlex resolution.
type DBLPPaper struct {
	Title string
	Year  int
	DOI   string
}

type DBLPClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewDBLPClient() *DBLPClient {
	return &DBLPClient{
		BaseURL:    DBLPSearchURL,
		HTTPClient: &http.Client{Timeout: defaultRequestTimeout},
	}
}

// dblpHit mirrors the relevant slice of DBLP's search JSON. The venue
// field is a string for most entries but an array for joint events.
type dblpHit struct {
	Info struct {
		Title string          `json:"title"`
		Venue json.RawMessage `json:"venue"`
		Year  string          `json:"year"`
		Type  string          `json:"type"`
		DOI   string          `json:"doi"`
		EE    string          `json:"ee"`
	} `json:"info"`
}

type dblpResponse struct {
	Result struct {
		Hits struct {
			Hit []dblpHit `json:"hit"`
		} `json:"hits"`
	} `json:"result"`
}

// ConferencePapers searches one year at a time for "<VENUE> <YEAR>" and
// keeps hits whose venue field matches the acronym exactly, skipping
// editorship entries and hits outside the year range. A failed year is
// logged and skipped; the other years still harvest.
func (c *DBLPClient) ConferencePapers(ctx context.Context, venue string, startYear, endYear int) []DBLPPaper {
	var out []DBLPPaper
	for year := startYear; year <= endYear; year++ {
		hits, err := c.searchYear(ctx, venue, year)
		if err != nil {
			log.Printf("harvest dblp %s %d: request failed: %v", venue, year, err)
			continue
		}
		for _, hit := range hits {
			if !venueMatches(hit.Info.Venue, venue) {
				continue
			}
			if strings.HasPrefix(strings.ToLower(hit.Info.Type), "editorship") {
				continue
			}
			y, err := strconv.Atoi(hit.Info.Year)
			if err != nil || y < startYear || y > endYear {
				continue
			}
			out = append(out, DBLPPaper{
				Title: strings.TrimSpace(hit.Info.Title),
				Year:  y,
				DOI:   extractDOI(hit.Info.DOI, hit.Info.EE),
			})
		}
	}
	log.Printf("harvest dblp %s: collected %d candidate papers", venue, len(out))
	return out
}

func (c *DBLPClient) searchYear(ctx context.Context, venue string, year int) ([]dblpHit, error) {
	params := url.Values{}
	params.Set("q", fmt.Sprintf("%s %d", venue, year))
	params.Set("h", strconv.Itoa(dblpMaxHits))
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("dblp status %d", resp.StatusCode)
	}
	var parsed dblpResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	// Stay polite between year queries.
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(dblpRequestGap):
	}
	return parsed.Result.Hits.Hit, nil
}

func venueMatches(raw json.RawMessage, acronym string) bool {
	if len(raw) == 0 {
		return false
	}
	var single string
	if json.Unmarshal(raw, &single) == nil {
		return single == acronym
	}
	var many []string
	if json.Unmarshal(raw, &many) == nil {
		for _, v := range many {
			if v == acronym {
				return true
			}
		}
	}
	return false
}

// extractDOI pulls a bare DOI from DBLP's doi field or its ee URL.
func extractDOI(doi, ee string) string {
	if doi == "" && strings.Contains(ee, "doi.org/") {
		doi = ee[strings.Index(ee, "doi.org/")+len("doi.org/"):]
	}
	doi = strings.TrimSpace(doi)
	lower := strings.ToLower(doi)
	switch {
	case strings.HasPrefix(lower, "https://doi.org/"):
		doi = doi[len("https://doi.org/"):]
	case strings.HasPrefix(lower, "http://doi.org/"):
		doi = doi[len("http://doi.org/"):]
	}
	return doi
}
