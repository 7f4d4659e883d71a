package dataset

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

// ErrNoDataset is returned by Load when every configured source fails.
// This is terminal for the session: callers render an empty report and
// do not retry.
var ErrNoDataset = errors.New("no dataset available from any source")

// Source is one step of the acquisition chain. A source either yields a
// dataset or an error describing why it was skipped.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (*Dataset, error)
}

// Load walks the sources in order and returns the first dataset that
// parses and validates. Failures are logged and the chain advances; there
// are no retries.
func Load(ctx context.Context, sources ...Source) (*Dataset, error) {
	for _, src := range sources {
		ds, err := src.Fetch(ctx)
		if err != nil {
			log.Printf("dataset source %s failed: %v", src.Name(), err)
			continue
		}
		if err := ds.Validate(); err != nil {
			log.Printf("dataset source %s invalid: %v", src.Name(), err)
			continue
		}
		log.Printf("dataset loaded from %s (venues=%d institutions=%d authors=%d)",
			src.Name(), len(ds.Venues), len(ds.Institutions), len(ds.Authors))
		return ds, nil
	}
	return nil, ErrNoDataset
}

type valueSource struct{ ds *Dataset }

// FromValue wraps an already-loaded dataset, the highest-priority source.
func FromValue(ds *Dataset) Source { return valueSource{ds: ds} }

func (s valueSource) Name() string { return "preloaded" }

func (s valueSource) Fetch(ctx context.Context) (*Dataset, error) {
	if s.ds == nil {
		return nil, errors.New("no preloaded dataset")
	}
	return s.ds, nil
}

type embeddedSource struct{ raw []byte }

// FromEmbedded parses an embedded payload: either the dataset JSON itself
// or a {"base64": "..."} wrapper whose payload decodes to the dataset JSON.
func FromEmbedded(raw []byte) Source { return embeddedSource{raw: raw} }

func (s embeddedSource) Name() string { return "embedded" }

func (s embeddedSource) Fetch(ctx context.Context) (*Dataset, error) {
	if len(s.raw) == 0 {
		return nil, errors.New("empty embedded payload")
	}
	return decodePayload(s.raw)
}

type fileSource struct{ path string }

// FromFile reads a sibling data.json from disk.
func FromFile(path string) Source { return fileSource{path: path} }

func (s fileSource) Name() string { return "file " + s.path }

func (s fileSource) Fetch(ctx context.Context) (*Dataset, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	return decodePayload(raw)
}

type urlSource struct {
	url    string
	client *http.Client
}

// FromURL fetches the dataset over HTTP. The final fallback; origin
// restrictions or an absent server just advance the chain.
func FromURL(url string, client *http.Client) Source {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return urlSource{url: url, client: client}
}

func (s urlSource) Name() string { return "url " + s.url }

func (s urlSource) Fetch(ctx context.Context) (*Dataset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return decodePayload(raw)
}

// decodePayload handles both the plain dataset JSON and the base64 wrapper
// emitted by the dataset builder for embedding in static pages.
func decodePayload(raw []byte) (*Dataset, error) {
	var wrapper struct {
		Base64 string `json:"base64"`
	}
	if err := json.Unmarshal(raw, &wrapper); err == nil && wrapper.Base64 != "" {
		decoded, err := base64.StdEncoding.DecodeString(wrapper.Base64)
		if err != nil {
			return nil, fmt.Errorf("decode base64 payload: %w", err)
		}
		raw = decoded
	}
	var ds Dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("parse dataset json: %w", err)
	}
	if ds.Institutions == nil {
		ds.Institutions = map[string]Institution{}
	}
	return &ds, nil
}
