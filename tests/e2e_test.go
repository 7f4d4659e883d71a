//go:build integration

package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/benjamin-asch/quantum-rankings/internal/dataset"
	"github.com/benjamin-asch/quantum-rankings/internal/httpapi"
	"github.com/benjamin-asch/quantum-rankings/internal/ranking"
)

func sampleDataset() *dataset.Dataset {
	return &dataset.Dataset{
		Venues: []dataset.Venue{
			{Code: "STOC", Name: "Symposium on Theory of Computing"},
			{Code: "QIP", Name: "Quantum Information Processing"},
		},
		Institutions: map[string]dataset.Institution{
			"inst0": {Name: "Aalto University", Region: "Europe"},
			"inst1": {Name: "MIT", Region: "North America"},
		},
		Authors: []dataset.Author{
			{
				Name:        "Alice",
				Institution: "inst0",
				Publications: []dataset.Publication{
					{Year: 2020, Venue: "STOC", Title: "A quantum algorithm for search"},
					{Year: 2021, Venue: "QIP", Title: "Entanglement distillation revisited"},
				},
			},
			{
				Name:        "Bob",
				Institution: "inst1",
				Publications: []dataset.Publication{
					{Year: 2020, Venue: "STOC", Title: "Quantum supremacy with shallow circuits"},
				},
			},
		},
	}
}

func getJSON(t *testing.T, client *http.Client, url string, out any) {
	t.Helper()
	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("GET %s: status %d: %s", url, resp.StatusCode, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
}

func TestE2ERankingsServer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// --- 1. Write a dataset file and load it the way the server binary does ---
	dir := t.TempDir()
	path := filepath.Join(dir, "dataset.json")
	raw, err := json.Marshal(sampleDataset())
	if err != nil {
		t.Fatalf("marshal dataset: %v", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	ds, err := dataset.Load(ctx, dataset.FromFile(path))
	if err != nil {
		t.Fatalf("load dataset: %v", err)
	}

	// --- 2. Start the rankings server in-process ---
	svc := httpapi.NewService(ds, 2015, 2025)
	handler := httpapi.NewServer(svc, nil, "")
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := &http.Server{Handler: handler}
	go srv.Serve(ln)
	defer srv.Close()

	base := "http://" + ln.Addr().String()
	t.Logf("rankings server running at %s", base)
	client := &http.Client{Timeout: 10 * time.Second}

	// --- 3. Default rankings: Aalto leads on total publications ---
	var rankings struct {
		Sort    ranking.Metric  `json:"sort"`
		Entries []ranking.Entry `json:"entries"`
	}
	getJSON(t, client, base+"/api/rankings", &rankings)
	if rankings.Sort != ranking.MetricTotal {
		t.Fatalf("default sort = %q, want %q", rankings.Sort, ranking.MetricTotal)
	}
	if len(rankings.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(rankings.Entries))
	}
	if rankings.Entries[0].Name != "Aalto University" || rankings.Entries[0].Rank != 1 {
		t.Fatalf("unexpected leader: %+v", rankings.Entries[0])
	}

	// --- 4. Filtered rankings: narrowing years drops Alice's QIP paper ---
	getJSON(t, client, base+"/api/rankings?start=2020&end=2020", &rankings)
	for _, e := range rankings.Entries {
		if e.Publications != 1 {
			t.Fatalf("expected 1 publication each in 2020, got %+v", e)
		}
	}

	// --- 5. Subfield opt-in keeps only matching titles ---
	getJSON(t, client, base+"/api/rankings?subfields=algorithms", &rankings)
	if len(rankings.Entries) != 1 || rankings.Entries[0].Name != "Aalto University" {
		t.Fatalf("expected only Aalto under algorithms, got %+v", rankings.Entries)
	}

	// --- 6. Author drill-down for the leading institution ---
	var detail struct {
		Institution string `json:"institution"`
		Name        string `json:"name"`
		Authors     []struct {
			Name  string   `json:"name"`
			Count int      `json:"count"`
			Tags  []string `json:"tags"`
		} `json:"authors"`
	}
	getJSON(t, client, base+"/api/rankings/inst0/authors", &detail)
	if detail.Name != "Aalto University" {
		t.Fatalf("unexpected institution detail: %+v", detail)
	}
	if len(detail.Authors) != 1 || detail.Authors[0].Name != "Alice" {
		t.Fatalf("unexpected authors: %+v", detail.Authors)
	}
	tags := detail.Authors[0].Tags
	if len(tags) != 2 || tags[0] != "2020 – STOC" {
		t.Fatalf("unexpected tags: %v", tags)
	}

	// --- 7. Register a venue, then see it in the registry ---
	body := bytes.NewBufferString(`{"code":"FOCS","name":"Foundations of Computer Science"}`)
	resp, err := client.Post(base+"/api/venues", "application/json", body)
	if err != nil {
		t.Fatalf("POST venue: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST venue: status %d", resp.StatusCode)
	}
	var venues []dataset.Venue
	getJSON(t, client, base+"/api/venues", &venues)
	found := false
	for _, v := range venues {
		if v.Code == "FOCS" {
			found = true
		}
	}
	if !found {
		t.Fatalf("FOCS missing from registry: %+v", venues)
	}

	// Duplicate registration conflicts, case-insensitively.
	body = bytes.NewBufferString(`{"code":"focs","name":"dup"}`)
	resp, err = client.Post(base+"/api/venues", "application/json", body)
	if err != nil {
		t.Fatalf("POST dup venue: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate venue: status %d, want 409", resp.StatusCode)
	}

	// --- 8. Report rendering in both formats ---
	resp, err = client.Get(base + "/api/report?format=markdown")
	if err != nil {
		t.Fatalf("GET markdown report: %v", err)
	}
	md, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(md), "| 1 | Aalto University |") {
		t.Fatalf("markdown report missing ranking row:\n%s", md)
	}
	resp, err = client.Get(base + "/api/report")
	if err != nil {
		t.Fatalf("GET html report: %v", err)
	}
	html, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(html), "<table>") {
		t.Fatalf("html report missing table:\n%s", html)
	}

	t.Logf("e2e rankings flow complete")
}
