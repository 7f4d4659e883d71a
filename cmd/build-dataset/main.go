package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/benjamin-asch/quantum-rankings/internal/harvest"
)

func main() {
	var (
		minYear           = flag.Int("min-year", 2005, "Minimum publication year (inclusive)")
		maxYear           = flag.Int("max-year", 2025, "Maximum publication year (inclusive)")
		minPapersAuthor   = flag.Int("min-papers-per-author", 1, "Minimum papers for an author+institution pair to be kept")
		minPapersInst     = flag.Int("min-papers-per-institution", 3, "Minimum total papers for an institution to be kept")
		maxInstitutions   = flag.Int("max-institutions", 1000, "Cap on institutions kept (most prolific first; 0 = no cap)")
		maxPagesPerSource = flag.Int("max-pages-per-source", 0, "Cap on pages fetched per journal source (0 = no cap, for testing)")
		venuesPath        = flag.String("venues", "", "Optional JSON file overriding the default venue table")
		cachePath         = flag.String("cache", "openalex-cache.db", "Path to the OpenAlex response cache (empty disables caching)")
		outputJSON        = flag.String("output-json", "data.json", "Path to write the dataset JSON")
		outputJS          = flag.String("output-js", "", "Optional path to write the dataset as a window.dataset JS file")
	)
	flag.Parse()

	mailto := strings.TrimSpace(os.Getenv("OPENALEX_MAILTO"))
	if mailto == "" {
		log.Printf("warning: OPENALEX_MAILTO is not set; set it for polite OpenAlex access")
	}

	venues := harvest.DefaultVenues
	if *venuesPath != "" {
		raw, err := os.ReadFile(*venuesPath)
		if err != nil {
			log.Fatal(err)
		}
		venues = nil
		if err := json.Unmarshal(raw, &venues); err != nil {
			log.Fatalf("parse %s: %v", *venuesPath, err)
		}
	}

	var cache *harvest.Cache
	if *cachePath != "" {
		var err error
		cache, err = harvest.OpenCache(*cachePath)
		if err != nil {
			// Degrade to uncached operation; the harvest just gets slower.
			log.Printf("warning: cache unavailable (%v); continuing without it", err)
		} else {
			defer cache.Close()
			log.Printf("cache open at %s (%d works)", *cachePath, cache.Len())
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	builder := harvest.NewBuilder(
		harvest.NewDBLPClient(),
		harvest.NewOpenAlexClient(harvest.OpenAlexConfig{Mailto: mailto, Cache: cache}),
	)
	ds, err := builder.Build(ctx, harvest.BuildConfig{
		Venues:                  venues,
		StartYear:               *minYear,
		EndYear:                 *maxYear,
		MinPapersPerAuthor:      *minPapersAuthor,
		MinPapersPerInstitution: *minPapersInst,
		MaxInstitutions:         *maxInstitutions,
		MaxPagesPerSource:       *maxPagesPerSource,
	})
	if err != nil {
		log.Fatal(err)
	}

	if err := harvest.WriteJSON(*outputJSON, ds); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote dataset to %s", *outputJSON)

	if *outputJS != "" {
		if err := harvest.WriteJS(*outputJS, ds); err != nil {
			log.Fatal(err)
		}
		log.Printf("wrote JS dataset to %s", *outputJS)
	}
}
