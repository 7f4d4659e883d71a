package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"

	"github.com/benjamin-asch/quantum-rankings/internal/dataset"
	"github.com/benjamin-asch/quantum-rankings/internal/httpapi"
	"github.com/benjamin-asch/quantum-rankings/internal/lookup"
)

func main() {
	var (
		addr         = flag.String("addr", ":8090", "Listen address")
		dataPath     = flag.String("data", "data.json", "Path to the dataset JSON file")
		dataURL      = flag.String("data-url", "", "Optional URL to fetch the dataset from if the file is missing")
		startYear    = flag.Int("start-year", 2005, "Default ranking start year (inclusive)")
		endYear      = flag.Int("end-year", 2025, "Default ranking end year (inclusive)")
		webDir       = flag.String("web-dir", "", "Optional directory with static web UI files")
		enableLookup = flag.Bool("enable-lookup", false, "Enable the auxiliary institution web lookup (requires a chromium binary)")
	)
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	sources := []dataset.Source{dataset.FromFile(*dataPath)}
	if *dataURL != "" {
		sources = append(sources, dataset.FromURL(*dataURL, nil))
	}
	ds, err := dataset.Load(ctx, sources...)
	if err != nil {
		if !errors.Is(err, dataset.ErrNoDataset) {
			log.Fatal(err)
		}
		// Terminal for this session: serve empty rankings rather than
		// crash-loop, matching the frontend's behavior.
		log.Printf("no dataset available; serving empty rankings")
		ds = &dataset.Dataset{Institutions: map[string]dataset.Institution{}}
	}

	svc := httpapi.NewService(ds, *startYear, *endYear)

	var lk httpapi.InstitutionLookup
	if *enableLookup {
		lk = lookup.NewClient()
	}

	handler := httpapi.NewServer(svc, lk, *webDir)
	srv := &http.Server{Addr: *addr, Handler: handler}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	log.Printf("rankings server listening on %s (years %d-%d)", *addr, *startYear, *endYear)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
