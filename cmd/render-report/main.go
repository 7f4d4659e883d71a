package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"

	"github.com/benjamin-asch/quantum-rankings/internal/dataset"
	"github.com/benjamin-asch/quantum-rankings/internal/ranking"
	"github.com/benjamin-asch/quantum-rankings/internal/report"
)

func main() {
	var (
		dataPath  = flag.String("data", "data.json", "Path to the dataset JSON file")
		startYear = flag.Int("start-year", 2005, "Ranking start year (inclusive)")
		endYear   = flag.Int("end-year", 2025, "Ranking end year (inclusive)")
		sortBy    = flag.String("sort", "total", "Ranking metric: total or ratio")
		subfields = flag.String("subfields", "", "Comma-separated subfield keys to filter by")
		format    = flag.String("format", "markdown", "Output format: markdown or html")
		output    = flag.String("output", "", "Output path (default: stdout)")
	)
	flag.Parse()

	metric, err := ranking.ParseMetric(*sortBy)
	if err != nil {
		log.Fatal(err)
	}

	ds, err := dataset.Load(context.Background(), dataset.FromFile(*dataPath))
	if err != nil {
		log.Fatal(err)
	}

	f := ranking.DefaultFilters(ds, *startYear, *endYear)
	if *subfields != "" {
		for _, key := range strings.Split(*subfields, ",") {
			key = strings.TrimSpace(key)
			if key == "" {
				continue
			}
			if _, ok := ranking.SubfieldByKey(key); !ok {
				log.Fatalf("unknown subfield %q", key)
			}
			f.Subfields[key] = true
		}
	}

	entries := ranking.Rank(ranking.Aggregate(ds, f), metric)
	out := report.Build(entries, f, metric)
	if *format == "html" {
		out, err = report.RenderHTML(out)
		if err != nil {
			log.Fatal(err)
		}
	}

	if *output == "" {
		os.Stdout.WriteString(out)
		return
	}
	if err := os.WriteFile(*output, []byte(out), 0o644); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote report to %s", *output)
}
