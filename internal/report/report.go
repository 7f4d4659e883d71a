// Package report turns ranked institution entries into a Markdown report
// and, optionally, a standalone HTML page. All formatting lives here; the
// ranking package only carries raw values.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/benjamin-asch/quantum-rankings/internal/ranking"
)

func metricLabel(m ranking.Metric) string {
	if m == ranking.MetricRatio {
		return "publications per active researcher"
	}
	return "total publications"
}

// Build renders the ranked entries as Markdown: a filter summary, the
// ranking table, and a per-institution author appendix.
func Build(entries []ranking.Entry, f ranking.FilterState, metric ranking.Metric) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Quantum Research Rankings\n\n")
	fmt.Fprintf(&b, "- Date: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(&b, "- Years: %d–%d\n", f.StartYear, f.EndYear)
	fmt.Fprintf(&b, "- Sorted by: %s\n", metricLabel(metric))
	if subs := selectedKeys(f.Subfields); len(subs) > 0 {
		fmt.Fprintf(&b, "- Subfields: %s\n", strings.Join(subs, ", "))
	}
	fmt.Fprintf(&b, "- Institutions ranked: %d\n\n", len(entries))

	if len(entries) == 0 {
		fmt.Fprintf(&b, "No institutions match the current filters.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "| Rank | Institution | Region | Publications | Researchers | Ratio |\n")
	fmt.Fprintf(&b, "|---:|---|---|---:|---:|---:|\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "| %d | %s | %s | %d | %d | %.2f |\n",
			e.Rank, sanitize(e.Name), sanitize(e.Region), e.Publications, e.Researchers, e.Ratio)
	}

	fmt.Fprintf(&b, "\n## Researchers\n\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "### %d. %s\n\n", e.Rank, sanitize(e.Name))
		for _, a := range e.Authors {
			fmt.Fprintf(&b, "- %s (%d): %s\n", sanitize(a.Name), a.Count, strings.Join(a.Tags(), ", "))
		}
		fmt.Fprintf(&b, "\n")
	}
	return b.String()
}

// RenderHTML converts the Markdown report into a minimal standalone page.
func RenderHTML(markdown string) (string, error) {
	var content strings.Builder
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := md.Convert([]byte(markdown), &content); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}
	return "<!doctype html><html><head><meta charset='utf-8'><title>Quantum Research Rankings</title>" +
		"<style>" +
		"body{font-family:system-ui,sans-serif;max-width:960px;margin:2rem auto;padding:0 1rem;color:#1c1917;}" +
		"table{border-collapse:collapse;width:100%;font-size:0.9rem;}" +
		"th,td{border:1px solid #a8a29e;padding:0.35rem 0.5rem;text-align:left;}" +
		"thead th{background:#f1f5f9;}" +
		"</style></head><body>" + content.String() + "</body></html>", nil
}

func selectedKeys(m map[string]bool) []string {
	var out []string
	for k, v := range m {
		if v {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// sanitize keeps dataset-supplied strings from breaking table rows.
func sanitize(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.Join(strings.Fields(s), " ")
}
