package ranking

import (
	"fmt"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Metric selects which aggregate value a ranking is ordered by.
type Metric string

const (
	// MetricTotal orders by raw publication count.
	MetricTotal Metric = "total"
	// MetricRatio orders by publications per active researcher.
	MetricRatio Metric = "ratio"
)

// ParseMetric maps a user-supplied sort selector to a Metric.
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case MetricTotal, MetricRatio:
		return Metric(s), nil
	case "":
		return MetricTotal, nil
	}
	return "", fmt.Errorf("unknown sort metric %q", s)
}

func (m Metric) value(e Entry) float64 {
	if m == MetricRatio {
		return e.Ratio
	}
	return float64(e.Publications)
}

// Rank orders entries by descending metric value with an ascending
// locale-aware institution-name tie-break, then assigns 1-based ranks.
// The tie-break makes the order fully deterministic. The input slice is
// not modified.
func Rank(entries []Entry, metric Metric) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)

	coll := collate.New(language.Und)
	sort.Slice(out, func(i, j int) bool {
		vi, vj := metric.value(out[i]), metric.value(out[j])
		if vi != vj {
			return vi > vj
		}
		return coll.CompareString(out[i].Name, out[j].Name) < 0
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
