package ranking

import (
	"fmt"
	"sort"

	"github.com/benjamin-asch/quantum-rankings/internal/dataset"
)

// PubRef is one qualifying publication as captured during aggregation.
// Formatting into a display tag happens at projection time, not here.
type PubRef struct {
	Year  int    `json:"year"`
	Venue string `json:"venue"`
}

// Tag renders the human-readable detail string for a drill-down row.
func (p PubRef) Tag() string {
	return fmt.Sprintf("%d – %s", p.Year, p.Venue)
}

// AuthorDetail is one active researcher inside a ranking entry, with the
// qualifying publications in their original order.
type AuthorDetail struct {
	Name         string   `json:"name"`
	Count        int      `json:"count"`
	Publications []PubRef `json:"publications"`
}

// Tags formats the ordered detail strings for display.
func (a AuthorDetail) Tags() []string {
	out := make([]string, len(a.Publications))
	for i, p := range a.Publications {
		out[i] = p.Tag()
	}
	return out
}

// Entry is one institution's aggregate under a filter state. Entries are
// recomputed wholesale on every filter change and never persisted.
type Entry struct {
	Institution  string         `json:"institution"`
	Name         string         `json:"name"`
	Region       string         `json:"region"`
	Rank         int            `json:"rank,omitempty"`
	Publications int            `json:"publications"`
	Researchers  int            `json:"researchers"`
	Ratio        float64        `json:"ratio"`
	Authors      []AuthorDetail `json:"authors"`
}

// Aggregate computes one entry per institution with at least one active
// researcher under the filters. Pure function of its inputs: no I/O, and
// identical inputs produce identical output, entries ordered by
// institution key. Callers sort with Rank.
func Aggregate(ds *dataset.Dataset, f FilterState) []Entry {
	keywords := ActiveKeywords(f.Subfields)
	byInst := map[string]*Entry{}

	for _, author := range ds.Authors {
		inst, ok := ds.Institutions[author.Institution]
		if !ok || !f.Regions[inst.Region] {
			continue
		}
		detail := AuthorDetail{Name: author.Name}
		for _, pub := range author.Publications {
			if pub.Year < f.StartYear || pub.Year > f.EndYear {
				continue
			}
			if !f.Venues[pub.Venue] {
				continue
			}
			if len(keywords) > 0 && !titleMatches(pub.Title, keywords) {
				continue
			}
			detail.Count++
			detail.Publications = append(detail.Publications, PubRef{Year: pub.Year, Venue: pub.Venue})
		}
		if detail.Count == 0 {
			continue
		}
		entry := byInst[author.Institution]
		if entry == nil {
			entry = &Entry{
				Institution: author.Institution,
				Name:        inst.Name,
				Region:      inst.Region,
			}
			byInst[author.Institution] = entry
		}
		entry.Publications += detail.Count
		entry.Researchers++
		entry.Authors = append(entry.Authors, detail)
	}

	keys := make([]string, 0, len(byInst))
	for k := range byInst {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Entry, 0, len(keys))
	for _, k := range keys {
		e := byInst[k]
		// Researchers >= 1 is guaranteed: an entry only exists once an
		// author qualifies, so the division is always safe.
		e.Ratio = float64(e.Publications) / float64(e.Researchers)
		out = append(out, *e)
	}
	return out
}
