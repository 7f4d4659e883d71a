package dataset

import (
	"fmt"
	"sort"
	"strings"
)

// Venue is a publication outlet identified by a short unique code.
type Venue struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type Institution struct {
	Name   string `json:"name"`
	Region string `json:"region"`
}

type Publication struct {
	Year  int    `json:"year"`
	Venue string `json:"venue"`
	Title string `json:"title,omitempty"`
}

// Author is affiliated with exactly one institution. Publications keep
// their load order; the frontend-visible detail tags preserve it.
type Author struct {
	Name         string        `json:"name"`
	Institution  string        `json:"institution"`
	Publications []Publication `json:"publications"`
}

// Dataset mirrors the data.json schema: venues, institutions keyed by an
// opaque institution key, and authors referencing those keys.
type Dataset struct {
	Venues       []Venue                `json:"venues"`
	Institutions map[string]Institution `json:"institutions"`
	Authors      []Author               `json:"authors"`
}

// Regions returns the distinct institution regions in sorted order. The
// region set is derived from the data, never predeclared.
func (d *Dataset) Regions() []string {
	seen := map[string]bool{}
	for _, inst := range d.Institutions {
		if inst.Region != "" {
			seen[inst.Region] = true
		}
	}
	out := make([]string, 0, len(seen))
	for r := range seen {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// HasVenue reports whether code is already registered, case-insensitively.
func (d *Dataset) HasVenue(code string) bool {
	for _, v := range d.Venues {
		if strings.EqualFold(v.Code, code) {
			return true
		}
	}
	return false
}

// Validate checks referential integrity: every author must point at a known
// institution. Unknown venue codes on publications are tolerated (they
// simply never match a venue filter), matching the permissive frontend.
func (d *Dataset) Validate() error {
	for _, a := range d.Authors {
		if _, ok := d.Institutions[a.Institution]; !ok {
			return fmt.Errorf("author %q references unknown institution %q", a.Name, a.Institution)
		}
	}
	return nil
}
