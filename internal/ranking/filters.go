package ranking

import (
	"errors"
	"strings"

	"github.com/benjamin-asch/quantum-rankings/internal/dataset"
)

var (
	ErrDuplicateVenue = errors.New("a venue with this code already exists")
	ErrMissingFields  = errors.New("both a venue code and a venue name are required")
)

// FilterState is the full selection a single aggregation pass runs under.
// Handlers build a fresh value per computation and never mutate one that
// is already in use. Venues and regions are opt-out (everything selected
// by default); subfields are opt-in (empty selection means no subfield
// restriction, not "exclude everything").
type FilterState struct {
	StartYear int
	EndYear   int
	Venues    map[string]bool
	Regions   map[string]bool
	Subfields map[string]bool
}

// DefaultFilters selects every venue and every derived region, no
// subfields, over [startYear, endYear].
func DefaultFilters(ds *dataset.Dataset, startYear, endYear int) FilterState {
	f := FilterState{
		StartYear: startYear,
		EndYear:   endYear,
		Venues:    map[string]bool{},
		Regions:   map[string]bool{},
		Subfields: map[string]bool{},
	}
	for _, v := range ds.Venues {
		f.Venues[v.Code] = true
	}
	for _, r := range ds.Regions() {
		f.Regions[r] = true
	}
	return f
}

// Clone returns an independent copy so a mutation never reaches a
// computation already holding the original.
func (f FilterState) Clone() FilterState {
	out := f
	out.Venues = make(map[string]bool, len(f.Venues))
	for k, v := range f.Venues {
		out.Venues[k] = v
	}
	out.Regions = make(map[string]bool, len(f.Regions))
	for k, v := range f.Regions {
		out.Regions[k] = v
	}
	out.Subfields = make(map[string]bool, len(f.Subfields))
	for k, v := range f.Subfields {
		out.Subfields[k] = v
	}
	return out
}

// AddVenue registers a new venue and selects it, per the opt-out default.
// The code is rejected case-insensitively if already present; the dataset
// and filter state are untouched on rejection.
func AddVenue(ds *dataset.Dataset, f *FilterState, code, name string) error {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if code == "" || name == "" {
		return ErrMissingFields
	}
	if ds.HasVenue(code) {
		return ErrDuplicateVenue
	}
	ds.Venues = append(ds.Venues, dataset.Venue{Code: code, Name: name})
	f.Venues[code] = true
	return nil
}
