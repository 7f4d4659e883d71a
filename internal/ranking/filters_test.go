package ranking

import (
	"errors"
	"testing"
)

func TestDefaultFiltersSelections(t *testing.T) {
	ds := sampleDataset()
	f := DefaultFilters(ds, 2010, 2025)
	if !f.Venues["STOC"] || !f.Venues["QIP"] {
		t.Fatalf("all venues must start selected: %v", f.Venues)
	}
	if !f.Regions["Europe"] || !f.Regions["North America"] {
		t.Fatalf("all derived regions must start selected: %v", f.Regions)
	}
	if len(f.Subfields) != 0 {
		t.Fatalf("subfields must start unselected: %v", f.Subfields)
	}
}

func TestAddVenue(t *testing.T) {
	ds := sampleDataset()
	f := DefaultFilters(ds, 2010, 2025)

	if err := AddVenue(ds, &f, "FOCS", "Foundations of Computer Science"); err != nil {
		t.Fatal(err)
	}
	if !ds.HasVenue("FOCS") || !f.Venues["FOCS"] {
		t.Fatal("added venue must be registered and selected")
	}
}

func TestAddVenueRejectsDuplicateCaseInsensitive(t *testing.T) {
	ds := sampleDataset()
	f := DefaultFilters(ds, 2010, 2025)
	before := len(ds.Venues)

	err := AddVenue(ds, &f, "stoc", "Duplicate")
	if !errors.Is(err, ErrDuplicateVenue) {
		t.Fatalf("expected ErrDuplicateVenue, got %v", err)
	}
	if len(ds.Venues) != before {
		t.Fatal("dataset must be unchanged on rejection")
	}
}

func TestAddVenueRejectsMissingFields(t *testing.T) {
	ds := sampleDataset()
	f := DefaultFilters(ds, 2010, 2025)
	for _, c := range [][2]string{{"", "Name"}, {"CODE", ""}, {"  ", "  "}} {
		if err := AddVenue(ds, &f, c[0], c[1]); !errors.Is(err, ErrMissingFields) {
			t.Fatalf("expected ErrMissingFields for %q/%q, got %v", c[0], c[1], err)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	ds := sampleDataset()
	f := DefaultFilters(ds, 2010, 2025)
	c := f.Clone()
	c.Venues["STOC"] = false
	c.Subfields["algorithms"] = true
	if !f.Venues["STOC"] || f.Subfields["algorithms"] {
		t.Fatal("clone must not share maps with the original")
	}
}
