package httpapi

import (
	"sync"

	"github.com/benjamin-asch/quantum-rankings/internal/dataset"
	"github.com/benjamin-asch/quantum-rankings/internal/ranking"
)

// Service owns the session's dataset and default filter bounds. The only
// runtime mutation is adding a venue; aggregation always runs against a
// consistent snapshot taken under the read lock.
type Service struct {
	mu        sync.RWMutex
	ds        *dataset.Dataset
	startYear int
	endYear   int
}

func NewService(ds *dataset.Dataset, startYear, endYear int) *Service {
	return &Service{ds: ds, startYear: startYear, endYear: endYear}
}

// Defaults returns the opt-out/opt-in default filter state for the
// current dataset.
func (s *Service) Defaults() ranking.FilterState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ranking.DefaultFilters(s.ds, s.startYear, s.endYear)
}

// Rankings aggregates and ranks under the given filters.
func (s *Service) Rankings(f ranking.FilterState, metric ranking.Metric) []ranking.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ranking.Rank(ranking.Aggregate(s.ds, f), metric)
}

// Venues lists the registered venues in registration order.
func (s *Service) Venues() []dataset.Venue {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]dataset.Venue, len(s.ds.Venues))
	copy(out, s.ds.Venues)
	return out
}

// Regions lists the distinct regions derived from the dataset.
func (s *Service) Regions() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ds.Regions()
}

// AddVenue registers a venue. The filter state passed by the handler is
// discarded afterwards; the next request derives fresh defaults that
// include the new venue.
func (s *Service) AddVenue(code, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := ranking.DefaultFilters(s.ds, s.startYear, s.endYear)
	return ranking.AddVenue(s.ds, &f, code, name)
}
