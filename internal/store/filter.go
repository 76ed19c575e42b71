package store

import (
	"sync"

	"github.com/utafrali/ShopHub/internal/domain"
)

// FilterStore holds the session's search text and selected category. It is
// never persisted.
type FilterStore struct {
	mu       sync.RWMutex
	criteria domain.FilterCriteria
}

// NewFilterStore creates a filter store matching the whole catalog.
func NewFilterStore() *FilterStore {
	return &FilterStore{criteria: domain.DefaultCriteria()}
}

// SetSearchQuery sets the search text.
func (s *FilterStore) SetSearchQuery(text string) {
	s.mu.Lock()
	s.criteria.Search = text
	s.mu.Unlock()
}

// SetSelectedCategory sets the selected category.
func (s *FilterStore) SetSelectedCategory(category string) {
	s.mu.Lock()
	s.criteria.Category = category
	s.mu.Unlock()
}

// ClearFilters resets the search text and selects every category.
func (s *FilterStore) ClearFilters() {
	s.mu.Lock()
	s.criteria = domain.DefaultCriteria()
	s.mu.Unlock()
}

// Criteria returns the current criteria.
func (s *FilterStore) Criteria() domain.FilterCriteria {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.criteria
}

// Apply returns the products matching the current criteria together with the
// criteria that were applied.
func (s *FilterStore) Apply(products []domain.Product) ([]domain.Product, domain.FilterCriteria) {
	criteria := s.Criteria()
	return domain.Query(products, criteria), criteria
}
