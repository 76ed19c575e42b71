package service

import (
	"context"
	"log/slog"

	"github.com/utafrali/ShopHub/internal/catalog"
	"github.com/utafrali/ShopHub/internal/domain"
	apperrors "github.com/utafrali/ShopHub/pkg/errors"
	"github.com/utafrali/ShopHub/pkg/pagination"
)

// QueryInput carries optional filter updates. A nil field leaves the
// session's criteria unchanged.
type QueryInput struct {
	Search   *string
	Category *string
}

// ProductPage is one page of a product query together with the criteria it
// was evaluated with.
type ProductPage struct {
	Criteria domain.FilterCriteria `json:"criteria"`
	pagination.Result[domain.Product]
}

// CatalogService implements product browsing and the filter store.
type CatalogService struct {
	catalog  *catalog.Catalog
	sessions Sessions
	logger   *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(cat *catalog.Catalog, sessions Sessions, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		catalog:  cat,
		sessions: sessions,
		logger:   logger,
	}
}

// ListProducts queries the catalog. With a shopper id the input updates the
// shopper's filter store and the stored criteria are applied; without one the
// input alone is applied.
func (s *CatalogService) ListProducts(ctx context.Context, shopperID string, input QueryInput, params pagination.Params) (*ProductPage, error) {
	var (
		matched  []domain.Product
		criteria domain.FilterCriteria
	)
	if shopperID != "" {
		filter := s.sessions.Get(shopperID).Filter
		if input.Search != nil {
			filter.SetSearchQuery(*input.Search)
		}
		if input.Category != nil {
			filter.SetSelectedCategory(s.resolveCategory(*input.Category))
		}
		matched, criteria = filter.Apply(s.catalog.Products())
	} else {
		criteria = domain.DefaultCriteria()
		if input.Search != nil {
			criteria.Search = *input.Search
		}
		if input.Category != nil {
			criteria.Category = s.resolveCategory(*input.Category)
		}
		matched = domain.Query(s.catalog.Products(), criteria)
	}

	return &ProductPage{
		Criteria: criteria,
		Result:   pagination.Paginate(matched, params),
	}, nil
}

// GetProduct returns a product by id.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	p, err := s.catalog.Get(id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Categories returns the category list with "All" first.
func (s *CatalogService) Categories(ctx context.Context) []catalog.Category {
	return s.catalog.Categories()
}

// GetFilters returns the shopper's filter criteria.
func (s *CatalogService) GetFilters(ctx context.Context, shopperID string) domain.FilterCriteria {
	return s.sessions.Get(shopperID).Filter.Criteria()
}

// SetFilters updates the shopper's filter criteria.
func (s *CatalogService) SetFilters(ctx context.Context, shopperID string, input QueryInput) (domain.FilterCriteria, error) {
	if input.Search == nil && input.Category == nil {
		return domain.FilterCriteria{}, apperrors.InvalidInput("search or category is required")
	}

	filter := s.sessions.Get(shopperID).Filter
	if input.Search != nil {
		filter.SetSearchQuery(*input.Search)
	}
	if input.Category != nil {
		filter.SetSelectedCategory(s.resolveCategory(*input.Category))
	}
	return filter.Criteria(), nil
}

// ClearFilters resets the shopper's filter criteria.
func (s *CatalogService) ClearFilters(ctx context.Context, shopperID string) domain.FilterCriteria {
	filter := s.sessions.Get(shopperID).Filter
	filter.ClearFilters()
	return filter.Criteria()
}

// resolveCategory accepts a category name or its slug. An empty value selects
// every category.
func (s *CatalogService) resolveCategory(category string) string {
	if category == "" {
		return domain.CategoryAll
	}
	if name, ok := s.catalog.CategoryBySlug(category); ok {
		return name
	}
	return category
}
