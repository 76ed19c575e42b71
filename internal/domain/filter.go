package domain

import "strings"

// CategoryAll is the category sentinel that matches every product.
const CategoryAll = "All"

// FilterCriteria holds the search text and selected category used to narrow
// the catalog.
type FilterCriteria struct {
	Search   string `json:"search"`
	Category string `json:"category"`
}

// DefaultCriteria returns criteria that match the whole catalog.
func DefaultCriteria() FilterCriteria {
	return FilterCriteria{Search: "", Category: CategoryAll}
}

// Matches reports whether p satisfies the criteria. The search text is matched
// case-insensitively as a substring of the name or the description.
func (c FilterCriteria) Matches(p Product) bool {
	return c.matchesSearch(p, strings.ToLower(c.Search)) && c.matchesCategory(p)
}

func (c FilterCriteria) matchesSearch(p Product, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle)
}

func (c FilterCriteria) matchesCategory(p Product) bool {
	return c.Category == CategoryAll || p.Category == c.Category
}

// Query returns the products matching the criteria in catalog order.
func Query(products []Product, c FilterCriteria) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if c.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}
