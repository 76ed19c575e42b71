package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/utafrali/ShopHub/internal/domain"
	apperrors "github.com/utafrali/ShopHub/pkg/errors"
	"github.com/utafrali/ShopHub/pkg/slug"
)

//go:embed data/products.json
var seed embed.FS

// Category is a distinct product category derived from the catalog.
type Category struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Catalog is the immutable, in-memory product list supplied at startup.
type Catalog struct {
	products   []domain.Product
	byID       map[string]int
	categories []Category
}

// New builds a catalog from products. Product ids must be non-empty and unique.
func New(products []domain.Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]domain.Product, len(products)),
		byID:     make(map[string]int, len(products)),
	}
	copy(c.products, products)

	seenCategory := make(map[string]struct{})
	c.categories = []Category{{Name: domain.CategoryAll, Slug: slug.Generate(domain.CategoryAll)}}

	for i, p := range c.products {
		if p.ID == "" {
			return nil, fmt.Errorf("product at index %d has an empty id", i)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %q", p.ID)
		}
		c.byID[p.ID] = i

		if p.Category == "" || p.Category == domain.CategoryAll {
			continue
		}
		if _, ok := seenCategory[p.Category]; !ok {
			seenCategory[p.Category] = struct{}{}
			c.categories = append(c.categories, Category{Name: p.Category, Slug: slug.Generate(p.Category)})
		}
	}

	return c, nil
}

// Default returns the catalog bundled with the binary.
func Default() (*Catalog, error) {
	data, err := seed.ReadFile("data/products.json")
	if err != nil {
		return nil, fmt.Errorf("read embedded catalog: %w", err)
	}
	return Parse(data)
}

// LoadFile reads a JSON product array from path.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a JSON product array into a catalog.
func Parse(data []byte) (*Catalog, error) {
	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("unmarshal catalog: %w", err)
	}
	return New(products)
}

// Lookup implements domain.ProductLookup.
func (c *Catalog) Lookup(id string) (domain.Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Product{}, false
	}
	return c.products[i], true
}

// Get returns the product with the given id or a NOT_FOUND error.
func (c *Catalog) Get(id string) (domain.Product, error) {
	p, ok := c.Lookup(id)
	if !ok {
		return domain.Product{}, apperrors.NotFound("product", id)
	}
	return p, nil
}

// Products returns the catalog in its original order. The slice is shared and
// must not be modified.
func (c *Catalog) Products() []domain.Product {
	return c.products
}

// Len returns the number of products in the catalog.
func (c *Catalog) Len() int {
	return len(c.products)
}

// Categories returns "All" followed by each distinct category in first-seen order.
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// CategoryBySlug resolves a category slug back to its display name.
func (c *Catalog) CategoryBySlug(s string) (string, bool) {
	for _, cat := range c.categories {
		if cat.Slug == s {
			return cat.Name, true
		}
	}
	return "", false
}
