package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/ShopHub/internal/domain"
	apperrors "github.com/utafrali/ShopHub/pkg/errors"
)

func TestDefault_LoadsEmbeddedCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Equal(t, 8, c.Len())
	p, ok := c.Lookup("1")
	require.True(t, ok)
	assert.Equal(t, "Phones", p.Category)
	assert.Positive(t, p.DiscountPrice)
}

func TestNew_DuplicateID(t *testing.T) {
	_, err := New([]domain.Product{{ID: "p1"}, {ID: "p1"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate product id")
}

func TestNew_EmptyID(t *testing.T) {
	_, err := New([]domain.Product{{ID: ""}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty id")
}

func TestCategories_AllFirstThenFirstSeenOrder(t *testing.T) {
	c, err := New([]domain.Product{
		{ID: "1", Category: "Phones & Tablets"},
		{ID: "2", Category: "Audio"},
		{ID: "3", Category: "Phones & Tablets"},
	})
	require.NoError(t, err)

	assert.Equal(t, []Category{
		{Name: "All", Slug: "all"},
		{Name: "Phones & Tablets", Slug: "phones-and-tablets"},
		{Name: "Audio", Slug: "audio"},
	}, c.Categories())

	name, ok := c.CategoryBySlug("phones-and-tablets")
	require.True(t, ok)
	assert.Equal(t, "Phones & Tablets", name)

	_, ok = c.CategoryBySlug("books")
	assert.False(t, ok)
}

func TestGet_NotFound(t *testing.T) {
	c, err := New([]domain.Product{{ID: "p1"}})
	require.NoError(t, err)

	_, err = c.Get("missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestNew_CopiesInput(t *testing.T) {
	products := []domain.Product{{ID: "p1", Name: "Original"}}
	c, err := New(products)
	require.NoError(t, err)

	products[0].Name = "Changed"
	p, _ := c.Lookup("p1")
	assert.Equal(t, "Original", p.Name)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"p1","name":"Blue Shirt","category":"Apparel","discount_price":500}]`), 0o600))

	c, err := LoadFile(path)
	require.NoError(t, err)
	p, ok := c.Lookup("p1")
	require.True(t, ok)
	assert.Equal(t, int64(500), p.DiscountPrice)
}

func TestParse_InvalidJSON(t *testing.T) {
	_, err := Parse([]byte("{{"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal catalog")
}
