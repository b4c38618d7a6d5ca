package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/retail-ledger/internal/retail-service/domain"
)

type refs map[string]bool

func (r refs) ReferencesProduct(id string) bool { return r[id] }

func newProduct(t *testing.T, c *Catalog, stock int) domain.Product {
	t.Helper()
	p, err := c.Create(domain.ProductDraft{Name: "Laptop", Category: "Electronics", SellingPrice: 1000, Stock: stock})
	require.NoError(t, err)
	return p
}

func TestCreate_AssignsSequentialIDs(t *testing.T) {
	c := New()
	p1 := newProduct(t, c, 1)
	p2 := newProduct(t, c, 1)

	assert.Equal(t, "PRD-001", p1.ID)
	assert.Equal(t, "PRD-002", p2.ID)
	assert.Len(t, c.Products(), 2)
}

func TestCreate_InvalidDraftStoresNothing(t *testing.T) {
	c := New()
	_, err := c.Create(domain.ProductDraft{SellingPrice: -1})

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, c.Products())
}

func TestAdjust(t *testing.T) {
	c := New()
	p := newProduct(t, c, 3)

	got, err := c.Adjust(p.ID, 4, domain.StockAdd)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Stock)

	got, err = c.Adjust(p.ID, 10, domain.StockSubtract)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock, "subtract clamps at zero")

	_, err = c.Adjust("PRD-999", 1, domain.StockAdd)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = c.Adjust(p.ID, -1, "sideways")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 2)
}

func TestReserve(t *testing.T) {
	c := New()
	p := newProduct(t, c, 10)

	_, err := c.Reserve(p.ID, 11)
	var serr *domain.InsufficientStockError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 10, serr.Available)
	assert.Equal(t, 11, serr.Requested)

	stored, _ := c.Product(p.ID)
	assert.Equal(t, 10, stored.Stock)

	got, err := c.Reserve(p.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)

	got, err = c.Release(p.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Stock)
}

func TestDelete(t *testing.T) {
	c := New()
	p1 := newProduct(t, c, 1)
	p2 := newProduct(t, c, 1)

	err := c.Delete(p1.ID, refs{p1.ID: true})
	assert.ErrorIs(t, err, domain.ErrReferenced)
	assert.Len(t, c.Products(), 2)

	require.NoError(t, c.Delete(p1.ID, refs{}))
	assert.Equal(t, []domain.Product{p2}, c.Products())

	assert.ErrorIs(t, c.Delete(p1.ID, nil), domain.ErrNotFound)

	p3 := newProduct(t, c, 1)
	assert.Equal(t, "PRD-003", p3.ID)
}
