// Package catalog owns the product set and is the only place product stock
// is ever written.
package catalog

import (
	"slices"

	"github.com/jcmexdev/retail-ledger/internal/retail-service/domain"
)

// References answers whether any order still points at a product.
type References interface {
	ReferencesProduct(productID string) bool
}

// Catalog is not safe for concurrent use; callers serialise access.
type Catalog struct {
	products map[string]*domain.Product
	order    []string
	ids      *domain.Sequence
}

func New() *Catalog {
	return &Catalog{
		products: make(map[string]*domain.Product),
		ids:      domain.NewSequence(domain.ProductPrefix),
	}
}

func (c *Catalog) Create(draft domain.ProductDraft) (domain.Product, error) {
	if err := draft.Validate(); err != nil {
		return domain.Product{}, err
	}

	p := &domain.Product{
		ID:            c.ids.Next(len(c.products)),
		Name:          draft.Name,
		Category:      draft.Category,
		PurchasePrice: draft.PurchasePrice,
		SellingPrice:  draft.SellingPrice,
		Stock:         draft.Stock,
		Description:   draft.Description,
	}
	c.products[p.ID] = p
	c.order = append(c.order, p.ID)
	return *p, nil
}

func (c *Catalog) Product(id string) (domain.Product, error) {
	p, ok := c.products[id]
	if !ok {
		return domain.Product{}, &domain.NotFoundError{Kind: domain.KindProduct, ID: id}
	}
	return *p, nil
}

// Products returns copies in creation order.
func (c *Catalog) Products() []domain.Product {
	out := make([]domain.Product, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.products[id])
	}
	return out
}

// Adjust applies a manual stock correction. Subtracting more than is on hand
// clamps the stock at zero instead of failing.
func (c *Catalog) Adjust(id string, delta int, direction domain.StockDirection) (domain.Product, error) {
	fields := make(map[string]string)
	if delta < 0 {
		fields["quantity"] = "quantity must not be negative"
	}
	if !direction.Valid() {
		fields["direction"] = "direction must be add or subtract"
	}
	if len(fields) > 0 {
		return domain.Product{}, &domain.ValidationError{Fields: fields}
	}

	p, ok := c.products[id]
	if !ok {
		return domain.Product{}, &domain.NotFoundError{Kind: domain.KindProduct, ID: id}
	}

	if direction == domain.StockAdd {
		p.Stock += delta
	} else {
		p.Stock = max(0, p.Stock-delta)
	}
	return *p, nil
}

// Reserve takes quantity out of stock for an order. It fails without touching
// the product when less than quantity is available.
func (c *Catalog) Reserve(id string, quantity int) (domain.Product, error) {
	p, ok := c.products[id]
	if !ok {
		return domain.Product{}, &domain.NotFoundError{Kind: domain.KindProduct, ID: id}
	}
	if p.Stock < quantity {
		return domain.Product{}, &domain.InsufficientStockError{
			ProductID: id,
			Requested: quantity,
			Available: p.Stock,
		}
	}
	p.Stock -= quantity
	return *p, nil
}

// Release returns a previously reserved quantity to stock.
func (c *Catalog) Release(id string, quantity int) (domain.Product, error) {
	return c.Adjust(id, quantity, domain.StockAdd)
}

func (c *Catalog) Delete(id string, refs References) error {
	if _, ok := c.products[id]; !ok {
		return &domain.NotFoundError{Kind: domain.KindProduct, ID: id}
	}
	if refs != nil && refs.ReferencesProduct(id) {
		return &domain.ReferentialIntegrityError{Kind: domain.KindProduct, ID: id}
	}

	delete(c.products, id)
	c.order = slices.DeleteFunc(c.order, func(v string) bool { return v == id })
	return nil
}
