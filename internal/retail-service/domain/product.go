package domain

import "strings"

// LowStockThreshold is the stock level below which a product is flagged as running low.
const LowStockThreshold = 5

type Product struct {
	ID            string
	Name          string
	Category      string
	PurchasePrice float64
	SellingPrice  float64
	Stock         int
	Description   string
}

// ProductDraft carries the caller-supplied fields of a product before an ID is assigned.
type ProductDraft struct {
	Name          string
	Category      string
	PurchasePrice float64
	SellingPrice  float64
	Stock         int
	Description   string
}

// Validate collects every violated field instead of stopping at the first one.
func (d ProductDraft) Validate() error {
	fields := make(map[string]string)
	if strings.TrimSpace(d.Name) == "" {
		fields["name"] = "name is required"
	}
	if strings.TrimSpace(d.Category) == "" {
		fields["category"] = "category is required"
	}
	if d.PurchasePrice < 0 {
		fields["purchasePrice"] = "purchase price must not be negative"
	}
	if d.SellingPrice <= 0 {
		fields["sellingPrice"] = "selling price must be greater than 0"
	}
	if d.Stock < 0 {
		fields["stock"] = "stock must not be negative"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// InventoryValue is the product's stock valued at its selling price.
func (p Product) InventoryValue() float64 {
	return p.SellingPrice * float64(p.Stock)
}

type StockLevel string

const (
	StockOut StockLevel = "out"
	StockLow StockLevel = "low"
	StockOK  StockLevel = "ok"
)

func (p Product) StockLevel() StockLevel {
	switch {
	case p.Stock == 0:
		return StockOut
	case p.Stock < LowStockThreshold:
		return StockLow
	default:
		return StockOK
	}
}

// StockDirection selects how a manual stock adjustment is applied.
type StockDirection string

const (
	StockAdd      StockDirection = "add"
	StockSubtract StockDirection = "subtract"
)

func (d StockDirection) Valid() bool {
	return d == StockAdd || d == StockSubtract
}
