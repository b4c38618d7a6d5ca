// Package seed loads a YAML fixture of products, customers and orders and
// applies it through the regular command surface, so seeded orders reserve
// stock exactly like live ones.
package seed

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jcmexdev/retail-ledger/internal/retail-service/domain"
	"github.com/jcmexdev/retail-ledger/internal/retail-service/ports"
)

// Fixture entries reference each other through Key, since IDs are only
// assigned when the entities are created.
type Fixture struct {
	Products  []Product  `yaml:"products"`
	Customers []Customer `yaml:"customers"`
	Orders    []Order    `yaml:"orders"`
}

type Product struct {
	Key           string  `yaml:"key"`
	Name          string  `yaml:"name"`
	Category      string  `yaml:"category"`
	PurchasePrice float64 `yaml:"purchasePrice"`
	SellingPrice  float64 `yaml:"sellingPrice"`
	Stock         int     `yaml:"stock"`
	Description   string  `yaml:"description"`
}

type Customer struct {
	Key     string `yaml:"key"`
	Name    string `yaml:"name"`
	Email   string `yaml:"email"`
	Phone   string `yaml:"phone"`
	Address string `yaml:"address"`
}

type Order struct {
	Customer  string `yaml:"customer"`
	Product   string `yaml:"product"`
	Quantity  int    `yaml:"quantity"`
	OrderDate string `yaml:"orderDate"`
	Status    string `yaml:"status"`
}

// Result counts what Apply created.
type Result struct {
	Products  int
	Customers int
	Orders    int
}

func LoadFile(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed: read %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("seed: parse fixture: %w", err)
	}
	if err := f.check(); err != nil {
		return nil, err
	}
	return &f, nil
}

// check rejects duplicate keys and orders that point at unknown keys before
// anything is applied.
func (f *Fixture) check() error {
	products := make(map[string]bool, len(f.Products))
	for i, p := range f.Products {
		if p.Key == "" {
			return fmt.Errorf("seed: product %d has no key", i)
		}
		if products[p.Key] {
			return fmt.Errorf("seed: duplicate product key %q", p.Key)
		}
		products[p.Key] = true
	}

	customers := make(map[string]bool, len(f.Customers))
	for i, c := range f.Customers {
		if c.Key == "" {
			return fmt.Errorf("seed: customer %d has no key", i)
		}
		if customers[c.Key] {
			return fmt.Errorf("seed: duplicate customer key %q", c.Key)
		}
		customers[c.Key] = true
	}

	for i, o := range f.Orders {
		if !products[o.Product] {
			return fmt.Errorf("seed: order %d references unknown product %q", i, o.Product)
		}
		if !customers[o.Customer] {
			return fmt.Errorf("seed: order %d references unknown customer %q", i, o.Customer)
		}
		if o.OrderDate != "" {
			if _, err := time.Parse(domain.DateLayout, o.OrderDate); err != nil {
				return fmt.Errorf("seed: order %d: bad orderDate %q: %w", i, o.OrderDate, err)
			}
		}
	}
	return nil
}

// Apply creates products, then customers, then orders. It stops at the first
// rejected command; entities created before it are kept.
func (f *Fixture) Apply(ctx context.Context, retail ports.Retail) (Result, error) {
	var res Result
	productIDs := make(map[string]string, len(f.Products))
	customerIDs := make(map[string]string, len(f.Customers))

	for _, p := range f.Products {
		created, err := retail.CreateProduct(ctx, domain.ProductDraft{
			Name:          p.Name,
			Category:      p.Category,
			PurchasePrice: p.PurchasePrice,
			SellingPrice:  p.SellingPrice,
			Stock:         p.Stock,
			Description:   p.Description,
		})
		if err != nil {
			return res, fmt.Errorf("seed: product %q: %w", p.Key, err)
		}
		productIDs[p.Key] = created.ID
		res.Products++
	}

	for _, c := range f.Customers {
		created, err := retail.CreateCustomer(ctx, domain.CustomerDraft{
			Name:    c.Name,
			Email:   c.Email,
			Phone:   c.Phone,
			Address: c.Address,
		})
		if err != nil {
			return res, fmt.Errorf("seed: customer %q: %w", c.Key, err)
		}
		customerIDs[c.Key] = created.ID
		res.Customers++
	}

	for i, o := range f.Orders {
		cmd := domain.PlaceOrder{
			CustomerID: customerIDs[o.Customer],
			ProductID:  productIDs[o.Product],
			Quantity:   o.Quantity,
			Status:     domain.OrderStatus(o.Status),
		}
		if o.OrderDate != "" {
			// Already validated by check.
			cmd.OrderDate, _ = time.Parse(domain.DateLayout, o.OrderDate)
		}
		if _, err := retail.PlaceOrder(ctx, cmd); err != nil {
			return res, fmt.Errorf("seed: order %d: %w", i, err)
		}
		res.Orders++
	}
	return res, nil
}
