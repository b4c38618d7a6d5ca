package app

import (
	"github.com/jcmexdev/retail-ledger/internal/retail-service/domain"
	"github.com/jcmexdev/retail-ledger/internal/retail-service/revenue"
)

// CategoryValue is the inventory value and number of products in one category.
type CategoryValue struct {
	Category string
	Value    float64
	Count    int
}

type StatusCount struct {
	Status domain.OrderStatus
	Count  int
}

// Dashboard aggregates the headline numbers of the shop.
type Dashboard struct {
	ProductCount   int
	CustomerCount  int
	OrderCount     int
	TotalStock     int
	InventoryValue float64
	// ByCategory lists inventory value per category in first-seen order.
	ByCategory   []CategoryValue
	StatusCounts []StatusCount
	LowStock     []domain.Product
	Revenue      revenue.Summary
}

func BuildDashboard(s Snapshot) Dashboard {
	d := Dashboard{
		ProductCount:  len(s.Products),
		CustomerCount: len(s.Customers),
		OrderCount:    len(s.Orders),
		Revenue:       s.Revenue,
	}

	categories := make(map[string]int)
	for _, p := range s.Products {
		d.TotalStock += p.Stock
		d.InventoryValue += p.InventoryValue()

		i, ok := categories[p.Category]
		if !ok {
			i = len(d.ByCategory)
			categories[p.Category] = i
			d.ByCategory = append(d.ByCategory, CategoryValue{Category: p.Category})
		}
		d.ByCategory[i].Value += p.InventoryValue()
		d.ByCategory[i].Count++

		if p.StockLevel() != domain.StockOK {
			d.LowStock = append(d.LowStock, p)
		}
	}

	counts := make(map[domain.OrderStatus]int)
	for _, o := range s.Orders {
		counts[o.Status]++
	}
	for _, st := range domain.OrderStatuses {
		d.StatusCounts = append(d.StatusCounts, StatusCount{Status: st, Count: counts[st]})
	}
	return d
}
