package mappers

import (
	"time"

	"github.com/jcmexdev/retail-ledger/internal/retail-service/app"
	"github.com/jcmexdev/retail-ledger/internal/retail-service/domain"
	"github.com/jcmexdev/retail-ledger/internal/retail-service/revenue"
)

func ProductDraftFromRequest(req *CreateProductRequest) domain.ProductDraft {
	return domain.ProductDraft{
		Name:          req.Name,
		Category:      req.Category,
		PurchasePrice: req.PurchasePrice,
		SellingPrice:  req.SellingPrice,
		Stock:         req.Stock,
		Description:   req.Description,
	}
}

func CustomerDraftFromRequest(req *CreateCustomerRequest) domain.CustomerDraft {
	return domain.CustomerDraft{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	}
}

// PlaceOrderFromRequest rejects a malformed order date here, since the domain
// only ever sees parsed dates.
func PlaceOrderFromRequest(req *PlaceOrderRequest) (domain.PlaceOrder, error) {
	cmd := domain.PlaceOrder{
		CustomerID: req.CustomerID,
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
		Status:     domain.OrderStatus(req.Status),
	}
	if req.OrderDate != "" {
		date, err := time.Parse(domain.DateLayout, req.OrderDate)
		if err != nil {
			return domain.PlaceOrder{}, domain.Invalid("orderDate", "order date must use the YYYY-MM-DD format")
		}
		cmd.OrderDate = date
	}
	return cmd, nil
}

func PlaceOrderToRequest(cmd domain.PlaceOrder) *PlaceOrderRequest {
	req := &PlaceOrderRequest{
		CustomerID: cmd.CustomerID,
		ProductID:  cmd.ProductID,
		Quantity:   cmd.Quantity,
		Status:     string(cmd.Status),
	}
	if !cmd.OrderDate.IsZero() {
		req.OrderDate = cmd.OrderDate.Format(domain.DateLayout)
	}
	return req
}

func ProductToMessage(p domain.Product) Product {
	return Product{
		ID:            p.ID,
		Name:          p.Name,
		Category:      p.Category,
		PurchasePrice: p.PurchasePrice,
		SellingPrice:  p.SellingPrice,
		Stock:         p.Stock,
		Description:   p.Description,
		StockLevel:    string(p.StockLevel()),
	}
}

func ProductFromMessage(m Product) domain.Product {
	return domain.Product{
		ID:            m.ID,
		Name:          m.Name,
		Category:      m.Category,
		PurchasePrice: m.PurchasePrice,
		SellingPrice:  m.SellingPrice,
		Stock:         m.Stock,
		Description:   m.Description,
	}
}

func ProductsToMessage(products []domain.Product) []Product {
	out := make([]Product, len(products))
	for i, p := range products {
		out[i] = ProductToMessage(p)
	}
	return out
}

func ProductsFromMessage(msgs []Product) []domain.Product {
	out := make([]domain.Product, len(msgs))
	for i, m := range msgs {
		out[i] = ProductFromMessage(m)
	}
	return out
}

func CustomerToMessage(c domain.Customer) Customer {
	return Customer{ID: c.ID, Name: c.Name, Email: c.Email, Phone: c.Phone, Address: c.Address}
}

func CustomerFromMessage(m Customer) domain.Customer {
	return domain.Customer{ID: m.ID, Name: m.Name, Email: m.Email, Phone: m.Phone, Address: m.Address}
}

func CustomersToMessage(customers []domain.Customer) []Customer {
	out := make([]Customer, len(customers))
	for i, c := range customers {
		out[i] = CustomerToMessage(c)
	}
	return out
}

func CustomersFromMessage(msgs []Customer) []domain.Customer {
	out := make([]domain.Customer, len(msgs))
	for i, m := range msgs {
		out[i] = CustomerFromMessage(m)
	}
	return out
}

func OrderToMessage(o domain.Order) Order {
	return Order{
		ID:           o.ID,
		CustomerID:   o.CustomerID,
		CustomerName: o.CustomerName,
		ProductID:    o.ProductID,
		ProductName:  o.ProductName,
		Quantity:     o.Quantity,
		TotalPrice:   o.TotalPrice,
		OrderDate:    o.OrderDate.Format(domain.DateLayout),
		Status:       string(o.Status),
	}
}

// OrderFromMessage leaves OrderDate zero when the date does not parse.
func OrderFromMessage(m Order) domain.Order {
	date, _ := time.Parse(domain.DateLayout, m.OrderDate)
	return domain.Order{
		ID:           m.ID,
		CustomerID:   m.CustomerID,
		CustomerName: m.CustomerName,
		ProductID:    m.ProductID,
		ProductName:  m.ProductName,
		Quantity:     m.Quantity,
		TotalPrice:   m.TotalPrice,
		OrderDate:    date,
		Status:       domain.OrderStatus(m.Status),
	}
}

func OrdersToMessage(orders []domain.Order) []Order {
	out := make([]Order, len(orders))
	for i, o := range orders {
		out[i] = OrderToMessage(o)
	}
	return out
}

func OrdersFromMessage(msgs []Order) []domain.Order {
	out := make([]domain.Order, len(msgs))
	for i, m := range msgs {
		out[i] = OrderFromMessage(m)
	}
	return out
}

func RevenueToMessage(s revenue.Summary) Revenue {
	periods := make([]Period, len(s.Periods))
	for i, p := range s.Periods {
		periods[i] = Period{
			Year:       p.Year,
			Month:      int(p.Month),
			Label:      p.Label,
			Revenue:    p.Revenue,
			OrderCount: p.OrderCount,
		}
	}
	return Revenue{
		Periods:           periods,
		TotalRevenue:      s.TotalRevenue,
		CompletedOrders:   s.CompletedOrders,
		AverageOrderValue: s.AverageOrderValue,
	}
}

func RevenueFromMessage(m Revenue) revenue.Summary {
	var periods []revenue.Period
	for _, p := range m.Periods {
		periods = append(periods, revenue.Period{
			Year:       p.Year,
			Month:      time.Month(p.Month),
			Label:      p.Label,
			Revenue:    p.Revenue,
			OrderCount: p.OrderCount,
		})
	}
	return revenue.Summary{
		Periods:           periods,
		TotalRevenue:      m.TotalRevenue,
		CompletedOrders:   m.CompletedOrders,
		AverageOrderValue: m.AverageOrderValue,
	}
}

func DashboardToMessage(d app.Dashboard) Dashboard {
	byCategory := make([]CategoryValue, len(d.ByCategory))
	for i, c := range d.ByCategory {
		byCategory[i] = CategoryValue{Category: c.Category, Value: c.Value, Count: c.Count}
	}
	counts := make([]StatusCount, len(d.StatusCounts))
	for i, c := range d.StatusCounts {
		counts[i] = StatusCount{Status: string(c.Status), Count: c.Count}
	}
	return Dashboard{
		ProductCount:   d.ProductCount,
		CustomerCount:  d.CustomerCount,
		OrderCount:     d.OrderCount,
		TotalStock:     d.TotalStock,
		InventoryValue: d.InventoryValue,
		ByCategory:     byCategory,
		StatusCounts:   counts,
		LowStock:       ProductsToMessage(d.LowStock),
		Revenue:        RevenueToMessage(d.Revenue),
	}
}

func DashboardFromMessage(m Dashboard) app.Dashboard {
	var byCategory []app.CategoryValue
	for _, c := range m.ByCategory {
		byCategory = append(byCategory, app.CategoryValue{Category: c.Category, Value: c.Value, Count: c.Count})
	}
	var counts []app.StatusCount
	for _, c := range m.StatusCounts {
		counts = append(counts, app.StatusCount{Status: domain.OrderStatus(c.Status), Count: c.Count})
	}
	var lowStock []domain.Product
	if len(m.LowStock) > 0 {
		lowStock = ProductsFromMessage(m.LowStock)
	}
	return app.Dashboard{
		ProductCount:   m.ProductCount,
		CustomerCount:  m.CustomerCount,
		OrderCount:     m.OrderCount,
		TotalStock:     m.TotalStock,
		InventoryValue: m.InventoryValue,
		ByCategory:     byCategory,
		StatusCounts:   counts,
		LowStock:       lowStock,
		Revenue:        RevenueFromMessage(m.Revenue),
	}
}
