// Package mappers defines the JSON messages exchanged over gRPC and HTTP and
// converts them to and from domain types.
package mappers

type Product struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	PurchasePrice float64 `json:"purchasePrice"`
	SellingPrice  float64 `json:"sellingPrice"`
	Stock         int     `json:"stock"`
	Description   string  `json:"description,omitempty"`
	StockLevel    string  `json:"stockLevel"`
}

type Customer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address,omitempty"`
}

type Order struct {
	ID           string  `json:"id"`
	CustomerID   string  `json:"customerId"`
	CustomerName string  `json:"customerName"`
	ProductID    string  `json:"productId"`
	ProductName  string  `json:"productName"`
	Quantity     int     `json:"quantity"`
	TotalPrice   float64 `json:"totalPrice"`
	OrderDate    string  `json:"orderDate"`
	Status       string  `json:"status"`
}

type Period struct {
	Year       int     `json:"year"`
	Month      int     `json:"month"`
	Label      string  `json:"label"`
	Revenue    float64 `json:"revenue"`
	OrderCount int     `json:"orderCount"`
}

type Revenue struct {
	Periods           []Period `json:"periods"`
	TotalRevenue      float64  `json:"totalRevenue"`
	CompletedOrders   int      `json:"completedOrders"`
	AverageOrderValue float64  `json:"averageOrderValue"`
}

type CategoryValue struct {
	Category string  `json:"category"`
	Value    float64 `json:"value"`
	Count    int     `json:"count"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type Dashboard struct {
	ProductCount   int             `json:"productCount"`
	CustomerCount  int             `json:"customerCount"`
	OrderCount     int             `json:"orderCount"`
	TotalStock     int             `json:"totalStock"`
	InventoryValue float64         `json:"inventoryValue"`
	ByCategory     []CategoryValue `json:"byCategory"`
	StatusCounts   []StatusCount   `json:"statusCounts"`
	LowStock       []Product       `json:"lowStock"`
	Revenue        Revenue         `json:"revenue"`
}

// --- Requests ---

type CreateProductRequest struct {
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	PurchasePrice float64 `json:"purchasePrice"`
	SellingPrice  float64 `json:"sellingPrice"`
	Stock         int     `json:"stock"`
	Description   string  `json:"description,omitempty"`
}

type AdjustStockRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Direction string `json:"direction"`
}

type CreateCustomerRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address,omitempty"`
}

// PlaceOrderRequest leaves OrderDate and Status empty to take the defaults:
// today and pending.
type PlaceOrderRequest struct {
	CustomerID string `json:"customerId"`
	ProductID  string `json:"productId"`
	Quantity   int    `json:"quantity"`
	OrderDate  string `json:"orderDate,omitempty"`
	Status     string `json:"status,omitempty"`
}

type ChangeStatusRequest struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

// IDRequest addresses a single product, customer or order.
type IDRequest struct {
	ID string `json:"id"`
}

type Empty struct{}

type ProductList struct {
	Products []Product `json:"products"`
}

type CustomerList struct {
	Customers []Customer `json:"customers"`
}

type OrderList struct {
	Orders []Order `json:"orders"`
}
