package ports

import (
	"context"

	"github.com/jcmexdev/retail-ledger/internal/retail-service/app"
	"github.com/jcmexdev/retail-ledger/internal/retail-service/domain"
	"github.com/jcmexdev/retail-ledger/internal/retail-service/revenue"
)

// Retail is the command and query surface shared by the in-process engine and
// the gRPC client, so the HTTP layer can front either one.
type Retail interface {
	CreateProduct(ctx context.Context, draft domain.ProductDraft) (domain.Product, error)
	AdjustStock(ctx context.Context, productID string, quantity int, direction domain.StockDirection) (domain.Product, error)
	DeleteProduct(ctx context.Context, productID string) error
	GetProduct(ctx context.Context, productID string) (domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)

	CreateCustomer(ctx context.Context, draft domain.CustomerDraft) (domain.Customer, error)
	DeleteCustomer(ctx context.Context, customerID string) error
	GetCustomer(ctx context.Context, customerID string) (domain.Customer, error)
	ListCustomers(ctx context.Context) ([]domain.Customer, error)

	PlaceOrder(ctx context.Context, cmd domain.PlaceOrder) (domain.Order, error)
	ChangeStatus(ctx context.Context, orderID string, status domain.OrderStatus) (domain.Order, error)
	DeleteOrder(ctx context.Context, orderID string) (domain.Order, error)
	GetOrder(ctx context.Context, orderID string) (domain.Order, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)

	Revenue(ctx context.Context) (revenue.Summary, error)
	Dashboard(ctx context.Context) (app.Dashboard, error)
}

var _ Retail = (*app.Engine)(nil)
