package rpc

import (
	"context"

	"google.golang.org/grpc"

	"github.com/jcmexdev/retail-ledger/internal/retail-service/adapters/mappers"
	"github.com/jcmexdev/retail-ledger/internal/retail-service/app"
	"github.com/jcmexdev/retail-ledger/internal/retail-service/domain"
	"github.com/jcmexdev/retail-ledger/internal/retail-service/ports"
	"github.com/jcmexdev/retail-ledger/internal/retail-service/revenue"
)

// Client implements ports.Retail against a remote retail.v1.Retail service and
// turns status errors back into domain errors.
type Client struct {
	cc grpc.ClientConnInterface
}

var _ ports.Retail = (*Client)(nil)

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) invoke(ctx context.Context, method string, req, reply any) error {
	err := c.cc.Invoke(ctx, fullMethod(method), req, reply, grpc.CallContentSubtype(codecName))
	return FromStatus(err)
}

func (c *Client) CreateProduct(ctx context.Context, draft domain.ProductDraft) (domain.Product, error) {
	req := &mappers.CreateProductRequest{
		Name:          draft.Name,
		Category:      draft.Category,
		PurchasePrice: draft.PurchasePrice,
		SellingPrice:  draft.SellingPrice,
		Stock:         draft.Stock,
		Description:   draft.Description,
	}
	var out mappers.Product
	if err := c.invoke(ctx, "CreateProduct", req, &out); err != nil {
		return domain.Product{}, err
	}
	return mappers.ProductFromMessage(out), nil
}

func (c *Client) AdjustStock(ctx context.Context, productID string, quantity int, direction domain.StockDirection) (domain.Product, error) {
	req := &mappers.AdjustStockRequest{ProductID: productID, Quantity: quantity, Direction: string(direction)}
	var out mappers.Product
	if err := c.invoke(ctx, "AdjustStock", req, &out); err != nil {
		return domain.Product{}, err
	}
	return mappers.ProductFromMessage(out), nil
}

func (c *Client) DeleteProduct(ctx context.Context, productID string) error {
	return c.invoke(ctx, "DeleteProduct", &mappers.IDRequest{ID: productID}, &mappers.Empty{})
}

func (c *Client) GetProduct(ctx context.Context, productID string) (domain.Product, error) {
	var out mappers.Product
	if err := c.invoke(ctx, "GetProduct", &mappers.IDRequest{ID: productID}, &out); err != nil {
		return domain.Product{}, err
	}
	return mappers.ProductFromMessage(out), nil
}

func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var out mappers.ProductList
	if err := c.invoke(ctx, "ListProducts", &mappers.Empty{}, &out); err != nil {
		return nil, err
	}
	return mappers.ProductsFromMessage(out.Products), nil
}

func (c *Client) CreateCustomer(ctx context.Context, draft domain.CustomerDraft) (domain.Customer, error) {
	req := &mappers.CreateCustomerRequest{
		Name:    draft.Name,
		Email:   draft.Email,
		Phone:   draft.Phone,
		Address: draft.Address,
	}
	var out mappers.Customer
	if err := c.invoke(ctx, "CreateCustomer", req, &out); err != nil {
		return domain.Customer{}, err
	}
	return mappers.CustomerFromMessage(out), nil
}

func (c *Client) DeleteCustomer(ctx context.Context, customerID string) error {
	return c.invoke(ctx, "DeleteCustomer", &mappers.IDRequest{ID: customerID}, &mappers.Empty{})
}

func (c *Client) GetCustomer(ctx context.Context, customerID string) (domain.Customer, error) {
	var out mappers.Customer
	if err := c.invoke(ctx, "GetCustomer", &mappers.IDRequest{ID: customerID}, &out); err != nil {
		return domain.Customer{}, err
	}
	return mappers.CustomerFromMessage(out), nil
}

func (c *Client) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	var out mappers.CustomerList
	if err := c.invoke(ctx, "ListCustomers", &mappers.Empty{}, &out); err != nil {
		return nil, err
	}
	return mappers.CustomersFromMessage(out.Customers), nil
}

// PlaceOrder forwards the idempotency key through the context; see
// interceptors.PropagateClientInterceptor.
func (c *Client) PlaceOrder(ctx context.Context, cmd domain.PlaceOrder) (domain.Order, error) {
	var out mappers.Order
	if err := c.invoke(ctx, "PlaceOrder", mappers.PlaceOrderToRequest(cmd), &out); err != nil {
		return domain.Order{}, err
	}
	return mappers.OrderFromMessage(out), nil
}

func (c *Client) ChangeStatus(ctx context.Context, orderID string, status domain.OrderStatus) (domain.Order, error) {
	req := &mappers.ChangeStatusRequest{OrderID: orderID, Status: string(status)}
	var out mappers.Order
	if err := c.invoke(ctx, "ChangeOrderStatus", req, &out); err != nil {
		return domain.Order{}, err
	}
	return mappers.OrderFromMessage(out), nil
}

func (c *Client) DeleteOrder(ctx context.Context, orderID string) (domain.Order, error) {
	var out mappers.Order
	if err := c.invoke(ctx, "DeleteOrder", &mappers.IDRequest{ID: orderID}, &out); err != nil {
		return domain.Order{}, err
	}
	return mappers.OrderFromMessage(out), nil
}

func (c *Client) GetOrder(ctx context.Context, orderID string) (domain.Order, error) {
	var out mappers.Order
	if err := c.invoke(ctx, "GetOrder", &mappers.IDRequest{ID: orderID}, &out); err != nil {
		return domain.Order{}, err
	}
	return mappers.OrderFromMessage(out), nil
}

func (c *Client) ListOrders(ctx context.Context) ([]domain.Order, error) {
	var out mappers.OrderList
	if err := c.invoke(ctx, "ListOrders", &mappers.Empty{}, &out); err != nil {
		return nil, err
	}
	return mappers.OrdersFromMessage(out.Orders), nil
}

func (c *Client) Revenue(ctx context.Context) (revenue.Summary, error) {
	var out mappers.Revenue
	if err := c.invoke(ctx, "GetRevenue", &mappers.Empty{}, &out); err != nil {
		return revenue.Summary{}, err
	}
	return mappers.RevenueFromMessage(out), nil
}

func (c *Client) Dashboard(ctx context.Context) (app.Dashboard, error) {
	var out mappers.Dashboard
	if err := c.invoke(ctx, "GetDashboard", &mappers.Empty{}, &out); err != nil {
		return app.Dashboard{}, err
	}
	return mappers.DashboardFromMessage(out), nil
}
