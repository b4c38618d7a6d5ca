package rpc

import (
	"context"

	"github.com/jcmexdev/retail-ledger/internal/pkg/cache"
	"github.com/jcmexdev/retail-ledger/internal/retail-service/adapters/idempotency"
	"github.com/jcmexdev/retail-ledger/internal/retail-service/adapters/mappers"
	"github.com/jcmexdev/retail-ledger/internal/retail-service/domain"
	"github.com/jcmexdev/retail-ledger/internal/retail-service/ports"
)

var _ RetailServer = (*Server)(nil)

// Server exposes a ports.Retail over gRPC. With a cache configured,
// PlaceOrder calls carrying an idempotency key are placed at most once.
type Server struct {
	retail ports.Retail
}

// NewServer accepts a nil cache, which turns idempotency off.
func NewServer(retail ports.Retail, c cache.Cache) *Server {
	return &Server{retail: idempotency.Wrap(retail, c)}
}

func (s *Server) CreateProduct(ctx context.Context, req *mappers.CreateProductRequest) (*mappers.Product, error) {
	p, err := s.retail.CreateProduct(ctx, mappers.ProductDraftFromRequest(req))
	if err != nil {
		return nil, ToStatus(err)
	}
	msg := mappers.ProductToMessage(p)
	return &msg, nil
}

func (s *Server) AdjustStock(ctx context.Context, req *mappers.AdjustStockRequest) (*mappers.Product, error) {
	p, err := s.retail.AdjustStock(ctx, req.ProductID, req.Quantity, domain.StockDirection(req.Direction))
	if err != nil {
		return nil, ToStatus(err)
	}
	msg := mappers.ProductToMessage(p)
	return &msg, nil
}

func (s *Server) DeleteProduct(ctx context.Context, req *mappers.IDRequest) (*mappers.Empty, error) {
	if err := s.retail.DeleteProduct(ctx, req.ID); err != nil {
		return nil, ToStatus(err)
	}
	return &mappers.Empty{}, nil
}

func (s *Server) GetProduct(ctx context.Context, req *mappers.IDRequest) (*mappers.Product, error) {
	p, err := s.retail.GetProduct(ctx, req.ID)
	if err != nil {
		return nil, ToStatus(err)
	}
	msg := mappers.ProductToMessage(p)
	return &msg, nil
}

func (s *Server) ListProducts(ctx context.Context, _ *mappers.Empty) (*mappers.ProductList, error) {
	products, err := s.retail.ListProducts(ctx)
	if err != nil {
		return nil, ToStatus(err)
	}
	return &mappers.ProductList{Products: mappers.ProductsToMessage(products)}, nil
}

func (s *Server) CreateCustomer(ctx context.Context, req *mappers.CreateCustomerRequest) (*mappers.Customer, error) {
	c, err := s.retail.CreateCustomer(ctx, mappers.CustomerDraftFromRequest(req))
	if err != nil {
		return nil, ToStatus(err)
	}
	msg := mappers.CustomerToMessage(c)
	return &msg, nil
}

func (s *Server) DeleteCustomer(ctx context.Context, req *mappers.IDRequest) (*mappers.Empty, error) {
	if err := s.retail.DeleteCustomer(ctx, req.ID); err != nil {
		return nil, ToStatus(err)
	}
	return &mappers.Empty{}, nil
}

func (s *Server) GetCustomer(ctx context.Context, req *mappers.IDRequest) (*mappers.Customer, error) {
	c, err := s.retail.GetCustomer(ctx, req.ID)
	if err != nil {
		return nil, ToStatus(err)
	}
	msg := mappers.CustomerToMessage(c)
	return &msg, nil
}

func (s *Server) ListCustomers(ctx context.Context, _ *mappers.Empty) (*mappers.CustomerList, error) {
	customers, err := s.retail.ListCustomers(ctx)
	if err != nil {
		return nil, ToStatus(err)
	}
	return &mappers.CustomerList{Customers: mappers.CustomersToMessage(customers)}, nil
}

func (s *Server) PlaceOrder(ctx context.Context, req *mappers.PlaceOrderRequest) (*mappers.Order, error) {
	cmd, err := mappers.PlaceOrderFromRequest(req)
	if err != nil {
		return nil, ToStatus(err)
	}
	o, err := s.retail.PlaceOrder(ctx, cmd)
	if err != nil {
		return nil, ToStatus(err)
	}
	msg := mappers.OrderToMessage(o)
	return &msg, nil
}

func (s *Server) ChangeOrderStatus(ctx context.Context, req *mappers.ChangeStatusRequest) (*mappers.Order, error) {
	o, err := s.retail.ChangeStatus(ctx, req.OrderID, domain.OrderStatus(req.Status))
	if err != nil {
		return nil, ToStatus(err)
	}
	msg := mappers.OrderToMessage(o)
	return &msg, nil
}

func (s *Server) DeleteOrder(ctx context.Context, req *mappers.IDRequest) (*mappers.Order, error) {
	o, err := s.retail.DeleteOrder(ctx, req.ID)
	if err != nil {
		return nil, ToStatus(err)
	}
	msg := mappers.OrderToMessage(o)
	return &msg, nil
}

func (s *Server) GetOrder(ctx context.Context, req *mappers.IDRequest) (*mappers.Order, error) {
	o, err := s.retail.GetOrder(ctx, req.ID)
	if err != nil {
		return nil, ToStatus(err)
	}
	msg := mappers.OrderToMessage(o)
	return &msg, nil
}

func (s *Server) ListOrders(ctx context.Context, _ *mappers.Empty) (*mappers.OrderList, error) {
	orders, err := s.retail.ListOrders(ctx)
	if err != nil {
		return nil, ToStatus(err)
	}
	return &mappers.OrderList{Orders: mappers.OrdersToMessage(orders)}, nil
}

func (s *Server) GetRevenue(ctx context.Context, _ *mappers.Empty) (*mappers.Revenue, error) {
	summary, err := s.retail.Revenue(ctx)
	if err != nil {
		return nil, ToStatus(err)
	}
	msg := mappers.RevenueToMessage(summary)
	return &msg, nil
}

func (s *Server) GetDashboard(ctx context.Context, _ *mappers.Empty) (*mappers.Dashboard, error) {
	d, err := s.retail.Dashboard(ctx)
	if err != nil {
		return nil, ToStatus(err)
	}
	msg := mappers.DashboardToMessage(d)
	return &msg, nil
}
