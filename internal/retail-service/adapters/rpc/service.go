package rpc

import (
	"context"

	"google.golang.org/grpc"

	"github.com/jcmexdev/retail-ledger/internal/retail-service/adapters/mappers"
)

const ServiceName = "retail.v1.Retail"

// RetailServer is the server API of the retail.v1.Retail service.
type RetailServer interface {
	CreateProduct(context.Context, *mappers.CreateProductRequest) (*mappers.Product, error)
	AdjustStock(context.Context, *mappers.AdjustStockRequest) (*mappers.Product, error)
	DeleteProduct(context.Context, *mappers.IDRequest) (*mappers.Empty, error)
	GetProduct(context.Context, *mappers.IDRequest) (*mappers.Product, error)
	ListProducts(context.Context, *mappers.Empty) (*mappers.ProductList, error)

	CreateCustomer(context.Context, *mappers.CreateCustomerRequest) (*mappers.Customer, error)
	DeleteCustomer(context.Context, *mappers.IDRequest) (*mappers.Empty, error)
	GetCustomer(context.Context, *mappers.IDRequest) (*mappers.Customer, error)
	ListCustomers(context.Context, *mappers.Empty) (*mappers.CustomerList, error)

	PlaceOrder(context.Context, *mappers.PlaceOrderRequest) (*mappers.Order, error)
	ChangeOrderStatus(context.Context, *mappers.ChangeStatusRequest) (*mappers.Order, error)
	DeleteOrder(context.Context, *mappers.IDRequest) (*mappers.Order, error)
	GetOrder(context.Context, *mappers.IDRequest) (*mappers.Order, error)
	ListOrders(context.Context, *mappers.Empty) (*mappers.OrderList, error)

	GetRevenue(context.Context, *mappers.Empty) (*mappers.Revenue, error)
	GetDashboard(context.Context, *mappers.Empty) (*mappers.Dashboard, error)
}

// ServiceDesc is registered with the JSON codec; clients must call with
// grpc.CallContentSubtype("json").
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RetailServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("CreateProduct", RetailServer.CreateProduct),
		unary("AdjustStock", RetailServer.AdjustStock),
		unary("DeleteProduct", RetailServer.DeleteProduct),
		unary("GetProduct", RetailServer.GetProduct),
		unary("ListProducts", RetailServer.ListProducts),
		unary("CreateCustomer", RetailServer.CreateCustomer),
		unary("DeleteCustomer", RetailServer.DeleteCustomer),
		unary("GetCustomer", RetailServer.GetCustomer),
		unary("ListCustomers", RetailServer.ListCustomers),
		unary("PlaceOrder", RetailServer.PlaceOrder),
		unary("ChangeOrderStatus", RetailServer.ChangeOrderStatus),
		unary("DeleteOrder", RetailServer.DeleteOrder),
		unary("GetOrder", RetailServer.GetOrder),
		unary("ListOrders", RetailServer.ListOrders),
		unary("GetRevenue", RetailServer.GetRevenue),
		unary("GetDashboard", RetailServer.GetDashboard),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "retail/v1/retail",
}

func RegisterRetailServer(s grpc.ServiceRegistrar, srv RetailServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

// unary builds the method handler protoc-gen-go-grpc would generate for one RPC.
func unary[Req, Resp any](name string, call func(RetailServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(RetailServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: fullMethod(name),
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(RetailServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}
