package rpc

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/goleak"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/jcmexdev/retail-ledger/internal/pkg/cache"
	"github.com/jcmexdev/retail-ledger/internal/pkg/interceptors"
	"github.com/jcmexdev/retail-ledger/internal/pkg/interceptors/constants"
	"github.com/jcmexdev/retail-ledger/internal/retail-service/app"
	"github.com/jcmexdev/retail-ledger/internal/retail-service/domain"
)

const bufSize = 1024 * 1024

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type RetailRPCSuite struct {
	suite.Suite
	listener *bufconn.Listener
	server   *grpc.Server
	conn     *grpc.ClientConn
	engine   *app.Engine
	client   *Client
}

func (s *RetailRPCSuite) SetupTest() {
	s.listener = bufconn.Listen(bufSize)
	s.engine = app.NewEngine()

	s.server = grpc.NewServer(grpc.ChainUnaryInterceptor(interceptors.TraceServerInterceptor()))
	RegisterRetailServer(s.server, NewServer(s.engine, cache.NewMemoryCache("retail-service")))
	go func() { _ = s.server.Serve(s.listener) }()

	var err error
	s.conn, err = grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return s.listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithChainUnaryInterceptor(interceptors.PropagateClientInterceptor()),
	)
	s.Require().NoError(err)
	s.client = NewClient(s.conn)
}

func (s *RetailRPCSuite) TearDownTest() {
	if s.conn != nil {
		s.conn.Close()
	}
	if s.server != nil {
		s.server.Stop()
	}
	if s.listener != nil {
		s.listener.Close()
	}
}

func (s *RetailRPCSuite) ctx() context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	s.T().Cleanup(cancel)
	return ctx
}

func (s *RetailRPCSuite) seed() (domain.Product, domain.Customer) {
	p, err := s.client.CreateProduct(s.ctx(), domain.ProductDraft{
		Name: "Laptop", Category: "Electronics", PurchasePrice: 800, SellingPrice: 1000, Stock: 10,
	})
	s.Require().NoError(err)
	c, err := s.client.CreateCustomer(s.ctx(), domain.CustomerDraft{
		Name: "Ahmad Wijaya", Email: "ahmad@email.com", Phone: "081234567890",
	})
	s.Require().NoError(err)
	return p, c
}

func (s *RetailRPCSuite) TestOrderLifecycle() {
	p, c := s.seed()
	s.Equal("PRD-001", p.ID)
	s.Equal("CUST-001", c.ID)

	o, err := s.client.PlaceOrder(s.ctx(), domain.PlaceOrder{
		CustomerID: c.ID, ProductID: p.ID, Quantity: 3,
		OrderDate: time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC),
	})
	s.Require().NoError(err)
	s.Equal("ORD-001", o.ID)
	s.Equal(domain.StatusPending, o.Status)
	s.Equal(3000.0, o.TotalPrice)
	s.Equal("Ahmad Wijaya", o.CustomerName)

	got, err := s.client.GetProduct(s.ctx(), p.ID)
	s.Require().NoError(err)
	s.Equal(7, got.Stock)

	_, err = s.client.ChangeStatus(s.ctx(), o.ID, domain.StatusCompleted)
	s.Require().NoError(err)

	summary, err := s.client.Revenue(s.ctx())
	s.Require().NoError(err)
	period, ok := summary.Period(2024, time.February)
	s.Require().True(ok)
	s.Equal(3000.0, period.Revenue)
	s.Equal("February 2024", period.Label)

	deleted, err := s.client.DeleteOrder(s.ctx(), o.ID)
	s.Require().NoError(err)
	s.Equal(domain.StatusCompleted, deleted.Status)

	got, err = s.client.GetProduct(s.ctx(), p.ID)
	s.Require().NoError(err)
	s.Equal(10, got.Stock)

	orders, err := s.client.ListOrders(s.ctx())
	s.Require().NoError(err)
	s.Empty(orders)
}

func (s *RetailRPCSuite) TestValidationErrorKeepsFields() {
	_, err := s.client.CreateProduct(s.ctx(), domain.ProductDraft{Stock: -1})

	var verr *domain.ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Contains(verr.Fields, "name")
	s.Contains(verr.Fields, "sellingPrice")
	s.Contains(verr.Fields, "stock")
}

func (s *RetailRPCSuite) TestNotFound() {
	_, err := s.client.GetOrder(s.ctx(), "ORD-404")

	var nferr *domain.NotFoundError
	s.Require().ErrorAs(err, &nferr)
	s.Equal(domain.KindOrder, nferr.Kind)
	s.Equal("ORD-404", nferr.ID)
}

func (s *RetailRPCSuite) TestInsufficientStockCarriesAvailable() {
	p, c := s.seed()

	_, err := s.client.PlaceOrder(s.ctx(), domain.PlaceOrder{CustomerID: c.ID, ProductID: p.ID, Quantity: 11})

	var serr *domain.InsufficientStockError
	s.Require().ErrorAs(err, &serr)
	s.Equal(p.ID, serr.ProductID)
	s.Equal(11, serr.Requested)
	s.Equal(10, serr.Available)
}

func (s *RetailRPCSuite) TestReferencedDeleteIsRejected() {
	p, c := s.seed()
	_, err := s.client.PlaceOrder(s.ctx(), domain.PlaceOrder{CustomerID: c.ID, ProductID: p.ID, Quantity: 1})
	s.Require().NoError(err)

	s.ErrorIs(s.client.DeleteProduct(s.ctx(), p.ID), domain.ErrReferenced)
	s.ErrorIs(s.client.DeleteCustomer(s.ctx(), c.ID), domain.ErrReferenced)
}

func (s *RetailRPCSuite) TestBadOrderDateIsInvalidArgument() {
	var out any
	err := s.client.invoke(s.ctx(), "PlaceOrder", map[string]any{
		"customerId": "CUST-001", "productId": "PRD-001", "quantity": 1, "orderDate": "yesterday",
	}, &out)

	var verr *domain.ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Contains(verr.Fields, "orderDate")
}

func (s *RetailRPCSuite) TestPlaceOrderIsIdempotent() {
	p, c := s.seed()
	ctx := context.WithValue(s.ctx(), constants.ContextKeyIdempotencyKey, "checkout-42")
	cmd := domain.PlaceOrder{CustomerID: c.ID, ProductID: p.ID, Quantity: 2}

	first, err := s.client.PlaceOrder(ctx, cmd)
	s.Require().NoError(err)
	second, err := s.client.PlaceOrder(ctx, cmd)
	s.Require().NoError(err)

	s.Equal(first.ID, second.ID)
	got, err := s.client.GetProduct(s.ctx(), p.ID)
	s.Require().NoError(err)
	s.Equal(8, got.Stock, "the replay must not reserve stock again")

	_, err = s.client.DeleteOrder(s.ctx(), first.ID)
	s.Require().NoError(err)
	third, err := s.client.PlaceOrder(ctx, cmd)
	s.Require().NoError(err)
	s.NotEqual(first.ID, third.ID, "a deleted order is not replayed")
}

func (s *RetailRPCSuite) TestPlaceOrderWithoutKeyPlacesEveryCall() {
	p, c := s.seed()
	cmd := domain.PlaceOrder{CustomerID: c.ID, ProductID: p.ID, Quantity: 1}

	a, err := s.client.PlaceOrder(s.ctx(), cmd)
	s.Require().NoError(err)
	b, err := s.client.PlaceOrder(s.ctx(), cmd)
	s.Require().NoError(err)
	s.NotEqual(a.ID, b.ID)
}

func (s *RetailRPCSuite) TestDashboard() {
	p, c := s.seed()
	_, err := s.client.AdjustStock(s.ctx(), p.ID, 7, domain.StockSubtract)
	s.Require().NoError(err)
	_, err = s.client.PlaceOrder(s.ctx(), domain.PlaceOrder{
		CustomerID: c.ID, ProductID: p.ID, Quantity: 1, Status: domain.StatusCompleted,
	})
	s.Require().NoError(err)

	d, err := s.client.Dashboard(s.ctx())
	s.Require().NoError(err)
	s.Equal(1, d.ProductCount)
	s.Equal(2, d.TotalStock)
	s.Require().Len(d.LowStock, 1)
	s.Equal(domain.StockLow, d.LowStock[0].StockLevel())
	s.Equal(1000.0, d.Revenue.TotalRevenue)
	s.Equal([]app.CategoryValue{{Category: "Electronics", Value: 2000, Count: 1}}, d.ByCategory)
}

func TestRetailRPCSuite(t *testing.T) {
	suite.Run(t, new(RetailRPCSuite))
}

func TestToStatus_UnknownErrorIsInternal(t *testing.T) {
	err := ToStatus(errors.New("disk on fire"))
	assert.Equal(t, codes.Internal, status.Code(err))

	back := FromStatus(err)
	require.Error(t, back)
	assert.NotErrorIs(t, back, domain.ErrNotFound)
	assert.Contains(t, back.Error(), "disk on fire")
}

func TestToStatus_PassesStatusThrough(t *testing.T) {
	err := status.Error(codes.Unavailable, "down")
	assert.Same(t, err, ToStatus(err))
}

func TestFromStatus_InvalidArgumentWithoutDetails(t *testing.T) {
	err := FromStatus(status.Error(codes.InvalidArgument, "bad json"))

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "bad json", verr.Fields["request"])
}
