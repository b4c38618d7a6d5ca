package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/retail-ledger/internal/auditlog"
	"github.com/jcmexdev/retail-ledger/internal/pkg/cache"
	"github.com/jcmexdev/retail-ledger/internal/retail-service/adapters/idempotency"
	"github.com/jcmexdev/retail-ledger/internal/retail-service/adapters/mappers"
	"github.com/jcmexdev/retail-ledger/internal/retail-service/adapters/publisher"
	"github.com/jcmexdev/retail-ledger/internal/retail-service/app"
	"github.com/jcmexdev/retail-ledger/internal/retail-service/ports"
	"github.com/jcmexdev/retail-ledger/internal/retail-service/revenue"
)

type fakeAudit struct {
	entries []auditlog.Entry
	err     error
}

func (f *fakeAudit) List(_ context.Context, entityID string) ([]auditlog.Entry, error) {
	var out []auditlog.Entry
	for _, e := range f.entries {
		if e.EntityID == entityID {
			out = append(out, e)
		}
	}
	return out, f.err
}

func newTestServer(t *testing.T, audit auditlog.Reader) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewRouter(NewHandler(app.NewEngine(), audit)))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func seedHTTP(t *testing.T, srv *httptest.Server) (mappers.Product, mappers.Customer) {
	t.Helper()
	resp := do(t, srv, http.MethodPost, "/products",
		`{"name":"MacBook Air M2","category":"PC & Laptop","purchasePrice":15000000,"sellingPrice":18000000,"stock":7}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	p := decode[mappers.Product](t, resp)

	resp = do(t, srv, http.MethodPost, "/customers",
		`{"name":"Ahmad Wijaya","email":"ahmad@email.com","phone":"081234567890"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return p, decode[mappers.Customer](t, resp)
}

func TestHandler_OrderFlow(t *testing.T) {
	srv := newTestServer(t, nil)
	p, c := seedHTTP(t, srv)
	assert.Equal(t, "PRD-001", p.ID)
	assert.Equal(t, "ok", p.StockLevel)

	resp := do(t, srv, http.MethodPost, "/orders",
		`{"customerId":"`+c.ID+`","productId":"`+p.ID+`","quantity":2,"orderDate":"2024-01-15"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	o := decode[mappers.Order](t, resp)
	assert.Equal(t, "ORD-001", o.ID)
	assert.Equal(t, "pending", o.Status)
	assert.Equal(t, 36000000.0, o.TotalPrice)

	resp = do(t, srv, http.MethodGet, "/products/"+p.ID, "")
	assert.Equal(t, 5, decode[mappers.Product](t, resp).Stock)

	resp = do(t, srv, http.MethodPatch, "/orders/"+o.ID+"/status", `{"status":"completed"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/revenue", "")
	rev := decode[mappers.Revenue](t, resp)
	require.Len(t, rev.Periods, 1)
	assert.Equal(t, "January 2024", rev.Periods[0].Label)
	assert.Equal(t, 36000000.0, rev.TotalRevenue)

	resp = do(t, srv, http.MethodDelete, "/orders/"+o.ID, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "completed", decode[mappers.Order](t, resp).Status)

	resp = do(t, srv, http.MethodGet, "/products/"+p.ID, "")
	assert.Equal(t, 7, decode[mappers.Product](t, resp).Stock)
}

func TestHandler_ErrorMapping(t *testing.T) {
	srv := newTestServer(t, nil)
	p, c := seedHTTP(t, srv)

	t.Run("validation", func(t *testing.T) {
		resp := do(t, srv, http.MethodPost, "/customers", `{"name":"","email":"not-an-email"}`)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decode[ErrorResponse](t, resp)
		assert.Equal(t, "validation_failed", body.Error)
		assert.Contains(t, body.Fields, "name")
		assert.Contains(t, body.Fields, "email")
		assert.Contains(t, body.Fields, "phone")
	})

	t.Run("invalid json", func(t *testing.T) {
		resp := do(t, srv, http.MethodPost, "/products", `{`)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "invalid_json", decode[ErrorResponse](t, resp).Error)
	})

	t.Run("bad order date", func(t *testing.T) {
		resp := do(t, srv, http.MethodPost, "/orders",
			`{"customerId":"`+c.ID+`","productId":"`+p.ID+`","quantity":1,"orderDate":"15-01-2024"}`)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, decode[ErrorResponse](t, resp).Fields, "orderDate")
	})

	t.Run("not found", func(t *testing.T) {
		resp := do(t, srv, http.MethodGet, "/customers/CUST-404", "")
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "not_found", decode[ErrorResponse](t, resp).Error)
	})

	t.Run("insufficient stock", func(t *testing.T) {
		resp := do(t, srv, http.MethodPost, "/orders",
			`{"customerId":"`+c.ID+`","productId":"`+p.ID+`","quantity":8}`)
		require.Equal(t, http.StatusConflict, resp.StatusCode)
		body := decode[ErrorResponse](t, resp)
		assert.Equal(t, "insufficient_stock", body.Error)
		require.NotNil(t, body.Available)
		assert.Equal(t, 7, *body.Available)
	})

	t.Run("referenced", func(t *testing.T) {
		resp := do(t, srv, http.MethodPost, "/orders",
			`{"customerId":"`+c.ID+`","productId":"`+p.ID+`","quantity":1}`)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		resp = do(t, srv, http.MethodDelete, "/products/"+p.ID, "")
		require.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "referenced", decode[ErrorResponse](t, resp).Error)
	})
}

func TestHandler_AdjustStockAndDashboard(t *testing.T) {
	srv := newTestServer(t, nil)
	p, _ := seedHTTP(t, srv)

	resp := do(t, srv, http.MethodPost, "/products/"+p.ID+"/stock", `{"quantity":5,"direction":"subtract"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	adjusted := decode[mappers.Product](t, resp)
	assert.Equal(t, 2, adjusted.Stock)
	assert.Equal(t, "low", adjusted.StockLevel)

	resp = do(t, srv, http.MethodPost, "/products/"+p.ID+"/stock", `{"quantity":1,"direction":"sideways"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/dashboard", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	d := decode[mappers.Dashboard](t, resp)
	assert.Equal(t, 2, d.TotalStock)
	assert.Equal(t, 36000000.0, d.InventoryValue)
	require.Len(t, d.LowStock, 1)
	assert.Len(t, d.StatusCounts, 3)
	assert.Equal(t, []mappers.CategoryValue{{Category: "PC & Laptop", Value: 36000000, Count: 1}}, d.ByCategory)
}

func TestHandler_DeleteCustomer(t *testing.T) {
	srv := newTestServer(t, nil)
	_, c := seedHTTP(t, srv)

	resp := do(t, srv, http.MethodDelete, "/customers/"+c.ID, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/customers", "")
	assert.Empty(t, decode[[]mappers.Customer](t, resp))
}

func TestHandler_AuditTrail(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		srv := newTestServer(t, nil)
		resp := do(t, srv, http.MethodGet, "/audit/ORD-001", "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("lists entries", func(t *testing.T) {
		srv := newTestServer(t, &fakeAudit{entries: []auditlog.Entry{{
			EventID: "e-1", Operation: app.OpOrderPlaced, EntityKind: "order", EntityID: "ORD-001",
			Detail: `{"ID":"ORD-001"}`, RecordedAt: time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC),
		}}})
		resp := do(t, srv, http.MethodGet, "/audit/ORD-001", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		entries := decode[[]AuditEntryResponse](t, resp)
		require.Len(t, entries, 1)
		assert.Equal(t, app.OpOrderPlaced, entries[0].Operation)
		assert.JSONEq(t, `{"ID":"ORD-001"}`, string(entries[0].Detail))
	})

	t.Run("reader failure", func(t *testing.T) {
		srv := newTestServer(t, &fakeAudit{err: errors.New("database is locked")})
		resp := do(t, srv, http.MethodGet, "/audit/ORD-001", "")
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}

func TestHandler_EchoesRequestID(t *testing.T) {
	srv := newTestServer(t, nil)
	resp := do(t, srv, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}

func TestHandler_PlaceOrderReplaysIdempotencyKey(t *testing.T) {
	retail := idempotency.Wrap(app.NewEngine(), cache.NewMemoryCache("retail"))
	srv := httptest.NewServer(NewRouter(NewHandler(retail, nil)))
	t.Cleanup(srv.Close)
	p, c := seedHTTP(t, srv)

	place := func() mappers.Order {
		req, err := http.NewRequest(http.MethodPost, srv.URL+"/orders", strings.NewReader(
			`{"customerId":"`+c.ID+`","productId":"`+p.ID+`","quantity":2,"orderDate":"2024-01-15"}`))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Idempotency-Key", "checkout-7")
		resp, err := srv.Client().Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		return decode[mappers.Order](t, resp)
	}

	first := place()
	second := place()
	assert.Equal(t, first.ID, second.ID)

	resp := do(t, srv, http.MethodGet, "/products/"+p.ID, "")
	assert.Equal(t, 5, decode[mappers.Product](t, resp).Stock)
	resp = do(t, srv, http.MethodGet, "/orders", "")
	assert.Len(t, decode[[]mappers.Order](t, resp), 1)
}

type unreachableRetail struct {
	ports.Retail
}

func (unreachableRetail) Revenue(context.Context) (revenue.Summary, error) {
	return revenue.Summary{}, errors.New("connection refused")
}

func TestHandler_RevenueFallsBackToCache(t *testing.T) {
	ctx := context.Background()
	pub := publisher.NewRevenuePublisher(cache.NewMemoryCache("retail"))

	srv := httptest.NewServer(NewRouter(NewHandler(unreachableRetail{}, nil, WithRevenueCache(pub))))
	t.Cleanup(srv.Close)

	resp := do(t, srv, http.MethodGet, "/revenue", "")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode, "nothing published yet")

	require.NoError(t, pub.Publish(ctx, revenue.Summary{TotalRevenue: 1500, CompletedOrders: 1, AverageOrderValue: 1500}))

	resp = do(t, srv, http.MethodGet, "/revenue", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "cache", resp.Header.Get(HeaderRevenueSource))
	got := decode[mappers.Revenue](t, resp)
	assert.Equal(t, 1500.0, got.TotalRevenue)
	assert.Equal(t, 1, got.CompletedOrders)
}

func TestHandler_RevenuePrefersLiveSummary(t *testing.T) {
	pub := publisher.NewRevenuePublisher(cache.NewMemoryCache("retail"))
	require.NoError(t, pub.Publish(context.Background(), revenue.Summary{TotalRevenue: 1}))

	srv := httptest.NewServer(NewRouter(NewHandler(app.NewEngine(), nil, WithRevenueCache(pub))))
	t.Cleanup(srv.Close)

	resp := do(t, srv, http.MethodGet, "/revenue", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get(HeaderRevenueSource))
	assert.Zero(t, decode[mappers.Revenue](t, resp).TotalRevenue)
}
