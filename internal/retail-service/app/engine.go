package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/retail-ledger/internal/retail-service/catalog"
	"github.com/jcmexdev/retail-ledger/internal/retail-service/directory"
	"github.com/jcmexdev/retail-ledger/internal/retail-service/domain"
	"github.com/jcmexdev/retail-ledger/internal/retail-service/ledger"
	"github.com/jcmexdev/retail-ledger/internal/retail-service/revenue"
)

const tracerName = "github.com/jcmexdev/retail-ledger/internal/retail-service/app"

type Option func(*Engine)

func WithObservers(observers ...Observer) Option {
	return func(e *Engine) { e.observers = append(e.observers, observers...) }
}

func WithLabel(label revenue.LabelFunc) Option {
	return func(e *Engine) { e.label = label }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// Engine applies retail commands against the catalog, directory and ledger.
// One mutex serialises every call, so each command is applied in full or not
// at all with respect to every other caller.
type Engine struct {
	mu        sync.Mutex
	catalog   *catalog.Catalog
	directory *directory.Directory
	ledger    *ledger.Ledger
	summary   revenue.Summary

	observers []Observer
	label     revenue.LabelFunc
	now       func() time.Time
	tracer    trace.Tracer
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		catalog:   catalog.New(),
		directory: directory.New(),
		label:     revenue.DefaultLabel,
		now:       time.Now,
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.ledger = ledger.New(e.catalog, e.directory,
		ledger.WithClock(e.now),
		ledger.WithOnChange(func(orders []domain.Order) {
			e.summary = revenue.SummarizeWith(orders, e.label)
		}),
	)
	e.summary = revenue.SummarizeWith(nil, e.label)
	return e
}

// --- Commands ---

func (e *Engine) CreateProduct(ctx context.Context, draft domain.ProductDraft) (domain.Product, error) {
	ctx, span := e.tracer.Start(ctx, "Engine.CreateProduct")
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.catalog.Create(draft)
	if err != nil {
		return domain.Product{}, endSpan(span, err)
	}
	span.SetAttributes(attribute.String("product.id", p.ID))

	slog.InfoContext(ctx, "product created", "product_id", p.ID, "stock", p.Stock)
	e.notify(ctx, Mutation{Operation: OpProductCreated, Kind: domain.KindProduct, EntityID: p.ID, Entity: p})
	return p, endSpan(span, nil)
}

func (e *Engine) AdjustStock(ctx context.Context, productID string, quantity int, direction domain.StockDirection) (domain.Product, error) {
	ctx, span := e.tracer.Start(ctx, "Engine.AdjustStock", trace.WithAttributes(
		attribute.String("product.id", productID),
		attribute.Int("quantity", quantity),
		attribute.String("direction", string(direction)),
	))
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.catalog.Adjust(productID, quantity, direction)
	if err != nil {
		return domain.Product{}, endSpan(span, err)
	}

	slog.InfoContext(ctx, "stock adjusted",
		"product_id", p.ID, "direction", direction, "quantity", quantity, "stock", p.Stock)
	e.notify(ctx, Mutation{Operation: OpStockAdjusted, Kind: domain.KindProduct, EntityID: p.ID, Entity: p})
	return p, endSpan(span, nil)
}

func (e *Engine) DeleteProduct(ctx context.Context, productID string) error {
	ctx, span := e.tracer.Start(ctx, "Engine.DeleteProduct",
		trace.WithAttributes(attribute.String("product.id", productID)))
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.catalog.Product(productID)
	if err != nil {
		return endSpan(span, err)
	}
	if err := e.catalog.Delete(productID, e.ledger); err != nil {
		return endSpan(span, err)
	}

	slog.InfoContext(ctx, "product deleted", "product_id", productID)
	e.notify(ctx, Mutation{Operation: OpProductDeleted, Kind: domain.KindProduct, EntityID: productID, Entity: p})
	return endSpan(span, nil)
}

func (e *Engine) CreateCustomer(ctx context.Context, draft domain.CustomerDraft) (domain.Customer, error) {
	ctx, span := e.tracer.Start(ctx, "Engine.CreateCustomer")
	e.mu.Lock()
	defer e.mu.Unlock()

	c, err := e.directory.Create(draft)
	if err != nil {
		return domain.Customer{}, endSpan(span, err)
	}
	span.SetAttributes(attribute.String("customer.id", c.ID))

	slog.InfoContext(ctx, "customer created", "customer_id", c.ID)
	e.notify(ctx, Mutation{Operation: OpCustomerCreated, Kind: domain.KindCustomer, EntityID: c.ID, Entity: c})
	return c, endSpan(span, nil)
}

func (e *Engine) DeleteCustomer(ctx context.Context, customerID string) error {
	ctx, span := e.tracer.Start(ctx, "Engine.DeleteCustomer",
		trace.WithAttributes(attribute.String("customer.id", customerID)))
	e.mu.Lock()
	defer e.mu.Unlock()

	c, err := e.directory.Customer(customerID)
	if err != nil {
		return endSpan(span, err)
	}
	if err := e.directory.Delete(customerID, e.ledger); err != nil {
		return endSpan(span, err)
	}

	slog.InfoContext(ctx, "customer deleted", "customer_id", customerID)
	e.notify(ctx, Mutation{Operation: OpCustomerDeleted, Kind: domain.KindCustomer, EntityID: customerID, Entity: c})
	return endSpan(span, nil)
}

// PlaceOrder reserves stock for the order immediately, whatever its initial status.
func (e *Engine) PlaceOrder(ctx context.Context, cmd domain.PlaceOrder) (domain.Order, error) {
	ctx, span := e.tracer.Start(ctx, "Engine.PlaceOrder", trace.WithAttributes(
		attribute.String("customer.id", cmd.CustomerID),
		attribute.String("product.id", cmd.ProductID),
		attribute.Int("quantity", cmd.Quantity),
	))
	e.mu.Lock()
	defer e.mu.Unlock()

	o, p, err := e.ledger.Place(cmd)
	if err != nil {
		return domain.Order{}, endSpan(span, err)
	}
	span.SetAttributes(attribute.String("order.id", o.ID))

	slog.InfoContext(ctx, "order placed",
		"order_id", o.ID, "product_id", p.ID, "quantity", o.Quantity, "stock", p.Stock, "status", o.Status)
	e.notify(ctx, Mutation{Operation: OpOrderPlaced, Kind: domain.KindOrder, EntityID: o.ID, Entity: o})
	return o, endSpan(span, nil)
}

// ChangeStatus never moves stock. Cancelling an order keeps its reservation
// until the order is deleted.
func (e *Engine) ChangeStatus(ctx context.Context, orderID string, status domain.OrderStatus) (domain.Order, error) {
	ctx, span := e.tracer.Start(ctx, "Engine.ChangeStatus", trace.WithAttributes(
		attribute.String("order.id", orderID),
		attribute.String("status", string(status)),
	))
	e.mu.Lock()
	defer e.mu.Unlock()

	o, err := e.ledger.ChangeStatus(orderID, status)
	if err != nil {
		return domain.Order{}, endSpan(span, err)
	}

	slog.InfoContext(ctx, "order status changed", "order_id", o.ID, "status", o.Status)
	e.notify(ctx, Mutation{Operation: OpOrderStatusChanged, Kind: domain.KindOrder, EntityID: o.ID, Entity: o})
	return o, endSpan(span, nil)
}

// DeleteOrder removes the order and returns it as it was. Stock is restored
// unless the order was cancelled.
func (e *Engine) DeleteOrder(ctx context.Context, orderID string) (domain.Order, error) {
	ctx, span := e.tracer.Start(ctx, "Engine.DeleteOrder",
		trace.WithAttributes(attribute.String("order.id", orderID)))
	e.mu.Lock()
	defer e.mu.Unlock()

	o, err := e.ledger.Delete(orderID)
	if err != nil {
		return domain.Order{}, endSpan(span, err)
	}

	slog.InfoContext(ctx, "order deleted",
		"order_id", o.ID, "status", o.Status, "stock_restored", o.Status.HoldsReservation())
	e.notify(ctx, Mutation{Operation: OpOrderDeleted, Kind: domain.KindOrder, EntityID: o.ID, Entity: o})
	return o, endSpan(span, nil)
}

// --- Queries ---

func (e *Engine) GetProduct(_ context.Context, id string) (domain.Product, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.catalog.Product(id)
}

func (e *Engine) ListProducts(_ context.Context) ([]domain.Product, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.catalog.Products(), nil
}

func (e *Engine) GetCustomer(_ context.Context, id string) (domain.Customer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.directory.Customer(id)
}

func (e *Engine) ListCustomers(_ context.Context) ([]domain.Customer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.directory.Customers(), nil
}

func (e *Engine) GetOrder(_ context.Context, id string) (domain.Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Order(id)
}

func (e *Engine) ListOrders(_ context.Context) ([]domain.Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Orders(), nil
}

// Revenue returns the summary computed after the latest order mutation.
func (e *Engine) Revenue(_ context.Context) (revenue.Summary, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.summary.Clone(), nil
}

// Snapshot is a consistent view of the whole engine taken under one lock.
type Snapshot struct {
	Products  []domain.Product
	Customers []domain.Customer
	Orders    []domain.Order
	Revenue   revenue.Summary
}

func (e *Engine) Dashboard(_ context.Context) (Dashboard, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return BuildDashboard(e.snapshot()), nil
}

func (e *Engine) snapshot() Snapshot {
	return Snapshot{
		Products:  e.catalog.Products(),
		Customers: e.directory.Customers(),
		Orders:    e.ledger.Orders(),
		Revenue:   e.summary.Clone(),
	}
}

// notify runs with e.mu held so observers see mutations in the order they were applied.
func (e *Engine) notify(ctx context.Context, m Mutation) {
	m.Revenue = e.summary.Clone()
	for _, obs := range e.observers {
		if err := obs.Observe(ctx, m); err != nil {
			slog.ErrorContext(ctx, "mutation observer failed",
				"operation", m.Operation, "entity_id", m.EntityID, "error", err)
		}
	}
}

func endSpan(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
	}
	span.End()
	return err
}
