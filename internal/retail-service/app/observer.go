package app

import (
	"context"

	"github.com/jcmexdev/retail-ledger/internal/retail-service/revenue"
)

// Operation names recorded for every successful mutation.
const (
	OpProductCreated     = "product.created"
	OpStockAdjusted      = "product.stock_adjusted"
	OpProductDeleted     = "product.deleted"
	OpCustomerCreated    = "customer.created"
	OpCustomerDeleted    = "customer.deleted"
	OpOrderPlaced        = "order.placed"
	OpOrderStatusChanged = "order.status_changed"
	OpOrderDeleted       = "order.deleted"
)

// Mutation describes a command that has been applied. Entity holds the
// product, customer or order after the change, or as it was before a delete.
type Mutation struct {
	Operation string
	Kind      string
	EntityID  string
	Entity    any
	Revenue   revenue.Summary
}

// Observer is told about every applied mutation. Its errors are logged and
// never undo or fail the command.
type Observer interface {
	Observe(ctx context.Context, m Mutation) error
}

type ObserverFunc func(ctx context.Context, m Mutation) error

func (f ObserverFunc) Observe(ctx context.Context, m Mutation) error { return f(ctx, m) }
