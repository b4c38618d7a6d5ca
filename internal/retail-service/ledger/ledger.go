// Package ledger owns the order set and couples every order mutation to the
// product stock held by the catalog.
//
// Stock is reserved when an order is placed, whatever its initial status, and
// is only given back when a non-cancelled order is deleted. Changing an
// order's status never moves stock: a cancelled order keeps its quantity out
// of stock until it is deleted, and deleting it then does not restore it.
package ledger

import (
	"slices"
	"strings"
	"time"

	"github.com/jcmexdev/retail-ledger/internal/retail-service/domain"
)

// Stock is the subset of the catalog the ledger drives.
type Stock interface {
	Product(id string) (domain.Product, error)
	Reserve(id string, quantity int) (domain.Product, error)
	Release(id string, quantity int) (domain.Product, error)
}

type Customers interface {
	Customer(id string) (domain.Customer, error)
}

// ChangeFunc receives the full order set after every successful mutation.
type ChangeFunc func(orders []domain.Order)

type Option func(*Ledger)

// WithOnChange registers fn to run after each successful Place, ChangeStatus or Delete.
func WithOnChange(fn ChangeFunc) Option {
	return func(l *Ledger) { l.onChange = fn }
}

// WithClock overrides the clock used to date orders placed without a date.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

type Ledger struct {
	stock     Stock
	customers Customers
	orders    []*domain.Order
	ids       *domain.Sequence
	onChange  ChangeFunc
	now       func() time.Time
}

func New(stock Stock, customers Customers, opts ...Option) *Ledger {
	l := &Ledger{
		stock:     stock,
		customers: customers,
		ids:       domain.NewSequence(domain.OrderPrefix),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Place validates the command in full, reserves stock and appends the order.
// It returns the stored order and the product as it stands after reservation.
func (l *Ledger) Place(cmd domain.PlaceOrder) (domain.Order, domain.Product, error) {
	if cmd.Status == "" {
		cmd.Status = domain.StatusPending
	}
	if cmd.OrderDate.IsZero() {
		cmd.OrderDate = l.now()
	}

	fields := make(map[string]string)
	if strings.TrimSpace(cmd.CustomerID) == "" {
		fields["customerId"] = "customer is required"
	}
	if strings.TrimSpace(cmd.ProductID) == "" {
		fields["productId"] = "product is required"
	}
	if cmd.Quantity <= 0 {
		fields["quantity"] = "quantity must be greater than 0"
	}
	if !cmd.Status.Valid() {
		fields["status"] = "status must be pending, completed or cancelled"
	}
	if len(fields) > 0 {
		return domain.Order{}, domain.Product{}, &domain.ValidationError{Fields: fields}
	}

	customer, err := l.customers.Customer(cmd.CustomerID)
	if err != nil {
		return domain.Order{}, domain.Product{}, err
	}
	product, err := l.stock.Product(cmd.ProductID)
	if err != nil {
		return domain.Order{}, domain.Product{}, err
	}

	// Reserve is the last check and the first write.
	product, err = l.stock.Reserve(product.ID, cmd.Quantity)
	if err != nil {
		return domain.Order{}, domain.Product{}, err
	}

	order := &domain.Order{
		ID:           l.ids.Next(len(l.orders)),
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
		ProductID:    product.ID,
		ProductName:  product.Name,
		Quantity:     cmd.Quantity,
		TotalPrice:   product.SellingPrice * float64(cmd.Quantity),
		OrderDate:    domain.CivilDate(cmd.OrderDate),
		Status:       cmd.Status,
	}
	l.orders = append(l.orders, order)
	l.changed()

	return *order, product, nil
}

// ChangeStatus reassigns the status of an order. Every transition is allowed
// and stock is left untouched.
func (l *Ledger) ChangeStatus(id string, status domain.OrderStatus) (domain.Order, error) {
	if !status.Valid() {
		return domain.Order{}, domain.Invalid("status", "status must be pending, completed or cancelled")
	}
	i := l.indexOf(id)
	if i < 0 {
		return domain.Order{}, &domain.NotFoundError{Kind: domain.KindOrder, ID: id}
	}

	l.orders[i].Status = status
	l.changed()
	return *l.orders[i], nil
}

// Delete removes an order, releasing its reserved quantity back to stock
// unless the order was cancelled.
func (l *Ledger) Delete(id string) (domain.Order, error) {
	i := l.indexOf(id)
	if i < 0 {
		return domain.Order{}, &domain.NotFoundError{Kind: domain.KindOrder, ID: id}
	}
	order := *l.orders[i]

	if order.Status.HoldsReservation() {
		if _, err := l.stock.Release(order.ProductID, order.Quantity); err != nil {
			return domain.Order{}, err
		}
	}

	l.orders = slices.Delete(l.orders, i, i+1)
	l.changed()
	return order, nil
}

func (l *Ledger) Order(id string) (domain.Order, error) {
	i := l.indexOf(id)
	if i < 0 {
		return domain.Order{}, &domain.NotFoundError{Kind: domain.KindOrder, ID: id}
	}
	return *l.orders[i], nil
}

// Orders returns copies in placement order.
func (l *Ledger) Orders() []domain.Order {
	out := make([]domain.Order, len(l.orders))
	for i, o := range l.orders {
		out[i] = *o
	}
	return out
}

func (l *Ledger) ReferencesProduct(productID string) bool {
	return slices.ContainsFunc(l.orders, func(o *domain.Order) bool { return o.ProductID == productID })
}

func (l *Ledger) ReferencesCustomer(customerID string) bool {
	return slices.ContainsFunc(l.orders, func(o *domain.Order) bool { return o.CustomerID == customerID })
}

func (l *Ledger) indexOf(id string) int {
	return slices.IndexFunc(l.orders, func(o *domain.Order) bool { return o.ID == id })
}

func (l *Ledger) changed() {
	if l.onChange != nil {
		l.onChange(l.Orders())
	}
}
