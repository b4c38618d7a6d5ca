// Package directory owns the customer set.
package directory

import (
	"slices"

	"github.com/jcmexdev/retail-ledger/internal/retail-service/domain"
)

// References answers whether any order still points at a customer.
type References interface {
	ReferencesCustomer(customerID string) bool
}

type Directory struct {
	customers map[string]*domain.Customer
	order     []string
	ids       *domain.Sequence
}

func New() *Directory {
	return &Directory{
		customers: make(map[string]*domain.Customer),
		ids:       domain.NewSequence(domain.CustomerPrefix),
	}
}

func (d *Directory) Create(draft domain.CustomerDraft) (domain.Customer, error) {
	if err := draft.Validate(); err != nil {
		return domain.Customer{}, err
	}

	c := &domain.Customer{
		ID:      d.ids.Next(len(d.customers)),
		Name:    draft.Name,
		Email:   draft.Email,
		Phone:   draft.Phone,
		Address: draft.Address,
	}
	d.customers[c.ID] = c
	d.order = append(d.order, c.ID)
	return *c, nil
}

func (d *Directory) Customer(id string) (domain.Customer, error) {
	c, ok := d.customers[id]
	if !ok {
		return domain.Customer{}, &domain.NotFoundError{Kind: domain.KindCustomer, ID: id}
	}
	return *c, nil
}

func (d *Directory) Customers() []domain.Customer {
	out := make([]domain.Customer, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, *d.customers[id])
	}
	return out
}

func (d *Directory) Delete(id string, refs References) error {
	if _, ok := d.customers[id]; !ok {
		return &domain.NotFoundError{Kind: domain.KindCustomer, ID: id}
	}
	if refs != nil && refs.ReferencesCustomer(id) {
		return &domain.ReferentialIntegrityError{Kind: domain.KindCustomer, ID: id}
	}

	delete(d.customers, id)
	d.order = slices.DeleteFunc(d.order, func(v string) bool { return v == id })
	return nil
}
