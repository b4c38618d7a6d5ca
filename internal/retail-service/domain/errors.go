package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinels matched by the typed errors below through errors.Is.
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrReferenced        = errors.New("still referenced")
)

// Entity kinds used in NotFoundError and ReferentialIntegrityError.
const (
	KindProduct  = "product"
	KindCustomer = "customer"
	KindOrder    = "order"
)

// ValidationError maps each violated field to the reason it was rejected.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ": " + e.Fields[name]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Invalid builds a ValidationError for a single field.
func Invalid(field, reason string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: reason}}
}

type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// ReferentialIntegrityError blocks a delete while orders still point at the entity.
type ReferentialIntegrityError struct {
	Kind string
	ID   string
}

func (e *ReferentialIntegrityError) Error() string {
	return fmt.Sprintf("%s %s is still referenced by orders", e.Kind, e.ID)
}

func (e *ReferentialIntegrityError) Is(target error) bool { return target == ErrReferenced }
