package auditlog

import "context"

// Repository is the port for persisting audit entries. Save always appends.
type Repository interface {
	Save(ctx context.Context, entry *Entry) error
}

// Reader lists the history of a single entity, oldest first.
type Reader interface {
	List(ctx context.Context, entityID string) ([]Entry, error)
}
