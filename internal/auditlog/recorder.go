package auditlog

import (
	"context"

	"github.com/jcmexdev/retail-ledger/internal/retail-service/app"
)

var _ app.Observer = (*Recorder)(nil)

// Recorder appends one entry per engine mutation.
type Recorder struct {
	repo Repository
}

func NewRecorder(repo Repository) *Recorder {
	return &Recorder{repo: repo}
}

func (r *Recorder) Observe(ctx context.Context, m app.Mutation) error {
	entry, err := NewEntry(ctx, m.Operation, m.Kind, m.EntityID, m.Entity)
	if err != nil {
		return err
	}
	return r.repo.Save(ctx, entry)
}
