// Package sqlite provides a SQLite-backed implementation of auditlog.Repository.
//
// WAL mode is enabled on Open so that readers never block the writer: the
// engine appends while HTTP handlers may be listing an entity's history.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jcmexdev/retail-ledger/internal/auditlog"

	// Pure-Go SQLite driver, no CGO needed.
	_ "modernc.org/sqlite"
)

// schema is the DDL executed once on startup. The table is append-only.
const schema = `
CREATE TABLE IF NOT EXISTS audit_log (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,

    -- UUID assigned when the entry was built.
    event_id     TEXT NOT NULL UNIQUE,

    -- e.g. "order.placed", "product.stock_adjusted".
    operation    TEXT NOT NULL,

    entity_kind  TEXT NOT NULL,
    entity_id    TEXT NOT NULL,

    -- JSON snapshot of the entity.
    detail       TEXT NOT NULL DEFAULT '{}',

    -- W3C trace/span IDs of the span active when the command ran.
    trace_id     TEXT NOT NULL DEFAULT '',
    span_id      TEXT NOT NULL DEFAULT '',

    -- RFC3339 stored as TEXT, SQLite idiom.
    recorded_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_log_entity ON audit_log(entity_id, id);
CREATE INDEX IF NOT EXISTS idx_audit_log_trace_id ON audit_log(trace_id);
`

var (
	_ auditlog.Repository = (*Repository)(nil)
	_ auditlog.Reader     = (*Repository)(nil)
)

// Repository is the SQLite implementation of auditlog.Repository.
type Repository struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at the given path and applies
// the schema.
//
//	repo, err := sqlite.Open("./data/audit.db")
func Open(path string) (*Repository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	// The modernc driver registers as "sqlite", not "sqlite3".
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// Single writer connection.
	db.SetMaxOpenConns(1)

	if err := applySchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repository{db: db}, nil
}

// Close releases the database connection. Call it with defer in main().
func (r *Repository) Close() error {
	return r.db.Close()
}

// Save inserts a new audit entry.
func (r *Repository) Save(ctx context.Context, entry *auditlog.Entry) error {
	const q = `
		INSERT INTO audit_log
			(event_id, operation, entity_kind, entity_id, detail, trace_id, span_id, recorded_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		entry.EventID,
		entry.Operation,
		entry.EntityKind,
		entry.EntityID,
		entry.Detail,
		entry.TraceID,
		entry.SpanID,
		formatTime(entry.RecordedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save audit entry for %q: %w", entry.EntityID, err)
	}
	return nil
}

// List returns every entry recorded for entityID in insertion order.
func (r *Repository) List(ctx context.Context, entityID string) ([]auditlog.Entry, error) {
	const q = `
		SELECT event_id, operation, entity_kind, entity_id, detail, trace_id, span_id, recorded_at
		FROM   audit_log
		WHERE  entity_id = ?
		ORDER  BY id ASC`

	rows, err := r.db.QueryContext(ctx, q, entityID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list audit entries for %q: %w", entityID, err)
	}
	defer rows.Close()

	var entries []auditlog.Entry
	for rows.Next() {
		var e auditlog.Entry
		var recordedAt string
		if err := rows.Scan(
			&e.EventID,
			&e.Operation,
			&e.EntityKind,
			&e.EntityID,
			&e.Detail,
			&e.TraceID,
			&e.SpanID,
			&recordedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scan audit entry for %q: %w", entityID, err)
		}
		if e.RecordedAt, err = parseRFC3339(recordedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list audit entries for %q: %w", entityID, err)
	}
	return entries, nil
}

// applySchema runs the DDL statements once. Idempotent due to IF NOT EXISTS.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return nil
}
