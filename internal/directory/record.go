// internal/directory/record.go
//
// Tenant directory contract.
//
// Context
// -------
// The directory maps tenant identifiers to tenant metadata, most
// importantly the canonical subdomain slug the router redirects and
// rewrites against.  The SQL repository is the source of truth; the
// read-through cache in cache.go wraps it with a short TTL.  Both satisfy
// Directory, so the router never knows whether a cache is present.
//
// Notes
// -----
//   • ErrNotFound is the only sentinel; every other error is an upstream
//     failure the caller must map to a safe fallback.
//   • Oxford commas, two spaces after periods.
package directory

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when no live tenant matches the slug or id.
var ErrNotFound = errors.New("tenant not found")

// Record is a single row from the platform tenant table.  CanonicalSlug
// may differ from the slug a request arrived on (preview hosts, renames).
type Record struct {
	ID            string       `db:"id"`
	CanonicalSlug string       `db:"slug"`
	Name          string       `db:"name"`
	CreatedAt     time.Time    `db:"created_at"`
	SuspendedAt   sql.NullTime `db:"suspended_at"`
	DeletedAt     sql.NullTime `db:"deleted_at"`
}

// Directory is the lookup contract consumed by the session router.
type Directory interface {
	BySlug(ctx context.Context, slug string) (*Record, error)
	ByID(ctx context.Context, id string) (*Record, error)
}
