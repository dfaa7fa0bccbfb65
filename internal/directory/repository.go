// internal/directory/repository.go
//
// SQL repository over the platform tenant table.
//
// Context
// -------
// Lookups respect request deadlines via the caller's context and exclude
// suspended or deleted tenants, so a suspended site routes like an unknown
// one.  sql.ErrNoRows maps to ErrNotFound; everything else surfaces as an
// upstream failure for the router to absorb.

package directory

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/databayt/edge/internal/metrics"
)

// Repository performs directory lookups against the platform database.
type Repository struct {
	db *sqlx.DB
}

// NewRepository wraps an open platform DB pool.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// BySlug fetches the live tenant owning slug.
func (r *Repository) BySlug(ctx context.Context, slug string) (*Record, error) {
	const q = `
        SELECT id, slug, name, created_at, suspended_at, deleted_at
        FROM   tenant
        WHERE  slug = ?
          AND  suspended_at IS NULL
          AND  deleted_at   IS NULL
        LIMIT  1`
	metrics.DirectoryLookupTotal.Inc()
	var rec Record
	if err := r.db.GetContext(ctx, &rec, q, slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		metrics.DirectoryLookupErrorsTotal.Inc()
		return nil, err
	}
	return &rec, nil
}

// ByID fetches the live tenant with the given id.
func (r *Repository) ByID(ctx context.Context, id string) (*Record, error) {
	const q = `
        SELECT id, slug, name, created_at, suspended_at, deleted_at
        FROM   tenant
        WHERE  id = ?
          AND  suspended_at IS NULL
          AND  deleted_at   IS NULL
        LIMIT  1`
	metrics.DirectoryLookupTotal.Inc()
	var rec Record
	if err := r.db.GetContext(ctx, &rec, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		metrics.DirectoryLookupErrorsTotal.Inc()
		return nil, err
	}
	return &rec, nil
}

// Ping reports platform-DB reachability for the health endpoint.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
