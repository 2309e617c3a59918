// Package postgres provides the shared plumbing for the PostgreSQL-backed
// entity store: connection pool, transaction manager, the Querier used by all
// repositories, and the mapping from pgx errors into domain errors.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bproj/skilltree-backend/internal/domain"
)

// MapError converts pgx/pgconn errors into domain errors, attaching the
// collection and lookup keys so callers can produce a precise diagnostic
// without leaking other users' data.
//
// Classification:
//   - pgx.ErrNoRows                      -> domain.NotFoundError
//   - unique violation (23505)            -> domain.ErrAlreadyExists
//   - foreign key violation (23503)       -> domain.NotFoundError
//   - check violation (23514)             -> domain.ErrValidation
//   - connection-class failures (08xxx,
//     57Pxx, 53xxx), net errors           -> domain.ErrStoreUnavailable
//   - context cancellation/deadline       -> passed through
func MapError(err error, collection string, keys map[string]string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", collection, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NewNotFoundError(collection, keys)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505":
			return fmt.Errorf("%s: %w", collection, domain.ErrAlreadyExists)
		case pgErr.Code == "23503":
			return domain.NewNotFoundError(collection, keys)
		case pgErr.Code == "23514":
			return fmt.Errorf("%s: %w", collection, domain.ErrValidation)
		case strings.HasPrefix(pgErr.Code, "08"),
			strings.HasPrefix(pgErr.Code, "53"),
			strings.HasPrefix(pgErr.Code, "57P"):
			return fmt.Errorf("%s: %v: %w", collection, pgErr.Code, domain.ErrStoreUnavailable)
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%s: %v: %w", collection, netErr, domain.ErrStoreUnavailable)
	}

	return fmt.Errorf("%s: %w", collection, err)
}
