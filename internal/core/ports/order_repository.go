// Package ports defines repository interfaces for the order domain.
// These interfaces establish contracts between the domain layer and
// infrastructure, enabling dependency inversion and testability.
package ports

import (
	"context"
	"errors"

	"dinemate/internal/core/domain/model/order"
)

// ErrOrderConflict is returned by Update when the order's stored status no
// longer matches the status the caller read. The caller should re-read the
// order and re-evaluate before retrying.
var ErrOrderConflict = errors.New("order was changed concurrently")

// OrderRepository defines the persistence contract for order aggregates.
//
// ID allocation is part of this contract: Add assigns the order's unique,
// monotonically increasing identifier through the store's atomic mechanism
// (a serial primary key), never through a read-then-increment pattern, so
// concurrent confirmations from different conversations can never collide.
type OrderRepository interface {
	// Add persists a new order aggregate and assigns its identifier.
	// The order must be valid and not yet carry an ID.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order as a single-row
	// conditional write: the row is only touched while its stored status
	// still equals expectedStatus. A vanished precondition (e.g. a
	// cancellation racing a kitchen advance) yields ErrOrderConflict so the
	// caller can re-read instead of silently losing an update.
	Update(ctx context.Context, aggregate *order.Order, expectedStatus order.Status) error

	// Get retrieves an order aggregate by its identifier.
	// Returns an error satisfying errors.Is(err, errs.ErrObjectNotFound)
	// when no such order exists.
	Get(ctx context.Context, id int64) (*order.Order, error)

	// GetByStatus retrieves all orders currently in the given status,
	// ordered by ID. Used by the kitchen board.
	GetByStatus(ctx context.Context, status order.Status) ([]*order.Order, error)
}
