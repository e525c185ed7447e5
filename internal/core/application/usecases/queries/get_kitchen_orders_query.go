package queries

import (
	"errors"

	"dinemate/internal/core/domain/model/order"
	"dinemate/internal/pkg/guard"
)

var ErrGetKitchenOrdersQueryIsNotConstructed = errors.New(
	"GetKitchenOrdersQuery must be created via NewGetKitchenOrdersQuery constructor",
)

// GetKitchenOrdersQuery retrieves all orders currently in a given status.
// Backs the kitchen board, which works through orders one status at a time.
//
// Example:
//
//	query, _ := NewGetKitchenOrdersQuery(order.Pending)
//	handler := NewGetKitchenOrdersQueryHandler(db)
//
//	pending, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to fetch kitchen orders: %w", err)
//	}
//	fmt.Printf("%d orders waiting\n", len(pending))
type GetKitchenOrdersQuery struct {
	status order.Status

	guard guard.ConstructorGuard
}

// NewGetKitchenOrdersQuery creates a query for all orders in one status.
// Validates that the status is a known lifecycle status.
func NewGetKitchenOrdersQuery(status order.Status) (GetKitchenOrdersQuery, error) {
	if err := status.Validate(); err != nil {
		return GetKitchenOrdersQuery{}, err
	}

	return GetKitchenOrdersQuery{
		status: status,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetKitchenOrdersQueryIsNotConstructed if validation fails.
func (q GetKitchenOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetKitchenOrdersQueryIsNotConstructed)
}

// Status returns the status to filter by.
func (q GetKitchenOrdersQuery) Status() order.Status {
	return q.status
}
