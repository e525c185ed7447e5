package queries

import (
	"errors"
	"time"

	"dinemate/internal/core/domain/model/order"
	"dinemate/internal/pkg/guard"
)

var ErrGetOrderDetailsQueryIsNotConstructed = errors.New(
	"GetOrderDetailsQuery must be created via NewGetOrderDetailsQuery constructor",
)

// GetOrderDetailsQuery retrieves the full contents of a single order:
// items, quantities, total price, status and placement time.
type GetOrderDetailsQuery struct {
	orderID int64

	guard guard.ConstructorGuard
}

// NewGetOrderDetailsQuery creates a query for a single order's details.
// Validates that the order ID is positive.
func NewGetOrderDetailsQuery(orderID int64) (GetOrderDetailsQuery, error) {
	if orderID <= 0 {
		return GetOrderDetailsQuery{}, ErrOrderIDIsInvalid
	}

	return GetOrderDetailsQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetOrderDetailsQueryIsNotConstructed if validation fails.
func (q GetOrderDetailsQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderDetailsQueryIsNotConstructed)
}

// OrderID returns the identifier of the order to fetch.
func (q GetOrderDetailsQuery) OrderID() int64 {
	return q.orderID
}

// GetOrderDetailsQueryResponse represents the full state of an order.
type GetOrderDetailsQueryResponse struct {
	ID         int64
	Items      map[string]int
	TotalPrice float64
	Status     order.Status
	PlacedAt   time.Time
}
