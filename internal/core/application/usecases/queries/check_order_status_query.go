// Package queries contains read-only operations over the order store.
// Queries bypass the domain repositories and read directly from the database,
// returning lightweight response structs for presentation.
package queries

import (
	"errors"
	"time"

	"dinemate/internal/core/domain/model/order"
	"dinemate/internal/pkg/guard"
)

var (
	ErrCheckOrderStatusQueryIsNotConstructed = errors.New(
		"CheckOrderStatusQuery must be created via NewCheckOrderStatusQuery constructor",
	)
	ErrOrderIDIsInvalid = errors.New("order ID must be greater than 0")
)

// CheckOrderStatusQuery retrieves the current status of a single order
// together with the delivery estimate.
//
// Example:
//
//	query, _ := NewCheckOrderStatusQuery(7)
//	handler := NewCheckOrderStatusQueryHandler(db, 40*time.Minute)
//
//	status, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to check order status: %w", err)
//	}
//	fmt.Printf("Order %d is %s\n", status.ID, status.Status)
type CheckOrderStatusQuery struct {
	orderID int64

	guard guard.ConstructorGuard
}

// NewCheckOrderStatusQuery creates a query for a single order's status.
// Validates that the order ID is positive.
func NewCheckOrderStatusQuery(orderID int64) (CheckOrderStatusQuery, error) {
	if orderID <= 0 {
		return CheckOrderStatusQuery{}, ErrOrderIDIsInvalid
	}

	return CheckOrderStatusQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrCheckOrderStatusQueryIsNotConstructed if validation fails.
func (q CheckOrderStatusQuery) Validate() error {
	return q.guard.Validate(ErrCheckOrderStatusQueryIsNotConstructed)
}

// OrderID returns the identifier of the order to check.
func (q CheckOrderStatusQuery) OrderID() int64 {
	return q.orderID
}

// CheckOrderStatusQueryResponse represents a single order's progress.
// EstimatedReadyBy is nil once the order reaches a terminal status;
// Delayed is set when an active order has blown past its estimate.
type CheckOrderStatusQueryResponse struct {
	ID               int64
	Status           order.Status
	PlacedAt         time.Time
	EstimatedReadyBy *time.Time
	Delayed          bool
}
