package commands

import (
	"errors"

	"dinemate/internal/core/domain/model/order"
	"dinemate/internal/pkg/guard"
)

var ErrAdvanceOrderStatusCommandIsNotConstructed = errors.New(
	"AdvanceOrderStatusCommand must be created via NewAdvanceOrderStatusCommand constructor",
)

// AdvanceOrderStatusCommand represents a kitchen request to move an order
// forward along its lifecycle, e.g. from "Pending" to "Preparing".
type AdvanceOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID int64
	target  order.Status

	guard guard.ConstructorGuard
}

// NewAdvanceOrderStatusCommand creates a command to advance an order's status.
// Validates that the order ID is positive and the target status is a known
// lifecycle status. Whether the transition itself is legal is decided by the
// order aggregate at handling time.
func NewAdvanceOrderStatusCommand(orderID int64, target order.Status) (AdvanceOrderStatusCommand, error) {
	cmd := AdvanceOrderStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setTarget(target),
	); err != nil {
		return AdvanceOrderStatusCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrAdvanceOrderStatusCommandIsNotConstructed if validation fails.
func (c AdvanceOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceOrderStatusCommandIsNotConstructed)
}

// OrderID returns the identifier of the order to advance.
func (c AdvanceOrderStatusCommand) OrderID() int64 {
	return c.orderID
}

// Target returns the requested target status.
func (c AdvanceOrderStatusCommand) Target() order.Status {
	return c.target
}

func (c *AdvanceOrderStatusCommand) setOrderID(orderID int64) error {
	if orderID <= 0 {
		return ErrOrderIDIsInvalid
	}

	c.orderID = orderID
	return nil
}

func (c *AdvanceOrderStatusCommand) setTarget(target order.Status) error {
	if err := target.Validate(); err != nil {
		return err
	}

	c.target = target
	return nil
}
