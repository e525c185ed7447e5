package commands

import (
	"errors"

	"dinemate/internal/core/domain/model/menu"
	"dinemate/internal/pkg/guard"
)

var (
	ErrModifyOrderCommandIsNotConstructed = errors.New(
		"ModifyOrderCommand must be created via NewModifyOrderCommand constructor",
	)
	ErrOrderIDIsInvalid = errors.New("order ID must be greater than 0")
)

// ModifyOrderCommand represents a request to replace the items of an already
// placed order. The new item set fully supersedes the old one; it is not a
// delta.
type ModifyOrderCommand struct { //nolint:recvcheck //using for validation
	orderID int64
	items   map[string]int

	guard guard.ConstructorGuard
}

// NewModifyOrderCommand creates a command to replace an order's items.
// Validates that the order ID is positive, at least one item is present and
// every quantity is positive.
func NewModifyOrderCommand(orderID int64, items map[string]int) (ModifyOrderCommand, error) {
	cmd := ModifyOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setItems(items),
	); err != nil {
		return ModifyOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrModifyOrderCommandIsNotConstructed if validation fails.
func (c ModifyOrderCommand) Validate() error {
	return c.guard.Validate(ErrModifyOrderCommandIsNotConstructed)
}

// OrderID returns the identifier of the order to modify.
func (c ModifyOrderCommand) OrderID() int64 {
	return c.orderID
}

// Items returns the replacement items keyed by canonical name.
func (c ModifyOrderCommand) Items() map[string]int {
	out := make(map[string]int, len(c.items))
	for name, qty := range c.items {
		out[name] = qty
	}
	return out
}

func (c *ModifyOrderCommand) setOrderID(orderID int64) error {
	if orderID <= 0 {
		return ErrOrderIDIsInvalid
	}

	c.orderID = orderID
	return nil
}

func (c *ModifyOrderCommand) setItems(items map[string]int) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}

	canonical := make(map[string]int, len(items))
	for name, qty := range items {
		name = menu.CanonicalName(name)
		if name == "" {
			return ErrItemNameIsRequired
		}
		if qty <= 0 {
			return ErrQuantityIsInvalid
		}
		canonical[name] += qty
	}

	c.items = canonical
	return nil
}
