package commands

import (
	"errors"

	"dinemate/internal/core/domain/model/menu"
	"dinemate/internal/pkg/guard"
)

var (
	ErrConfirmOrderCommandIsNotConstructed = errors.New(
		"ConfirmOrderCommand must be created via NewConfirmOrderCommand constructor",
	)
	ErrItemsAreRequired   = errors.New("at least one item is required")
	ErrItemNameIsRequired = errors.New("item name is required")
	ErrQuantityIsInvalid  = errors.New("quantity must be greater than 0")
)

// ConfirmOrderCommand represents a request to place an order from a set of
// cart items. Item names are canonicalized so "Burger" and "burger " price
// identically.
//
// Example:
//
//	cmd, err := NewConfirmOrderCommand(map[string]int{"burger": 2, "coke": 1})
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewConfirmOrderCommandHandler(uowFactory, menuRepo, prepTime)
//	result, err := handler.Handle(ctx, cmd)
type ConfirmOrderCommand struct { //nolint:recvcheck //using for validation
	items map[string]int

	guard guard.ConstructorGuard
}

// NewConfirmOrderCommand creates a command to place a new order.
// Validates that at least one item is present and every quantity is positive.
func NewConfirmOrderCommand(items map[string]int) (ConfirmOrderCommand, error) {
	cmd := ConfirmOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setItems(items); err != nil {
		return ConfirmOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrConfirmOrderCommandIsNotConstructed if validation fails.
func (c ConfirmOrderCommand) Validate() error {
	return c.guard.Validate(ErrConfirmOrderCommandIsNotConstructed)
}

// Items returns the ordered items keyed by canonical name.
func (c ConfirmOrderCommand) Items() map[string]int {
	out := make(map[string]int, len(c.items))
	for name, qty := range c.items {
		out[name] = qty
	}
	return out
}

func (c *ConfirmOrderCommand) setItems(items map[string]int) error {
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
