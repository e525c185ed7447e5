package commands

import (
	"context"
	"time"

	"dinemate/internal/core/domain/model/menu"
	"dinemate/internal/core/domain/model/order"
	"dinemate/internal/core/ports"
)

// ConfirmOrderResult carries the outcome of a successful order placement.
type ConfirmOrderResult struct {
	Order            *order.Order
	EstimatedReadyBy time.Time
}

// ConfirmOrderCommandHandler handles the business logic for order placement.
// Prices the ordered items against the current catalog, creates the order in
// "Pending" status and persists it. The order's unique identifier is assigned
// by the store during the insert.
//
// Example:
//
//	handler := NewConfirmOrderCommandHandler(uowFactory, menuRepo, 40*time.Minute)
//	cmd, _ := NewConfirmOrderCommand(map[string]int{"burger": 2})
//
//	result, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("order placement failed: %w", err)
//	}
//	fmt.Printf("Order %d placed, ready by %s", result.Order.ID(), result.EstimatedReadyBy)
type ConfirmOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	menuRepo   ports.MenuRepository
	prepTime   time.Duration
	clock      func() time.Time
}

// NewConfirmOrderCommandHandler creates a handler for order placement.
// prepTime is the fixed kitchen preparation estimate added to the placement
// time when reporting when the order will be ready.
func NewConfirmOrderCommandHandler(
	uowFactory OrderUoWFactory,
	menuRepo ports.MenuRepository,
	prepTime time.Duration,
) ConfirmOrderCommandHandler {
	return ConfirmOrderCommandHandler{
		uowFactory: uowFactory,
		menuRepo:   menuRepo,
		prepTime:   prepTime,
		clock:      time.Now,
	}
}

// NewConfirmOrderCommandHandlerWithClock creates a handler with an injectable
// clock, used by tests to pin placement timestamps.
func NewConfirmOrderCommandHandlerWithClock(
	uowFactory OrderUoWFactory,
	menuRepo ports.MenuRepository,
	prepTime time.Duration,
	clock func() time.Time,
) ConfirmOrderCommandHandler {
	handler := NewConfirmOrderCommandHandler(uowFactory, menuRepo, prepTime)
	handler.clock = clock
	return handler
}

// Handle processes the order placement command.
// Every item must be on the current menu; a single stale name fails the whole
// placement without persisting anything. The total is always recomputed from
// catalog prices here, never taken from the caller.
func (h *ConfirmOrderCommandHandler) Handle(ctx context.Context, cmd ConfirmOrderCommand) (ConfirmOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return ConfirmOrderResult{}, err
	}

	catalog, err := h.menuRepo.Load(ctx)
	if err != nil {
		return ConfirmOrderResult{}, err
	}

	items := cmd.Items()
	total, err := priceItems(items, catalog)
	if err != nil {
		return ConfirmOrderResult{}, err
	}

	newOrder, err := order.NewOrder(items, total, h.clock())
	if err != nil {
		return ConfirmOrderResult{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return ConfirmOrderResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, newOrder); err != nil {
		return ConfirmOrderResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return ConfirmOrderResult{}, err
	}

	return ConfirmOrderResult{
		Order:            newOrder,
		EstimatedReadyBy: newOrder.EstimatedReadyBy(h.prepTime),
	}, nil
}

// priceItems computes the catalog total for a set of items. All-or-nothing:
// any item missing from the catalog fails the whole pricing.
func priceItems(items map[string]int, catalog menu.Catalog) (float64, error) {
	var total float64
	for name, qty := range items {
		price, err := catalog.Validate(name)
		if err != nil {
			return 0, err
		}
		total += price * float64(qty)
	}
	return total, nil
}
