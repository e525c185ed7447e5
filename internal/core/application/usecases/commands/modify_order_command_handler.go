package commands

import (
	"context"
	"time"

	"dinemate/internal/core/domain/model/order"
	"dinemate/internal/core/domain/services"
	"dinemate/internal/core/ports"
)

// ModifyOrderResult carries the updated order after a successful modification.
type ModifyOrderResult struct {
	Order *order.Order
}

// ModifyOrderCommandHandler handles post-placement order modification.
// Modification is all-or-nothing: the replacement item set is priced against
// the current catalog first, and only if every item prices successfully is the
// stored order touched. The write is conditional on the status observed at
// read time, so a kitchen advance racing the modification surfaces as
// ports' ErrOrderConflict instead of a lost update.
type ModifyOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	menuRepo   ports.MenuRepository
	policy     services.WindowPolicy
	clock      func() time.Time
}

// NewModifyOrderCommandHandler creates a handler for order modification.
func NewModifyOrderCommandHandler(
	uowFactory OrderUoWFactory,
	menuRepo ports.MenuRepository,
	policy services.WindowPolicy,
) ModifyOrderCommandHandler {
	return ModifyOrderCommandHandler{
		uowFactory: uowFactory,
		menuRepo:   menuRepo,
		policy:     policy,
		clock:      time.Now,
	}
}

// NewModifyOrderCommandHandlerWithClock creates a handler with an injectable
// clock, used by tests to probe the modification window boundary.
func NewModifyOrderCommandHandlerWithClock(
	uowFactory OrderUoWFactory,
	menuRepo ports.MenuRepository,
	policy services.WindowPolicy,
	clock func() time.Time,
) ModifyOrderCommandHandler {
	handler := NewModifyOrderCommandHandler(uowFactory, menuRepo, policy)
	handler.clock = clock
	return handler
}

// Handle processes the order modification command.
// The order must still be in a modifiable status and within the modification
// window. Status and window checks report distinct failure reasons.
func (h *ModifyOrderCommandHandler) Handle(ctx context.Context, cmd ModifyOrderCommand) (ModifyOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return ModifyOrderResult{}, err
	}

	catalog, err := h.menuRepo.Load(ctx)
	if err != nil {
		return ModifyOrderResult{}, err
	}

	items := cmd.Items()
	total, err := priceItems(items, catalog)
	if err != nil {
		return ModifyOrderResult{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return ModifyOrderResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return ModifyOrderResult{}, err
	}

	expectedStatus := aggregate.Status()
	if err = h.policy.EnsureModifiable(expectedStatus, aggregate.PlacedAt(), h.clock()); err != nil {
		return ModifyOrderResult{}, err
	}

	if err = aggregate.Replace(items, total); err != nil {
		return ModifyOrderResult{}, err
	}

	if err = orderRepo.Update(ctx, aggregate, expectedStatus); err != nil {
		return ModifyOrderResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return ModifyOrderResult{}, err
	}

	return ModifyOrderResult{Order: aggregate}, nil
}
