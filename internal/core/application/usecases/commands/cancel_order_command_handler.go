package commands

import (
	"context"
	"time"

	"dinemate/internal/core/domain/services"
)

// CancelOrderCommandHandler handles order cancellation.
// Cancellation is allowed from any non-terminal status as long as the order
// is still inside the cancellation window. The write is conditional on the
// status observed at read time.
type CancelOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	policy     services.WindowPolicy
	clock      func() time.Time
}

// NewCancelOrderCommandHandler creates a handler for order cancellation.
func NewCancelOrderCommandHandler(
	uowFactory OrderUoWFactory,
	policy services.WindowPolicy,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
		clock:      time.Now,
	}
}

// NewCancelOrderCommandHandlerWithClock creates a handler with an injectable
// clock, used by tests to probe the cancellation window boundary.
func NewCancelOrderCommandHandlerWithClock(
	uowFactory OrderUoWFactory,
	policy services.WindowPolicy,
	clock func() time.Time,
) CancelOrderCommandHandler {
	handler := NewCancelOrderCommandHandler(uowFactory, policy)
	handler.clock = clock
	return handler
}

// Handle processes the order cancellation command.
func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	expectedStatus := aggregate.Status()
	if err = h.policy.EnsureCancelable(expectedStatus, aggregate.PlacedAt(), h.clock()); err != nil {
		return err
	}

	if err = aggregate.Cancel(); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate, expectedStatus); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
