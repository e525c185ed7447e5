package commands

import (
	"context"
)

// AdvanceOrderStatusCommandHandler handles kitchen-driven status progression.
// The order aggregate enforces that statuses only move forward and that
// terminal orders stay frozen; this handler adds the conditional write so two
// concurrent advances cannot both succeed from the same starting status.
type AdvanceOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewAdvanceOrderStatusCommandHandler creates a handler for status progression.
func NewAdvanceOrderStatusCommandHandler(uowFactory OrderUoWFactory) AdvanceOrderStatusCommandHandler {
	return AdvanceOrderStatusCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the status advancement command.
func (h *AdvanceOrderStatusCommandHandler) Handle(ctx context.Context, cmd AdvanceOrderStatusCommand) error {
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
	if err = aggregate.AdvanceTo(cmd.Target()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate, expectedStatus); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
