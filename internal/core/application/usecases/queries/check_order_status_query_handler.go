package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"dinemate/internal/core/domain/model/order"
	"dinemate/internal/pkg/errs"

	"gorm.io/gorm"
)

// CheckOrderStatusQueryHandler answers "where is my order" questions.
// Reads the order row directly and derives the delivery estimate from the
// placement time and the configured preparation time.
type CheckOrderStatusQueryHandler struct {
	db       *gorm.DB
	prepTime time.Duration
	clock    func() time.Time
}

// NewCheckOrderStatusQueryHandler creates a handler for order status queries.
// Requires a GORM database connection for query execution.
func NewCheckOrderStatusQueryHandler(db *gorm.DB, prepTime time.Duration) CheckOrderStatusQueryHandler {
	return CheckOrderStatusQueryHandler{
		db:       db,
		prepTime: prepTime,
		clock:    time.Now,
	}
}

// NewCheckOrderStatusQueryHandlerWithClock creates a handler with an
// injectable clock, used by tests to pin the delay calculation.
func NewCheckOrderStatusQueryHandlerWithClock(
	db *gorm.DB,
	prepTime time.Duration,
	clock func() time.Time,
) CheckOrderStatusQueryHandler {
	handler := NewCheckOrderStatusQueryHandler(db, prepTime)
	handler.clock = clock
	return handler
}

// Handle executes the status query for a single order.
// Terminal orders carry no estimate. Any active order, Ready included,
// reports its estimate and is flagged as delayed once the estimate passes.
func (h CheckOrderStatusQueryHandler) Handle(
	ctx context.Context,
	query CheckOrderStatusQuery,
) (CheckOrderStatusQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return CheckOrderStatusQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			status,
			placed_at
		FROM orders
		WHERE id = ?
	`, query.OrderID()).Row()

	var resp CheckOrderStatusQueryResponse
	var statusStr string
	if err := row.Scan(&resp.ID, &statusStr, &resp.PlacedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CheckOrderStatusQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID())
		}
		return CheckOrderStatusQueryResponse{}, err
	}

	status, err := order.ParseStatus(statusStr)
	if err != nil {
		return CheckOrderStatusQueryResponse{}, err
	}
	resp.Status = status

	if !status.IsTerminal() {
		estimate := resp.PlacedAt.Add(h.prepTime)
		resp.EstimatedReadyBy = &estimate
		resp.Delayed = h.clock().After(estimate)
	}

	return resp, nil
}
