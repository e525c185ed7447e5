package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"dinemate/internal/core/domain/model/order"
	"dinemate/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetOrderDetailsQueryHandler retrieves a single order's full contents
// directly from the database.
type GetOrderDetailsQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderDetailsQueryHandler creates a handler for order detail queries.
// Requires a GORM database connection for query execution.
func NewGetOrderDetailsQueryHandler(db *gorm.DB) GetOrderDetailsQueryHandler {
	return GetOrderDetailsQueryHandler{db: db}
}

// Handle executes the detail query for a single order.
func (h GetOrderDetailsQueryHandler) Handle(
	ctx context.Context,
	query GetOrderDetailsQuery,
) (GetOrderDetailsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderDetailsQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			items,
			total_price,
			status,
			placed_at
		FROM orders
		WHERE id = ?
	`, query.OrderID()).Row()

	var resp GetOrderDetailsQueryResponse
	var itemsJSON []byte
	var statusStr string
	err := row.Scan(&resp.ID, &itemsJSON, &resp.TotalPrice, &statusStr, &resp.PlacedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetOrderDetailsQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID())
		}
		return GetOrderDetailsQueryResponse{}, err
	}

	if err = json.Unmarshal(itemsJSON, &resp.Items); err != nil {
		return GetOrderDetailsQueryResponse{}, err
	}

	resp.Status, err = order.ParseStatus(statusStr)
	if err != nil {
		return GetOrderDetailsQueryResponse{}, err
	}

	return resp, nil
}
