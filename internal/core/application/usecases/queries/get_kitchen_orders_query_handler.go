package queries

import (
	"context"
	"encoding/json"

	"dinemate/internal/core/domain/model/order"

	"gorm.io/gorm"
)

// GetKitchenOrdersQueryHandler lists orders for the kitchen board.
// Results are sorted by order ID so the oldest order comes first.
type GetKitchenOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetKitchenOrdersQueryHandler creates a handler for kitchen board queries.
// Requires a GORM database connection for query execution.
func NewGetKitchenOrdersQueryHandler(db *gorm.DB) GetKitchenOrdersQueryHandler {
	return GetKitchenOrdersQueryHandler{db: db}
}

// Handle executes the query and returns full details for every order in the
// requested status.
func (h GetKitchenOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetKitchenOrdersQuery,
) ([]GetOrderDetailsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetOrderDetailsQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			items,
			total_price,
			status,
			placed_at
		FROM orders
		WHERE status = ?
		ORDER BY id
	`, query.Status().String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetOrderDetailsQueryResponse
		var itemsJSON []byte
		var statusStr string

		if err = rows.Scan(&resp.ID, &itemsJSON, &resp.TotalPrice, &statusStr, &resp.PlacedAt); err != nil {
			return nil, err
		}

		if err = json.Unmarshal(itemsJSON, &resp.Items); err != nil {
			return nil, err
		}

		resp.Status, err = order.ParseStatus(statusStr)
		if err != nil {
			return nil, err
		}

		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
