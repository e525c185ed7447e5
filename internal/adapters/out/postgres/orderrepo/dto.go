// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"encoding/json"
	"time"

	"dinemate/internal/core/domain/model/order"
)

// OrderDTO represents the database structure for persisting order aggregates.
// The primary key is a serial column: the database assigns each order its
// unique, monotonically increasing identifier at insert time, which keeps ID
// allocation race-free under concurrent confirmations.
type OrderDTO struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	Items      []byte `gorm:"type:jsonb"`
	TotalPrice float64
	Status     string `gorm:"index"`
	PlacedAt   time.Time
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// fromDomain converts an order domain aggregate to its database representation.
// Items are stored as a jsonb map of item name to quantity; the status is
// stored as its display string so kitchen queries stay readable.
func fromDomain(aggregate *order.Order) (OrderDTO, error) {
	items, err := json.Marshal(aggregate.Items())
	if err != nil {
		return OrderDTO{}, err
	}

	return OrderDTO{
		ID:         aggregate.ID(),
		Items:      items,
		TotalPrice: aggregate.TotalPrice(),
		Status:     aggregate.Status().String(),
		PlacedAt:   aggregate.PlacedAt().UTC(),
	}, nil
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate including status and placement time using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	var items map[string]int
	if err := json.Unmarshal(dto.Items, &items); err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(dto.ID, items, dto.TotalPrice, status, dto.PlacedAt)
}
