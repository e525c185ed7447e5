package order

import (
	"errors"
	"fmt"
	"time"

	"dinemate/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

	// ErrInvalidTransition is returned for status moves the state machine
	// does not permit.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrOrderImmutable is returned when mutating an order whose status is
	// terminal.
	ErrOrderImmutable = errors.New("order is in a terminal status and cannot change")
)

// Order is the aggregate root for a confirmed purchase. It owns the item
// lines, the cached total, the lifecycle status and the placement timestamp.
//
// Invariants:
//   - items is non-empty and every quantity is positive
//   - totalPrice equals the catalog-priced sum of items as of the last write
//     (it is a cached projection recomputed on every mutation, never derived
//     lazily)
//   - the ID is assigned exactly once, by the store's atomic allocator
//   - a terminal status freezes the aggregate
type Order struct {
	// id is the store-allocated serial identifier; zero until persisted.
	id int64

	// items maps canonical item names to positive quantities.
	items map[string]int

	// totalPrice is the catalog-priced sum of items at last write time.
	totalPrice float64

	// status is the current lifecycle state.
	status Status

	// placedAt is the confirmation timestamp; the mutation window and the
	// ready-by estimate both derive from it.
	placedAt time.Time

	// isConstructed ensures the order was created via a constructor.
	isConstructed bool
}

// NewOrder creates a freshly confirmed order in Pending status.
//
// The caller (the confirm command handler) is responsible for pricing items
// against the menu catalog; totalPrice must already be that catalog-priced
// sum. Validation here guards structure: non-empty items, positive
// quantities, non-negative total, a real placement time.
func NewOrder(items map[string]int, totalPrice float64, placedAt time.Time) (*Order, error) {
	o := &Order{
		status:        Pending,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setItems(items, totalPrice),
		o.setPlacedAt(placedAt),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder reconstructs an order from persistence, including its
// store-assigned ID and current status. Used only by repository mapping code.
func RestoreOrder(id int64, items map[string]int, totalPrice float64, status Status, placedAt time.Time) (*Order, error) {
	if id <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("id", fmt.Errorf("%d is not a valid order id", id))
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}

	o := &Order{
		id:            id,
		status:        status,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setItems(items, totalPrice),
		o.setPlacedAt(placedAt),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order was created through a constructor, preventing
// direct struct instantiation from bypassing invariants.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// AssignID records the store-allocated identifier after the first insert.
// IDs are assigned exactly once and never reused.
func (o *Order) AssignID(id int64) error {
	if id <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("id", fmt.Errorf("%d is not a valid order id", id))
	}
	if o.id != 0 {
		return errs.NewValueIsInvalidErrorWithCause("id", fmt.Errorf("order already has id %d", o.id))
	}
	o.id = id
	return nil
}

// ID returns the store-allocated identifier, or zero if not yet persisted.
func (o *Order) ID() int64 {
	return o.id
}

// Items returns a copy of the order's item lines.
func (o *Order) Items() map[string]int {
	items := make(map[string]int, len(o.items))
	for name, qty := range o.items {
		items[name] = qty
	}
	return items
}

// TotalPrice returns the cached catalog-priced total.
func (o *Order) TotalPrice() float64 {
	return o.totalPrice
}

// Status returns the current lifecycle state.
func (o *Order) Status() Status {
	return o.status
}

// PlacedAt returns the confirmation timestamp.
func (o *Order) PlacedAt() time.Time {
	return o.placedAt
}

// EstimatedReadyBy derives the display-only readiness estimate. It is never
// used for policy decisions; the mutation window is measured from PlacedAt
// directly.
func (o *Order) EstimatedReadyBy(prepTime time.Duration) time.Time {
	return o.placedAt.Add(prepTime)
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id != 0 && o.id == other.id
}

// Replace overwrites the item lines and cached total wholesale. Modify is
// full replacement, not a merge; the handler has already validated every
// item against the catalog and recomputed newTotal.
//
// Fails with ErrOrderImmutable on terminal statuses. The modification
// window is enforced separately by the domain services layer.
func (o *Order) Replace(items map[string]int, newTotal float64) error {
	if o.status.IsTerminal() {
		return fmt.Errorf("%w: status is %s", ErrOrderImmutable, o.status)
	}
	return o.setItems(items, newTotal)
}

// Cancel moves the order to Canceled if the current status allows it.
func (o *Order) Cancel() error {
	newStatus, err := o.status.Cancel()
	if err != nil {
		return err
	}
	o.status = newStatus
	return nil
}

// AdvanceTo moves the order forward along the status progression. This is
// the kitchen's only mutation path besides cancellation.
func (o *Order) AdvanceTo(newStatus Status) error {
	next, err := o.status.Advance(newStatus)
	if err != nil {
		return err
	}
	o.status = next
	return nil
}

func (o *Order) setItems(items map[string]int, total float64) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for name, qty := range items {
		if name == "" {
			return errs.NewValueIsRequiredError("item name")
		}
		if qty <= 0 {
			return errs.NewValueIsInvalidErrorWithCause(
				"quantity",
				fmt.Errorf("%d of %q is not greater than 0", qty, name),
			)
		}
	}
	if total < 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"total_price",
			fmt.Errorf("%.2f is negative", total),
		)
	}

	copied := make(map[string]int, len(items))
	for name, qty := range items {
		copied[name] = qty
	}
	o.items = copied
	o.totalPrice = total
	return nil
}

func (o *Order) setPlacedAt(placedAt time.Time) error {
	if placedAt.IsZero() {
		return errs.NewValueIsRequiredError("placed_at")
	}
	o.placedAt = placedAt
	return nil
}
