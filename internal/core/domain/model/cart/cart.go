// Package cart implements the in-memory staging area for a conversation's
// not-yet-confirmed items.
//
// A Cart belongs to exactly one conversation session and is never shared
// between sessions or stored durably: confirming an order moves its contents
// into a persisted Order and clears the cart atomically with that success.
//
// Invariants:
//   - every line's name resolved in the menu catalog when it was added
//   - quantities are always positive; a line reaching zero is removed
//   - the total is a derived projection, recomputed from the catalog after
//     every mutation, never adjusted incrementally
package cart

import (
	"errors"
	"fmt"
	"sort"

	"dinemate/internal/core/domain/model/menu"
)

var (
	// ErrItemNotInCart is returned by Remove, Update and Replace when the
	// named item has no line in the cart.
	ErrItemNotInCart = errors.New("item is not in the cart")

	// ErrItemUnavailable is returned by Replace when the replacement item
	// fails menu validation.
	ErrItemUnavailable = errors.New("item is not available on the menu")

	// ErrEmptyCart is returned when confirming a cart with no lines.
	ErrEmptyCart = errors.New("cart has no items to confirm")
)

// Cart accumulates order lines for one conversation. Not safe for concurrent
// use on its own; the session that owns it serializes turns.
type Cart struct {
	lines map[string]int
	total float64
}

// Snapshot is the externally visible cart state returned by every mutation.
type Snapshot struct {
	Items      map[string]int `json:"items"`
	TotalPrice float64        `json:"total_price"`
}

// AddReport describes the outcome of an Add call. Adding is the one operation
// with partial-success semantics: valid entries land, invalid ones are listed,
// and neither aborts the other.
type AddReport struct {
	Added       map[string]int `json:"added"`
	Unavailable []string       `json:"unavailable"`
	Cart        Snapshot       `json:"cart"`
}

// NewCart creates an empty cart.
func NewCart() *Cart {
	return &Cart{lines: make(map[string]int)}
}

// Add merges the given name→quantity entries into the cart. Each name is
// validated against the catalog; quantities accumulate onto existing lines
// rather than overwriting them. Unknown items and non-positive quantities are
// collected into the report's Unavailable list, never silently dropped.
func (c *Cart) Add(items map[string]int, catalog menu.Catalog) AddReport {
	report := AddReport{Added: make(map[string]int)}

	for name, qty := range items {
		key := menu.CanonicalName(name)
		if _, err := catalog.Validate(key); err != nil || qty <= 0 {
			report.Unavailable = append(report.Unavailable, name)
			continue
		}
		c.lines[key] += qty
		report.Added[key] = qty
	}

	sort.Strings(report.Unavailable)
	c.recalc(catalog)
	report.Cart = c.Snapshot()
	return report
}

// Remove deletes the named line entirely.
// Returns ErrItemNotInCart when the line does not exist.
func (c *Cart) Remove(name string, catalog menu.Catalog) (Snapshot, error) {
	key := menu.CanonicalName(name)
	if _, ok := c.lines[key]; !ok {
		return c.Snapshot(), fmt.Errorf("%w: %s", ErrItemNotInCart, name)
	}

	delete(c.lines, key)
	c.recalc(catalog)
	return c.Snapshot(), nil
}

// Update sets a line's quantity. Update never implicitly adds: an item that
// was never added fails with ErrItemNotInCart, which forces the conversational
// agent to use Add for new items. A quantity of zero behaves as Remove.
func (c *Cart) Update(name string, qty int, catalog menu.Catalog) (Snapshot, error) {
	key := menu.CanonicalName(name)
	if _, ok := c.lines[key]; !ok {
		return c.Snapshot(), fmt.Errorf("%w: %s", ErrItemNotInCart, name)
	}
	if qty < 0 {
		return c.Snapshot(), fmt.Errorf("quantity for %s must not be negative", name)
	}

	if qty == 0 {
		delete(c.lines, key)
	} else {
		c.lines[key] = qty
	}

	c.recalc(catalog)
	return c.Snapshot(), nil
}

// Replace swaps one item for another, preserving the quantity. When the new
// item already has a line, quantities are summed so the pre-existing line is
// not silently lost.
func (c *Cart) Replace(oldName, newName string, catalog menu.Catalog) (Snapshot, error) {
	oldKey := menu.CanonicalName(oldName)
	newKey := menu.CanonicalName(newName)

	qty, ok := c.lines[oldKey]
	if !ok {
		return c.Snapshot(), fmt.Errorf("%w: %s", ErrItemNotInCart, oldName)
	}
	if _, err := catalog.Validate(newKey); err != nil {
		return c.Snapshot(), fmt.Errorf("%w: %s", ErrItemUnavailable, newName)
	}

	delete(c.lines, oldKey)
	c.lines[newKey] += qty
	c.recalc(catalog)
	return c.Snapshot(), nil
}

// Clear empties the cart and zeroes the total. Called only by the confirm
// path once the order is durably stored.
func (c *Cart) Clear() {
	c.lines = make(map[string]int)
	c.total = 0
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Items returns a copy of the current lines.
func (c *Cart) Items() map[string]int {
	items := make(map[string]int, len(c.lines))
	for name, qty := range c.lines {
		items[name] = qty
	}
	return items
}

// TotalPrice returns the derived total as of the last mutation.
func (c *Cart) TotalPrice() float64 {
	return c.total
}

// Snapshot returns the externally visible cart state.
func (c *Cart) Snapshot() Snapshot {
	return Snapshot{Items: c.Items(), TotalPrice: c.total}
}

// recalc rebuilds the derived total from the catalog. Lines were validated on
// entry, so lookups hit unless the session catalog was refreshed mid-order;
// a vanished item simply contributes nothing until the user touches it.
func (c *Cart) recalc(catalog menu.Catalog) {
	total := 0.0
	for name, qty := range c.lines {
		if price, err := catalog.Validate(name); err == nil {
			total += price * float64(qty)
		}
	}
	c.total = total
}
