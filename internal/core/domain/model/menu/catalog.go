// Package menu provides the menu catalog value object: the name-to-price
// mapping every cart and order mutation validates against.
//
// Catalogs are loaded through ports.MenuRepository and cached per conversation
// (see the agent session), so a turn never hits the store more than once unless
// the user explicitly asks for a refresh.
package menu

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"dinemate/internal/pkg/errs"
)

var (
	// ErrCatalogUnavailable is returned when the backing store is unreachable
	// or holds no items. Callers must not accept any order while this holds.
	ErrCatalogUnavailable = errors.New("menu catalog is unavailable")

	// ErrItemNotOnMenu is returned by Validate for names that do not resolve.
	ErrItemNotOnMenu = errors.New("item is not on the menu")
)

// Catalog is an immutable name→price mapping. Matching is case-insensitive;
// the canonical storage key is the lower-cased, trimmed item name.
//
// The zero value is an empty catalog; NewCatalog rejects emptiness and
// non-positive prices, so a constructed Catalog always has something to sell.
type Catalog struct {
	prices map[string]float64
}

// CanonicalName converts an item name to its canonical catalog key.
func CanonicalName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NewCatalog builds a catalog from raw name→price pairs. Keys are canonicalized;
// an empty input maps to ErrCatalogUnavailable and a non-positive price to a
// validation error naming the item.
func NewCatalog(prices map[string]float64) (Catalog, error) {
	if len(prices) == 0 {
		return Catalog{}, ErrCatalogUnavailable
	}

	canonical := make(map[string]float64, len(prices))
	for name, price := range prices {
		key := CanonicalName(name)
		if key == "" {
			return Catalog{}, errs.NewValueIsRequiredError("item name")
		}
		if price <= 0 {
			return Catalog{}, errs.NewValueIsInvalidErrorWithCause(
				"price",
				fmt.Errorf("%q must cost more than 0, got %.2f", name, price),
			)
		}
		canonical[key] = price
	}

	return Catalog{prices: canonical}, nil
}

// Validate resolves a single item name to its price.
// Returns ErrItemNotOnMenu when the name does not resolve.
func (c Catalog) Validate(name string) (float64, error) {
	price, ok := c.prices[CanonicalName(name)]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrItemNotOnMenu, name)
	}
	return price, nil
}

// PricesFor resolves a batch of names in one pass. Unmatched names map to nil
// rather than failing, so a partially valid request can be reported back to
// the user in a single reply. Keys of the result are the canonical names.
func (c Catalog) PricesFor(names []string) map[string]*float64 {
	result := make(map[string]*float64, len(names))
	for _, name := range names {
		key := CanonicalName(name)
		if price, ok := c.prices[key]; ok {
			p := price
			result[key] = &p
		} else {
			result[key] = nil
		}
	}
	return result
}

// Items returns a copy of the canonical name→price mapping.
func (c Catalog) Items() map[string]float64 {
	items := make(map[string]float64, len(c.prices))
	for name, price := range c.prices {
		items[name] = price
	}
	return items
}

// Names returns the canonical item names in sorted order, for stable display.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c.prices))
	for name := range c.prices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsEmpty reports whether the catalog has no items (true only for zero values).
func (c Catalog) IsEmpty() bool {
	return len(c.prices) == 0
}
