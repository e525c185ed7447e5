package ports

import (
	"context"

	"dinemate/internal/core/domain/model/menu"
)

// MenuRepository loads the menu catalog from the backing store.
//
// Menu writes happen through an external admin surface and are out of scope
// here; this port is read-only. Implementations return
// menu.ErrCatalogUnavailable (possibly wrapped) when the store is unreachable
// or holds no items, which callers must treat as "do not accept any order
// right now".
type MenuRepository interface {
	// Load fetches the full catalog.
	Load(ctx context.Context) (menu.Catalog, error)
}
