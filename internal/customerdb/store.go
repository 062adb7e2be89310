// Package customerdb persists customers to a relational database. It
// is an external collaborator of the engine: best-effort, never fatal
// to the running application.
package customerdb

import (
	"context"

	"github.com/abgdnv/storecore/internal/domain"
)

// CustomerStore is the customer persistence contract.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, database).
type CustomerStore interface {
	// Save inserts a single customer row.
	Save(ctx context.Context, customer domain.Customer) error

	// LoadAll returns every customer row, mapped through the same
	// validating factory used for in-memory construction. An invalid
	// row aborts the whole load with a *domain.DataIntegrityError.
	LoadAll(ctx context.Context) ([]domain.Customer, error)
}
