package driving

import (
	"context"

	"github.com/custodia-labs/librarian-cli/internal/core/domain"
)

// Validator checks the catalog sheet against its schema.
type Validator interface {
	// Validate fetches all rows and partitions them into valid records,
	// rejected rows and a violation log. Input problems land in the
	// result; only a sheet adapter failure returns an error.
	Validate(ctx context.Context) (*domain.ValidationResult, error)
}

// Reconciler computes the consolidated status map across the three stores.
type Reconciler interface {
	// Run joins the sheet, file-store and vector-store listings by
	// identifier (outer join) and returns one entry per identifier seen
	// anywhere. Per-identifier drift is recorded in the entries; only a
	// store adapter failure returns an error.
	Run(ctx context.Context) (*domain.ReconciliationRun, error)
}
