package driven

import (
	"context"

	"github.com/custodia-labs/librarian-cli/internal/core/domain"
)

// SheetStore reads and writes the catalog sheet, the authoritative record
// of document metadata and lifecycle status.
type SheetStore interface {
	// ListRows returns every data row as an untyped RawRow, in sheet order.
	// Rows are validated before any downstream use.
	ListRows(ctx context.Context) ([]domain.RawRow, error)

	// AppendRow adds a new row from column-header-to-value fields.
	AppendRow(ctx context.Context, fields map[string]string) error

	// UpdateRow sets the given fields on every row matching the identifier.
	// Returns domain.ErrNotFound when no row matches.
	UpdateRow(ctx context.Context, identifier string, fields map[string]string) error

	// DeleteRow removes every row matching the identifier.
	// Deleting an identifier with no rows is not an error.
	DeleteRow(ctx context.Context, identifier string) error
}
