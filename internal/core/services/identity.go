package services

import (
	"fmt"
	"io"

	"github.com/google/uuid"
)

// idNamespace scopes the content UUIDs. Derived once from a fixed name so
// identifiers stay stable across machines and releases.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceDNS, []byte("librarian.custodia-labs.com"))

// DeriveDocumentID returns the content-addressable identifier for a
// document: a name-based UUID over the full raw bytes. Identical bytes
// always yield the same identifier; the identifier is never taken from
// operator input or recomputed from anything but the bytes.
//
// The reader is consumed to EOF. A read failure returns an error and no
// identifier, never a partial one.
func DeriveDocumentID(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read document bytes: %w", err)
	}
	return uuid.NewSHA1(idNamespace, data).String(), nil
}
