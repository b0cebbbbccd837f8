// Package domain contains the core types for the librarian catalog:
// document records, reconciliation status entries and lifecycle events.
// It has no dependencies on adapters or external services.
package domain
