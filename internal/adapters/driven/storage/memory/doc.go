// Package memory provides in-memory implementations of the driven store
// ports. They back the test suites and the --dry-run CLI mode; behaviour
// mirrors the real adapters, including tolerance rules around absence.
package memory
