package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrStoreUnavailable indicates a store adapter could not be reached.
	// Fatal for the run, unlike drift anomalies which are recorded as
	// issues while the run completes.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrIndexerUnavailable indicates no embedding/indexing collaborator
	// is configured. Promotion of unindexed rows is disabled without one.
	ErrIndexerUnavailable = errors.New("indexer unavailable")
)
