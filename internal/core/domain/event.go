package domain

import "time"

// Lifecycle event actions recorded in the audit log.
const (
	ActionProposed      = "proposed"
	ActionPromoted      = "promoted_to_live"
	ActionFileDeleted   = "file_deleted"
	ActionPointsDeleted = "qdrant_points_deleted"
	ActionRowDeleted    = "row_deleted"
	ActionPayloadFixed  = "gcp_file_id_repaired"
)

// Event is one audit record appended by a lifecycle driver.
type Event struct {
	// ID is assigned by the event log on append; zero until persisted.
	ID int64

	// Action is one of the Action* constants.
	Action string

	// Identifier is the document the action applied to.
	Identifier string

	// FileName is the document file name, when known.
	FileName string

	// Detail carries action-specific context (old/new file ID, reason).
	Detail string

	// At is when the action happened.
	At time.Time
}
