package driving

import (
	"context"
)

// Outcome classifies the result of one row in a lifecycle run.
type Outcome string

const (
	// OutcomeApplied means the row's corrective writes all succeeded.
	OutcomeApplied Outcome = "applied"

	// OutcomeSkipped means the row needed no work (idempotent re-run).
	OutcomeSkipped Outcome = "skipped"

	// OutcomeFailed means a step failed; Reason says which. The row's
	// status is left unchanged.
	OutcomeFailed Outcome = "failed"
)

// RowResult is the per-row outcome of a lifecycle run. One row's failure
// never blocks the remaining rows.
type RowResult struct {
	Identifier string
	FileName   string
	Outcome    Outcome
	Reason     string
}

// Promoter publishes rows tagged for promotion: file finalized in Drive,
// vectors ensured in Qdrant, sheet status advanced to live last.
type Promoter interface {
	Promote(ctx context.Context) ([]RowResult, error)
}

// Deleter removes all traces of rows tagged for deletion across the three
// stores. Stores already missing the document are tolerated; a re-run
// finds the rows gone from the sheet and returns an empty result.
type Deleter interface {
	Delete(ctx context.Context) ([]RowResult, error)
}

// Patch records one repaired vector payload.
type Patch struct {
	Identifier string
	PointID    string
	OldFileID  string
	NewFileID  string
}

// Repairer re-syncs the denormalised gcp_file_id in Qdrant payloads from
// the authoritative sheet value, patching only mismatched points.
// Running it twice in a row yields zero patches on the second run.
type Repairer interface {
	Repair(ctx context.Context) ([]Patch, error)
}

// Proposer catalogues new documents from a local inbox directory:
// identifier derived from content, file uploaded to the tagging folder,
// draft row appended to the sheet.
type Proposer interface {
	Propose(ctx context.Context, dir string) ([]RowResult, error)
}
