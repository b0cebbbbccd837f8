package domain

import "time"

// Match is the tri-state result of comparing the sheet's gcp_file_id
// against the file IDs referenced by a document's Qdrant payloads.
// Unknown means one side had no data to compare; it is deliberately
// distinct from a mismatch.
type Match string

const (
	// MatchUnknown means the comparison could not be made (row absent from
	// Qdrant, or the sheet has no file ID recorded).
	MatchUnknown Match = "unknown"

	// MatchYes means every Qdrant payload references the sheet's file ID.
	MatchYes Match = "true"

	// MatchNo means at least one Qdrant payload references a different
	// file ID than the sheet.
	MatchNo Match = "false"
)

// Issue tags. Short, machine-readable anomaly labels; the vocabulary is
// extensible but existing strings are frozen for downstream consumers.
const (
	IssueDuplicateIdentifier = "Duplicate pdf_id in Sheet"
	IssueEmptyFileIDInSheet  = "Empty gcp_file_id in Sheet"
	IssueEmptyFileIDInQdrant = "Empty gcp_file_id in Qdrant"
	IssueZeroRecords         = "No Qdrant records"
	IssueMissingInSheet      = "Missing in Sheet"
	IssueMissingInDrive      = "Missing in Drive"
	IssueMissingInQdrant     = "Missing in Qdrant"
	IssueFileIDMismatch      = "Qdrant record missing expected gcp_file_id"
)

// StatusEntry is one reconciliation result for one identifier. Entries are
// created fresh each run and never mutated afterwards.
type StatusEntry struct {
	// Identifier is the content-derived document UUID.
	Identifier string

	// Title and FileName are copied from the sheet row when present.
	Title    string
	FileName string

	// SheetFileID is the gcp_file_id recorded in the sheet ("" when blank
	// or when the row is absent).
	SheetFileID string

	// QdrantFileIDs lists the distinct file IDs referenced by this
	// identifier's Qdrant payloads, sorted.
	QdrantFileIDs []string

	// Presence booleans, one per store.
	InSheet  bool
	InDrive  bool
	InQdrant bool

	// RecordCount is the number of Qdrant points for this identifier.
	RecordCount int

	// PageCount is the highest page number seen in Qdrant payloads.
	PageCount int

	// UniqueFileCount is len(QdrantFileIDs).
	UniqueFileCount int

	// Anomaly flags.
	ZeroRecordCount            bool
	EmptyFileIDInSheet         bool
	EmptyFileIDInQdrant        bool
	DuplicateIdentifierInSheet bool

	// FileIDsMatch compares the sheet's file ID with the Qdrant payloads.
	FileIDsMatch Match

	// Issues is the ordered, deduplicated list of anomaly tags.
	// Empty means the identifier is fully consistent across stores.
	Issues []string
}

// Consistent reports whether the entry has no recorded anomalies.
func (e *StatusEntry) Consistent() bool {
	return len(e.Issues) == 0
}

// ReconciliationRun is the complete output of one reconciler execution:
// one StatusEntry per identifier seen in any store, ordered by identifier.
type ReconciliationRun struct {
	// ID is assigned by the report store on save; zero until persisted.
	ID int64

	// StartedAt and CompletedAt bound the run.
	StartedAt   time.Time
	CompletedAt time.Time

	// Entries holds one entry per identifier, sorted by identifier.
	Entries []StatusEntry
}

// Issues returns the subset of entries with a non-empty issue list,
// preserving order. This is the operator-review view.
func (r *ReconciliationRun) Issues() []StatusEntry {
	var out []StatusEntry
	for _, e := range r.Entries {
		if !e.Consistent() {
			out = append(out, e)
		}
	}
	return out
}

// ReportColumns is the frozen column order of the persisted flat report.
var ReportColumns = []string{
	"pdf_id",
	"title",
	"pdf_file_name",
	"gcp_file_id",
	"gcp_file_ids",
	"in_sheet",
	"in_drive",
	"in_qdrant",
	"record_count",
	"page_count",
	"unique_file_count",
	"zero_record_count",
	"empty_gcp_file_id_in_sheet",
	"empty_gcp_file_id_in_qdrant",
	"duplicate_pdf_id_in_sheet",
	"file_ids_match",
	"issues",
}
