package domain

// Status is the lifecycle stage of a catalogued document.
// The sheet is the single source of truth for status; only lifecycle
// drivers (or an operator editing the sheet) may change it.
type Status string

const (
	// StatusDraft is a proposed document awaiting tagging.
	StatusDraft Status = "draft"

	// StatusTaggedForPromotion marks a row for the next promotion run.
	StatusTaggedForPromotion Status = "tagged_for_promotion"

	// StatusLive is a fully published document: file in the live folder,
	// vectors indexed, sheet row authoritative.
	StatusLive Status = "live"

	// StatusTaggedForDeletion marks a row for the next deletion run.
	StatusTaggedForDeletion Status = "tagged_for_deletion"

	// StatusDeleted marks a row whose traces have been removed.
	// Rows normally disappear entirely; the value exists for sheets that
	// keep tombstones instead of deleting rows.
	StatusDeleted Status = "deleted"
)

// Statuses lists every allowed lifecycle value.
var Statuses = []Status{
	StatusDraft,
	StatusTaggedForPromotion,
	StatusLive,
	StatusTaggedForDeletion,
	StatusDeleted,
}

// IsValid reports whether s is one of the allowed lifecycle values.
func (s Status) IsValid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// DocumentRecord is one logical document as recorded in the catalog sheet.
// The Identifier is content-addressable (derived from the document bytes)
// and joins the sheet, Drive and Qdrant views of the same document.
type DocumentRecord struct {
	// Identifier is the content-derived UUID (sheet column pdf_id).
	Identifier string

	// Title is the human-readable title.
	Title string

	// FileName is the original document file name (sheet column pdf_file_name).
	FileName string

	// FileID is the Drive file ID (sheet column gcp_file_id). May be empty
	// for rows whose file was never uploaded.
	FileID string

	// Status is the lifecycle stage.
	Status Status

	// StatusTimestamp is when the status last changed (RFC 3339, UTC).
	StatusTimestamp string

	// UpsertDate is when the document was indexed into the vector store.
	UpsertDate string

	// Row is the 1-based sheet row this record came from, including the
	// header row. Adapter-provided; used for validation messages only.
	Row int
}

// RawRow is an untyped sheet row before validation. No raw row crosses
// into the reconciler; the row validator converts it to a DocumentRecord
// or rejects it.
type RawRow struct {
	// Row is the 1-based sheet row number, including the header row.
	Row int

	// Fields maps column header to cell value.
	Fields map[string]string
}

// Sheet column headers. Frozen: the report artifact and downstream
// consumers rely on these names.
const (
	ColumnIdentifier      = "pdf_id"
	ColumnTitle           = "title"
	ColumnFileName        = "pdf_file_name"
	ColumnFileID          = "gcp_file_id"
	ColumnStatus          = "status"
	ColumnStatusTimestamp = "status_timestamp"
	ColumnUpsertDate      = "upsert_date"
)
