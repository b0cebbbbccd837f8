package domain

// Validation rules. Each ValidationIssue names the rule a row broke.
const (
	RuleRequired         = "required"
	RuleIdentifierSyntax = "identifier_syntax"
	RuleDuplicate        = "duplicate_identifier"
	RuleUnknownStatus    = "unknown_status"
)

// ValidationIssue is one schema violation found in a raw sheet row.
// It carries enough context for an operator to fix the source row
// without re-deriving the check.
type ValidationIssue struct {
	// Row is the 1-based sheet row (header included).
	Row int

	// Identifier is the row's pdf_id value, possibly malformed or empty.
	Identifier string

	// Field is the offending column header.
	Field string

	// Rule is the validation rule that failed.
	Rule string

	// Value is the actual cell value that failed the rule.
	Value string
}

// ValidationResult partitions a sheet into trusted and rejected rows.
// Every input row lands in exactly one of Valid or Invalid; each invalid
// row has at least one entry in Log.
type ValidationResult struct {
	// Valid holds the typed records that passed every rule.
	Valid []DocumentRecord

	// Invalid holds the raw rows excluded from downstream use.
	Invalid []RawRow

	// Log records every violation across all invalid rows.
	Log []ValidationIssue
}
