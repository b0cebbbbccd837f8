package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/librarian-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/librarian-cli/internal/core/domain"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driven"
)

// Store is a SQLite-backed storage for reconciliation reports and the
// lifecycle audit log, exposed through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.librarian/data/librarian.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".librarian", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "librarian.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// ReportStore returns a ReportStore interface backed by this store.
func (s *Store) ReportStore() driven.ReportStore {
	return &reportStore{store: s}
}

// EventLog returns an EventLog interface backed by this store.
func (s *Store) EventLog() driven.EventLog {
	return &eventLog{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Report Store ====================

// reportStore implements driven.ReportStore.
type reportStore struct {
	store *Store
}

var _ driven.ReportStore = (*reportStore)(nil)

// SaveRun stores a run and its entries in one transaction.
func (s *reportStore) SaveRun(ctx context.Context, run *domain.ReconciliationRun) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (started_at, completed_at) VALUES (?, ?)
	`, run.StartedAt, run.CompletedAt)
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_entries (
			run_id, position, pdf_id, title, pdf_file_name, gcp_file_id,
			gcp_file_ids, in_sheet, in_drive, in_qdrant, record_count,
			page_count, unique_file_count, zero_record_count,
			empty_gcp_file_id_in_sheet, empty_gcp_file_id_in_qdrant,
			duplicate_pdf_id_in_sheet, file_ids_match, issues
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, e := range run.Entries {
		fileIDsJSON, err := json.Marshal(e.QdrantFileIDs)
		if err != nil {
			return fmt.Errorf("marshalling file ids: %w", err)
		}
		issuesJSON, err := json.Marshal(e.Issues)
		if err != nil {
			return fmt.Errorf("marshalling issues: %w", err)
		}

		if _, err := stmt.ExecContext(ctx,
			id, i, e.Identifier, e.Title, e.FileName, e.SheetFileID,
			string(fileIDsJSON), e.InSheet, e.InDrive, e.InQdrant, e.RecordCount,
			e.PageCount, e.UniqueFileCount, e.ZeroRecordCount,
			e.EmptyFileIDInSheet, e.EmptyFileIDInQdrant,
			e.DuplicateIdentifierInSheet, string(e.FileIDsMatch), string(issuesJSON),
		); err != nil {
			return fmt.Errorf("saving run entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	run.ID = id
	return nil
}

// GetRun retrieves a run with all its entries.
func (s *reportStore) GetRun(ctx context.Context, id int64) (*domain.ReconciliationRun, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, started_at, completed_at FROM runs WHERE id = ?
	`, id)

	var run domain.ReconciliationRun
	if err := row.Scan(&run.ID, &run.StartedAt, &run.CompletedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning run: %w", err)
	}

	entries, err := s.runEntries(ctx, run.ID)
	if err != nil {
		return nil, err
	}
	run.Entries = entries
	return &run, nil
}

// ListRuns returns saved runs without entries, newest first.
func (s *reportStore) ListRuns(ctx context.Context) ([]domain.ReconciliationRun, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, started_at, completed_at FROM runs ORDER BY id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.ReconciliationRun //nolint:prealloc // size unknown from query
	for rows.Next() {
		var run domain.ReconciliationRun
		if err := rows.Scan(&run.ID, &run.StartedAt, &run.CompletedAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	return runs, nil
}

// LatestRun returns the most recent run with entries.
func (s *reportStore) LatestRun(ctx context.Context) (*domain.ReconciliationRun, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id FROM runs ORDER BY id DESC LIMIT 1
	`)

	var id int64
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning latest run id: %w", err)
	}

	return s.GetRun(ctx, id)
}

// runEntries loads the entries of one run in saved order.
func (s *reportStore) runEntries(ctx context.Context, runID int64) ([]domain.StatusEntry, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT pdf_id, title, pdf_file_name, gcp_file_id, gcp_file_ids,
			in_sheet, in_drive, in_qdrant, record_count, page_count,
			unique_file_count, zero_record_count, empty_gcp_file_id_in_sheet,
			empty_gcp_file_id_in_qdrant, duplicate_pdf_id_in_sheet,
			file_ids_match, issues
		FROM run_entries WHERE run_id = ?
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying run entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.StatusEntry //nolint:prealloc // size unknown from query
	for rows.Next() {
		var e domain.StatusEntry
		var fileIDsJSON, issuesJSON, match string
		if err := rows.Scan(&e.Identifier, &e.Title, &e.FileName, &e.SheetFileID, &fileIDsJSON,
			&e.InSheet, &e.InDrive, &e.InQdrant, &e.RecordCount, &e.PageCount,
			&e.UniqueFileCount, &e.ZeroRecordCount, &e.EmptyFileIDInSheet,
			&e.EmptyFileIDInQdrant, &e.DuplicateIdentifierInSheet,
			&match, &issuesJSON); err != nil {
			return nil, fmt.Errorf("scanning run entry: %w", err)
		}

		if err := json.Unmarshal([]byte(fileIDsJSON), &e.QdrantFileIDs); err != nil {
			return nil, fmt.Errorf("unmarshalling file ids: %w", err)
		}
		if err := json.Unmarshal([]byte(issuesJSON), &e.Issues); err != nil {
			return nil, fmt.Errorf("unmarshalling issues: %w", err)
		}
		e.FileIDsMatch = domain.Match(match)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating run entries: %w", err)
	}

	return entries, nil
}

// ==================== Event Log ====================

// eventLog implements driven.EventLog.
type eventLog struct {
	store *Store
}

var _ driven.EventLog = (*eventLog)(nil)

// Append stores an event and assigns its ID.
func (l *eventLog) Append(ctx context.Context, event *domain.Event) error {
	res, err := l.store.db.ExecContext(ctx, `
		INSERT INTO events (action, pdf_id, pdf_file_name, detail, at)
		VALUES (?, ?, ?, ?, ?)
	`, event.Action, event.Identifier, event.FileName, event.Detail, event.At)
	if err != nil {
		return fmt.Errorf("appending event: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading event id: %w", err)
	}
	event.ID = id
	return nil
}

// List returns recorded events, newest first, up to limit (0 = no limit).
func (l *eventLog) List(ctx context.Context, limit int) ([]domain.Event, error) {
	query := `
		SELECT id, action, pdf_id, pdf_file_name, detail, at
		FROM events ORDER BY id DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := l.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var events []domain.Event //nolint:prealloc // size unknown from query
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.Action, &e.Identifier, &e.FileName, &e.Detail, &e.At); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}

	return events, nil
}
