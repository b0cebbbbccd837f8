// Package sheets implements the catalog sheet driven port on the Google
// Sheets API.
package sheets

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"google.golang.org/api/sheets/v4"

	"github.com/custodia-labs/librarian-cli/internal/adapters/driven/google"
	"github.com/custodia-labs/librarian-cli/internal/core/domain"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driven"
)

// Ensure SheetStore implements the interface.
var _ driven.SheetStore = (*SheetStore)(nil)

// SheetStore reads and writes catalog rows in one tab of a spreadsheet.
// Row 1 is the header; data rows start at 2. Columns are addressed by
// header name, so column order in the sheet does not matter.
type SheetStore struct {
	svc           *sheets.Service
	limiter       *google.RateLimiter
	spreadsheetID string
	sheetName     string
}

// NewSheetStore creates a sheet store over one spreadsheet tab. A nil
// limiter falls back to the Sheets service defaults.
func NewSheetStore(svc *sheets.Service, limiter *google.RateLimiter, spreadsheetID, sheetName string) *SheetStore {
	if limiter == nil {
		limiter = google.NewRateLimiter(google.ServiceSheets)
	}
	return &SheetStore{
		svc:           svc,
		limiter:       limiter,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}
}

// ListRows returns every data row keyed by header name.
func (s *SheetStore) ListRows(ctx context.Context) ([]domain.RawRow, error) {
	header, values, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.RawRow, 0, len(values))
	for i, row := range values {
		fields := make(map[string]string, len(header))
		for col, name := range header {
			if col < len(row) {
				fields[name] = cellString(row[col])
			} else {
				fields[name] = ""
			}
		}
		out = append(out, domain.RawRow{Row: i + 2, Fields: fields})
	}
	return out, nil
}

// AppendRow adds a new row, placing each field under its header column.
func (s *SheetStore) AppendRow(ctx context.Context, fields map[string]string) error {
	header, _, err := s.fetch(ctx)
	if err != nil {
		return err
	}

	row := make([]any, len(header))
	for col, name := range header {
		row[col] = fields[name]
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	_, err = s.svc.Spreadsheets.Values.Append(
		s.spreadsheetID,
		s.sheetName,
		&sheets.ValueRange{Values: [][]any{row}},
	).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("appending row: %w", google.MapError(err))
	}
	return nil
}

// UpdateRow sets fields on every row whose identifier column matches.
func (s *SheetStore) UpdateRow(ctx context.Context, identifier string, fields map[string]string) error {
	header, values, err := s.fetch(ctx)
	if err != nil {
		return err
	}

	idCol := columnIndex(header, domain.ColumnIdentifier)
	if idCol < 0 {
		return fmt.Errorf("sheet has no %q column", domain.ColumnIdentifier)
	}

	var data []*sheets.ValueRange
	for i, row := range values {
		if !matchesIdentifier(row, idCol, identifier) {
			continue
		}
		rowNum := i + 2
		for name, value := range fields {
			col := columnIndex(header, name)
			if col < 0 {
				return fmt.Errorf("sheet has no %q column", name)
			}
			data = append(data, &sheets.ValueRange{
				Range:  fmt.Sprintf("%s!%s%d", s.sheetName, columnLetter(col), rowNum),
				Values: [][]any{{value}},
			})
		}
	}
	if len(data) == 0 {
		return domain.ErrNotFound
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	_, err = s.svc.Spreadsheets.Values.BatchUpdate(s.spreadsheetID, &sheets.BatchUpdateValuesRequest{
		ValueInputOption: "RAW",
		Data:             data,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("updating rows: %w", google.MapError(err))
	}
	return nil
}

// DeleteRow removes every row whose identifier column matches. Rows are
// deleted bottom-up so earlier deletions do not shift later indices.
func (s *SheetStore) DeleteRow(ctx context.Context, identifier string) error {
	header, values, err := s.fetch(ctx)
	if err != nil {
		return err
	}

	idCol := columnIndex(header, domain.ColumnIdentifier)
	if idCol < 0 {
		return fmt.Errorf("sheet has no %q column", domain.ColumnIdentifier)
	}

	var rowNums []int
	for i, row := range values {
		if matchesIdentifier(row, idCol, identifier) {
			rowNums = append(rowNums, i+2)
		}
	}
	if len(rowNums) == 0 {
		return nil
	}
	sort.Sort(sort.Reverse(sort.IntSlice(rowNums)))

	sheetID, err := s.sheetID(ctx)
	if err != nil {
		return err
	}

	requests := make([]*sheets.Request, 0, len(rowNums))
	for _, rowNum := range rowNums {
		requests = append(requests, &sheets.Request{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(rowNum - 1),
					EndIndex:   int64(rowNum),
				},
			},
		})
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	_, err = s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("deleting rows: %w", google.MapError(err))
	}
	return nil
}

// fetch reads the whole tab and splits header from data rows.
func (s *SheetStore) fetch(ctx context.Context) ([]string, [][]any, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, nil, err
	}
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.sheetName).Context(ctx).Do()
	if err != nil {
		return nil, nil, fmt.Errorf("reading sheet: %w", google.MapError(err))
	}
	if len(resp.Values) == 0 {
		return nil, nil, fmt.Errorf("sheet %s is empty, expected a header row", s.sheetName)
	}

	header := make([]string, len(resp.Values[0]))
	for i, cell := range resp.Values[0] {
		header[i] = strings.TrimSpace(cellString(cell))
	}
	return header, resp.Values[1:], nil
}

// sheetID resolves the numeric sheet ID of the configured tab, needed for
// structural (row deletion) requests.
func (s *SheetStore) sheetID(ctx context.Context) (int64, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return 0, err
	}
	meta, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("reading spreadsheet metadata: %w", google.MapError(err))
	}
	for _, sheet := range meta.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == s.sheetName {
			return sheet.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("sheet %s: %w", s.sheetName, domain.ErrNotFound)
}

func matchesIdentifier(row []any, idCol int, identifier string) bool {
	if idCol >= len(row) {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(cellString(row[idCol])), identifier)
}

func columnIndex(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}

// columnLetter converts a zero-based column index to its A1 letter
// ("A", "Z", "AA", ...).
func columnLetter(index int) string {
	letters := ""
	for index >= 0 {
		letters = string(rune('A'+index%26)) + letters
		index = index/26 - 1
	}
	return letters
}

func cellString(cell any) string {
	switch v := cell.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
