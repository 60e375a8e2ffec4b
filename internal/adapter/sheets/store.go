// Package sheets implements domain.Store against a single Google Sheets tab
// using the Sheets v4 API.
package sheets

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/couchcryptid/surf-session-etl/internal/config"
	"github.com/couchcryptid/surf-session-etl/internal/observability"
)

// rawInput writes cell values as-is, without the spreadsheet reinterpreting
// them as formulas or locale-dependent numbers.
const rawInput = "RAW"

// Store reads and writes one sheet tab as a rectangular grid of string
// cells, addressed 1-based. It implements domain.Store.
type Store struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetName     string
	sheetID       int64
	logger        *slog.Logger
	metrics       *observability.Metrics
}

// NewStore builds a Sheets-backed store and makes sure the configured tab
// exists, creating it when missing.
func NewStore(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (*Store, error) {
	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	s := &Store{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     cfg.SheetName,
		logger:        logger,
		metrics:       metrics,
	}
	if err := s.ensureSheet(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureSheet(ctx context.Context) error {
	spreadsheet, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet: %w", err)
	}

	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties.Title == s.sheetName {
			s.sheetID = sheet.Properties.SheetId
			return nil
		}
	}

	s.logger.Warn("sheet missing, creating it", "sheet", s.sheetName)
	resp, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: s.sheetName},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("create sheet %q: %w", s.sheetName, err)
	}

	s.sheetID = resp.Replies[0].AddSheet.Properties.SheetId
	return nil
}

// ReadRange returns the cells of the given rectangle as strings. Cells the
// sheet never stored come back as empty strings, so every row has exactly
// numCols cells.
func (s *Store) ReadRange(ctx context.Context, row, col, numRows, numCols int) ([][]string, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.rangeA1(row, col, numRows, numCols)).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read range: %w", err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		cells := make([]string, numCols)
		for i, v := range raw {
			if i >= numCols {
				break
			}
			cells[i] = fmt.Sprint(v)
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// WriteRange overwrites the rectangle starting at (row, col) with the given
// values.
func (s *Store) WriteRange(ctx context.Context, row, col int, values [][]string) error {
	if len(values) == 0 {
		return nil
	}

	numCols := 0
	for _, r := range values {
		if len(r) > numCols {
			numCols = len(r)
		}
	}

	_, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, s.rangeA1(row, col, len(values), numCols), valueRange(values)).
		ValueInputOption(rawInput).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write range: %w", err)
	}

	s.metrics.StoreWrites.Inc()
	return nil
}

// AppendRows appends rows after the last row with content.
func (s *Store) AppendRows(ctx context.Context, values [][]string) error {
	if len(values) == 0 {
		return nil
	}

	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, s.sheetName, valueRange(values)).
		ValueInputOption(rawInput).
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append rows: %w", err)
	}

	s.metrics.StoreWrites.Inc()
	s.logger.Info("appended rows", "sheet", s.sheetName, "count", len(values))
	return nil
}

// LastRow returns the 1-based index of the last row with content, 0 for an
// empty sheet.
func (s *Store) LastRow(ctx context.Context) (int, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.sheetName).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("read sheet: %w", err)
	}
	return len(resp.Values), nil
}

// LastColumn returns the 1-based index of the widest row's last cell, 0 for
// an empty sheet.
func (s *Store) LastColumn(ctx context.Context) (int, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.sheetName).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("read sheet: %w", err)
	}

	last := 0
	for _, row := range resp.Values {
		if len(row) > last {
			last = len(row)
		}
	}
	return last, nil
}

// Clear removes all values from the tab; formatting stays.
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.svc.Spreadsheets.Values.Clear(s.spreadsheetID, s.sheetName, &sheets.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear sheet: %w", err)
	}
	return nil
}

func (s *Store) rangeA1(row, col, numRows, numCols int) string {
	return fmt.Sprintf("%s!%s%d:%s%d",
		s.sheetName,
		columnLetter(col), row,
		columnLetter(col+numCols-1), row+numRows-1)
}

// columnLetter converts a 1-based column index into A1 notation (1 → A,
// 27 → AA).
func columnLetter(col int) string {
	var letters []byte
	for col > 0 {
		col--
		letters = append([]byte{byte('A' + col%26)}, letters...)
		col /= 26
	}
	return string(letters)
}

func valueRange(values [][]string) *sheets.ValueRange {
	rows := make([][]any, len(values))
	for i, r := range values {
		cells := make([]any, len(r))
		for j, c := range r {
			cells[j] = c
		}
		rows[i] = cells
	}
	return &sheets.ValueRange{Values: rows}
}
