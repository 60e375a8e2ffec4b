package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/sheets/v4"

	"github.com/couchcryptid/surf-session-etl/internal/domain"
)

const (
	markupFontSize      = 9
	frozenRowCount      = 1
	frozenColumnCount   = 1
	descriptionColWidth = 70
)

// columnMarkup holds the presentation rules for one column. A zero width
// means auto-resize to content.
type columnMarkup struct {
	align        string // LEFT or RIGHT
	numberFormat string // A1 number format pattern, empty for none
	width        int64  // pixels, 0 for auto-resize
	clip         bool   // clip overflow instead of spilling into the next cell
}

// columnMarkups follows the column order of domain.Header. Text columns
// align left, numeric columns right; wind and temperature averages round to
// sensible precision for reading, the stored value stays exact.
var columnMarkups = [domain.NumColumns]columnMarkup{
	domain.ColStartDate:     {align: "LEFT"},
	domain.ColStravaID:      {align: "RIGHT"},
	domain.ColName:          {align: "LEFT"},
	domain.ColDistance:      {align: "RIGHT", numberFormat: "#.##"},
	domain.ColDuration:      {align: "RIGHT"},
	domain.ColAvgSpeed:      {align: "RIGHT", numberFormat: "#.##"},
	domain.ColMaxSpeed:      {align: "RIGHT"},
	domain.ColLat:           {align: "RIGHT"},
	domain.ColLon:           {align: "RIGHT"},
	domain.ColCity:          {align: "LEFT"},
	domain.ColCountry:       {align: "LEFT"},
	domain.ColFriends:       {align: "RIGHT"},
	domain.ColDescription:   {align: "LEFT", width: descriptionColWidth, clip: true},
	domain.ColAvgWind:       {align: "RIGHT", numberFormat: "#.#"},
	domain.ColAvgGusts:      {align: "RIGHT", numberFormat: "#.#"},
	domain.ColStrongestGust: {align: "RIGHT", numberFormat: "#.#"},
	domain.ColAvgWindDir:    {align: "RIGHT", numberFormat: "#"},
	domain.ColAvgTemp:       {align: "RIGHT", numberFormat: "#"},
}

// ApplyMarkup formats the tab: frozen header row and first column, a compact
// font over the used range, and per-column alignment, number format, and
// width. Values are untouched.
func (s *Store) ApplyMarkup(ctx context.Context) error {
	lastRow, err := s.LastRow(ctx)
	if err != nil {
		return err
	}
	if lastRow == 0 {
		return nil
	}

	requests := markupRequests(s.sheetID, int64(lastRow))
	_, err = s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("apply markup: %w", err)
	}

	s.logger.Info("applied sheet markup", "sheet", s.sheetName, "rows", lastRow)
	return nil
}

// markupRequests builds the batchUpdate request list for a tab with lastRow
// rows of content. Grid indexes are 0-based with exclusive ends.
func markupRequests(sheetID, lastRow int64) []*sheets.Request {
	requests := []*sheets.Request{
		{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId: sheetID,
					GridProperties: &sheets.GridProperties{
						FrozenRowCount:    frozenRowCount,
						FrozenColumnCount: frozenColumnCount,
					},
				},
				Fields: "gridProperties.frozenRowCount,gridProperties.frozenColumnCount",
			},
		},
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    0,
					EndRowIndex:      lastRow,
					StartColumnIndex: 0,
					EndColumnIndex:   domain.NumColumns,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat: &sheets.TextFormat{FontSize: markupFontSize},
					},
				},
				Fields: "userEnteredFormat.textFormat.fontSize",
			},
		},
	}

	for col := int64(0); col < domain.NumColumns; col++ {
		m := columnMarkups[col]

		if m.align != "" {
			requests = append(requests, &sheets.Request{
				RepeatCell: &sheets.RepeatCellRequest{
					// Header cell only; data cells inherit the column default.
					Range: &sheets.GridRange{
						SheetId:          sheetID,
						StartRowIndex:    0,
						EndRowIndex:      1,
						StartColumnIndex: col,
						EndColumnIndex:   col + 1,
					},
					Cell: &sheets.CellData{
						UserEnteredFormat: &sheets.CellFormat{HorizontalAlignment: m.align},
					},
					Fields: "userEnteredFormat.horizontalAlignment",
				},
			})
		}

		if m.numberFormat != "" && lastRow > 1 {
			requests = append(requests, &sheets.Request{
				RepeatCell: &sheets.RepeatCellRequest{
					Range: &sheets.GridRange{
						SheetId:          sheetID,
						StartRowIndex:    1,
						EndRowIndex:      lastRow,
						StartColumnIndex: col,
						EndColumnIndex:   col + 1,
					},
					Cell: &sheets.CellData{
						UserEnteredFormat: &sheets.CellFormat{
							NumberFormat: &sheets.NumberFormat{Type: "NUMBER", Pattern: m.numberFormat},
						},
					},
					Fields: "userEnteredFormat.numberFormat",
				},
			})
		}

		if m.clip && lastRow > 1 {
			requests = append(requests, &sheets.Request{
				RepeatCell: &sheets.RepeatCellRequest{
					Range: &sheets.GridRange{
						SheetId:          sheetID,
						StartRowIndex:    1,
						EndRowIndex:      lastRow,
						StartColumnIndex: col,
						EndColumnIndex:   col + 1,
					},
					Cell: &sheets.CellData{
						UserEnteredFormat: &sheets.CellFormat{WrapStrategy: "CLIP"},
					},
					Fields: "userEnteredFormat.wrapStrategy",
				},
			})
		}

		dimRange := &sheets.DimensionRange{
			SheetId:    sheetID,
			Dimension:  "COLUMNS",
			StartIndex: col,
			EndIndex:   col + 1,
		}
		if m.width > 0 {
			requests = append(requests, &sheets.Request{
				UpdateDimensionProperties: &sheets.UpdateDimensionPropertiesRequest{
					Range:      dimRange,
					Properties: &sheets.DimensionProperties{PixelSize: m.width},
					Fields:     "pixelSize",
				},
			})
		} else {
			requests = append(requests, &sheets.Request{
				AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{Dimensions: dimRange},
			})
		}
	}

	return requests
}
