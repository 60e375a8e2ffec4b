package pipeline

import (
	"context"
	"fmt"
	"slices"

	"github.com/couchcryptid/surf-session-etl/internal/domain"
)

// ensureHeader makes row 1 match the configured column schema. An empty
// sheet gets the header appended; a mismatched header is rewritten in place
// with a warning. Data rows are never touched, so rows written under an old
// schema keep their cells as-is.
func (p *Pipeline) ensureHeader(ctx context.Context) error {
	lastRow, err := p.store.LastRow(ctx)
	if err != nil {
		return err
	}

	header := domain.Header()
	if lastRow == 0 {
		p.logger.Warn("sheet has no header, adding it")
		return p.store.AppendRows(ctx, [][]string{header})
	}

	rows, err := p.store.ReadRange(ctx, 1, 1, 1, domain.NumColumns)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("header row read returned no rows")
	}

	if slices.Equal(rows[0], header) {
		p.logger.Debug("header matches configured schema")
		return nil
	}

	p.logger.Warn("header mismatch, rewriting header row", "stored", rows[0])
	return p.store.WriteRange(ctx, 1, 1, [][]string{header})
}
