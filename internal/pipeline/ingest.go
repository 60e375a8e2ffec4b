package pipeline

import (
	"context"

	"github.com/couchcryptid/surf-session-etl/internal/domain"
)

// ingest appends windsurf activities recorded after the newest stored
// session. The watermark is the start date of the last data row; an empty
// sheet starts from the default epoch so the whole history is pulled.
func (p *Pipeline) ingest(ctx context.Context) error {
	after, err := p.watermark(ctx)
	if err != nil {
		return err
	}

	items, err := p.source.ListActivities(ctx, after)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		p.logger.Info("no new activities", "after", after)
		return nil
	}

	rows := domain.PrepareRows(items, p.cfg.ActivityType)
	p.logger.Info("filtered activities", "fetched", len(items), "matched", len(rows), "type", p.cfg.ActivityType)
	if len(rows) == 0 {
		return nil
	}

	if err := p.store.AppendRows(ctx, rows); err != nil {
		return err
	}
	p.metrics.SessionsIngested.Add(float64(len(rows)))
	return nil
}

func (p *Pipeline) watermark(ctx context.Context) (int64, error) {
	lastRow, err := p.store.LastRow(ctx)
	if err != nil {
		return 0, err
	}
	if lastRow <= 1 {
		return domain.DefaultAfterUnix, nil
	}

	cells, err := p.store.ReadRange(ctx, lastRow, 1, 1, 1)
	if err != nil {
		return 0, err
	}
	if len(cells) == 0 || len(cells[0]) == 0 {
		return domain.DefaultAfterUnix, nil
	}
	return domain.LastStartUnix(cells[0][0]), nil
}
