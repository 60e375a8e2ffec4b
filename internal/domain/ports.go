package domain

import (
	"context"
	"time"
)

// ActivitySource lists and fetches activities from the upstream fitness API.
type ActivitySource interface {
	// ListActivities pages through the list endpoint, returning every
	// activity recorded after the given unix timestamp. Implementations
	// return *AuthorizationError when no valid credential is available.
	ListActivities(ctx context.Context, afterUnix int64) ([]Activity, error)

	// ActivityDetail fetches the single-record detail for one activity.
	ActivityDetail(ctx context.Context, id int64) (ActivityDetail, error)
}

// WeatherSource fetches the raw hourly observation feed for one station and
// window. The returned text is parsed by ParseObservations.
type WeatherSource interface {
	HourlyObservations(ctx context.Context, w Window, station int) (string, error)
}

// Store is the tabular storage medium: a rectangular grid of string cells
// addressed 1-based by (row, column), with a header in row 1 and data from
// row 2 downward.
type Store interface {
	ReadRange(ctx context.Context, row, col, numRows, numCols int) ([][]string, error)
	WriteRange(ctx context.Context, row, col int, values [][]string) error
	AppendRows(ctx context.Context, values [][]string) error
	LastRow(ctx context.Context) (int, error)
	LastColumn(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
}

// Cache is a best-effort response cache with per-entry expiry. Absence or
// expiry simply triggers a live fetch; entries are never explicitly
// invalidated.
type Cache interface {
	Get(key string) ([]byte, bool)
	Put(key string, value []byte, ttl time.Duration)
}
