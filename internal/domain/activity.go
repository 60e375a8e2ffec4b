package domain

import "strconv"

// Activity is one record from the Strava activity list endpoint. Only the
// fields the pipeline consumes are mapped.
type Activity struct {
	ID             int64     `json:"id"`
	Type           string    `json:"type"`
	Name           string    `json:"name"`
	StartDateLocal string    `json:"start_date_local"`
	Distance       float64   `json:"distance"`      // meters
	ElapsedTime    int64     `json:"elapsed_time"`  // seconds
	AverageSpeed   float64   `json:"average_speed"` // m/s
	MaxSpeed       float64   `json:"max_speed"`     // m/s
	StartLatLng    []float64 `json:"start_latlng"`  // [lat, lon], null when GPS was off
}

// ActivityDetail is the subset of the Strava detail endpoint the content
// stage overwrites on every run.
type ActivityDetail struct {
	Name         string `json:"name"`
	AthleteCount int64  `json:"athlete_count"`
	Description  string `json:"description"`
}

// IngestedColumns is the width of a freshly ingested row: the positional
// fields known at list time. Enrichment columns to the right stay empty until
// their stages run.
const IngestedColumns = 9

// DefaultAfterUnix is the ingestion watermark used when the sheet holds no
// data rows yet (1990-01-01 UTC).
const DefaultAfterUnix int64 = 631152000

// PrepareRows filters raw activities to the wanted type and renders each
// match as an ingestion row, preserving the original relative order. Unit
// conversion happens here: meters to kilometers, m/s to knots. Activities
// recorded without GPS keep empty coordinate cells.
func PrepareRows(items []Activity, wantType string) [][]string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		if item.Type != wantType {
			continue
		}

		lat, lon := "", ""
		if len(item.StartLatLng) == 2 {
			lat = formatFloat(item.StartLatLng[0])
			lon = formatFloat(item.StartLatLng[1])
		}

		rows = append(rows, []string{
			item.StartDateLocal,
			strconv.FormatInt(item.ID, 10),
			item.Name,
			formatFloat(item.Distance / 1000),
			strconv.FormatInt(item.ElapsedTime, 10),
			formatFloat(SpeedToKnots(item.AverageSpeed)),
			formatFloat(SpeedToKnots(item.MaxSpeed)),
			lat,
			lon,
		})
	}
	return rows
}

// LastStartUnix converts the start date of the most recent stored row into
// the unix "after" parameter for the next list call. Falls back to
// DefaultAfterUnix when the cell is empty or unparseable.
func LastStartUnix(startDate string) int64 {
	t, err := parseLocalTime(startDate)
	if err != nil {
		return DefaultAfterUnix
	}
	return t.UTC().Unix()
}
