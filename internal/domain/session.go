package domain

import (
	"strconv"
	"strings"
	"time"
)

// Column positions in the session sheet. The header row and every data row
// follow this order; Header() is derived from the same constants so the two
// cannot drift apart.
const (
	ColStartDate = iota
	ColStravaID
	ColName
	ColDistance
	ColDuration
	ColAvgSpeed
	ColMaxSpeed
	ColLat
	ColLon
	ColCity
	ColCountry
	ColFriends
	ColDescription
	ColAvgWind
	ColAvgGusts
	ColStrongestGust
	ColAvgWindDir
	ColAvgTemp

	// NumColumns is the full sheet width.
	NumColumns
)

// columnNames maps column positions to their header cell values.
var columnNames = [NumColumns]string{
	ColStartDate:     "Start Date",
	ColStravaID:      "Strava ID",
	ColName:          "Name",
	ColDistance:      "Distance",
	ColDuration:      "Duration",
	ColAvgSpeed:      "Average Speed",
	ColMaxSpeed:      "Max Speed",
	ColLat:           "Lat",
	ColLon:           "Lon",
	ColCity:          "City",
	ColCountry:       "Country",
	ColFriends:       "Friends",
	ColDescription:   "Description",
	ColAvgWind:       "Avg Wind",
	ColAvgGusts:      "Avg Gusts",
	ColStrongestGust: "Strongest Gust",
	ColAvgWindDir:    "Avg Wind Dir",
	ColAvgTemp:       "Avg Temp",
}

// Header returns the configured header row as a fresh slice.
func Header() []string {
	h := make([]string, NumColumns)
	copy(h, columnNames[:])
	return h
}

// Session is one recorded windsurf activity, enriched over multiple runs.
// Pointer fields are nil while the corresponding cell is still empty.
type Session struct {
	StartDate     string // local ISO-like timestamp, as delivered by Strava
	StravaID      int64
	Name          string
	DistanceKm    float64
	DurationSec   int64
	AvgSpeedKnots float64
	MaxSpeedKnots float64

	Lat *float64
	Lon *float64

	City    string
	Country string

	Friends     *int64
	Description string

	AvgWind    *float64
	AvgGusts   *float64
	AvgWindDir *float64
	AvgTemp    *float64

	// StrongestGust is round-tripped from the sheet but never written by the
	// weather stage; the column is reserved.
	StrongestGust *float64
}

// HasCoordinates reports whether both start coordinates are present.
func (s *Session) HasCoordinates() bool {
	return s.Lat != nil && s.Lon != nil
}

// NeedsLocation reports whether the location stage should fill this session.
func (s *Session) NeedsLocation() bool {
	return s.City == "" || s.Country == ""
}

// NeedsWeather reports whether the weather stage may run. The average-wind
// cell doubles as the idempotence guard: once filled it is never recomputed.
func (s *Session) NeedsWeather() bool {
	return s.AvgWind == nil
}

// StartTime parses the session's local start timestamp. Strava delivers
// "2006-01-02T15:04:05Z" in start_date_local (the Z is nominal, the value is
// local); sheet edits may have introduced space-separated variants.
func (s *Session) StartTime() (time.Time, error) {
	return parseLocalTime(s.StartDate)
}

var localTimeLayouts = []string{
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
}

func parseLocalTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	var firstErr error
	for _, layout := range localTimeLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// SessionFromRow builds a typed Session from a sheet data row. Short rows are
// treated as right-padded with empty cells; unparseable numeric cells become
// the zero value (or nil for optional columns), matching how the sheet itself
// tolerates hand-edited data.
func SessionFromRow(row []string) Session {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	return Session{
		StartDate:     cell(ColStartDate),
		StravaID:      parseIntOrZero(cell(ColStravaID)),
		Name:          cell(ColName),
		DistanceKm:    parseFloatOrZero(cell(ColDistance)),
		DurationSec:   parseIntOrZero(cell(ColDuration)),
		AvgSpeedKnots: parseFloatOrZero(cell(ColAvgSpeed)),
		MaxSpeedKnots: parseFloatOrZero(cell(ColMaxSpeed)),
		Lat:           parseOptionalFloat(cell(ColLat)),
		Lon:           parseOptionalFloat(cell(ColLon)),
		City:          cell(ColCity),
		Country:       cell(ColCountry),
		Friends:       parseOptionalInt(cell(ColFriends)),
		Description:   cell(ColDescription),
		AvgWind:       parseOptionalFloat(cell(ColAvgWind)),
		AvgGusts:      parseOptionalFloat(cell(ColAvgGusts)),
		StrongestGust: parseOptionalFloat(cell(ColStrongestGust)),
		AvgWindDir:    parseOptionalFloat(cell(ColAvgWindDir)),
		AvgTemp:       parseOptionalFloat(cell(ColAvgTemp)),
	}
}

// Row renders the session as a full-width sheet row. Nil optional fields
// render as empty cells so unenriched columns stay blank.
func (s *Session) Row() []string {
	row := make([]string, NumColumns)
	row[ColStartDate] = s.StartDate
	row[ColStravaID] = strconv.FormatInt(s.StravaID, 10)
	row[ColName] = s.Name
	row[ColDistance] = formatFloat(s.DistanceKm)
	row[ColDuration] = strconv.FormatInt(s.DurationSec, 10)
	row[ColAvgSpeed] = formatFloat(s.AvgSpeedKnots)
	row[ColMaxSpeed] = formatFloat(s.MaxSpeedKnots)
	row[ColLat] = formatOptionalFloat(s.Lat)
	row[ColLon] = formatOptionalFloat(s.Lon)
	row[ColCity] = s.City
	row[ColCountry] = s.Country
	row[ColFriends] = formatOptionalInt(s.Friends)
	row[ColDescription] = s.Description
	row[ColAvgWind] = formatOptionalFloat(s.AvgWind)
	row[ColAvgGusts] = formatOptionalFloat(s.AvgGusts)
	row[ColStrongestGust] = formatOptionalFloat(s.StrongestGust)
	row[ColAvgWindDir] = formatOptionalFloat(s.AvgWindDir)
	row[ColAvgTemp] = formatOptionalFloat(s.AvgTemp)
	return row
}

func parseFloatOrZero(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseIntOrZero(s string) int64 {
	if s == "" {
		return 0
	}
	// Sheets sometimes renders integers as "123.0".
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f)
	}
	return 0
}

func parseOptionalFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseOptionalInt(s string) *int64 {
	if s == "" {
		return nil
	}
	v := parseIntOrZero(s)
	return &v
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptionalFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func formatOptionalInt(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}
