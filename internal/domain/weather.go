package domain

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// observationHeader is the fixed column order of the KNMI uurgegevens feed:
// station id, date, hour, then the observation variables. The feed itself
// repeats this header inside a comment block; data lines follow it
// positionally.
var observationHeader = []string{
	"STN", "YYYYMMDD", "HH",
	"DD",   // wind direction, degrees
	"FH",   // hourly mean wind speed, 0.1 m/s
	"FF",   // mean wind speed over the last 10 minutes, 0.1 m/s
	"FX",   // strongest gust, 0.1 m/s
	"T",    // temperature, 0.1 °C
	"T10N", // minimum temperature at 10 cm, 0.1 °C
	"TD",   // dew point, 0.1 °C
	"SQ",   // sunshine duration, 0.1 hour
	"Q",    // global radiation, J/cm²
	"DR",   // precipitation duration, 0.1 hour
	"RH",   // hourly precipitation, 0.1 mm
	"P",    // air pressure, 0.1 hPa
	"VV",   // visibility class
	"N",    // cloud cover, octants
	"U",    // relative humidity, %
	"WW",   // weather code
	"IX",   // weather code indicator
	"M",    // fog
	"R",    // rain
	"S",    // snow
	"O",    // thunder
	"Y",    // ice formation
}

// keyColumns is the number of leading non-variable columns (STN, YYYYMMDD, HH).
const keyColumns = 3

// knotsVariables are stored in deci-meters/second and convert to knots.
var knotsVariables = map[string]bool{"FH": true, "FF": true, "FX": true}

// degreeVariables are stored in tenths of a degree and convert to degrees.
var degreeVariables = map[string]bool{"T": true, "T10N": true, "TD": true}

// Observations holds a transposed weather feed: one value vector per
// variable code, each vector holding one sample per observed hour.
type Observations struct {
	variables map[string][]string
	order     []string
	hours     int
}

// Hours returns the number of observation lines in the feed.
func (o *Observations) Hours() int { return o.hours }

// Values returns the raw hourly samples for a variable code.
func (o *Observations) Values(code string) []string {
	return o.variables[code]
}

// VariableStats is the aggregate for one observation variable across the
// query window, converted to its public unit.
type VariableStats struct {
	Average float64
	Max     float64
	Samples int
}

// ParseObservations parses the raw KNMI feed text: comment lines ('#' prefix)
// are stripped, remaining lines are CSV rows against the fixed header, and
// the result is transposed into per-variable vectors. A variable whose first
// sample is blank is discarded entirely — the station does not report it for
// this window. Returns ErrNoObservations when no data lines remain.
func ParseObservations(feed string) (*Observations, error) {
	var lines [][]string
	for _, line := range strings.Split(feed, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		fields, err := splitObservationLine(trimmed)
		if err != nil {
			continue
		}
		lines = append(lines, fields)
	}

	if len(lines) == 0 {
		return nil, ErrNoObservations
	}

	obs := &Observations{
		variables: make(map[string][]string, len(observationHeader)),
		hours:     len(lines),
	}

	for col, code := range observationHeader {
		first := fieldAt(lines[0], col)
		if first == "" {
			continue
		}
		values := make([]string, len(lines))
		for i, fields := range lines {
			values[i] = fieldAt(fields, col)
		}
		obs.variables[code] = values
		obs.order = append(obs.order, code)
	}

	return obs, nil
}

// Aggregate computes per-variable averages and maxima over the window and
// applies unit conversion. Non-numeric samples are skipped rather than
// poisoning the mean; this mirrors the loose numeric coercion of the source
// feed and is a known weak point when a station reports partial hours.
// The three key columns (station, date, hour) are excluded.
func (o *Observations) Aggregate() map[string]VariableStats {
	stats := make(map[string]VariableStats, len(o.order))
	for _, code := range o.order {
		if isKeyColumn(code) {
			continue
		}

		var sum, max float64
		count := 0
		for _, raw := range o.variables[code] {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				continue
			}
			sum += v
			if count == 0 || v > max {
				max = v
			}
			count++
		}
		if count == 0 {
			continue
		}

		avg := sum / float64(count)
		switch {
		case knotsVariables[code]:
			avg = DeciMSToKnots(avg)
			max = DeciMSToKnots(max)
		case degreeVariables[code]:
			avg = TenthsToDegrees(avg)
			max = TenthsToDegrees(max)
		}

		stats[code] = VariableStats{Average: avg, Max: max, Samples: count}
	}
	return stats
}

func isKeyColumn(code string) bool {
	for _, key := range observationHeader[:keyColumns] {
		if code == key {
			return true
		}
	}
	return false
}

// splitObservationLine CSV-parses one data line and trims the space padding
// KNMI uses to column-align values.
func splitObservationLine(line string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.TrimLeadingSpace = true
	fields, err := r.Read()
	if err != nil {
		return nil, err
	}
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}
	return fields, nil
}

func fieldAt(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}
