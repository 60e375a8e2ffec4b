// Command validate checks a CSV export of the session sheet for integrity:
// header schema, parseable cells, chronological order, and consistency of
// the enrichment columns. It uses the actual domain package so the checks
// match real pipeline behavior.
//
// Usage:
//
//	go run ./cmd/validate -csv export/sessions.csv
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"slices"

	"github.com/couchcryptid/surf-session-etl/internal/domain"
)

func main() {
	csvPath := flag.String("csv", "", "path to a CSV export of the session sheet")
	flag.Parse()

	if *csvPath == "" {
		fmt.Fprintln(os.Stderr, "usage: validate -csv <file>")
		os.Exit(2)
	}

	problems, rows, err := validateFile(*csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "validate: %v\n", err)
		os.Exit(1)
	}

	for _, p := range problems {
		fmt.Println(p)
	}
	if len(problems) > 0 {
		fmt.Printf("\nFAIL: %d problem(s) in %d data row(s)\n", len(problems), rows)
		os.Exit(1)
	}
	fmt.Printf("OK: %d data row(s)\n", rows)
}

func validateFile(path string) (problems []string, rows int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, 0, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, 0, fmt.Errorf("%s is empty", path)
	}

	if !slices.Equal(records[0], domain.Header()) {
		problems = append(problems, fmt.Sprintf("row 1: header does not match schema: %v", records[0]))
	}

	var prevStart int64
	for i, record := range records[1:] {
		rowNum := i + 2
		problems = append(problems, checkRow(record, rowNum)...)

		s := domain.SessionFromRow(record)
		if start := domain.LastStartUnix(s.StartDate); start != domain.DefaultAfterUnix {
			if start < prevStart {
				problems = append(problems, fmt.Sprintf("row %d: start date %s is earlier than the previous row", rowNum, s.StartDate))
			}
			prevStart = start
		}
	}

	return problems, len(records) - 1, nil
}

func checkRow(record []string, rowNum int) []string {
	var problems []string

	s := domain.SessionFromRow(record)
	if s.StravaID == 0 {
		problems = append(problems, fmt.Sprintf("row %d: missing or invalid Strava ID", rowNum))
	}
	if _, err := s.StartTime(); err != nil {
		problems = append(problems, fmt.Sprintf("row %d: %v", rowNum, err))
	}
	if s.DistanceKm < 0 {
		problems = append(problems, fmt.Sprintf("row %d: negative distance", rowNum))
	}
	if s.DurationSec < 0 {
		problems = append(problems, fmt.Sprintf("row %d: negative duration", rowNum))
	}
	if s.MaxSpeedKnots < s.AvgSpeedKnots {
		problems = append(problems, fmt.Sprintf("row %d: max speed below average speed", rowNum))
	}

	// One coordinate without the other means a hand-edited row; the location
	// stage needs both.
	if (s.Lat == nil) != (s.Lon == nil) {
		problems = append(problems, fmt.Sprintf("row %d: only one of Lat/Lon is set", rowNum))
	}

	// A filled average-wind cell marks the row as weather-enriched; the
	// companion columns should have come from the same aggregation.
	if s.AvgWind != nil && s.AvgGusts == nil {
		problems = append(problems, fmt.Sprintf("row %d: Avg Wind set but Avg Gusts empty", rowNum))
	}
	if s.AvgWind != nil && s.City == "" {
		problems = append(problems, fmt.Sprintf("row %d: weather data without a resolved city", rowNum))
	}

	return problems
}
