// Package domain models windsurf sessions sourced from the Strava API and
// enriched with geolocation and historical weather observations.
//
// # Data Sources
//
// Sessions originate from the Strava activity list endpoint
// (athlete/activities), paged with after/per_page/page and filtered to a
// single activity type. The list record carries start time, distance,
// duration, speeds, and start coordinates; the detail endpoint
// (activities/{id}) adds the name, athlete count, and free-text description.
//
// Weather observations come from the KNMI hourly observation service
// (uurgegevens). The feed is newline-delimited text: lines prefixed with '#'
// are comments, remaining lines are CSV rows against a fixed 25-column header
// (station, date, hour, then 22 observation variables).
//
// # Unit Conventions
//
// Strava speeds are meters/second and distances meters; the sheet stores
// knots and kilometers.
//
//	knots    = m/s ÷ 0.27777777777778
//	km       = meters ÷ 1000
//
// KNMI wind speeds (FH, FF, FX) are deci-meters/second and temperatures
// (T, T10N, TD) tenths of a degree Celsius; aggregated results are converted
// to knots and whole degrees.
//
//	knots    = dm/s × 0.194384449
//	degrees  = tenths ÷ 10
//
// Wind direction (DD) is compass degrees and passes through unconverted.
//
// # Time Windows
//
// A session's weather query window is [start, start+duration] truncated to
// hour resolution and rendered as compact YYYYMMDDHH stamps, e.g. a session
// starting 2015-11-15T09:00:00 lasting four hours queries 2015111509 to
// 2015111513. Start times are treated as already being in the KNMI local
// reference frame; no timezone conversion is performed.
//
// # Session Lifecycle
//
// Sessions are appended once by ingestion and then enriched in place over
// successive runs: location (city/country from coordinates), user-generated
// content (always re-fetched), and weather (filled once, guarded by the
// average-wind cell). Rows are never reordered or deleted. A session whose
// prerequisites are missing — no coordinates, a city outside the spot list, a
// spot without a station — is left untouched and picked up again on a later
// run.
package domain
