package domain

// Conversion constants carried over from the spreadsheet formulas; kept
// bit-identical so re-ingesting an activity reproduces the stored cells.
const (
	// metersPerSecondFactor converts m/s to the sheet's speed unit.
	metersPerSecondFactor = 0.27777777777778

	// deciMetersToKnots converts KNMI deci-meters/second to knots.
	deciMetersToKnots = 0.194384449
)

// SpeedToKnots converts a Strava speed in meters/second to the sheet's
// speed unit.
func SpeedToKnots(ms float64) float64 {
	return ms / metersPerSecondFactor
}

// DeciMSToKnots converts a KNMI wind value in deci-meters/second to knots.
func DeciMSToKnots(v float64) float64 {
	return v * deciMetersToKnots
}

// TenthsToDegrees converts a KNMI temperature in tenths of a degree Celsius
// to whole degrees.
func TenthsToDegrees(v float64) float64 {
	return v / 10
}
