package domain

// Spot is a known windsurf locality with an optional KNMI station.
// A nil StationID means no hourly observations exist near the spot; such
// sessions are permanently outside weather enrichment.
type Spot struct {
	Locality  string
	StationID *int
}

func stn(id int) *int { return &id }

// DefaultSpots is the static reference list of supported localities. Lookup
// is by exact, case-sensitive locality name as returned by the geocoder.
var DefaultSpots = []Spot{
	{Locality: "IJmuiden", StationID: stn(225)},
	{Locality: "Wijk aan Zee", StationID: stn(225)},
	{Locality: "Zandvoort", StationID: stn(225)},
	{Locality: "Hoek van Holland", StationID: stn(330)},
	{Locality: "Vlissingen", StationID: stn(310)},
	{Locality: "Wilhelminadorp", StationID: stn(323)},
	{Locality: "Stavoren", StationID: stn(267)},
	{Locality: "Makkum", StationID: stn(267)},
	{Locality: "Lelystad", StationID: stn(269)},
	{Locality: "Marknesse", StationID: stn(273)},
	{Locality: "Den Helder", StationID: stn(235)},
	{Locality: "Horst", StationID: nil}, // inland lake, no nearby station
}

// LookupSpot finds the spot record for a resolved city name. A miss is the
// expected outcome for sessions outside the supported region and is not an
// error.
func LookupSpot(spots []Spot, city string) (Spot, bool) {
	for _, s := range spots {
		if s.Locality == city {
			return s, true
		}
	}
	return Spot{}, false
}
