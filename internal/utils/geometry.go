package utils

import "math"

const (
	// RadiusOfEarthInMeters is the mean Earth radius.
	RadiusOfEarthInMeters = 6371010.0

	// MetersPerMile converts provider distances to miles.
	MetersPerMile = 1609.344
)

// Distance returns the distance in meters between two WGS84 points.
// Campus-scale distances are well under the point where an
// equirectangular approximation diverges, so it is used whenever the
// coordinate deltas are small; the exact formula is the fallback.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	if math.Abs(lat2-lat1) < 0.2 && math.Abs(lon2-lon1) < 0.2 {
		lat1Rad := lat1 * (math.Pi / 180)
		lat2Rad := lat2 * (math.Pi / 180)
		dLatRad := (lat2 - lat1) * (math.Pi / 180)
		dLonRad := (lon2 - lon1) * (math.Pi / 180)

		x := dLonRad * math.Cos((lat1Rad+lat2Rad)/2)
		y := dLatRad
		return RadiusOfEarthInMeters * math.Sqrt(x*x+y*y)
	}

	lat1Rad := lat1 * (math.Pi / 180)
	lon1Rad := lon1 * (math.Pi / 180)
	lat2Rad := lat2 * (math.Pi / 180)
	lon2Rad := lon2 * (math.Pi / 180)

	deltaLon := lon2Rad - lon1Rad

	y := math.Sqrt(math.Pow(math.Cos(lat2Rad)*math.Sin(deltaLon), 2) +
		math.Pow(math.Cos(lat1Rad)*math.Sin(lat2Rad)-math.Sin(lat1Rad)*math.Cos(lat2Rad)*math.Cos(deltaLon), 2))
	x := math.Sin(lat1Rad)*math.Sin(lat2Rad) + math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Cos(deltaLon)

	return RadiusOfEarthInMeters * math.Atan2(y, x)
}

// DegreeDistance returns the Euclidean distance between two points in
// raw latitude/longitude degree space. This intentionally matches the
// nearest-stop metric: at campus scale the ordering it produces is the
// same as geodesic distance and it needs no trigonometry.
func DegreeDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := lat1 - lat2
	dLon := lon1 - lon2
	return math.Sqrt(dLat*dLat + dLon*dLon)
}
