package geo

import (
	"math"

	"github.com/mmcloughlin/geohash"
)

// EarthRadiusKm is the mean Earth radius used by DistanceKm.
const EarthRadiusKm = 6371.0

// CellPrecision is the geohash length attached to listing locations (~150m cells).
const CellPrecision = 7

// DistanceKm returns the great-circle distance between two points given in degrees,
// rounded to one decimal place. Inputs are not validated; see ValidCoordinates.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	lat1r := lat1 * math.Pi / 180
	lat2r := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLon/2)*math.Sin(dLon/2)
	// numerical noise can push a slightly above 1 for antipodal points
	if a > 1 {
		a = 1
	}
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return math.Round(EarthRadiusKm*c*10) / 10
}

// ValidCoordinates reports whether latitude is in [-90,90] and longitude in [-180,180].
func ValidCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// Cell returns the geohash cell of a point, used by map clients for clustering.
func Cell(lat, lon float64) string {
	return geohash.EncodeWithPrecision(lat, lon, CellPrecision)
}
