package geo

import (
	"math"

	"hotelrec/internal/domain"
)

const earthRadiusKm = 6371.0

// Distance returns the great-circle distance between a and b in
// kilometers (haversine on a spherical Earth). Non-negative, symmetric,
// zero for identical coordinates.
func Distance(a, b domain.Coords) float64 {
	if a == b {
		return 0
	}

	lat1 := a.Lat * math.Pi / 180.0
	lon1 := a.Lng * math.Pi / 180.0
	lat2 := b.Lat * math.Pi / 180.0
	lon2 := b.Lng * math.Pi / 180.0

	dLat := lat2 - lat1
	dLon := lon2 - lon1

	hSin := math.Sin(dLat / 2)
	hSin *= hSin

	vSin := math.Sin(dLon / 2)
	vSin *= vSin

	h := hSin + math.Cos(lat1)*math.Cos(lat2)*vSin

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
