// Package geo holds great-circle helpers used by planning and metrics.
package geo

import (
	"math"

	"github.com/Rebecca042/CityTour-Planner/internal/domain"
)

// EarthRadiusKm is the mean Earth radius used for haversine distances.
const EarthRadiusKm = 6371.0

func degToRad(d float64) float64 { return d * math.Pi / 180 }

// Distance returns the haversine distance between a and b in kilometers.
func Distance(a, b domain.Coordinates) float64 {
	dLat := degToRad(b.Lat - a.Lat)
	dLon := degToRad(b.Lon - a.Lon)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	h := sinLat*sinLat + math.Cos(degToRad(a.Lat))*math.Cos(degToRad(b.Lat))*sinLon*sinLon
	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(math.Min(1, h)))
}

// DistanceMeters is Distance in meters.
func DistanceMeters(a, b domain.Coordinates) float64 {
	return Distance(a, b) * 1000
}

// DistanceMatrix builds the symmetric n×n kilometer matrix for sights in
// the given order. The diagonal is zero.
func DistanceMatrix(sights []domain.Sight) [][]float64 {
	n := len(sights)
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := Distance(sights[i].Location, sights[j].Location)
			m[i][j] = d
			m[j][i] = d
		}
	}
	return m
}

// Centroid returns the arithmetic mean coordinate of sights. ok is false
// when sights is empty.
func Centroid(sights []domain.Sight) (c domain.Coordinates, ok bool) {
	if len(sights) == 0 {
		return domain.Coordinates{}, false
	}
	for _, s := range sights {
		c.Lat += s.Location.Lat
		c.Lon += s.Location.Lon
	}
	n := float64(len(sights))
	c.Lat /= n
	c.Lon /= n
	return c, true
}

// PathLength returns the open-path length in kilometers of visiting
// points in order. Fewer than two points have zero length.
func PathLength(points []domain.Coordinates) float64 {
	total := 0.0
	for i := 0; i+1 < len(points); i++ {
		total += Distance(points[i], points[i+1])
	}
	return total
}

// Locations extracts the coordinates of sights in order.
func Locations(sights []domain.Sight) []domain.Coordinates {
	out := make([]domain.Coordinates, 0, len(sights))
	for _, s := range sights {
		out = append(out, s.Location)
	}
	return out
}
